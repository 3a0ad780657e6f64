package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/xuri/excelize/v2"
)

// grid is the raw header + rows view every format is reduced to.
type grid struct {
	header []string
	rows   [][]string
}

type parseFunc func(data []byte, sheet string) (*grid, error)

func parserFor(path string) (parseFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return parseXLSX, nil
	case ".csv":
		return parseCSV, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
}

func parseXLSX(data []byte, sheet string) (*grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrMalformedInput, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMalformedInput)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrMalformedInput, sheet, err)
	}
	return toGrid(rows)
}

func parseCSV(data []byte, _ string) (*grid, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %v", domain.ErrMalformedInput, err)
		}
		rows = append(rows, rec)
	}
	return toGrid(rows)
}

func toGrid(rows [][]string) (*grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrMalformedInput)
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &grid{header: header, rows: rows[1:]}, nil
}

// buildTable splits header columns into categorical attributes and
// indicator columns, which are the ones a catalog domain claims.
func buildTable(source, fingerprint string, g *grid, catalog *domain.Catalog, required []string) (*domain.Table, error) {
	index := make(map[string]int, len(g.header))
	var columns []string
	for i, h := range g.header {
		if h == "" {
			continue
		}
		if _, dup := index[h]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", domain.ErrMalformedInput, h)
		}
		index[h] = i
		columns = append(columns, h)
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %s", domain.ErrMalformedInput, strings.Join(missing, ", "))
	}

	records := make([]domain.Record, 0, len(g.rows))
	for _, row := range g.rows {
		if blank(row) {
			continue
		}
		rec := domain.Record{
			Attributes: map[string]string{},
			Indicators: map[string]domain.Indicator{},
		}
		for _, col := range columns {
			var cell string
			if i := index[col]; i < len(row) {
				cell = row[i]
			}
			if _, ok := catalog.Match(col); ok {
				rec.Indicators[col] = domain.ParseIndicator(cell)
				continue
			}
			rec.Attributes[col] = strings.TrimSpace(cell)
		}
		records = append(records, rec)
	}

	return domain.NewTable(source, fingerprint, columns, records, catalog), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
