package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Write the size and sector tab tables as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("export: mkdir: %w", err)
			}

			tabs := []struct {
				dimension string
				file      string
			}{
				{domain.ColumnBusinessSize, "scores_by_size.csv"},
				{domain.ColumnBusinessSector, "scores_by_sector.csv"},
			}
			for _, tab := range tabs {
				path := filepath.Join(outDir, tab.file)
				if err := writeTabCSV(cmd, svc, tab.dimension, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	return cmd
}

func writeTabCSV(cmd *cobra.Command, svc *service.DashboardService, dimension, path string) (err error) {
	q := svc.TabQuery(dimension)
	rows, err := svc.Scores(cmd.Context(), q)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()
	// UTF-8 BOM for Excel
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	header := []string{dimension}
	for _, c := range q.Domains {
		header = append(header, string(c))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Group}
		for _, c := range q.Domains {
			rec = append(rec, formatScore(r.Score(c)))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
