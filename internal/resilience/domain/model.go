package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Indicator is one parsed boolean-like survey answer.
type Indicator struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// Truthy reports a present, non-zero answer.
func (i Indicator) Truthy() bool {
	return i.Present && i.Value != 0
}

// ParseIndicator accepts 1/0, true/false, yes/no (any case) and plain
// numbers. Anything blank or unparseable is treated as missing.
func ParseIndicator(raw string) Indicator {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "":
		return Indicator{}
	case "true", "yes", "y":
		return Indicator{Value: 1, Present: true}
	case "false", "no", "n":
		return Indicator{Value: 0, Present: true}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Indicator{}
	}
	return Indicator{Value: v, Present: true}
}

// Record is one row of the survey table.
type Record struct {
	Attributes map[string]string    `json:"attributes"`
	Indicators map[string]Indicator `json:"indicators"`
}

func (r Record) Attr(column string) string {
	return r.Attributes[column]
}

// Table is loaded once and never mutated afterwards; filtered views share
// its records.
type Table struct {
	Source      string   `json:"source"`
	Fingerprint string   `json:"fingerprint"`
	Columns     []string `json:"columns"`
	Records     []Record `json:"-"`

	catalog       *Catalog
	domainColumns map[DomainCode][]string
	columnSet     map[string]struct{}
}

// NewTable resolves every catalog domain against the header once so
// aggregation never rescans column names.
func NewTable(source, fingerprint string, columns []string, records []Record, catalog *Catalog) *Table {
	t := &Table{
		Source:        source,
		Fingerprint:   fingerprint,
		Columns:       columns,
		Records:       records,
		catalog:       catalog,
		domainColumns: make(map[DomainCode][]string),
		columnSet:     make(map[string]struct{}, len(columns)),
	}
	for _, c := range columns {
		t.columnSet[c] = struct{}{}
	}
	for _, d := range catalog.Domains() {
		t.domainColumns[d.Code] = SelectColumns(columns, d.Prefix)
	}
	return t
}

// WithRecords returns a view over the same schema holding only records.
func (t *Table) WithRecords(records []Record) *Table {
	view := *t
	view.Records = records
	return &view
}

func (t *Table) Catalog() *Catalog {
	return t.catalog
}

func (t *Table) Len() int {
	return len(t.Records)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columnSet[name]
	return ok
}

// IsCategorical reports a header column holding attributes rather than
// indicator answers.
func (t *Table) IsCategorical(name string) bool {
	if !t.HasColumn(name) {
		return false
	}
	_, indicator := t.catalog.Match(name)
	return !indicator
}

// DomainColumns returns the indicator columns resolved for code. The slice
// is a copy.
func (t *Table) DomainColumns(code DomainCode) []string {
	cols := t.domainColumns[code]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// MissingDomains lists catalog domains with no indicator column, in
// catalog order.
func (t *Table) MissingDomains() []DomainCode {
	var out []DomainCode
	for _, code := range t.catalog.Codes() {
		if len(t.domainColumns[code]) == 0 {
			out = append(out, code)
		}
	}
	return out
}

// Distinct returns the sorted non-empty values of a categorical column.
func (t *Table) Distinct(column string) []string {
	seen := map[string]struct{}{}
	for _, r := range t.Records {
		if v := r.Attr(column); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SelectColumns returns, in header order, the columns starting with prefix.
// No match yields an empty slice, never an error.
func SelectColumns(columns []string, prefix string) []string {
	out := []string{}
	if prefix == "" {
		return out
	}
	for _, c := range columns {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// DomainScore is one cell of a GroupScoreRow. A nil Score means no data.
type DomainScore struct {
	Domain DomainCode `json:"domain"`
	Score  *float64   `json:"score"`
}

type GroupScoreRow struct {
	Group  string        `json:"group"`
	Scores []DomainScore `json:"scores"`
}

func (r GroupScoreRow) Score(code DomainCode) (*float64, bool) {
	for _, s := range r.Scores {
		if s.Domain == code {
			return s.Score, true
		}
	}
	return nil, false
}

// LongPoint is the (group, domain, score) triple radar renderers consume.
type LongPoint struct {
	Group  string     `json:"group"`
	Domain DomainCode `json:"domain"`
	Score  float64    `json:"score"`
}

// RadarTrace is one closed polygon: the first domain is repeated at the end.
type RadarTrace struct {
	Name  string       `json:"name"`
	Theta []DomainCode `json:"theta"`
	R     []*float64   `json:"r"`
}

// Filter holds equality predicates on categorical columns. Empty values and
// FilterAll are ignored.
type Filter map[string]string

func (f Filter) Active() map[string]string {
	out := map[string]string{}
	for k, v := range f {
		v = strings.TrimSpace(v)
		if v == "" || v == FilterAll {
			continue
		}
		out[k] = v
	}
	return out
}
