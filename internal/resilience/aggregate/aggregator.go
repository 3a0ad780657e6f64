package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
)

// Aggregator turns a survey table into per-group domain scores. It holds no
// state between calls; Mode and Precision are fixed at construction.
type Aggregator struct {
	mode      domain.ScoreMode
	precision int
}

type Option func(*Aggregator)

func WithPrecision(p int) Option {
	return func(a *Aggregator) {
		if p >= 0 {
			a.precision = p
		}
	}
}

func New(mode domain.ScoreMode, opts ...Option) (*Aggregator, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidScoreMode, mode)
	}
	a := &Aggregator{mode: mode, precision: domain.DefaultScorePrecision}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Aggregator) Mode() domain.ScoreMode {
	return a.mode
}

// WithMode returns a copy scoring with mode.
func (a *Aggregator) WithMode(mode domain.ScoreMode) (*Aggregator, error) {
	return New(mode, WithPrecision(a.precision))
}

// DomainScore scores one group over one domain's columns. It returns nil
// when there are no records or no columns, and, in mean_of_means mode, when
// no record answered any of the columns.
func (a *Aggregator) DomainScore(records []domain.Record, columns []string) *float64 {
	if len(records) == 0 || len(columns) == 0 {
		return nil
	}
	var v float64
	switch a.mode {
	case domain.ScoreMeanOfMeans:
		var ok bool
		if v, ok = meanOfMeans(records, columns); !ok {
			return nil
		}
	default:
		v = yesPercentage(records, columns)
	}
	v = round(v, a.precision)
	return &v
}

// AggregateByGroup partitions t by the distinct values of groupKey (sorted
// ascending) and scores every domain for each group. Records with an empty
// group value are left out, and groups that do not occur produce no row.
func (a *Aggregator) AggregateByGroup(t *domain.Table, groupKey string, domains []domain.DomainCode) ([]domain.GroupScoreRow, error) {
	if !t.IsCategorical(groupKey) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownColumn, groupKey)
	}
	columns := make([][]string, len(domains))
	for i, code := range domains {
		if _, ok := t.Catalog().Lookup(code); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDomain, code)
		}
		columns[i] = t.DomainColumns(code)
	}

	groups := map[string][]domain.Record{}
	for _, r := range t.Records {
		key := r.Attr(groupKey)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], r)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]domain.GroupScoreRow, 0, len(keys))
	for _, key := range keys {
		row := domain.GroupScoreRow{Group: key, Scores: make([]domain.DomainScore, len(domains))}
		for i, code := range domains {
			row.Scores[i] = domain.DomainScore{Domain: code, Score: a.DomainScore(groups[key], columns[i])}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func yesPercentage(records []domain.Record, columns []string) float64 {
	var yes int
	for _, r := range records {
		for _, c := range columns {
			if r.Indicators[c].Truthy() {
				yes++
			}
		}
	}
	return float64(yes) / float64(len(records)*len(columns)) * 100
}

func meanOfMeans(records []domain.Record, columns []string) (float64, bool) {
	var total float64
	var counted int
	for _, r := range records {
		var sum float64
		var n int
		for _, c := range columns {
			if ind := r.Indicators[c]; ind.Present {
				sum += ind.Value
				n++
			}
		}
		if n == 0 {
			continue
		}
		total += sum / float64(n)
		counted++
	}
	if counted == 0 {
		return 0, false
	}
	return total / float64(counted), true
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
