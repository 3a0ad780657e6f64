package aggregate

import (
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
)

// Apply keeps the records matching every active predicate of f. The input
// table is left untouched.
func Apply(t *domain.Table, f domain.Filter) (*domain.Table, error) {
	active := f.Active()
	cols := make([]string, 0, len(active))
	for col := range active {
		if !t.IsCategorical(col) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownColumn, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	kept := make([]domain.Record, 0, len(t.Records))
	for _, r := range t.Records {
		match := true
		for _, col := range cols {
			if r.Attr(col) != active[col] {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, r)
		}
	}
	return t.WithRecords(kept), nil
}

// KeepLevels restricts column to the allowed values. An empty allow-list
// keeps everything.
func KeepLevels(t *domain.Table, column string, levels []string) (*domain.Table, error) {
	if len(levels) == 0 {
		return t, nil
	}
	if !t.IsCategorical(column) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownColumn, column)
	}
	allowed := make(map[string]struct{}, len(levels))
	for _, l := range levels {
		allowed[l] = struct{}{}
	}
	kept := make([]domain.Record, 0, len(t.Records))
	for _, r := range t.Records {
		if _, ok := allowed[r.Attr(column)]; ok {
			kept = append(kept, r)
		}
	}
	return t.WithRecords(kept), nil
}
