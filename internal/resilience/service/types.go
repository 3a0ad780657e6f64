package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/google/uuid"
)

// TableSource hands out the immutable survey table for a path.
type TableSource interface {
	Load(ctx context.Context, path string) (*domain.Table, error)
}

// ScoreCache memoises aggregation results per dataset fingerprint.
type ScoreCache interface {
	Get(ctx context.Context, fingerprint, queryKey string) ([]domain.GroupScoreRow, error)
	Put(ctx context.Context, fingerprint, queryKey string, rows []domain.GroupScoreRow) error
}

// Invalidator is implemented by sources that can forget a loaded table.
type Invalidator interface {
	Invalidate(path string)
}

// Purger is implemented by caches that can drop every result of a dataset.
type Purger interface {
	Purge(ctx context.Context, fingerprint string) error
}

// ScoreQuery describes one aggregation request. Zero values fall back to
// the service defaults.
type ScoreQuery struct {
	GroupBy string
	Filter  domain.Filter
	Domains []domain.DomainCode
	Mode    domain.ScoreMode
	// Levels restricts Cyber Resilience to an allow-list before grouping.
	Levels []string
}

var queryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cyber-resilience-dashboard/score-query"))

// queryKeyFields is the canonical form hashed by Key. JSON keeps every
// field and filter value delimited no matter what characters they contain.
type queryKeyFields struct {
	GroupBy string              `json:"by"`
	Mode    domain.ScoreMode    `json:"mode"`
	Domains []domain.DomainCode `json:"domains"`
	Levels  []string            `json:"levels"`
	Filter  [][2]string         `json:"filter"`
}

// Key is stable for equal queries regardless of filter map order.
func (q ScoreQuery) Key() string {
	active := q.Filter.Active()
	cols := make([]string, 0, len(active))
	for c := range active {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	k := queryKeyFields{
		GroupBy: q.GroupBy,
		Mode:    q.Mode,
		Domains: q.Domains,
		Levels:  q.Levels,
		Filter:  make([][2]string, 0, len(cols)),
	}
	for _, c := range cols {
		k.Filter = append(k.Filter, [2]string{c, active[c]})
	}
	// only strings and slices of strings; Marshal cannot fail
	data, _ := json.Marshal(k)
	return uuid.NewSHA1(queryNamespace, data).String()
}

type DomainCoverage struct {
	Code    domain.DomainCode `json:"code"`
	Prefix  string            `json:"prefix"`
	Columns int               `json:"columns"`
}

type DatasetOverview struct {
	Source         string              `json:"source"`
	Fingerprint    string              `json:"fingerprint"`
	Rows           int                 `json:"rows"`
	Columns        int                 `json:"columns"`
	Options        map[string][]string `json:"options"`
	Domains        []DomainCoverage    `json:"domains"`
	MissingDomains []domain.DomainCode `json:"missing_domains"`
	DefaultDomains []domain.DomainCode `json:"default_domains"`
	DefaultMode    domain.ScoreMode    `json:"default_mode"`
}

type Preview struct {
	Total int             `json:"total"`
	Rows  []domain.Record `json:"rows"`
}
