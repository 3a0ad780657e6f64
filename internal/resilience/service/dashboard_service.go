package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/aggregate"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
)

const defaultPreviewLimit = 5

type Options struct {
	DatasetPath string
	Mode        domain.ScoreMode
	Domains     []domain.DomainCode
	// ResilienceLevels is applied to the per-dimension tab tables only.
	ResilienceLevels []string
}

// DashboardService wires the dataset, the aggregator and the optional
// score cache together for both dashboard front-ends.
type DashboardService struct {
	source TableSource
	cache  ScoreCache
	agg    *aggregate.Aggregator
	opts   Options
}

// NewDashboardService builds the service. cache may be nil.
func NewDashboardService(source TableSource, cache ScoreCache, opts Options) (*DashboardService, error) {
	if opts.DatasetPath == "" {
		return nil, fmt.Errorf("dataset path is required")
	}
	if opts.Mode == "" {
		opts.Mode = domain.ScoreYesPercentage
	}
	if len(opts.Domains) == 0 {
		opts.Domains = domain.CanonicalDomains()
	}
	agg, err := aggregate.New(opts.Mode)
	if err != nil {
		return nil, err
	}
	return &DashboardService{source: source, cache: cache, agg: agg, opts: opts}, nil
}

func (s *DashboardService) DefaultDomains() []domain.DomainCode {
	out := make([]domain.DomainCode, len(s.opts.Domains))
	copy(out, s.opts.Domains)
	return out
}

func (s *DashboardService) DefaultMode() domain.ScoreMode {
	return s.opts.Mode
}

func (s *DashboardService) table(ctx context.Context) (*domain.Table, error) {
	return s.source.Load(ctx, s.opts.DatasetPath)
}

// Overview describes the loaded dataset and the filter options it offers.
func (s *DashboardService) Overview(ctx context.Context) (*DatasetOverview, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	ov := &DatasetOverview{
		Source:         t.Source,
		Fingerprint:    t.Fingerprint,
		Rows:           t.Len(),
		Columns:        len(t.Columns),
		Options:        map[string][]string{},
		MissingDomains: t.MissingDomains(),
		DefaultDomains: s.DefaultDomains(),
		DefaultMode:    s.opts.Mode,
	}
	if ov.MissingDomains == nil {
		ov.MissingDomains = []domain.DomainCode{}
	}
	for _, col := range domain.RequiredColumns() {
		ov.Options[col] = t.Distinct(col)
	}
	for _, d := range t.Catalog().Domains() {
		ov.Domains = append(ov.Domains, DomainCoverage{
			Code:    d.Code,
			Prefix:  d.Prefix,
			Columns: len(t.DomainColumns(d.Code)),
		})
	}
	return ov, nil
}

// Reload re-reads the dataset file and drops cached scores of the previous
// version when the content changed.
func (s *DashboardService) Reload(ctx context.Context) (*DatasetOverview, error) {
	inv, ok := s.source.(Invalidator)
	if !ok {
		return nil, fmt.Errorf("dataset source does not support reload")
	}

	var previous string
	if old, err := s.table(ctx); err == nil {
		previous = old.Fingerprint
	}
	inv.Invalidate(s.opts.DatasetPath)

	ov, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != ov.Fingerprint {
		if p, ok := s.cache.(Purger); ok {
			if err := p.Purge(ctx, previous); err != nil {
				log.Printf("[cache] purge %s failed: %v", previous, err)
			}
		}
	}
	log.Printf("[dataset] reloaded %s (fingerprint %s)", ov.Source, ov.Fingerprint)
	return ov, nil
}

// Preview returns the first limit rows matching filter.
func (s *DashboardService) Preview(ctx context.Context, filter domain.Filter, limit int) (*Preview, error) {
	if limit <= 0 {
		limit = defaultPreviewLimit
	}
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	view, err := aggregate.Apply(t, filter)
	if err != nil {
		return nil, err
	}

	rows := view.Records
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]domain.Record, len(rows))
	copy(out, rows)
	return &Preview{Total: view.Len(), Rows: out}, nil
}

// Scores runs the aggregation for q, going through the cache when one is
// configured. Cache errors never fail the request.
func (s *DashboardService) Scores(ctx context.Context, q ScoreQuery) ([]domain.GroupScoreRow, error) {
	q = s.normalize(q)

	agg := s.agg
	if q.Mode != agg.Mode() {
		var err error
		if agg, err = agg.WithMode(q.Mode); err != nil {
			return nil, err
		}
	}

	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	key := q.Key()
	if s.cache != nil {
		rows, err := s.cache.Get(ctx, t.Fingerprint, key)
		if err == nil {
			return rows, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[cache] get failed: %v", err)
		}
	}

	view, err := aggregate.KeepLevels(t, domain.ColumnCyberResilience, q.Levels)
	if err != nil {
		return nil, err
	}
	if view, err = aggregate.Apply(view, q.Filter); err != nil {
		return nil, err
	}
	rows, err := agg.AggregateByGroup(view, q.GroupBy, q.Domains)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, t.Fingerprint, key, rows); err != nil {
			log.Printf("[cache] put failed: %v", err)
		}
	}
	return rows, nil
}

// LongScores is Scores reshaped into (group, domain, score) triples.
func (s *DashboardService) LongScores(ctx context.Context, q ScoreQuery) ([]domain.LongPoint, error) {
	q = s.normalize(q)
	rows, err := s.Scores(ctx, q)
	if err != nil {
		return nil, err
	}
	return aggregate.ReshapeToLong(rows, q.Domains), nil
}

// TabQuery is the query behind the per-dimension tab tables.
func (s *DashboardService) TabQuery(dimension string) ScoreQuery {
	return ScoreQuery{
		GroupBy: domain.ResolveDimension(dimension),
		Domains: s.DefaultDomains(),
		Mode:    s.opts.Mode,
		Levels:  s.opts.ResilienceLevels,
	}
}

// Radar builds closed radar traces for the selected row indices of the
// table produced by q. No selection means every row.
func (s *DashboardService) Radar(ctx context.Context, q ScoreQuery, selected []int) ([]domain.RadarTrace, error) {
	q = s.normalize(q)
	rows, err := s.Scores(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(selected) > 0 {
		picked := make([]domain.GroupScoreRow, 0, len(selected))
		for _, i := range selected {
			if i < 0 || i >= len(rows) {
				return nil, fmt.Errorf("%w: index %d out of %d rows", domain.ErrInvalidSelection, i, len(rows))
			}
			picked = append(picked, rows[i])
		}
		rows = picked
	}
	return aggregate.RadarTraces(rows, q.Domains), nil
}

// GroupScores returns the row for one group value.
func (s *DashboardService) GroupScores(ctx context.Context, q ScoreQuery, group string) (*domain.GroupScoreRow, error) {
	rows, err := s.Scores(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Group == group {
			return &rows[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrGroupNotFound, group)
}

// WarmDefaults precomputes the tables every page shows on first paint.
func (s *DashboardService) WarmDefaults(ctx context.Context) error {
	queries := []ScoreQuery{
		s.TabQuery(domain.ColumnBusinessSize),
		s.TabQuery(domain.ColumnBusinessSector),
		{GroupBy: domain.ColumnCyberResilience},
	}
	for _, q := range queries {
		if _, err := s.Scores(ctx, q); err != nil {
			return fmt.Errorf("warm %s: %w", q.GroupBy, err)
		}
	}
	return nil
}

func (s *DashboardService) normalize(q ScoreQuery) ScoreQuery {
	q.GroupBy = domain.ResolveDimension(q.GroupBy)
	if q.Mode == "" {
		q.Mode = s.opts.Mode
	}
	if len(q.Domains) == 0 {
		q.Domains = s.DefaultDomains()
	}
	return q
}
