package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/dataset"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surveyCSV = "Business Size,Business Sector,Cyber Resilience,ISU:q1,ISU:q2,CB:q1\n" +
	"Small,Retail,Yes,1,0,1\n" +
	"Small,Finance,No,1,1,0\n" +
	"Small,Retail,No,0,0,0\n" +
	"Large,Finance,Yes,1,1,1\n" +
	"Large,Retail,Unsure,0,0,0\n"

func writeSurvey(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0o644))
	return path
}

func newService(t *testing.T, cache ScoreCache, opts Options) *DashboardService {
	t.Helper()
	if opts.DatasetPath == "" {
		opts.DatasetPath = writeSurvey(t)
	}
	svc, err := NewDashboardService(dataset.NewLoader(domain.CanonicalCatalog()), cache, opts)
	require.NoError(t, err)
	return svc
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

type failingCache struct{ puts int }

func (f *failingCache) Get(context.Context, string, string) ([]domain.GroupScoreRow, error) {
	return nil, errors.New("connection refused")
}

func (f *failingCache) Put(context.Context, string, string, []domain.GroupScoreRow) error {
	f.puts++
	return errors.New("connection refused")
}

func TestNewDashboardService_Defaults(t *testing.T) {
	svc := newService(t, nil, Options{})
	assert.Equal(t, domain.ScoreYesPercentage, svc.DefaultMode())
	assert.Equal(t, domain.CanonicalDomains(), svc.DefaultDomains())

	_, err := NewDashboardService(dataset.NewLoader(domain.CanonicalCatalog()), nil, Options{})
	assert.Error(t, err)

	_, err = NewDashboardService(dataset.NewLoader(domain.CanonicalCatalog()), nil, Options{DatasetPath: "x.csv", Mode: "median"})
	assert.ErrorIs(t, err, domain.ErrInvalidScoreMode)
}

func TestDashboardService_Overview(t *testing.T) {
	svc := newService(t, nil, Options{})

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ov.Rows)
	assert.Equal(t, 6, ov.Columns)
	assert.Equal(t, []string{"Large", "Small"}, ov.Options[domain.ColumnBusinessSize])
	assert.Equal(t, []string{"No", "Unsure", "Yes"}, ov.Options[domain.ColumnCyberResilience])
	require.Len(t, ov.Domains, 8)
	assert.Equal(t, 2, ov.Domains[0].Columns)
	assert.Contains(t, ov.MissingDomains, domain.DomainSC)
	assert.NotContains(t, ov.MissingDomains, domain.DomainISU)
}

func TestDashboardService_Preview(t *testing.T) {
	svc := newService(t, nil, Options{})
	ctx := context.Background()

	p, err := svc.Preview(ctx, domain.Filter{domain.ColumnBusinessSize: "Small"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total)
	assert.Len(t, p.Rows, 2)

	p, err = svc.Preview(ctx, domain.Filter{domain.ColumnBusinessSize: domain.FilterAll}, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Total)
	assert.Len(t, p.Rows, defaultPreviewLimit)

	_, err = svc.Preview(ctx, domain.Filter{"Region": "EU"}, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

func TestDashboardService_Scores(t *testing.T) {
	svc := newService(t, nil, Options{})
	ctx := context.Background()

	rows, err := svc.Scores(ctx, ScoreQuery{
		GroupBy: "size",
		Filter:  domain.Filter{domain.ColumnBusinessSector: domain.FilterAll},
		Domains: []domain.DomainCode{domain.DomainISU, domain.DomainSC},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	small, _ := rows[1].Score(domain.DomainISU)
	require.NotNil(t, small)
	assert.Equal(t, 50.0, *small)
	sc, _ := rows[1].Score(domain.DomainSC)
	assert.Nil(t, sc)

	_, err = svc.Scores(ctx, ScoreQuery{Mode: "median"})
	assert.ErrorIs(t, err, domain.ErrInvalidScoreMode)

	_, err = svc.Scores(ctx, ScoreQuery{GroupBy: "Region"})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

func TestDashboardService_ScoresByResilienceMeanMode(t *testing.T) {
	svc := newService(t, nil, Options{})

	rows, err := svc.Scores(context.Background(), ScoreQuery{
		Mode:    domain.ScoreMeanOfMeans,
		Domains: []domain.DomainCode{domain.DomainISU},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "No", rows[0].Group)
	isu, _ := rows[0].Score(domain.DomainISU)
	assert.Equal(t, 0.5, *isu)
}

func TestDashboardService_TabQueryRestrictsLevels(t *testing.T) {
	svc := newService(t, nil, Options{ResilienceLevels: []string{"Yes", "No"}})
	ctx := context.Background()

	rows, err := svc.Scores(ctx, svc.TabQuery("size"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// the Unsure row is excluded, leaving one Large row with ISU 1,1
	large, _ := rows[0].Score(domain.DomainISU)
	assert.Equal(t, 100.0, *large)
}

func TestDashboardService_LongScores(t *testing.T) {
	svc := newService(t, nil, Options{})

	long, err := svc.LongScores(context.Background(), ScoreQuery{
		GroupBy: "size",
		Domains: []domain.DomainCode{domain.DomainISU, domain.DomainSC},
	})
	require.NoError(t, err)
	require.Len(t, long, 2)
	for _, p := range long {
		assert.Equal(t, domain.DomainISU, p.Domain)
	}
}

func TestDashboardService_Radar(t *testing.T) {
	svc := newService(t, nil, Options{})
	ctx := context.Background()
	q := ScoreQuery{GroupBy: "size", Domains: []domain.DomainCode{domain.DomainISU, domain.DomainCB}}

	all, err := svc.Radar(ctx, q, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	one, err := svc.Radar(ctx, q, []int{1})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Small", one[0].Name)
	assert.Len(t, one[0].Theta, 3)

	_, err = svc.Radar(ctx, q, []int{2})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestDashboardService_GroupScores(t *testing.T) {
	svc := newService(t, nil, Options{})
	ctx := context.Background()

	row, err := svc.GroupScores(ctx, ScoreQuery{GroupBy: "sector"}, "Retail")
	require.NoError(t, err)
	assert.Equal(t, "Retail", row.Group)

	_, err = svc.GroupScores(ctx, ScoreQuery{GroupBy: "sector"}, "Mining")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestDashboardService_UsesCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	cache := repository.NewScoreCache(client, time.Minute)
	svc := newService(t, cache, Options{})
	ctx := context.Background()
	q := ScoreQuery{GroupBy: "size"}

	rows, err := svc.Scores(ctx, q)
	require.NoError(t, err)

	ov, err := svc.Overview(ctx)
	require.NoError(t, err)
	cached, err := cache.Get(ctx, ov.Fingerprint, svc.normalize(q).Key())
	require.NoError(t, err)
	assert.Equal(t, rows, cached)

	// a planted entry proves the second call is served from Redis
	planted := []domain.GroupScoreRow{{Group: "from-cache"}}
	require.NoError(t, cache.Put(ctx, ov.Fingerprint, svc.normalize(q).Key(), planted))
	again, err := svc.Scores(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, planted, again)
}

func TestDashboardService_CacheFailuresAreIgnored(t *testing.T) {
	cache := &failingCache{}
	svc := newService(t, cache, Options{})

	rows, err := svc.Scores(context.Background(), ScoreQuery{GroupBy: "size"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, cache.puts)
}

func TestDashboardService_WarmDefaults(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	svc := newService(t, repository.NewScoreCache(client, time.Minute), Options{ResilienceLevels: []string{"Yes", "No"}})
	require.NoError(t, svc.WarmDefaults(context.Background()))

	keys, err := client.Keys(context.Background(), "dash:scores:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestDashboardService_ReloadPurgesPreviousScores(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	path := writeSurvey(t)
	svc := newService(t, repository.NewScoreCache(client, time.Minute), Options{DatasetPath: path})
	ctx := context.Background()

	before, err := svc.Overview(ctx)
	require.NoError(t, err)
	_, err = svc.Scores(ctx, ScoreQuery{GroupBy: "size"})
	require.NoError(t, err)
	require.True(t, mr.Exists("dash:dataset:"+before.Fingerprint+":keys"))

	require.NoError(t, os.WriteFile(path, []byte(surveyCSV+"Medium,Retail,Yes,1,1,1\n"), 0o644))
	after, err := svc.Reload(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, after.Rows)
	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
	assert.False(t, mr.Exists("dash:dataset:"+before.Fingerprint+":keys"))

	rows, err := svc.Scores(ctx, ScoreQuery{GroupBy: "size"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

type staticSource struct{ t *domain.Table }

func (s staticSource) Load(context.Context, string) (*domain.Table, error) { return s.t, nil }

func TestDashboardService_ReloadUnsupported(t *testing.T) {
	svc, err := NewDashboardService(staticSource{}, nil, Options{DatasetPath: "x.csv"})
	require.NoError(t, err)

	_, err = svc.Reload(context.Background())
	assert.Error(t, err)
}

func TestDashboardService_LoadFailure(t *testing.T) {
	svc := newService(t, nil, Options{DatasetPath: filepath.Join(t.TempDir(), "missing.csv")})
	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
}

func TestScoreQuery_Key(t *testing.T) {
	a := ScoreQuery{GroupBy: "Business Size", Filter: domain.Filter{"A": "1", "B": "2"}}
	b := ScoreQuery{GroupBy: "Business Size", Filter: domain.Filter{"B": "2", "A": "1", "C": domain.FilterAll}}
	c := ScoreQuery{GroupBy: "Business Sector", Filter: domain.Filter{"A": "1", "B": "2"}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestScoreQuery_KeyKeepsFilterValuesApart(t *testing.T) {
	crafted := ScoreQuery{GroupBy: domain.ColumnBusinessSize, Filter: domain.Filter{
		domain.ColumnBusinessSector: "Finance|f:Business Size=Small",
	}}
	honest := ScoreQuery{GroupBy: domain.ColumnBusinessSize, Filter: domain.Filter{
		domain.ColumnBusinessSector: "Finance",
		domain.ColumnBusinessSize:   "Small",
	}}
	assert.NotEqual(t, crafted.Key(), honest.Key())

	split := ScoreQuery{Levels: []string{"Yes,No"}}
	joined := ScoreQuery{Levels: []string{"Yes", "No"}}
	assert.NotEqual(t, split.Key(), joined.Key())
}

func TestDashboardService_CachedScoresDoNotLeakAcrossQueries(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	svc := newService(t, repository.NewScoreCache(client, time.Minute), Options{})
	ctx := context.Background()

	crafted := ScoreQuery{GroupBy: "size", Filter: domain.Filter{
		domain.ColumnBusinessSector: "Finance|f:Business Size=Small",
	}}
	rows, err := svc.Scores(ctx, crafted)
	require.NoError(t, err)
	assert.Empty(t, rows)

	honest := ScoreQuery{GroupBy: "size", Filter: domain.Filter{
		domain.ColumnBusinessSector: "Finance",
		domain.ColumnBusinessSize:   "Small",
	}}
	rows, err = svc.Scores(ctx, honest)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Small", rows[0].Group)
}
