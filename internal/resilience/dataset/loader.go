package dataset

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// fingerprintNamespace scopes table fingerprints so they never collide with
// other name-based UUIDs.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cyber-resilience-dashboard/dataset"))

// Loader parses survey files and keeps each parsed table for the life of
// the process. Concurrent loads of the same path share one parse.
type Loader struct {
	catalog  *domain.Catalog
	sheet    string
	required []string

	mu     sync.RWMutex
	tables map[string]*domain.Table
	group  singleflight.Group
}

type LoaderOption func(*Loader)

// WithSheet picks a worksheet by name; the first sheet is used otherwise.
func WithSheet(name string) LoaderOption {
	return func(l *Loader) { l.sheet = name }
}

func WithRequiredColumns(cols ...string) LoaderOption {
	return func(l *Loader) { l.required = cols }
}

func NewLoader(catalog *domain.Catalog, opts ...LoaderOption) *Loader {
	l := &Loader{
		catalog:  catalog,
		required: domain.RequiredColumns(),
		tables:   make(map[string]*domain.Table),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the cached table for path, parsing the file on first use.
// A failed load is not cached.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	key := cacheKey(path)

	l.mu.RLock()
	t, ok := l.tables[key]
	l.mu.RUnlock()
	if ok {
		return t, nil
	}

	ch := l.group.DoChan(key, func() (interface{}, error) {
		l.mu.RLock()
		cached, ok := l.tables[key]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}

		t, err := l.parse(key)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.tables[key] = t
		l.mu.Unlock()
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Table), nil
	}
}

// Invalidate forgets the cached table so the next Load re-reads the file.
func (l *Loader) Invalidate(path string) {
	key := cacheKey(path)
	l.mu.Lock()
	delete(l.tables, key)
	l.mu.Unlock()
}

// Cached reports whether path has a table in memory.
func (l *Loader) Cached(path string) bool {
	key := cacheKey(path)
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.tables[key]
	return ok
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (l *Loader) parse(path string) (*domain.Table, error) {
	parse, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	g, err := parse(data, l.sheet)
	if err != nil {
		return nil, err
	}
	fingerprint := uuid.NewSHA1(fingerprintNamespace, data).String()

	t, err := buildTable(path, fingerprint, g, l.catalog, l.required)
	if err != nil {
		return nil, err
	}

	log.Printf("[dataset] loaded %s: %d rows, %d columns", filepath.Base(path), t.Len(), len(t.Columns))
	if missing := t.MissingDomains(); len(missing) > 0 {
		log.Printf("[dataset] warning: no indicator columns for domains %v", missing)
	}
	return t, nil
}
