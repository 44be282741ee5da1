package countrybed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncOptions controls a single Sync call.
type SyncOptions struct {
	Force       bool // Re-fetch even if the cache is fresh
	WithFlagArt bool // Render and cache flag art after a fetch
}

// Snapshot is the dataset produced by one Sync.
type Snapshot struct {
	Countries  []Country
	Index      *Index
	FlagArt    map[string][]string // common name -> art lines; may be empty
	LastSynced time.Time
	Fetched    bool // true when the data came from the network in this call
}

func newSnapshot(countries []Country, art map[string][]string, lastSynced time.Time) *Snapshot {
	if art == nil {
		art = map[string][]string{}
	}
	return &Snapshot{
		Countries:  countries,
		Index:      NewIndex(countries),
		FlagArt:    art,
		LastSynced: lastSynced,
	}
}

// Flag returns the cached art for a country, or nil.
func (s *Snapshot) Flag(name string) []string {
	return s.FlagArt[name]
}

// Describe projects c with its cached flag art.
func (s *Snapshot) Describe(c Country) Record {
	return Describe(c, s.Flag(c.Name.Common))
}

// Status describes the cache without touching the network.
type Status struct {
	Dir          string
	HasDataset   bool
	HasFlagArt   bool
	HasTimestamp bool
	LastSynced   time.Time
	Age          time.Duration
	Stale        bool
	Reason       string // why the cache is stale, empty when fresh
}

// Synchronizer decides between the cache and the network and keeps the
// two in step.
type Synchronizer struct {
	cfg      *Config
	store    *CacheStore
	fetcher  Fetcher
	renderer Renderer
	reporter Reporter
	logger   *zap.Logger
}

// SyncerOption injects a collaborator into a Synchronizer.
type SyncerOption func(*Synchronizer)

// WithFetcher replaces the REST Countries fetcher.
func WithFetcher(f Fetcher) SyncerOption {
	return func(s *Synchronizer) {
		s.fetcher = f
	}
}

// WithRenderer replaces the ASCII flag renderer.
func WithRenderer(r Renderer) SyncerOption {
	return func(s *Synchronizer) {
		s.renderer = r
	}
}

// WithReporter sets the display sink.
func WithReporter(r Reporter) SyncerOption {
	return func(s *Synchronizer) {
		s.reporter = r
	}
}

// NewSynchronizer wires cfg and store with the default collaborators.
func NewSynchronizer(cfg *Config, store *CacheStore, opts ...SyncerOption) *Synchronizer {
	s := &Synchronizer{
		cfg:      cfg,
		store:    store,
		fetcher:  NewRestCountriesFetcher(cfg),
		renderer: NewASCIIRenderer(cfg),
		reporter: NopReporter{},
		logger:   cfg.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync returns a snapshot, fetching when the cache is stale or
// opts.Force is set. When flag art fails after a successful fetch, Sync
// returns the fetched snapshot together with a *FlagArtError; the
// dataset is already persisted.
func (s *Synchronizer) Sync(ctx context.Context, opts SyncOptions) (*Snapshot, error) {
	if !opts.Force {
		st, err := s.Status()
		if err != nil {
			return nil, err
		}
		if !st.Stale {
			s.logger.Debug("cache is fresh",
				zap.String("dir", st.Dir),
				zap.Duration("age", st.Age),
				zap.Duration("interval", s.cfg.SyncInterval),
			)
			if opts.WithFlagArt && !st.HasFlagArt {
				s.reporter.Alert("Cache is fresh; run with --force to render flag art.")
			}
			return s.loadCached(st.LastSynced)
		}
		s.logger.Info("cache is stale", zap.String("reason", st.Reason))
	}
	return s.refresh(ctx, opts)
}

// Status reports cache freshness. An unreadable timestamp counts as
// never synced.
func (s *Synchronizer) Status() (Status, error) {
	st := Status{
		Dir:        s.store.Dir(),
		HasDataset: s.store.Exists(KeyCountries, SuffixJSON),
		HasFlagArt: s.store.Exists(KeyFlags, SuffixJSON),
	}

	raw, found, err := s.store.ReadText(KeyLastSynced)
	if err != nil {
		return st, err
	}
	if found {
		ms, perr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if perr != nil {
			s.logger.Warn("ignoring unreadable sync timestamp", zap.String("value", raw), zap.Error(perr))
		} else {
			st.HasTimestamp = true
			st.LastSynced = time.UnixMilli(ms)
			st.Age = s.cfg.Now().Sub(st.LastSynced)
		}
	}

	switch {
	case !st.HasTimestamp:
		st.Stale, st.Reason = true, "never synced"
	case !st.HasDataset:
		st.Stale, st.Reason = true, "no cached dataset"
	case st.Age > s.cfg.SyncInterval:
		st.Stale, st.Reason = true, fmt.Sprintf("last sync %s ago exceeds %s", st.Age.Round(time.Second), s.cfg.SyncInterval)
	}
	return st, nil
}

// loadCached reads the snapshot on the fresh path. A missing dataset
// contradicts the freshness check and is reported as corrupt. Flag art
// is optional; an unreadable table is dropped with a warning.
func (s *Synchronizer) loadCached(lastSynced time.Time) (*Snapshot, error) {
	var countries []Country
	found, err := s.store.ReadJSON(KeyCountries, &countries)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &CorruptCacheError{Key: KeyCountries}
	}

	return newSnapshot(countries, s.loadFlagArt(), lastSynced), nil
}

func (s *Synchronizer) loadFlagArt() map[string][]string {
	art := map[string][]string{}
	if _, err := s.store.ReadJSON(KeyFlags, &art); err != nil {
		s.logger.Warn("ignoring unreadable flag art", zap.Error(err))
		return map[string][]string{}
	}
	return art
}

// refresh fetches, persists the dataset and timestamp, then optionally
// renders flag art.
func (s *Synchronizer) refresh(ctx context.Context, opts SyncOptions) (*Snapshot, error) {
	s.reporter.Message("Fetching country data...")
	start := time.Now()

	countries, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("fetched dataset",
		zap.Int("countries", len(countries)),
		zap.Duration("took", time.Since(start)),
	)

	// Dataset before timestamp: a crash in between leaves a stale cache.
	if err := s.store.SaveJSON(KeyCountries, countries); err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}
	now := s.cfg.Now()
	if err := s.store.SaveText(KeyLastSynced, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return nil, fmt.Errorf("saving sync timestamp: %w", err)
	}
	s.reporter.Success(fmt.Sprintf("Synced %d countries.", len(countries)))

	if !opts.WithFlagArt {
		snap := newSnapshot(countries, s.loadFlagArt(), now)
		snap.Fetched = true
		return snap, nil
	}

	snap := newSnapshot(countries, nil, now)
	snap.Fetched = true

	art, err := s.renderFlags(ctx, countries)
	if err != nil {
		s.reporter.Error("Flag art generation failed; country data was saved.")
		return snap, err
	}
	if err := s.store.SaveJSON(KeyFlags, art); err != nil {
		return snap, &FlagArtError{Err: fmt.Errorf("saving flag art: %w", err)}
	}
	snap.FlagArt = art
	s.reporter.Success(fmt.Sprintf("Rendered %d flags.", len(art)))
	return snap, nil
}

// renderFlags renders every country that has a flag reference. Results
// are keyed by common name; the first render error aborts the step.
func (s *Synchronizer) renderFlags(ctx context.Context, countries []Country) (map[string][]string, error) {
	if s.cfg.FlagWorkers > 1 {
		return s.renderFlagsPooled(ctx, countries)
	}

	total := len(countries)
	art := make(map[string][]string, total)
	for i, c := range countries {
		url, ok := c.FlagURL()
		if !ok {
			s.reporter.Progress(i+1, total, "No flag for "+c.Name.Common)
			continue
		}
		lines, err := s.renderer.Render(ctx, url)
		if err != nil {
			return nil, &FlagArtError{Country: c.Name.Common, Err: err}
		}
		if _, dup := art[c.Name.Common]; !dup {
			art[c.Name.Common] = lines
		}
		s.reporter.Progress(i+1, total, "Rendered flag of "+c.Name.Common)
	}
	return art, nil
}

// renderFlagsPooled is renderFlags over a bounded worker pool. The
// table is assembled in input order so duplicates resolve like the
// sequential path; progress counts completed items.
func (s *Synchronizer) renderFlagsPooled(ctx context.Context, countries []Country) (map[string][]string, error) {
	total := len(countries)
	results := make([][]string, total)
	rendered := make([]bool, total)

	var (
		mu   sync.Mutex
		done int
	)
	progress := func(desc string) {
		mu.Lock()
		defer mu.Unlock()
		done++
		s.reporter.Progress(done, total, desc)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FlagWorkers)
	for i, c := range countries {
		url, ok := c.FlagURL()
		if !ok {
			progress("No flag for " + c.Name.Common)
			continue
		}
		g.Go(func() error {
			lines, err := s.renderer.Render(gctx, url)
			if err != nil {
				return &FlagArtError{Country: c.Name.Common, Err: err}
			}
			results[i], rendered[i] = lines, true
			progress("Rendered flag of " + c.Name.Common)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var fe *FlagArtError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FlagArtError{Err: err}
	}

	art := make(map[string][]string, total)
	for i, c := range countries {
		if !rendered[i] {
			continue
		}
		if _, dup := art[c.Name.Common]; !dup {
			art[c.Name.Common] = results[i]
		}
	}
	return art, nil
}
