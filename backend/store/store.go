// Package store owns the live progress state of a session and keeps it in sync with storage.
package store

import (
	"context"
	"errors"
	"sync"

	"roadmap/backend/models"
	"roadmap/backend/storage"
	"roadmap/backend/utils"

	"go.uber.org/zap"
)

// Store holds the current ProgressState. Every mutation swaps in a whole new state value, so
// readers only ever see a state before or after a toggle.
type Store struct {
	mu      sync.RWMutex
	state   models.ProgressState
	adapter storage.Adapter
	catalog *models.Catalog
	logger  *zap.Logger
	metrics *utils.Metrics
}

type Option func(*Store)

func WithMetrics(m *utils.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func New(adapter storage.Adapter, catalog *models.Catalog, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		state:   models.EmptyProgress(),
		adapter: adapter,
		catalog: catalog,
		logger:  logger.Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = utils.NewMetrics(nil)
	}
	return s
}

// Init seeds the state from storage. Missing or unreadable snapshots leave the store empty;
// load problems are logged, never returned.
func (s *Store) Init(ctx context.Context) {
	state := s.load(ctx)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.observe(state)
	s.logger.Info("Progress loaded",
		zap.Int("completed", state.TotalCompleted()),
		zap.Int("total", s.catalog.TotalSteps()))
}

// Reload re-reads storage, e.g. after the storage file changed underneath the process.
// It reports whether the in-memory state changed.
func (s *Store) Reload(ctx context.Context) bool {
	// a toggle between the read and the swap would be overwritten by the older snapshot
	s.mu.Lock()
	state := s.load(ctx)
	changed := !s.state.Equal(state)
	s.state = state
	s.mu.Unlock()

	if changed {
		s.observe(state)
		s.logger.Info("Progress reloaded from storage", zap.Int("completed", state.TotalCompleted()))
	}
	return changed
}

func (s *Store) load(ctx context.Context) models.ProgressState {
	blob, err := s.adapter.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("No saved progress, starting empty")
		return models.EmptyProgress()
	}
	if err != nil {
		s.metrics.LoadFailures.Inc()
		s.logger.Warn("Could not read saved progress, starting empty", zap.Error(err))
		return models.EmptyProgress()
	}

	state, err := models.DecodeProgress(blob)
	if err != nil {
		s.metrics.LoadFailures.Inc()
		s.logger.Warn("Saved progress is malformed, starting empty", zap.Error(err))
		return models.EmptyProgress()
	}
	return state
}

// Toggle flips one step and persists the new state. A failed save is logged and the
// in-memory state is kept.
func (s *Store) Toggle(ctx context.Context, phase, step int) models.ProgressState {
	if !s.catalog.HasStep(phase, step) {
		s.logger.Debug("Toggling step outside the catalog", zap.Int("phase", phase), zap.Int("step", step))
	}

	// saving under the lock keeps storage writes in toggle order
	s.mu.Lock()
	next := models.ToggleStep(s.state, phase, step)
	s.state = next
	s.save(ctx, next)
	s.mu.Unlock()

	s.metrics.Toggles.Inc()
	s.observe(next)

	s.logger.Debug("Step toggled",
		zap.Int("phase", phase),
		zap.Int("step", step),
		zap.Bool("completed", next.IsCompleted(phase, step)))
	return next
}

func (s *Store) save(ctx context.Context, state models.ProgressState) {
	blob, err := models.EncodeProgress(state)
	if err == nil {
		err = s.adapter.Save(ctx, blob)
	}
	if err != nil {
		s.metrics.SaveFailures.Inc()
		s.logger.Error("Failed to save progress", zap.Error(err))
	}
}

func (s *Store) observe(state models.ProgressState) {
	s.metrics.OverallProgress.Set(float64(models.OverallProgress(state, s.catalog)))
}

// Snapshot returns the current state.
func (s *Store) Snapshot() models.ProgressState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) CompletedSteps(phase int) []int {
	return s.Snapshot().CompletedSteps(phase)
}

func (s *Store) Overview() models.Overview {
	return models.BuildOverview(s.Snapshot(), s.catalog)
}

func (s *Store) Catalog() *models.Catalog {
	return s.catalog
}
