package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

// ---------------------------------------------------------------------------
// Sync Round Types
// ---------------------------------------------------------------------------

// RoundStatus represents the outcome of one sync round
type RoundStatus string

const (
	RoundStatusRunning RoundStatus = "RUNNING"
	RoundStatusSuccess RoundStatus = "SUCCESS"
	RoundStatusPartial RoundStatus = "PARTIAL"
	RoundStatusFailed  RoundStatus = "FAILED"
)

// PassResult records the outcome of one entity pass within a round
type PassResult struct {
	EntityType integration.EntityType
	Duration   time.Duration
	Error      string
}

// SyncRound records one scheduler round across all entity types
type SyncRound struct {
	ID          uuid.UUID
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      RoundStatus
	Passes      []PassResult
}

// ---------------------------------------------------------------------------
// PassRunner Interface
// ---------------------------------------------------------------------------

// PassRunner executes one synchronization pass for an entity type
type PassRunner interface {
	RunPass(ctx context.Context, entityType integration.EntityType) error
}

// ---------------------------------------------------------------------------
// SyncSchedulerConfig
// ---------------------------------------------------------------------------

// SyncSchedulerConfig holds configuration for the sync scheduler
type SyncSchedulerConfig struct {
	// Interval is the time between the start of consecutive rounds
	Interval time.Duration
	// PassTimeout is the maximum time one entity pass can run
	PassTimeout time.Duration
	// EntityTypes is the ordered list of passes in one round
	EntityTypes []integration.EntityType
	// MaxHistory is the number of completed rounds kept in memory
	MaxHistory int
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Interval:    time.Hour,
		PassTimeout: 4 * time.Hour,
		EntityTypes: []integration.EntityType{
			integration.EntityTypeOrders,
			integration.EntityTypeProducts,
			integration.EntityTypeProductAvailabilities,
		},
		MaxHistory: 100,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.PassTimeout <= 0 {
		return ErrInvalidConfig
	}
	if len(c.EntityTypes) == 0 {
		return ErrInvalidConfig
	}
	for _, entityType := range c.EntityTypes {
		if !entityType.IsValid() {
			return ErrInvalidConfig
		}
	}
	if c.MaxHistory <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// SyncScheduler
// ---------------------------------------------------------------------------

// SyncScheduler drives periodic synchronization rounds. Passes within a
// round run sequentially so the marketplace call budget is never shared
// between concurrent passes.
type SyncScheduler struct {
	config SyncSchedulerConfig
	runner PassRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inRound   bool

	// Round history for monitoring (in-memory, limited size)
	historyMu sync.RWMutex
	history   []*SyncRound
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner PassRunner, log *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncScheduler{
		config:  config,
		runner:  runner,
		logger:  log,
		history: make([]*SyncRound, 0, config.MaxHistory),
	}, nil
}

// Start starts the scheduler. The first round begins immediately, later
// rounds follow the configured interval.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("pass_timeout", s.config.PassTimeout),
		zap.Int("passes_per_round", len(s.config.EntityTypes)),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// RunRoundNow runs one round outside the regular schedule
func (s *SyncScheduler) RunRoundNow(ctx context.Context) (*SyncRound, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil, ErrSchedulerNotRunning
	}
	if s.inRound {
		s.mu.Unlock()
		return nil, ErrRoundInProgress
	}
	s.mu.Unlock()

	return s.runRound(ctx), nil
}

// loop drives the round ticker
func (s *SyncScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.runRound(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runRound(ctx)
		}
	}
}

// runRound executes one pass per configured entity type
func (s *SyncScheduler) runRound(ctx context.Context) *SyncRound {
	s.mu.Lock()
	if s.inRound {
		s.mu.Unlock()
		return nil
	}
	s.inRound = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inRound = false
		s.mu.Unlock()
	}()

	round := &SyncRound{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Status:    RoundStatusRunning,
		Passes:    make([]PassResult, 0, len(s.config.EntityTypes)),
	}

	ctx, log := logger.WithRunID(ctx, s.logger, round.ID.String())
	log.Info("Sync round started")

	failures := 0
	for _, entityType := range s.config.EntityTypes {
		if ctx.Err() != nil {
			break
		}
		result := s.runPass(ctx, log, entityType)
		round.Passes = append(round.Passes, result)
		if result.Error != "" {
			failures++
		}
	}

	now := time.Now()
	round.CompletedAt = &now
	switch {
	case failures == 0:
		round.Status = RoundStatusSuccess
	case failures < len(round.Passes):
		round.Status = RoundStatusPartial
	default:
		round.Status = RoundStatusFailed
	}

	log.Info("Sync round completed",
		zap.String("status", string(round.Status)),
		zap.Int("passes", len(round.Passes)),
		zap.Int("failures", failures),
		zap.Duration("elapsed", now.Sub(round.StartedAt)),
	)

	s.addToHistory(round)
	return round
}

// runPass executes a single entity pass with its own deadline
func (s *SyncScheduler) runPass(ctx context.Context, log *zap.Logger, entityType integration.EntityType) PassResult {
	passCtx, cancel := context.WithTimeout(ctx, s.config.PassTimeout)
	defer cancel()

	start := time.Now()
	log.Info("Sync pass started", zap.String("entity_type", entityType.String()))

	err := s.runner.RunPass(passCtx, entityType)
	result := PassResult{
		EntityType: entityType,
		Duration:   time.Since(start),
	}
	if err != nil {
		result.Error = err.Error()
		log.Error("Sync pass failed",
			zap.String("entity_type", entityType.String()),
			zap.Duration("elapsed", result.Duration),
			zap.Error(err),
		)
		return result
	}

	log.Info("Sync pass completed",
		zap.String("entity_type", entityType.String()),
		zap.Duration("elapsed", result.Duration),
	)
	return result
}

// addToHistory adds a completed round to history
func (s *SyncScheduler) addToHistory(round *SyncRound) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*SyncRound{round}, s.history...)
	if len(s.history) > s.config.MaxHistory {
		s.history = s.history[:s.config.MaxHistory]
	}
}

// RoundHistory returns recent round history, newest first
func (s *SyncScheduler) RoundHistory(limit int) []*SyncRound {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	result := make([]*SyncRound, limit)
	copy(result, s.history[:limit])
	return result
}
