package service

import (
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"engagemon/internal/modules/session/domain"
	"engagemon/internal/platform/clock"
	"engagemon/internal/platform/config"
	apperrors "engagemon/internal/platform/errors"
	"engagemon/internal/platform/id"
)

type Options struct {
	Capacity      int
	Threshold     float64
	TickInterval  time.Duration
	AudioEnabled  bool
	ScreenEnabled bool
}

// SessionService owns the buffer and the latest reading per source.
type SessionService struct {
	clock     clock.Clock
	logger    hclog.Logger
	id        string
	startedAt time.Time
	threshold float64
	buffer    *domain.Buffer

	mu       sync.RWMutex
	state    domain.State
	enabled  map[domain.Source]bool
	interval time.Duration
}

func NewSessionService(clk clock.Clock, idGen id.Generator, logger hclog.Logger, opts Options) (*SessionService, error) {
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold must be within [0,1]", apperrors.ErrConfigInvalid)
	}
	if err := validateInterval(opts.TickInterval); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}
	buffer, err := domain.NewBuffer(opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &SessionService{
		clock:     clk,
		logger:    logger,
		id:        idGen.New(),
		startedAt: clk.Now(),
		threshold: opts.Threshold,
		buffer:    buffer,
		enabled: map[domain.Source]bool{
			domain.SourceAudio:  opts.AudioEnabled,
			domain.SourceScreen: opts.ScreenEnabled,
		},
		interval: opts.TickInterval,
	}
	s.logger.Info("session started", "session_id", s.id, "capacity", opts.Capacity, "interval", opts.TickInterval)
	return s, nil
}

func (s *SessionService) ID() string           { return s.id }
func (s *SessionService) StartedAt() time.Time { return s.startedAt }
func (s *SessionService) Threshold() float64   { return s.threshold }
func (s *SessionService) Now() time.Time       { return s.clock.Now() }

func (s *SessionService) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

func (s *SessionService) SetInterval(d time.Duration) error {
	if err := validateInterval(d); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
	s.logger.Info("tick interval changed", "interval", d)
	return nil
}

func (s *SessionService) Enabled(src domain.Source) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled[src]
}

func (s *SessionService) SetEnabled(src domain.Source, on bool) error {
	if src != domain.SourceAudio && src != domain.SourceScreen {
		return fmt.Errorf("%w: unknown source %q", apperrors.ErrInvalidInput, src)
	}
	s.mu.Lock()
	s.enabled[src] = on
	s.mu.Unlock()
	s.logger.Info("source toggled", "source", src, "enabled", on)
	return nil
}

// EnabledSources lists enabled sources in display order.
func (s *SessionService) EnabledSources() []domain.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Source
	for _, src := range []domain.Source{domain.SourceAudio, domain.SourceScreen} {
		if s.enabled[src] {
			out = append(out, src)
		}
	}
	return out
}

func (s *SessionService) Observe(r domain.Reading) {
	s.mu.Lock()
	s.state = s.state.Observe(r)
	s.mu.Unlock()
}

func (s *SessionService) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Fuse builds the record for the current tick. It fails with
// ErrMonitoringStopped when no source is enabled.
func (s *SessionService) Fuse() (domain.Record, error) {
	if len(s.EnabledSources()) == 0 {
		return domain.Record{}, apperrors.ErrMonitoringStopped
	}
	return domain.Fuse(s.State(), s.clock.Now(), s.threshold), nil
}

// Window returns the records the buffer will hold once rec is appended.
func (s *SessionService) Window(rec domain.Record) []domain.Record {
	snapshot := s.buffer.Snapshot()
	if len(snapshot) == s.buffer.Cap() {
		snapshot = snapshot[1:]
	}
	return append(snapshot, rec)
}

func (s *SessionService) Append(rec domain.Record) {
	s.buffer.Append(rec)
	s.logger.Trace("record appended", "emotion", rec.Emotion, "engagement", rec.Engagement, "context", rec.Context, "score", rec.ProductivityScore)
}

func (s *SessionService) Snapshot() []domain.Record { return s.buffer.Snapshot() }
func (s *SessionService) Len() int                  { return s.buffer.Len() }
func (s *SessionService) Cap() int                  { return s.buffer.Cap() }

func validateInterval(d time.Duration) error {
	lo := time.Duration(config.MinTickSeconds) * time.Second
	hi := time.Duration(config.MaxTickSeconds) * time.Second
	if d < lo || d > hi {
		return fmt.Errorf("tick interval must be within %s..%s, got %s", lo, hi, d)
	}
	return nil
}
