package scheduler

import (
	"context"
	"sync"
	"time"

	"pixeltrader/pkg/types/scheduler"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidSchedulerConfig = errors.New("invalid scheduler config")
	ErrAlreadyStarted         = errors.New("scheduler already started")
)

var _ scheduler.Scheduler = (*Scheduler)(nil)

// Scheduler calls handler on a fixed interval until its context is done or
// Stop is called. Handler errors are logged and never stop the loop.
type Scheduler struct {
	name      string
	interval  time.Duration
	immediate bool
	ctx       context.Context
	logger    zerolog.Logger
	handler   func() error

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

type Option func(*Scheduler)

func WithName(name string) Option {
	return func(s *Scheduler) {
		s.name = name
	}
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// WithImmediate runs the handler once right after Start.
func WithImmediate() Option {
	return func(s *Scheduler) {
		s.immediate = true
	}
}

func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.ctx = ctx
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

func WithHandler(h func() error) Option {
	return func(s *Scheduler) {
		s.handler = h
	}
}

func (s *Scheduler) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "ctx cannot be nil")
	case s.interval <= 0:
		return errors.Wrap(ErrInvalidSchedulerConfig, "interval must be positive")
	case s.handler == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "handler cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		name:   "scheduler",
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With().Str("component", "scheduler").Str("job", s.name).Logger()
	return s, s.IsValid()
}

func (s *Scheduler) Start() error {
	if err := s.IsValid(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		if s.immediate {
			s.run()
		}
		for {
			select {
			case <-ticker.C:
				s.run()
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (s *Scheduler) run() {
	if err := s.handler(); err != nil {
		s.logger.Error().Err(err).Dur("interval", s.interval).Msg("scheduler handler error")
	}
}

// Stop cancels the loop and waits for an in-progress handler to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
