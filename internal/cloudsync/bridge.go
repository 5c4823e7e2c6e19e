// Package cloudsync mirrors the local asset list to a remote document and
// applies newer remote documents locally. Every outbound write carries a
// version one above the last one seen, so echoes of our own writes and
// stale documents are recognised by number alone.
package cloudsync

import (
	"context"
	"sync"
	"time"

	"pixeltrader/internal/models"
	"pixeltrader/pkg/types/remote"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultDebounce = time.Second

var (
	ErrInvalidBridgeConfig = errors.New("invalid sync bridge config")
	ErrNotStarted          = errors.New("sync bridge not started")
)

type LocalStore interface {
	GetAllAssets() ([]models.Asset, error)
	ReplaceAssets(assets []models.Asset) error
}

type Status struct {
	Origin    string    `json:"origin"`
	Version   int64     `json:"version"`
	Pending   bool      `json:"pending"`
	LastPush  time.Time `json:"last_push"`
	LastPull  time.Time `json:"last_pull"`
	LastError string    `json:"last_error,omitempty"`
}

type Bridge struct {
	remote   remote.RemoteStore
	local    LocalStore
	debounce time.Duration
	origin   string
	onApply  func()
	logger   zerolog.Logger

	// mu serializes pushes and inbound applies.
	mu      sync.Mutex
	version int64
	timer   *time.Timer
	status  Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Bridge)

func WithRemote(r remote.RemoteStore) Option {
	return func(b *Bridge) {
		b.remote = r
	}
}

func WithLocal(l LocalStore) Option {
	return func(b *Bridge) {
		b.local = l
	}
}

func WithDebounce(d time.Duration) Option {
	return func(b *Bridge) {
		b.debounce = d
	}
}

// WithOrigin overrides the random instance id stamped on outbound writes.
func WithOrigin(origin string) Option {
	return func(b *Bridge) {
		b.origin = origin
	}
}

// WithOnApply registers fn to run after a remote document has replaced
// the local assets. It runs outside the bridge lock.
func WithOnApply(fn func()) Option {
	return func(b *Bridge) {
		b.onApply = fn
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l.With().Str("component", "cloudsync").Logger()
	}
}

func (b *Bridge) IsValid() error {
	switch {
	case b.remote == nil:
		return errors.Wrap(ErrInvalidBridgeConfig, "remote store cannot be nil")
	case b.local == nil:
		return errors.Wrap(ErrInvalidBridgeConfig, "local store cannot be nil")
	case b.debounce < 0:
		return errors.Wrap(ErrInvalidBridgeConfig, "debounce cannot be negative")
	case b.origin == "":
		return errors.Wrap(ErrInvalidBridgeConfig, "origin cannot be empty")
	default:
		return nil
	}
}

func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		debounce: DefaultDebounce,
		origin:   uuid.NewString(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.IsValid(); err != nil {
		return nil, err
	}
	b.status.Origin = b.origin
	return b, nil
}

// Start pulls the remote document once and then follows remote changes
// until ctx is done or Close is called.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.ctx != nil {
		b.mu.Unlock()
		return nil
	}
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.mu.Unlock()

	doc, err := b.remote.Load(b.ctx)
	if err != nil {
		b.recordError(err)
		b.logger.Warn().Err(err).Msg("initial remote load failed")
	} else if doc != nil {
		b.apply(*doc)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.remote.Watch(b.ctx, b.apply); err != nil && b.ctx.Err() == nil {
			b.recordError(err)
			b.logger.Error().Err(err).Msg("remote watch stopped")
		}
	}()
	return nil
}

// Close stops watching and drops any pending outbound write.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.status.Pending = false
	cancel := b.cancel
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.wg.Wait()
}

// NotifyLocalChange schedules an outbound write after the debounce
// window. A burst of changes produces one write.
func (b *Bridge) NotifyLocalChange() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil || b.ctx.Err() != nil {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.status.Pending = true
	b.timer = time.AfterFunc(b.debounce, func() {
		if err := b.Push(b.ctx); err != nil {
			b.logger.Warn().Err(err).Msg("debounced push failed")
		}
	})
}

// Push writes the current local state right away.
func (b *Bridge) Push(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil {
		return ErrNotStarted
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.status.Pending = false

	assets, err := b.local.GetAllAssets()
	if err != nil {
		b.status.LastError = err.Error()
		return errors.Wrap(err, "failed to read local assets")
	}
	raw, err := EncodeAssets(assets)
	if err != nil {
		b.status.LastError = err.Error()
		return err
	}

	doc := remote.Document{
		Assets:      raw,
		Version:     b.version + 1,
		Origin:      b.origin,
		LastUpdated: time.Now().UTC(),
	}
	if err := b.remote.Save(ctx, doc); err != nil {
		b.status.LastError = err.Error()
		return errors.Wrap(err, "failed to save remote document")
	}

	b.version = doc.Version
	b.status.Version = doc.Version
	b.status.LastPush = doc.LastUpdated
	b.status.LastError = ""
	b.logger.Debug().Int64("version", doc.Version).Int("assets", len(assets)).Msg("pushed snapshot")
	return nil
}

// apply replaces local state with doc when doc is newer and different.
// Our own echo carries our origin at the current version and is skipped,
// as is anything older. Applying never schedules an outbound write.
func (b *Bridge) apply(doc remote.Document) {
	b.mu.Lock()
	replaced := b.applyLocked(doc)
	b.mu.Unlock()

	if replaced && b.onApply != nil {
		b.onApply()
	}
}

// applyLocked reports whether the local assets were replaced.
func (b *Bridge) applyLocked(doc remote.Document) (replaced bool) {
	switch {
	case doc.Version < b.version:
		b.logger.Debug().Int64("version", doc.Version).Int64("current", b.version).Msg("skipping stale document")
		return false
	case doc.Version == b.version && (doc.Origin == b.origin || b.version == 0):
		return false
	}

	assets, err := b.local.GetAllAssets()
	if err != nil {
		b.status.LastError = err.Error()
		b.logger.Error().Err(err).Msg("failed to read local assets")
		return false
	}
	current, err := EncodeAssets(assets)
	if err != nil {
		b.status.LastError = err.Error()
		return false
	}

	if !sameContent(current, doc.Assets) {
		incoming, err := DecodeAssets(doc.Assets)
		if err != nil {
			b.status.LastError = err.Error()
			b.logger.Error().Err(err).Int64("version", doc.Version).Msg("rejecting remote document")
			return false
		}
		if err := b.local.ReplaceAssets(incoming); err != nil {
			b.status.LastError = err.Error()
			b.logger.Error().Err(err).Msg("failed to apply remote document")
			return false
		}
		replaced = true
		b.status.LastPull = time.Now().UTC()
		b.logger.Info().Int64("version", doc.Version).Str("origin", doc.Origin).Int("assets", len(incoming)).Msg("applied remote snapshot")
	}

	// remote wins over an unsent local edit
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
		b.status.Pending = false
	}
	b.version = doc.Version
	b.status.Version = doc.Version
	return replaced
}

func (b *Bridge) recordError(err error) {
	b.mu.Lock()
	b.status.LastError = err.Error()
	b.mu.Unlock()
}

func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}
