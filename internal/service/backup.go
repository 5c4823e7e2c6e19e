package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"pixeltrader/internal/cloudsync"
	"pixeltrader/internal/models"
	"pixeltrader/pkg/integrations/wmPubsub"
	"pixeltrader/pkg/types/pubsub"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var ErrInvalidBackupConfig = errors.New("invalid backup service config")

const (
	DefaultBackupDebounce = 3 * time.Second
	DefaultBackupSchedule = "@every 6h"
	BackupFileName        = "pixel_trader_backup.json"
)

// BackupBot is the chat relay backups are sent to and pulled from.
type BackupBot interface {
	SendDocument(ctx context.Context, fileName, caption string, data []byte) error
	LatestPayload(ctx context.Context, accept func([]byte) bool) ([]byte, error)
}

type backupDocument struct {
	Assets json.RawMessage `json:"assets"`
	Date   time.Time       `json:"date"`
}

// BackupService sends the asset list to the bot a few seconds after the
// last change and on a cron schedule.
type BackupService struct {
	ctx      context.Context
	logger   zerolog.Logger
	bot      BackupBot
	repo     AssetRepository
	debounce time.Duration
	schedule string
	ch       chan []byte

	changes *wmPubsub.PubSub
	cron    *cron.Cron

	mu         sync.Mutex
	timer      *time.Timer
	lastBackup time.Time
	lastError  string
}

type BackupOption func(*BackupService)

func WithBackupContext(ctx context.Context) BackupOption {
	return func(s *BackupService) {
		s.ctx = ctx
	}
}

func WithBackupLogger(l zerolog.Logger) BackupOption {
	return func(s *BackupService) {
		s.logger = l.With().Str("component", "backup").Logger()
	}
}

func WithBackupBot(b BackupBot) BackupOption {
	return func(s *BackupService) {
		s.bot = b
	}
}

func WithBackupRepo(r AssetRepository) BackupOption {
	return func(s *BackupService) {
		s.repo = r
	}
}

func WithBackupDebounce(d time.Duration) BackupOption {
	return func(s *BackupService) {
		s.debounce = d
	}
}

// WithBackupSchedule sets the cron spec for full backups. Empty disables it.
func WithBackupSchedule(spec string) BackupOption {
	return func(s *BackupService) {
		s.schedule = spec
	}
}

func WithBackupChannel(ch chan []byte) BackupOption {
	return func(s *BackupService) {
		s.ch = ch
	}
}

func (s *BackupService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidBackupConfig, "ctx cannot be nil")
	case s.bot == nil:
		return errors.Wrap(ErrInvalidBackupConfig, "bot cannot be nil")
	case s.repo == nil:
		return errors.Wrap(ErrInvalidBackupConfig, "repo cannot be nil")
	case s.debounce <= 0:
		return errors.Wrap(ErrInvalidBackupConfig, "debounce must be positive")
	default:
		return nil
	}
}

func NewBackupService(opts ...BackupOption) (*BackupService, error) {
	s := &BackupService{
		logger:   zerolog.Nop(),
		debounce: DefaultBackupDebounce,
		schedule: DefaultBackupSchedule,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}
	if s.ch == nil {
		s.ch = make(chan []byte, 1)
	}

	s.changes = wmPubsub.New(
		wmPubsub.WithContext(s.ctx),
		wmPubsub.WithLogger(s.logger),
		wmPubsub.WithTopic("assets-changed"),
		wmPubsub.WithChannel(s.ch),
		wmPubsub.WithHandler(s.handleChange),
	)

	s.cron = cron.New()
	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, s.scheduledBackup); err != nil {
			return nil, errors.Wrapf(ErrInvalidBackupConfig, "schedule %q: %v", s.schedule, err)
		}
	}

	return s, nil
}

func (s *BackupService) Start() error {
	if err := s.changes.Subscribe(); err != nil {
		return errors.Wrap(err, "failed to subscribe to changes")
	}
	s.cron.Start()
	return nil
}

func (s *BackupService) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

// Publisher is where writers announce local changes.
func (s *BackupService) Publisher() pubsub.LossyPublisher {
	return s.changes
}

// NotifyChange schedules a backup once changes stop arriving for the
// debounce window.
func (s *BackupService) NotifyChange() {
	// a full channel already holds a pending signal
	s.changes.TryPublish([]byte("changed"))
}

func (s *BackupService) handleChange([]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.timer == t {
			s.timer = nil
		}
		s.mu.Unlock()

		if err := s.Backup(s.ctx, "Auto-Backup"); err != nil {
			s.logger.Error().Err(err).Msg("debounced backup failed")
		}
	})
	s.timer = t
	return nil
}

func (s *BackupService) scheduledBackup() {
	if err := s.Backup(s.ctx, "Scheduled Backup"); err != nil {
		s.logger.Error().Err(err).Msg("scheduled backup failed")
	}
}

// Backup sends the full asset list now.
func (s *BackupService) Backup(ctx context.Context, label string) error {
	err := s.backup(ctx, label)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	s.lastError = ""
	s.lastBackup = time.Now()
	return nil
}

func (s *BackupService) backup(ctx context.Context, label string) error {
	assets, err := s.repo.GetAllAssets()
	if err != nil {
		return errors.Wrap(err, "failed to load assets")
	}
	encoded, err := cloudsync.EncodeAssets(assets)
	if err != nil {
		return err
	}

	now := time.Now()
	data, err := json.MarshalIndent(backupDocument{Assets: encoded, Date: now.UTC()}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode backup")
	}

	caption := fmt.Sprintf("%s: %s (%d assets)", label, now.Format("15:04:05"), len(assets))
	if err := s.bot.SendDocument(ctx, BackupFileName, caption, data); err != nil {
		return errors.Wrap(err, "failed to send backup")
	}
	s.logger.Info().Int("assets", len(assets)).Str("label", label).Msg("backup sent")
	return nil
}

// Pull returns the asset list from the newest backup found in the chat.
// The caller decides whether to replace local data with it.
func (s *BackupService) Pull(ctx context.Context) ([]models.Asset, error) {
	raw, err := s.bot.LatestPayload(ctx, isAssetDocument)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pull backup")
	}
	return cloudsync.DecodeAssets(raw)
}

type BackupStatus struct {
	Enabled    bool      `json:"enabled"`
	Pending    bool      `json:"pending"`
	LastBackup time.Time `json:"last_backup"`
	LastError  string    `json:"last_error,omitempty"`
}

func (s *BackupService) Status() BackupStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BackupStatus{
		Enabled:    true,
		Pending:    s.timer != nil,
		LastBackup: s.lastBackup,
		LastError:  s.lastError,
	}
}

// isAssetDocument takes a bare array, or an object carrying an "assets"
// array, that decodes cleanly.
func isAssetDocument(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return false
		}
		assets, ok := obj["assets"]
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(assets), []byte("[")) {
			return false
		}
	} else if raw[0] != '[' {
		return false
	}
	_, err := cloudsync.DecodeAssets(raw)
	return err == nil
}
