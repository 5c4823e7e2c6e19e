package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "pixeltrader/docs"
	"pixeltrader/internal/cloudsync"
	"pixeltrader/internal/config"
	"pixeltrader/internal/confirm"
	"pixeltrader/internal/controller"
	"pixeltrader/internal/handler"
	"pixeltrader/internal/market"
	"pixeltrader/internal/repo"
	"pixeltrader/internal/service"
	"pixeltrader/pkg/database"
	"pixeltrader/pkg/integrations/binance"
	"pixeltrader/pkg/integrations/memcache"
	"pixeltrader/pkg/integrations/memdoc"
	"pixeltrader/pkg/integrations/prices"
	"pixeltrader/pkg/integrations/s3doc"
	"pixeltrader/pkg/integrations/telegram"
	"pixeltrader/pkg/integrations/wmPubsub"
	"pixeltrader/pkg/integrations/wsstream"
	marketTypes "pixeltrader/pkg/types/market"
	"pixeltrader/pkg/types/remote"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// @title PixelTrader API
// @version 1.0
// @description Crypto portfolio tracker: positions, live market feed, sync

// @host localhost:2008
// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(database.WithPath(cfg.DBPath), database.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	repository, err := repo.New(db.Get())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create repository")
	}
	if err := repository.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	hub := controller.NewHub()
	pricePublisher := wmPubsub.New(
		wmPubsub.WithChannel(make(chan []byte, 10)),
		wmPubsub.WithContext(ctx),
		wmPubsub.WithTopic("prices"),
		wmPubsub.WithLogger(logger),
		wmPubsub.WithHandler(hub.Broadcast),
	)
	if err := pricePublisher.Subscribe(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start price subscriber")
	}

	liveOpts := []service.LivePriceOption{
		service.WithLivePriceContext(ctx),
		service.WithLivePriceLogger(logger),
		service.WithLivePriceCache(memcache.New[string, float64]()),
		service.WithLivePricePublisher(pricePublisher),
		service.WithLivePriceRepo(repository),
		service.WithLivePriceEnrichInterval(cfg.EnrichInterval),
	}

	var feed *market.Feed
	if cfg.PriceSource == config.PriceSourceBinance {
		feed, err = newFeed(ctx, cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create market feed")
		}
		feed.Connect()
		defer feed.Close()
		liveOpts = append(liveOpts, service.WithLivePriceFeed(feed))
	} else {
		fetcher, err := prices.ForSource(cfg.PriceSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create price fetcher")
		}
		liveOpts = append(liveOpts, service.WithLivePriceFetcher(fetcher))
	}

	livePriceSvc, err := service.NewLivePriceService(liveOpts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create live price service")
	}
	if err := livePriceSvc.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start live price service")
	}
	defer livePriceSvc.Stop()

	store, err := newRemoteStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create sync store")
	}
	bridge, err := cloudsync.New(
		cloudsync.WithRemote(store),
		cloudsync.WithLocal(repository),
		cloudsync.WithDebounce(cfg.SyncDebounce),
		cloudsync.WithOnApply(func() {
			if err := livePriceSvc.Refresh(); err != nil {
				logger.Warn().Err(err).Msg("failed to refresh prices after sync")
			}
		}),
		cloudsync.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create sync bridge")
	}
	if err := bridge.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start sync bridge")
	}
	defer bridge.Close()

	handlerOpts := []handler.Option{
		handler.WithRepository(repository),
		handler.WithPriceHub(hub),
		handler.WithPrices(livePriceSvc),
		handler.WithSync(bridge),
		handler.WithConfirmGuard(confirm.New(cfg.DeleteConfirmWindow)),
		handler.WithLogger(logger),
		handler.WithSwagger(),
	}
	if feed != nil {
		handlerOpts = append(handlerOpts, handler.WithFeed(feed))
	}

	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create telegram bot")
		}
		backupSvc, err := service.NewBackupService(
			service.WithBackupContext(ctx),
			service.WithBackupLogger(logger),
			service.WithBackupBot(bot),
			service.WithBackupRepo(repository),
			service.WithBackupSchedule(cfg.BackupCron),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create backup service")
		}
		if err := backupSvc.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start backup service")
		}
		defer backupSvc.Stop()
		handlerOpts = append(handlerOpts, handler.WithBackup(backupSvc))
	}

	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	h, err := handler.New(append(handlerOpts, handler.WithEngine(r))...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create handler")
	}
	if err := h.Setup(); err != nil {
		logger.Fatal().Err(err).Msg("failed to setup routes")
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info().Str("port", cfg.Port).Str("price_source", cfg.PriceSource).
			Bool("s3_sync", cfg.SyncEnabled()).Bool("telegram_backup", cfg.TelegramEnabled()).
			Msg("starting PixelTrader")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newFeed(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*market.Feed, error) {
	urls := cfg.RESTEndpoints
	if len(urls) == 0 {
		urls = []string{binance.DataAPIURL, binance.MainAPIURL}
	}
	sources := make([]marketTypes.Source, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, binance.NewClient(u))
	}

	return market.New(
		market.WithContext(ctx),
		market.WithSources(sources...),
		market.WithStreamer(wsstream.New(wsstream.WithLogger(logger))),
		market.WithEndpoints(cfg.StreamEndpoints...),
		market.WithLogger(logger),
	)
}

// newRemoteStore returns the S3 document store when a bucket is
// configured and a process-local store otherwise.
func newRemoteStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (remote.RemoteStore, error) {
	if !cfg.SyncEnabled() {
		logger.Info().Msg("SYNC_BUCKET not set, sync stays in memory")
		return memdoc.New(), nil
	}

	client, err := s3doc.NewClient(ctx, s3doc.ClientConfig{
		Endpoint:        cfg.SyncEndpoint,
		Region:          cfg.SyncRegion,
		AccessKeyID:     cfg.SyncAccessKeyID,
		SecretAccessKey: cfg.SyncSecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return s3doc.New(
		s3doc.WithClient(client),
		s3doc.WithBucket(cfg.SyncBucket),
		s3doc.WithPollInterval(cfg.SyncPollInterval),
		s3doc.WithLogger(logger),
	)
}
