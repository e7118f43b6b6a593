package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"studio/internal/domain"
	"studio/internal/http/handlers"
	httpapi "studio/internal/http/httpapi"
	"studio/internal/infra"
	"studio/internal/ledger"
	"studio/internal/media"
	"studio/internal/providers/genai"
	"studio/internal/providers/image"
	"studio/internal/storage"
	"studio/internal/studio"
)

const jobDrainTimeout = 2 * time.Minute

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	// Session storage starts empty on every boot.
	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	if err := store.Reset(); err != nil {
		logger.Fatal().Err(err).Msg("failed to reset storage")
	}

	generator, err := newGenerator(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create image generator")
	}

	app := &handlers.App{Logger: &logger, MaxUploadBytes: cfg.MaxUploadBytes}
	var recorder ledger.Recorder = ledger.Nop{}
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()

		sqlRecorder := ledger.NewSQLRecorder(infra.NewSQLRunner(dbpool, logger))
		if err := sqlRecorder.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate render ledger")
		}
		recorder = sqlRecorder
		app.Ledger = sqlRecorder
	} else {
		logger.Info().Msg("DATABASE_URL not set; render ledger disabled")
	}

	st, err := studio.New(studio.Options{
		Blobs:     store,
		Encoder:   media.NewEncoder(store, media.Options{MaxEdge: cfg.MaxImageEdge}),
		Generator: generator,
		Ledger:    recorder,
		DefaultLogo: domain.BrandLogo{
			Name:   cfg.DefaultLogoName,
			Source: cfg.DefaultLogoURL,
		},
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create studio")
	}
	app.Studio = st

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), jobDrainTimeout)
	defer cancelDrain()
	if err := st.Close(drainCtx); err != nil {
		logger.Warn().Err(err).Msg("renders still running at shutdown")
	}
	if err := store.Reset(); err != nil {
		logger.Warn().Err(err).Msg("failed to clear session storage")
	}
	logger.Info().Msg("server stopped")
}

func newGenerator(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (image.Generator, error) {
	if !cfg.HasGemini() {
		logger.Warn().Msg("GEMINI_API_KEY not set; using synthetic renders")
		return image.NewSynthetic(), nil
	}
	client, err := genai.NewClient(ctx, genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("model", client.Model()).Msg("gemini generator ready")
	return image.NewGeminiGenerator(client), nil
}
