package app

import (
	"context"

	"github.com/aptipro/dashboard-service/internal/config"
	"github.com/aptipro/dashboard-service/internal/delivery/httpd"
	"github.com/aptipro/dashboard-service/internal/middleware"
	"github.com/aptipro/dashboard-service/internal/repository"
	"github.com/aptipro/dashboard-service/internal/server"
	"github.com/aptipro/dashboard-service/internal/service"
	"github.com/aptipro/dashboard-service/internal/service/integration"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type App struct {
	server *server.Server
	logger zerolog.Logger
	config *config.Config
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	// Клиент удаленного exam API
	examClient := integration.NewExamClient(
		cfg.ExamAPI.URL,
		cfg.ExamAPI.Timeout,
		cfg.ExamAPI.RetryCount,
		cfg.ExamAPI.RetryDelay,
		log,
	)

	if cfg.ExamAPI.URL == "" {
		// Не фатально при старте: клиент вернет ошибку конфигурации при вызове
		log.Warn().Msg("EXAM_API_URL is not set, remote calls will fail")
	}

	// Зеркало и сторы
	mirror := repository.NewMirror(cfg.Storage.Type, cfg.Storage.FilePath, log)
	sessionService := service.NewSessionService(examClient, mirror, log)
	cacheService := service.NewCacheService(examClient, mirror, sessionService, cfg.Cache.SurfaceFetchErrors, log)

	handler := httpd.NewHandler(sessionService, cacheService, log)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	srv := server.New(server.Config{
		Address:         cfg.Server.Address,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log,
		middleware.NewCORS(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
			cfg.CORS.ExposedHeaders,
			cfg.CORS.AllowCredentials,
			cfg.CORS.MaxAge,
		),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)

	return &App{
		server: srv,
		logger: log,
		config: cfg,
	}, nil
}

func (a *App) Run() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
