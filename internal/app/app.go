package app

import (
	"net/http"

	"gorm.io/gorm"

	"subtrack/internal/config"
	"subtrack/internal/db"
	obligationdomain "subtrack/internal/domain/obligation"
	methoddomain "subtrack/internal/domain/paymentmethod"
	summarydomain "subtrack/internal/domain/summary"
	userdomain "subtrack/internal/domain/user"
	"subtrack/internal/repository/inmemory"
	obligationrepo "subtrack/internal/repository/postgres/obligation"
	methodrepo "subtrack/internal/repository/postgres/paymentmethod"
	summaryrepo "subtrack/internal/repository/postgres/summary"
	userrepo "subtrack/internal/repository/postgres/user"
	"subtrack/internal/transport/httpserver"
	"subtrack/internal/transport/httpserver/handler"
	"subtrack/internal/transport/httpserver/middleware"
	"subtrack/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	directory := inmemory.NewCachingDirectory(users, cfg.Sweep.DirectoryCacheTTL)
	obligations := obligationdomain.NewServiceWithSweepLimit(
		obligationrepo.NewPostgres(dbConn), directory, cfg.Sweep.MaxSteps)
	summaries := summarydomain.NewService(summaryrepo.NewPostgres(dbConn))
	paymentMethods := methoddomain.NewService(methodrepo.NewPostgres(dbConn))

	auth := middleware.NewJWTAuth(cfg.JWT, log)
	handlers := handler.New(users, obligations, summaries, paymentMethods, auth, log)

	log.Info("app: initializing http server")
	router := httpserver.NewRouter(handlers, auth)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
