package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vkarpenko/minibank/internal/controller"
	"github.com/vkarpenko/minibank/internal/core"
	"github.com/vkarpenko/minibank/internal/repository"
	"github.com/vkarpenko/minibank/internal/service"
	"github.com/vkarpenko/minibank/internal/util/logger"
	"go.uber.org/zap"
)

type App struct {
	cfg      *Config
	Router   *chi.Mux
	db       *repository.Database
	Logger   *zap.Logger
	Server   *http.Server
	Sessions core.SessionSweeper
}

func New(cfg *Config) (*App, error) {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: log,
	}

	if err := app.initDB(); err != nil {
		return nil, err
	}
	app.initRouter()
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	a.Server = &http.Server{
		Addr:    a.cfg.RunAddress,
		Handler: a.Router,
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	return a.shutdown()
}

func (a *App) initDB() error {
	dbConfig := repository.DatabaseConfig{
		DSN:            a.cfg.DatabaseURI,
		MigrationsPath: a.cfg.MigrationsPath,
		PingTimeout:    5 * time.Second,
	}

	db, err := repository.NewDatabase(dbConfig)
	if err != nil {
		a.Logger.Error("Database initialization failed",
			zap.String("dsn", a.cfg.MaskDBPassword()),
			zap.Error(err))
		return fmt.Errorf("database initialization failed: %w", err)
	}

	a.db = db
	a.Logger.Info("Database initialized successfully",
		zap.String("migrations_path", a.cfg.MigrationsPath))

	return nil
}

func (a *App) initRouter() {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(middleware.Logger)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.Compress(5))

	// Repositories
	userRepo := repository.NewUserRepository(a.db)
	sessionRepo := repository.NewSessionRepository(a.db)
	accountRepo := repository.NewAccountRepository(a.db)

	// Services
	credentialService := service.NewCredentialService(userRepo)
	sessionService := service.NewSessionService(sessionRepo, a.cfg.SessionTTL)
	ledgerService := service.NewLedgerService(accountRepo)
	gateway := service.NewGateway(credentialService, sessionService, ledgerService, a.Logger)

	a.Sessions = sessionService

	// Controllers
	authController := controller.NewAuthController(gateway, a.Logger)
	balanceController := controller.NewBalanceController(gateway, a.Logger)

	a.Router.Post("/api/user/register", authController.Register)
	a.Router.Post("/api/user/login", authController.Login)
	a.Router.Post("/api/user/password", authController.UpdatePassword)
	a.Router.Post("/api/user/delete", authController.DeleteUser)
	a.Router.Post("/api/user/logout", authController.Logout)
	a.Router.Post("/api/user/balance", balanceController.GetBalance)
	a.Router.Post("/api/user/balance/deposit", balanceController.Deposit)
	a.Router.Post("/api/user/balance/withdraw", balanceController.Withdraw)
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Server.Shutdown(ctx)
}

// StartSessionReaper sweeps expired sessions on a fixed interval until the
// context is cancelled.
func StartSessionReaper(ctx context.Context, sweeper core.SessionSweeper, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session reaper stopped")
			return
		case <-ticker.C:
			reaped, err := sweeper.ReapExpired(ctx)
			if err != nil {
				logger.Error("Session sweep failed", zap.Error(err))
				continue
			}
			if reaped > 0 {
				logger.Debug("Reaped expired sessions", zap.Int64("count", reaped))
			}
		}
	}
}
