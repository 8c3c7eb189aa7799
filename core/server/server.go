package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spotshare/core/cache"
	"spotshare/core/config"
	"spotshare/core/constants"
	"spotshare/core/database"
	"spotshare/core/logger"
	"spotshare/core/middleware"
	"spotshare/core/tasks"
	"spotshare/modules/auth"
	"spotshare/modules/availability"
	"spotshare/modules/booking"
	"spotshare/modules/notification"
	"spotshare/modules/pricing"
	"spotshare/modules/review"
	"spotshare/modules/spot"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires everything together: config, storage, queue, HTTP modules,
// background worker, graceful shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)
	defer logger.Sync()

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}

	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logger.Warn("Server:Run:CacheUnavailable", "error", err)
	}
	defer cache.Close()

	tasks.InitClient(cfg.Redis)
	defer tasks.CloseClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware()
	e.Use(mw.RateLimitMiddleware())

	api := e.Group("/api/v1")
	public := api.Group("/public")
	private := api.Group("/private")

	auth.Init(public)
	pricingSvc := pricing.Init(public, mw)
	spot.Init(private, db, mw)
	availSvc := availability.Init(private, db, mw)
	bookingSvc := booking.Init(private, db, mw, availSvc, pricingSvc)
	notifSvc := notification.Init(private, db, mw)
	review.Init(private, db, mw)

	// Freed slots flow: availability -> queue -> notification delivery.
	availSvc.SetNotifier(notifSvc)

	worker := tasks.NewWorker(cfg.Redis)
	worker.HandleSlotFreed(notifSvc.DeliverSlotFreed)
	worker.HandleCompleteSweep(func(ctx context.Context) error {
		if _, appErr := bookingSvc.CompleteExpired(ctx); appErr != nil {
			return appErr
		}
		return nil
	})
	go func() {
		if err := worker.Start(); err != nil {
			logger.Error("Server:Run:WorkerStart", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil {
			logger.Info("Server:Run:HTTPStopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Run:ShuttingDown")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}
