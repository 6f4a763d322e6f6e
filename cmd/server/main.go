package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commissionhub/config"
	"commissionhub/internal/database"
	"commissionhub/internal/jobs"
	"commissionhub/internal/router"
	"commissionhub/internal/service"
	"commissionhub/pkg/cloudinary"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:   "server",
		Usage:  "commission marketplace API",
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API and reminder worker", Action: serve},
			{Name: "migrate", Usage: "run database migrations", Action: migrate},
			{Name: "seed-admin", Usage: "create the admin account from ADMIN_* settings", Action: seedAdmin},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func migrate(c *cli.Context) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.log.Sync() //nolint:errcheck
	if err := database.AutoMigrate(rt.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	rt.log.Info("migrations applied")
	return nil
}

func seedAdmin(c *cli.Context) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.log.Sync() //nolint:errcheck
	return database.SeedAdmin(c.Context, rt.db, &rt.cfg.Admin, rt.log)
}

func serve(c *cli.Context) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	cfg, log := rt.cfg, rt.log
	defer log.Sync() //nolint:errcheck

	if err := database.AutoMigrate(rt.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedAdmin(c.Context, rt.db, &cfg.Admin, log); err != nil {
		return err
	}

	deps := router.Deps{Config: cfg, DB: rt.db, Log: log, Locker: service.NewLocalLocker()}

	if cfg.Cloudinary.CloudName != "" {
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return fmt.Errorf("cloudinary: %w", err)
		}
		deps.Cloud = cloud
	} else {
		log.Info("file uploads disabled: CLOUDINARY_CLOUD_NAME not set")
	}

	var (
		queue  *asynq.Client
		worker *asynq.Server
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(c.Context).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		deps.Locker = service.NewRedisLocker(rdb, cfg.Redis.LockTTL, log.Named("lock"))

		opt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		queue = asynq.NewClient(opt)
		defer queue.Close()
		deps.Reminders = jobs.NewDispatcher(queue, cfg.Notifications.PaymentReminderDelay, log.Named("jobs"))
		worker = asynq.NewServer(opt, asynq.Config{Concurrency: 4})
	} else {
		log.Info("redis not configured: using in-process product lock, payment reminders disabled")
	}

	app := router.Setup(deps)
	defer app.Close()

	if worker != nil {
		mux := jobs.NewServeMux(jobs.NewProcessor(app.Products, log.Named("jobs")))
		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("reminder worker: %w", err)
		}
		defer worker.Shutdown()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
