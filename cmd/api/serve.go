package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	httpadp "ncr-quality-backend/internal/adapter/http"
	"ncr-quality-backend/internal/adapter/middleware"
	"ncr-quality-backend/internal/adapter/repository/gormstore"
	"ncr-quality-backend/internal/config"
	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/infrastructure/ai"
	"ncr-quality-backend/internal/infrastructure/cache"
	"ncr-quality-backend/internal/infrastructure/db"
	"ncr-quality-backend/internal/infrastructure/logging"
	"ncr-quality-backend/internal/infrastructure/render"
	"ncr-quality-backend/internal/infrastructure/storage"
	"ncr-quality-backend/internal/usecase/dashboard"
	ncruc "ncr-quality-backend/internal/usecase/ncr"
	"ncr-quality-backend/internal/usecase/report"
	"ncr-quality-backend/internal/usecase/session"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

// app holds what the commands share after startup.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	gdb, err := db.OpenGorm(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := gormstore.Migrate(gdb); err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: gdb}, nil
}

// ncrUsecase wires the list usecase, caching in redis when rdb is set.
func (a *app) ncrUsecase(rdb *redis.Client) (*ncruc.Usecase, *gormstore.NCRRepository, *gormstore.GormUoW) {
	repo := gormstore.NewNCRRepository(a.db)
	acts := gormstore.NewActivityRepository(a.db)
	tx := gormstore.NewGormUoW(a.db)

	var list ncruc.ListCache = cache.NewMemoryList(a.cfg.ListCacheTTL())
	if rdb != nil {
		list = cache.NewRedisList(rdb, a.cfg.ListCacheTTL())
	}
	return ncruc.NewUsecase(repo, acts, tx, list, a.log, a.cfg.Quality.Customers), repo, tx
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()
	cfg, log := a.cfg, a.log

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	ncrUC, repo, tx := a.ncrUsecase(rdb)

	var drafter report.Drafter = ai.Unavailable{}
	switch g, err := ai.NewGemini(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.Language); {
	case err == nil:
		drafter = g
	case errors.Is(err, eightd.ErrDrafterUnavailable):
		log.Warn("report drafting disabled: no API key configured")
	default:
		return err
	}

	renderer := render.NewRod(cfg.Render.ControlURL, cfg.Render.BrowserBin, cfg.Render.Scale, log)
	defer func() { _ = renderer.Close() }()

	reportUC := report.NewUsecase(repo, tx, drafter, renderer, ncrUC, log)
	if cfg.MinIO.Endpoint != "" {
		archive, err := storage.NewArchive(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			return err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return err
		}
		reportUC.WithArchive(archive)
	}

	sessionUC := session.NewUsecase(cfg.Auth.PassphraseHash, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if cfg.Auth.Disabled {
		if sessionUC, err = session.NewDisabled(cfg.Auth.TokenTTL); err != nil {
			return err
		}
		log.Warn("session gate disabled by AUTH_DISABLED: /api is open to every caller")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.Logger(log), echomw.BodyLimit("32M"))

	var mw []echo.MiddlewareFunc
	if rdb != nil {
		mw = append(mw, middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log))
	}
	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(),
		NCR:       httpadp.NewNCRHandler(ncrUC),
		Report:    httpadp.NewReportHandler(reportUC),
		Dashboard: httpadp.NewDashboardHandler(dashboard.NewUsecase(ncrUC, cfg.Quality.InternalSource)),
		Session:   httpadp.NewSessionHandler(sessionUC),
	}, middleware.Auth(sessionUC), mw...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", ":"+cfg.AppPort))
		if err := e.Start(":" + cfg.AppPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
