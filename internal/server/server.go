package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/letternet/internal/cache"
	"github.com/OFFIS-RIT/letternet/internal/queue"
	"github.com/OFFIS-RIT/letternet/internal/records"
	mid "github.com/OFFIS-RIT/letternet/internal/server/middleware"
	"github.com/OFFIS-RIT/letternet/internal/telemetry"
	"github.com/OFFIS-RIT/letternet/internal/util"
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// New builds the echo instance serving app.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e, app)
	return e
}

// Init wires the service from the environment and serves until SIGINT or
// SIGTERM.
func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instanceID, err := gonanoid.New()
	if err != nil {
		logger.Fatal("Failed to create instance id", "err", err)
	}

	app := &mid.App{
		Metrics:       telemetry.New(),
		MasterAPIKey:  util.GetEnv("MASTER_API_KEY"),
		InstanceID:    instanceID,
		ParallelViews: int(util.GetEnvNumeric("PARALLEL_VIEWS", 4)),
	}

	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		app.Keyfunc = k.Keyfunc
	} else if app.MasterAPIKey == "" {
		logger.Warn("[Server] No MASTER_API_KEY or AUTH_URL set, authentication disabled")
	}

	app.Cache, err = cache.New(int(util.GetEnvNumeric("CACHE_SIZE", cache.DefaultSize)), app.Metrics)
	if err != nil {
		logger.Fatal("Failed to create result cache", "err", err)
	}

	src, err := records.Resolve(ctx, util.GetEnv("RECORDS_SOURCE"))
	if err != nil {
		logger.Fatal("Failed to resolve record source", "err", err)
	}
	app.Records = records.NewStore(src, util.RetryOptions{
		MaxTries: int(util.GetEnvNumeric("LOAD_RETRIES", 3)),
		Delay:    util.GetEnvDuration("LOAD_RETRY_DELAY", time.Second),
		MaxDelay: 30 * time.Second,
	})
	app.Records.OnReload(func(*common.RecordSet) { app.Cache.Purge() })

	set, err := app.Records.Reload(ctx)
	app.Metrics.ObserveReload(set, err)
	if err != nil {
		logger.Fatal("Failed to load records", "err", err)
	}

	if queue.Enabled() {
		conn, err := queue.Init(ctx)
		if err != nil {
			logger.Fatal("Failed to connect to queue", "err", err)
		}
		defer conn.Close()

		pub, err := conn.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		defer pub.Close()
		app.Queue = pub

		sub, err := conn.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		defer sub.Close()

		reload := queue.ReloadOnUpdate(observedReloader{app}, app.InstanceID)
		go func() {
			if err := queue.Subscribe(ctx, sub, queue.TopicRecordsUpdated, reload); err != nil {
				logger.Error("[Server] Subscriber stopped", "err", err)
			}
		}()
	}

	e := New(app)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port, "records", set.Len(), "version", set.Version())
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// observedReloader reports queue-triggered reloads to the metrics.
type observedReloader struct {
	app *mid.App
}

func (r observedReloader) Reload(ctx context.Context) (*common.RecordSet, error) {
	set, err := r.app.Records.Reload(ctx)
	r.app.Metrics.ObserveReload(set, err)
	return set, err
}
