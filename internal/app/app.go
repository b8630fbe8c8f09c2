package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/alex-user-go/serpgateway/internal/config"
	"github.com/alex-user-go/serpgateway/internal/handler"
	"github.com/alex-user-go/serpgateway/internal/logging"
	"github.com/alex-user-go/serpgateway/internal/middleware"
	"github.com/alex-user-go/serpgateway/internal/obs"
	"github.com/alex-user-go/serpgateway/internal/upstream"
)

const (
	startTimeout    = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Module provides every gateway component.
var Module = fx.Options(
	fx.Provide(
		newLogger,
		obs.NewMetrics,
		fx.Annotate(NewUpstreamClient, fx.As(new(handler.Upstream))),
		NewEndpoints,
		handler.New,
		NewRouter,
		NewServer,
	),
	fx.Invoke(func(*http.Server) {}),
)

// Run initializes and runs the application until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app := fx.New(
		fx.Supply(cfg),
		Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Stop(stopCtx)
}

func newLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger, nil
}

// NewUpstreamClient builds the shared provider client.
func NewUpstreamClient(cfg config.Config, logger *zap.Logger) *upstream.Client {
	return upstream.NewClient(upstream.Credentials{
		Username: cfg.Upstream.Username,
		Secret:   cfg.Upstream.Secret,
	}, cfg.Upstream.Timeout, logger.Named("upstream"))
}

// NewEndpoints maps gateway routes to configured provider URLs.
func NewEndpoints(cfg config.Config) handler.Endpoints {
	return handler.Endpoints{
		AutoComplete: upstream.Endpoint{Name: "autocomplete", URL: cfg.Upstream.AutocompleteURL},
		Hotels:       upstream.Endpoint{Name: "hotels", URL: cfg.Upstream.HotelsURL},
		Region:       upstream.Endpoint{Name: "region", URL: cfg.Upstream.RegionURL},
	}
}

// NewRouter sets up routes with logging and recovery middleware.
func NewRouter(cfg config.Config, h *handler.Handler, metrics *obs.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(logger))

	h.Register(r)
	r.GET("/healthz", obs.HealthHandler())
	r.GET("/metrics", metrics.MetricsHandler())

	return r
}

// NewServer configures the HTTP server and ties it to the fx lifecycle.
func NewServer(lc fx.Lifecycle, cfg config.Config, router *gin.Engine, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Upstream.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("starting server", zap.String("addr", ln.Addr().String()))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	})

	return srv
}
