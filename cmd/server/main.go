package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/enrichman/httpgrace"

	"github.com/michaelayoade/dotmac-insights/internal/api/route"
	appctx "github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/config"
	"github.com/michaelayoade/dotmac-insights/internal/filterstore"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	logger.SetLevelFromConfig(cfg.Misc.LogLevel)
	logger.WithComponent("main").Infof("Insights gateway will run on port: %d", cfg.Server.Port)
	logger.WithComponent("main").Infof("Remote backend: %s (%s)", cfg.Remote.Backend, cfg.Remote.BaseURL)

	backend, err := remote.NewBackendFromConfig(cfg.Remote)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init remote backend: %v", err)
	}

	filters, err := filterstore.NewJSONStore(cfg.Filters.FilePath)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init filter store: %v", err)
	}

	app, err := appctx.New(cfg, backend, filters)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err != nil {
		logger.WithComponent("main").Fatalf("cannot start watchers: %v", err)
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app)
	srv := createGraceHttpServer(app.BaseCtx, "insights", cfg.Server, r)

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithComponent("main").Fatal(err)
	}
}

func createGraceHttpServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
