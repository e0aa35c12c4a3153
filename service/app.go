package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"zettaboard/app/apiclient"
	"zettaboard/app/auth"
	"zettaboard/app/config"
	"zettaboard/app/controllers"
	"zettaboard/app/metrics"
	"zettaboard/app/paging"
	"zettaboard/app/repositories"
	"zettaboard/app/routes"
	"zettaboard/app/services"
	"zettaboard/app/views"

	"go.uber.org/zap"
)

// App is the wired dashboard: storage, upstream client, controllers and
// the HTTP server in front of them.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *repositories.Store
	redis  *repositories.RedisCacheRepository
	server *http.Server
}

// NewApp opens storage and builds the router described by cfg.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	store, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, store: store}

	var rec metrics.Recorder = metrics.Nop{}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		rec = metrics.NewPrometheusRecorder()
		metricsPath = cfg.Metrics.Path
	}

	opts := []apiclient.Option{
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		apiclient.WithMetrics(rec),
		apiclient.WithLogger(log.Named("apiclient")),
	}
	switch cfg.Cache.Driver {
	case "badger":
		opts = append(opts, apiclient.WithCache(repositories.NewBadgerCacheRepository(store.DB()), cfg.Cache.TTL))
	case "redis":
		a.redis, err = repositories.NewRedisCacheRepository(cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, apiclient.WithCache(a.redis, cfg.Cache.TTL))
	}
	client := apiclient.New(cfg.API.BaseURL, opts...)

	var authService *auth.Service
	if cfg.Auth.Enabled() {
		authService, err = auth.New(auth.Config{
			ClientID:      cfg.Auth.GoogleClientID,
			ClientSecret:  cfg.Auth.GoogleClientSecret,
			RedirectURL:   cfg.Auth.RedirectURL,
			SessionSecret: cfg.Auth.SessionSecret,
			SessionTTL:    cfg.Auth.SessionTTL,
		}, repositories.NewBadgerSessionRepository(store.DB()), log.Named("auth"))
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		log.Info("Google sign-in is not configured, login is hidden")
	}

	templates, err := views.Load()
	if err != nil {
		a.Close()
		return nil, err
	}

	themes := services.NewThemeService(repositories.NewBadgerPreferenceRepository(store.DB()), log)
	rd := controllers.NewRenderer(templates, themes, authService, log)
	postService := services.NewPostService(client, cfg.API.PageSize,
		paging.Totals{IfAbsent: cfg.API.PostsFallbackTotal}, log)
	userService := services.NewUserService(client, cfg.API.PageSize,
		paging.Totals{IfAbsent: cfg.API.UsersFallbackTotal, IfZero: cfg.API.UsersZeroBound}, log)

	router := routes.SetupRoutes(routes.Controllers{
		Renderer: rd,
		Home:     controllers.NewHomeController(rd, services.NewDashboardService(client, log)),
		Posts:    controllers.NewPostController(rd, postService),
		Comments: controllers.NewCommentController(rd, postService),
		Users:    controllers.NewUserController(rd, userService),
		Auth:     controllers.NewAuthController(rd, rec, cfg.Auth.SecureCookies, cfg.Auth.SessionTTL),
		Theme:    controllers.NewThemeController(rd),
	}, routes.Options{
		Log:            log.Named("http"),
		Metrics:        rec,
		MetricsPath:    metricsPath,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		SecureCookies:  cfg.Auth.SecureCookies,
	})
	a.server = routes.NewServer(cfg.Server, router)
	return a, nil
}

// Handler returns the router.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most server.shutdown_timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("addr", ln.Addr().String()))
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

// Close releases storage. It is safe to call after a failed NewApp.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
