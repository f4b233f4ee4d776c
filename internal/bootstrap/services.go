package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/optitrack/optitrack-ui/config"
	"github.com/optitrack/optitrack-ui/internal/adapters/optitrackapi"
	redisadapter "github.com/optitrack/optitrack-ui/internal/adapters/redis"
	httpx "github.com/optitrack/optitrack-ui/internal/http"
	"github.com/optitrack/optitrack-ui/internal/service"
	"github.com/optitrack/optitrack-ui/internal/session"
)

// Application holds the wired dependencies of one process.
type Application struct {
	Router  httpx.RouterServices
	API     *optitrackapi.Client
	Metrics MetricsBundle
	Redis   redis.UniversalClient

	logger *slog.Logger
}

// Close releases connections opened by BuildApplication.
func (a *Application) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := a.Metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close metrics: %w", err))
	}
	return errors.Join(errs...)
}

// ApplicationConfig contains what BuildApplication needs.
type ApplicationConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// Transport overrides the API client's round tripper (tests).
	Transport http.RoundTripper
	// Redis overrides the connection made for the redis session backend (tests).
	Redis redis.UniversalClient
}

// BuildApplication wires metrics, the API client, the session manager and the page services.
func BuildApplication(ctx context.Context, cfg ApplicationConfig) (*Application, error) {
	if cfg.Config == nil {
		return nil, errors.New("application config is required")
	}
	appCfg := cfg.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &Application{logger: logger}
	ok := false
	defer func() {
		if !ok {
			if err := app.Close(); err != nil {
				logger.Warn("release partially built application", "error", err)
			}
		}
	}()

	bundle, err := BuildMetrics(appCfg.Observability.Metrics, logger)
	if err != nil {
		return nil, err
	}
	app.Metrics = bundle

	app.API, err = optitrackapi.New(optitrackapi.Config{
		BaseURL:   appCfg.API.BaseURL,
		Timeout:   appCfg.API.Timeout,
		RateLimit: appCfg.API.RateLimit,
		RateBurst: appCfg.API.RateBurst,
		Transport: cfg.Transport,
		Logger:    logger,
		Metrics:   bundle.Recorder,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	sessions, err := buildSessionManager(ctx, app, cfg)
	if err != nil {
		return nil, err
	}

	limiter, err := httpx.NewLoginLimiter(httpx.LoginLimiterConfig{
		PerMinute:      appCfg.Login.RateLimit,
		CacheSize:      appCfg.Login.CacheSize,
		TrustForwarded: appCfg.HTTP.TrustForwarded,
	})
	if err != nil {
		return nil, fmt.Errorf("login limiter: %w", err)
	}

	app.Router = buildRouterServices(appCfg, app.API, bundle, sessions, limiter, logger)
	ok = true
	return app, nil
}

func buildSessionManager(ctx context.Context, app *Application, cfg ApplicationConfig) (*session.Manager, error) {
	appCfg := cfg.Config
	backend, err := session.ParseBackend(appCfg.Session.Backend)
	if err != nil {
		return nil, err
	}

	var records *redisadapter.SessionStore
	if backend == session.BackendRedis {
		client := cfg.Redis
		if client == nil {
			client, err = ConnectRedis(ctx, RedisConnConfig{Redis: appCfg.Redis, Logger: app.logger})
			if err != nil {
				return nil, err
			}
			app.Redis = client
		}
		records = redisadapter.NewSessionStoreWithPrefix(client, appCfg.Redis.KeyPrefix)
	}

	sc := session.Config{
		Backend:       backend,
		CookieName:    appCfg.Session.CookieName,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		SecureCookies: appCfg.HTTP.SecureCookies,
		HashKey:       []byte(appCfg.Session.HashKey),
		BlockKey:      []byte(appCfg.Session.BlockKey),
		TTL:           appCfg.Session.TTL,
		Logger:        app.logger,
	}
	if records != nil {
		sc.Records = records
	}
	manager, err := session.NewManager(sc)
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	app.logger.Info("session store ready", "backend", string(backend), "cookie", manager.CookieName())
	return manager, nil
}

func buildRouterServices(
	appCfg *config.AppConfig,
	api *optitrackapi.Client,
	bundle MetricsBundle,
	sessions *session.Manager,
	limiter *httpx.LoginLimiter,
	logger *slog.Logger,
) httpx.RouterServices {
	rec := bundle.Recorder
	resolver := service.NewSessionResolver(service.SessionResolverOptions{
		WhoAmI:  api,
		Metrics: rec,
		Logger:  logger,
	})

	return httpx.RouterServices{
		Loader: service.NewViewLoader(service.ViewLoaderOptions{
			Resolver: resolver,
			Metrics:  rec,
			Logger:   logger,
		}),
		Pages: service.NewPageService(service.PageServiceOptions{
			API:           api,
			ActivityLimit: appCfg.API.ActivityLimit,
			Fanout:        appCfg.API.PageFanout,
			Logger:        logger,
		}),
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Login:   api,
			Metrics: rec,
			Logger:  logger,
		}),
		Sessions: sessions,
		Limiter:  limiter,
		CSRF: httpx.CSRFConfig{
			CookieDomain:  appCfg.HTTP.CookieDomain,
			SecureCookies: appCfg.HTTP.SecureCookies,
		},
		Metrics: bundle.Handler,
		IsDev:   appCfg.IsDev,
		Logger:  logger,
	}
}

// Run builds the application, serves HTTP and blocks until ctx is cancelled or the
// listener fails. It always attempts a graceful shutdown before returning.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	app, err := BuildApplication(ctx, ApplicationConfig{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("release resources", "error", closeErr)
		}
	}()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(HTTPServerConfig{
		HTTP:     cfg.HTTP,
		Services: app.Router,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	return waitForShutdown(shutdownConfig{
		ctx:    ctx,
		errCh:  errCh,
		server: server,
		logger: logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx    context.Context
	errCh  <-chan error
	server *http.Server
	logger *slog.Logger
}

// waitForShutdown waits for cancellation or a server error, then stops the server.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.ctx.Done():
		cfg.logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(cfg.ctx),
			Server:  cfg.server,
			Logger:  cfg.logger,
		})
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(cfg.ctx),
			Server:  cfg.server,
			Logger:  cfg.logger,
		}); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}
