package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday/external/thesportsdb"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/timeline"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Services is the use case graph shared by the HTTP server and the CLI.
type Services struct {
	Leagues   *usecase.LeagueService
	Fixtures  *usecase.FixtureService
	Matches   *usecase.MatchService
	Dashboard *usecase.DashboardService
	Live      *usecase.LiveService
	Favorites *usecase.FavoriteService

	pool *ants.Pool
}

// Close stops every live controller and releases the poll worker pool.
func (s *Services) Close() {
	s.Live.Close()
	if s.pool != nil {
		s.pool.Release()
	}
}

func NewUpstreamClient(cfg config.Config, logger *logging.Logger) (*thesportsdb.Client, error) {
	transport, err := thesportsdb.NewTransport(cfg.UpstreamTransport)
	if err != nil {
		return nil, err
	}

	return thesportsdb.NewClient(thesportsdb.ClientConfig{
		Transport:      transport,
		BaseURL:        cfg.UpstreamBaseURL,
		Timeout:        cfg.UpstreamTimeout,
		MaxAttempts:    cfg.UpstreamMaxAttempts,
		RetryBaseDelay: cfg.UpstreamRetryBaseDelay,
		RatePerMinute:  cfg.UpstreamRatePerMinute,
		Logger:         logger.Named("thesportsdb"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.UpstreamCircuitEnabled,
			FailureThreshold: cfg.UpstreamCircuitFailureCount,
			OpenTimeout:      cfg.UpstreamCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UpstreamCircuitHalfOpenMaxReq,
			OnStateChange: func(from, to resilience.CircuitState) {
				logger.Warn("upstream circuit breaker changed state", "from", string(from), "to", string(to))
			},
		},
	}), nil
}

func NewServices(cfg config.Config, source fixture.Source, logger *logging.Logger) (*Services, error) {
	pool, err := ants.NewPool(cfg.PollWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create poll worker pool: %w", err)
	}

	halftime := timeline.HalftimeScoreComputed
	if cfg.HalftimeScorePolicy == config.HalftimeScorePlaceholder {
		halftime = timeline.HalftimeScorePlaceholder
	}

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(cfg.DefaultLeagueID))
	fixtureRepo := memory.NewFixtureRepository(nil)
	favoriteRepo := memory.NewFavoriteRepository()

	fixtureSvc := usecase.NewFixtureService(source, fixtureRepo, usecase.FixtureServiceConfig{
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})
	matchSvc := usecase.NewMatchService(source, fixtureRepo, usecase.MatchServiceConfig{
		HalftimeScore: halftime,
		Logger:        logger,
	})
	liveSvc := usecase.NewLiveService(fixtureSvc, matchSvc, usecase.LiveServiceConfig{
		Interval:    cfg.PollInterval,
		IdleTimeout: cfg.LiveIdleTimeout,
		Pool:        pool,
		Logger:      logger,
	})

	return &Services{
		Leagues:   usecase.NewLeagueService(leagueRepo),
		Fixtures:  fixtureSvc,
		Matches:   matchSvc,
		Dashboard: usecase.NewDashboardService(fixtureSvc, favoriteRepo, nil),
		Live:      liveSvc,
		Favorites: usecase.NewFavoriteService(favoriteRepo),
		pool:      pool,
	}, nil
}

// App is the HTTP service with its background live feeds.
type App struct {
	cfg      config.Config
	logger   *logging.Logger
	server   *http.Server
	services *Services
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client, err := NewUpstreamClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	services, err := NewServices(cfg, client, logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(
		services.Leagues,
		services.Fixtures,
		services.Matches,
		services.Dashboard,
		services.Live,
		services.Favorites,
		cfg.CORSAllowedOrigins,
		logger,
	)
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		DocsEnabled:        cfg.SwaggerEnabled,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		services.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		server:   server,
		services: services,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and polls the watched leagues until ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	liveCtx, stopLive := context.WithCancel(ctx)
	defer stopLive()

	liveDone := make(chan struct{})
	go func() {
		defer close(liveDone)
		a.services.Live.Run(liveCtx, a.cfg.WatchLeagueIDs)
	}()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}

	stopLive()
	<-liveDone
	a.services.Close()
	a.logger.Info("http server stopped")
	return runErr
}
