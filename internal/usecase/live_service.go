package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/livefeed"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const defaultLiveIdleTimeout = 5 * time.Minute

type LiveServiceConfig struct {
	Interval    time.Duration
	IdleTimeout time.Duration
	Pool        livefeed.Submitter
	Logger      *logging.Logger
	Now         func() time.Time
}

type liveLeagueSource interface {
	Refresh(ctx context.Context, leagueID string) ([]fixture.Fixture, error)
}

type liveMatchSource interface {
	FetchByID(ctx context.Context, id string) (fixture.Details, bool, error)
	Seed(ctx context.Context, id string) (*fixture.Details, error)
}

type liveEntry[T any] struct {
	controller  *livefeed.Controller[T]
	lastAccess  time.Time
	subscribers int
	pinned      bool
}

type (
	LeagueSnapshot = livefeed.Snapshot[[]fixture.Fixture]
	MatchSnapshot  = livefeed.Snapshot[fixture.Details]
)

// LiveService keeps one polling controller per watched league and per watched match.
// Controllers nobody looked at for IdleTimeout are stopped, unless pinned or subscribed.
type LiveService struct {
	leagues     liveLeagueSource
	matches     liveMatchSource
	interval    time.Duration
	idleTimeout time.Duration
	pool        livefeed.Submitter
	logger      *logging.Logger
	now         func() time.Time

	mu         sync.Mutex
	baseCtx    context.Context
	leagueFeed map[string]*liveEntry[[]fixture.Fixture]
	matchFeed  map[string]*liveEntry[fixture.Details]
}

func NewLiveService(leagues liveLeagueSource, matches liveMatchSource, cfg LiveServiceConfig) *LiveService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = livefeed.DefaultInterval
	}
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = defaultLiveIdleTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &LiveService{
		leagues:     leagues,
		matches:     matches,
		interval:    interval,
		idleTimeout: idle,
		pool:        cfg.Pool,
		logger:      logger.Named("livefeed"),
		now:         now,
		baseCtx:     context.Background(),
		leagueFeed:  make(map[string]*liveEntry[[]fixture.Fixture]),
		matchFeed:   make(map[string]*liveEntry[fixture.Details]),
	}
}

// Run binds controllers to ctx, pins the given leagues and evicts idle controllers
// until ctx is done. Every controller is stopped on return.
func (s *LiveService) Run(ctx context.Context, pinnedLeagues []string) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	for _, leagueID := range pinnedLeagues {
		leagueID = strings.TrimSpace(leagueID)
		if leagueID == "" {
			continue
		}
		s.watchLeague(leagueID, true)
		s.logger.InfoContext(ctx, "watching league", "league_id", leagueID)
	}

	ticker := time.NewTicker(max(s.idleTimeout/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			if evicted := s.EvictIdle(); evicted > 0 {
				s.logger.DebugContext(ctx, "evicted idle live feeds", "count", evicted)
			}
		}
	}
}

func (s *LiveService) LeagueSnapshot(ctx context.Context, leagueID string) (LeagueSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveService.LeagueSnapshot", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return LeagueSnapshot{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	return awaitSettled(ctx, s.watchLeague(leagueID, false)), nil
}

func (s *LiveService) MatchSnapshot(ctx context.Context, matchID string) (MatchSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveService.MatchSnapshot", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchSnapshot{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	controller, err := s.watchMatch(ctx, matchID)
	if err != nil {
		return MatchSnapshot{}, err
	}
	return awaitSettled(ctx, controller), nil
}

// SubscribeLeague streams snapshots of the league window. The feed stays alive until
// the returned func is called.
func (s *LiveService) SubscribeLeague(leagueID string) (<-chan LeagueSnapshot, func(), error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	controller := s.watchLeague(leagueID, false)
	s.mu.Lock()
	if entry, ok := s.leagueFeed[leagueID]; ok {
		entry.subscribers++
	}
	s.mu.Unlock()

	updates, unsubscribe := controller.Subscribe()
	var once sync.Once
	return updates, func() {
		once.Do(func() {
			unsubscribe()
			s.mu.Lock()
			defer s.mu.Unlock()
			if entry, ok := s.leagueFeed[leagueID]; ok && entry.subscribers > 0 {
				entry.subscribers--
				entry.lastAccess = s.now()
			}
		})
	}, nil
}

// SubscribeMatch streams snapshots of one match.
func (s *LiveService) SubscribeMatch(ctx context.Context, matchID string) (<-chan MatchSnapshot, func(), error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	controller, err := s.watchMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	if entry, ok := s.matchFeed[matchID]; ok {
		entry.subscribers++
	}
	s.mu.Unlock()

	updates, unsubscribe := controller.Subscribe()
	var once sync.Once
	return updates, func() {
		once.Do(func() {
			unsubscribe()
			s.mu.Lock()
			defer s.mu.Unlock()
			if entry, ok := s.matchFeed[matchID]; ok && entry.subscribers > 0 {
				entry.subscribers--
				entry.lastAccess = s.now()
			}
		})
	}, nil
}

// EvictIdle stops controllers that are neither pinned, subscribed nor recently read.
func (s *LiveService) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTimeout)
	evicted := 0
	for key, entry := range s.leagueFeed {
		if entry.pinned || entry.subscribers > 0 || entry.lastAccess.After(cutoff) {
			continue
		}
		entry.controller.Stop()
		delete(s.leagueFeed, key)
		evicted++
	}
	for key, entry := range s.matchFeed {
		if entry.subscribers > 0 || entry.lastAccess.After(cutoff) {
			continue
		}
		entry.controller.Stop()
		delete(s.matchFeed, key)
		evicted++
	}
	return evicted
}

func (s *LiveService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.leagueFeed {
		entry.controller.Stop()
		delete(s.leagueFeed, key)
	}
	for key, entry := range s.matchFeed {
		entry.controller.Stop()
		delete(s.matchFeed, key)
	}
}

func (s *LiveService) watchLeague(leagueID string, pinned bool) *livefeed.Controller[[]fixture.Fixture] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.leagueFeed[leagueID]; ok {
		entry.lastAccess = s.now()
		entry.pinned = entry.pinned || pinned
		return entry.controller
	}

	controller := livefeed.NewController[[]fixture.Fixture](s.feedConfig("league"))
	s.leagueFeed[leagueID] = &liveEntry[[]fixture.Fixture]{
		controller: controller,
		lastAccess: s.now(),
		pinned:     pinned,
	}
	controller.Start(s.baseCtx, leagueID, func(ctx context.Context) ([]fixture.Fixture, bool, error) {
		items, err := s.leagues.Refresh(ctx, leagueID)
		if err != nil {
			return nil, false, err
		}
		return items, true, nil
	}, nil)
	return controller
}

func (s *LiveService) watchMatch(ctx context.Context, matchID string) (*livefeed.Controller[fixture.Details], error) {
	s.mu.Lock()
	if entry, ok := s.matchFeed[matchID]; ok {
		entry.lastAccess = s.now()
		s.mu.Unlock()
		return entry.controller, nil
	}
	s.mu.Unlock()

	seed, err := s.matches.Seed(ctx, matchID)
	if err != nil {
		s.logger.WarnContext(ctx, "load match seed failed", "match_id", matchID, "error", err)
		seed = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.matchFeed[matchID]; ok {
		entry.lastAccess = s.now()
		return entry.controller, nil
	}

	controller := livefeed.NewController[fixture.Details](s.feedConfig("match"))
	s.matchFeed[matchID] = &liveEntry[fixture.Details]{
		controller: controller,
		lastAccess: s.now(),
	}
	controller.Start(s.baseCtx, matchID, func(ctx context.Context) (fixture.Details, bool, error) {
		return s.matches.FetchByID(ctx, matchID)
	}, seed)
	return controller, nil
}

func (s *LiveService) feedConfig(name string) livefeed.Config {
	return livefeed.Config{
		Name:     name,
		Interval: s.interval,
		Logger:   s.logger,
		Pool:     s.pool,
		SurfaceAlways: func(err error) bool {
			return errors.Is(err, ErrServerDataMismatch)
		},
	}
}

// awaitSettled waits for the first non-loading snapshot or until ctx is done.
func awaitSettled[T any](ctx context.Context, controller *livefeed.Controller[T]) livefeed.Snapshot[T] {
	updates, unsubscribe := controller.Subscribe()
	defer unsubscribe()

	last := controller.Snapshot()
	for {
		if !last.IsLoading {
			return last
		}
		select {
		case <-ctx.Done():
			return last
		case snap, ok := <-updates:
			if !ok {
				return last
			}
			last = snap
		}
	}
}
