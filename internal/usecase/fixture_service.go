package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const defaultFixtureCacheTTL = 20 * time.Second

type FixtureServiceConfig struct {
	CacheTTL time.Duration
	Logger   *logging.Logger
	Now      func() time.Time
}

type FixtureService struct {
	source      fixture.Source
	fixtureRepo fixture.Repository
	cache       *cache.Store[[]fixture.Fixture]
	logger      *logging.Logger
	now         func() time.Time
}

func NewFixtureService(source fixture.Source, fixtureRepo fixture.Repository, cfg FixtureServiceConfig) *FixtureService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultFixtureCacheTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FixtureService{
		source:      source,
		fixtureRepo: fixtureRepo,
		cache:       cache.NewStore[[]fixture.Fixture](ttl),
		logger:      logger,
		now:         now,
	}
}

// FetchWindow loads past, next and season events concurrently, merges them keeping the
// first occurrence per id, sorts by kickoff and keeps the fixtures around now.
// A failing source contributes nothing. The window is stored for seeding match views.
func (s *FixtureService) FetchWindow(ctx context.Context, leagueID string, now time.Time) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.FetchWindow", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	season := fixture.SeasonLabel(now)

	var past, next, seasonal []fixture.Fixture
	var wg conc.WaitGroup
	wg.Go(func() {
		past = s.fetchSource(ctx, "past", leagueID, func(ctx context.Context) ([]fixture.Fixture, error) {
			return s.source.PastLeagueEvents(ctx, leagueID)
		})
	})
	wg.Go(func() {
		next = s.fetchSource(ctx, "next", leagueID, func(ctx context.Context) ([]fixture.Fixture, error) {
			return s.source.NextLeagueEvents(ctx, leagueID)
		})
	})
	wg.Go(func() {
		seasonal = s.fetchSource(ctx, "season", leagueID, func(ctx context.Context) ([]fixture.Fixture, error) {
			return s.source.SeasonEvents(ctx, leagueID, season)
		})
	})
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := fixture.MergeUnique(past, next, seasonal)
	fixture.SortByKickoff(merged)
	window := fixture.FilterWindow(merged, now)

	if err := s.fixtureRepo.ReplaceLeague(ctx, leagueID, window); err != nil {
		return nil, fmt.Errorf("store fixture window: %w", err)
	}

	s.logger.DebugContext(ctx, "fixture window fetched",
		"league_id", leagueID,
		"season", season,
		"past", len(past),
		"next", len(next),
		"season_events", len(seasonal),
		"window", len(window),
	)
	return window, nil
}

func (s *FixtureService) fetchSource(
	ctx context.Context,
	name, leagueID string,
	fetch func(ctx context.Context) ([]fixture.Fixture, error),
) []fixture.Fixture {
	var (
		items []fixture.Fixture
		err   error
	)
	var catcher panics.Catcher
	catcher.Try(func() {
		items, err = fetch(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = recovered.AsError()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "fixture source failed, continuing without it",
			"source", name,
			"league_id", leagueID,
			"error", err,
		)
		return nil
	}
	return items
}

// GetFixtures returns the league window, served from cache for one poll interval.
func (s *FixtureService) GetFixtures(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetFixtures", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	return s.cache.GetOrLoad(ctx, cache.Key("fixtures", leagueID), func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.FetchWindow(ctx, leagueID, s.now().UTC())
	})
}

// Refresh bypasses the cache and stores the fresh window.
func (s *FixtureService) Refresh(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	window, err := s.FetchWindow(ctx, leagueID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.Key("fixtures", strings.TrimSpace(leagueID)), window)
	return window, nil
}

// ListStored returns the last window stored for the league without calling upstream.
func (s *FixtureService) ListStored(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	items, err := s.fixtureRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by league: %w", err)
	}
	return items, nil
}
