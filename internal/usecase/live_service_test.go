package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

type stubLeagueRefresher struct {
	calls atomic.Int32
	items []fixture.Fixture
	err   error
}

func (s *stubLeagueRefresher) Refresh(context.Context, string) ([]fixture.Fixture, error) {
	s.calls.Add(1)
	return s.items, s.err
}

type stubMatchSource struct {
	details fixture.Details
	found   bool
	err     error
	seed    *fixture.Details
}

func (s *stubMatchSource) FetchByID(context.Context, string) (fixture.Details, bool, error) {
	return s.details, s.found, s.err
}

func (s *stubMatchSource) Seed(context.Context, string) (*fixture.Details, error) {
	return s.seed, nil
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLiveService(leagues liveLeagueSource, matches liveMatchSource, clock *manualClock) *LiveService {
	return NewLiveService(leagues, matches, LiveServiceConfig{
		Interval:    time.Hour,
		IdleTimeout: time.Minute,
		Now:         clock.Now,
	})
}

func boundedContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLiveService_LeagueSnapshotReusesController(t *testing.T) {
	t.Parallel()

	leagues := &stubLeagueRefresher{items: []fixture.Fixture{{ID: "101"}}}
	service := newTestLiveService(leagues, &stubMatchSource{}, &manualClock{now: time.Now()})
	defer service.Close()

	for i := 0; i < 3; i++ {
		snap, err := service.LeagueSnapshot(boundedContext(t), "4328")
		if err != nil {
			t.Fatalf("league snapshot: %v", err)
		}
		if !snap.HasData || len(snap.Data) != 1 || snap.Key != "4328" {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	}
	if got := leagues.calls.Load(); got != 1 {
		t.Fatalf("expected a single controller fetch, got=%d", got)
	}
}

func TestLiveService_LeagueSnapshotSurfacesErrorWithoutData(t *testing.T) {
	t.Parallel()

	leagues := &stubLeagueRefresher{err: ErrDependencyUnavailable}
	service := newTestLiveService(leagues, &stubMatchSource{}, &manualClock{now: time.Now()})
	defer service.Close()

	snap, err := service.LeagueSnapshot(boundedContext(t), "4335")
	if err != nil {
		t.Fatalf("league snapshot: %v", err)
	}
	if !errors.Is(snap.Err, ErrDependencyUnavailable) || snap.HasData {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestLiveService_MatchSnapshotSeedAndMismatch(t *testing.T) {
	t.Parallel()

	seed := fixture.DetailsFromFixture(fixture.Fixture{ID: "2070001", Status: "NS"})
	matches := &stubMatchSource{
		err:  errors.Join(ErrServerDataMismatch, errors.New("requested=2070001 returned=1")),
		seed: &seed,
	}
	service := newTestLiveService(&stubLeagueRefresher{}, matches, &manualClock{now: time.Now()})
	defer service.Close()

	updates, unsubscribe, err := service.SubscribeMatch(boundedContext(t), "2070001")
	if err != nil {
		t.Fatalf("subscribe match: %v", err)
	}
	defer unsubscribe()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-updates:
			if snap.Err == nil {
				continue
			}
			if !errors.Is(snap.Err, ErrServerDataMismatch) || snap.Data.ID != "2070001" {
				t.Fatalf("expected mismatch with seeded data kept, got %+v", snap)
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for mismatch snapshot")
		}
	}
}

func TestLiveService_MatchSnapshotNotFound(t *testing.T) {
	t.Parallel()

	service := newTestLiveService(&stubLeagueRefresher{}, &stubMatchSource{}, &manualClock{now: time.Now()})
	defer service.Close()

	snap, err := service.MatchSnapshot(boundedContext(t), "404")
	if err != nil {
		t.Fatalf("match snapshot: %v", err)
	}
	if !snap.NoData || snap.Err != nil {
		t.Fatalf("expected no-data snapshot, got %+v", snap)
	}
}

func TestLiveService_EvictIdle(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 3, 8, 15, 0, 0, 0, time.UTC)}
	service := newTestLiveService(&stubLeagueRefresher{}, &stubMatchSource{}, clock)
	defer service.Close()

	service.watchLeague("4328", true)
	service.watchLeague("4335", false)
	_, unsubscribe, err := service.SubscribeLeague("4332")
	if err != nil {
		t.Fatalf("subscribe league: %v", err)
	}
	if _, err := service.watchMatch(context.Background(), "2070001"); err != nil {
		t.Fatalf("watch match: %v", err)
	}

	clock.Advance(2 * time.Minute)
	if got := service.EvictIdle(); got != 2 {
		t.Fatalf("expected idle league and match to be evicted, got=%d", got)
	}

	unsubscribe()
	if got := service.EvictIdle(); got != 0 {
		t.Fatalf("expected recently released feed to survive, got=%d", got)
	}
	clock.Advance(2 * time.Minute)
	if got := service.EvictIdle(); got != 1 {
		t.Fatalf("expected released feed to be evicted, got=%d", got)
	}

	service.mu.Lock()
	_, pinned := service.leagueFeed["4328"]
	service.mu.Unlock()
	if !pinned {
		t.Fatalf("pinned league must never be evicted")
	}
}

func TestLiveService_RequiresIDs(t *testing.T) {
	t.Parallel()

	service := newTestLiveService(&stubLeagueRefresher{}, &stubMatchSource{}, &manualClock{now: time.Now()})

	if _, err := service.LeagueSnapshot(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.MatchSnapshot(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := service.SubscribeLeague(""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
