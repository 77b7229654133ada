package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	fixturemock "github.com/riskibarqy/matchday/internal/mocks/domain/fixture"
	"github.com/stretchr/testify/mock"
)

var fixtureTestNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestFixtureService(source fixture.Source, repo fixture.Repository) *FixtureService {
	return NewFixtureService(source, repo, FixtureServiceConfig{
		CacheTTL: time.Minute,
		Now:      func() time.Time { return fixtureTestNow },
	})
}

func TestFixtureService_FetchWindow_MergesSortsAndFiltersUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-123")
	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestFixtureService(source, repo)

	leagueID := "4328"
	source.
		On("PastLeagueEvents", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return([]fixture.Fixture{
			{ID: "101", Name: "from past", Date: "2025-03-08", Time: "15:00:00"},
		}, nil).
		Once()
	source.
		On("NextLeagueEvents", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return([]fixture.Fixture{
			{ID: "102", Date: "2025-03-15", Time: "17:30:00"},
			{ID: "101", Name: "from next", Date: "2025-03-08", Time: "15:00:00"},
			{ID: "103", Date: "2025-03-08", Time: "12:30:00"},
		}, nil).
		Once()
	source.
		On("SeasonEvents", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID, "2024-2025").
		Return([]fixture.Fixture{
			{ID: "90", Date: "2025-01-02"},
			{ID: "", Date: "2025-03-09"},
			{ID: "104", Date: "2025-04-30"},
		}, nil).
		Once()

	var stored []fixture.Fixture
	repo.
		On("ReplaceLeague", mock.Anything, leagueID, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(2).([]fixture.Fixture) }).
		Return(nil).
		Once()

	got, err := service.FetchWindow(ctx, leagueID, fixtureTestNow)
	if err != nil {
		t.Fatalf("fetch window: %v", err)
	}

	wantIDs := []string{"103", "101", "102"}
	if len(got) != len(wantIDs) {
		t.Fatalf("unexpected window size: got=%d want=%d (%+v)", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("unexpected order at %d: got=%s want=%s", i, got[i].ID, id)
		}
	}
	if got[1].Name != "from past" {
		t.Fatalf("expected first occurrence to win, got=%q", got[1].Name)
	}
	if len(stored) != len(got) {
		t.Fatalf("expected window to be stored, got=%d", len(stored))
	}
}

func TestFixtureService_FetchWindow_PartialSourceFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestFixtureService(source, repo)

	leagueID := "4335"
	source.On("PastLeagueEvents", mock.Anything, leagueID).
		Return(nil, &NetworkError{Op: "GET /eventspastleague.php", Err: errors.New("connection reset")}).
		Once()
	source.On("NextLeagueEvents", mock.Anything, leagueID).
		Run(func(mock.Arguments) { panic("decoder exploded") }).
		Return(nil, nil).
		Once()
	source.On("SeasonEvents", mock.Anything, leagueID, "2024-2025").
		Return([]fixture.Fixture{{ID: "201", Date: "2025-03-11"}}, nil).
		Once()
	repo.On("ReplaceLeague", mock.Anything, leagueID, mock.Anything).Return(nil).Once()

	got, err := service.FetchWindow(ctx, leagueID, fixtureTestNow)
	if err != nil {
		t.Fatalf("expected partial failure to be tolerated, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "201" {
		t.Fatalf("unexpected window: %+v", got)
	}
}

func TestFixtureService_FetchWindow_AllSourcesEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestFixtureService(source, repo)

	source.On("PastLeagueEvents", mock.Anything, "4332").Return([]fixture.Fixture{}, nil).Once()
	source.On("NextLeagueEvents", mock.Anything, "4332").Return([]fixture.Fixture{}, nil).Once()
	source.On("SeasonEvents", mock.Anything, "4332", "2024-2025").Return([]fixture.Fixture{}, nil).Once()
	repo.On("ReplaceLeague", mock.Anything, "4332", mock.Anything).Return(nil).Once()

	got, err := service.FetchWindow(context.Background(), "4332", fixtureTestNow)
	if err != nil {
		t.Fatalf("fetch window: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil window, got=%v", got)
	}
}

func TestFixtureService_FetchWindow_RequiresLeagueID(t *testing.T) {
	t.Parallel()

	service := newTestFixtureService(fixturemock.NewSource(t), fixturemock.NewRepository(t))

	_, err := service.FetchWindow(context.Background(), "  ", fixtureTestNow)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFixtureService_GetFixtures_CachesWindowUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestFixtureService(source, repo)

	source.On("PastLeagueEvents", mock.Anything, "4331").Return([]fixture.Fixture{{ID: "301", Date: "2025-03-09"}}, nil).Once()
	source.On("NextLeagueEvents", mock.Anything, "4331").Return([]fixture.Fixture{}, nil).Once()
	source.On("SeasonEvents", mock.Anything, "4331", "2024-2025").Return([]fixture.Fixture{}, nil).Once()
	repo.On("ReplaceLeague", mock.Anything, "4331", mock.Anything).Return(nil).Once()

	for i := 0; i < 3; i++ {
		got, err := service.GetFixtures(context.Background(), "4331")
		if err != nil {
			t.Fatalf("get fixtures: %v", err)
		}
		if len(got) != 1 || got[0].ID != "301" {
			t.Fatalf("unexpected fixtures: %+v", got)
		}
	}
}

func TestFixtureService_ListStored_UsesRepositoryUsingMockery(t *testing.T) {
	t.Parallel()

	repo := fixturemock.NewRepository(t)
	service := newTestFixtureService(fixturemock.NewSource(t), repo)

	repo.On("ListByLeague", mock.Anything, "4334").
		Return(nil, errors.New("boom")).
		Once()

	if _, err := service.ListStored(context.Background(), "4334"); err == nil {
		t.Fatalf("expected repository error")
	}
}
