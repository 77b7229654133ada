package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/timeline"
	fixturemock "github.com/riskibarqy/matchday/internal/mocks/domain/fixture"
	"github.com/stretchr/testify/mock"
)

func newTestMatchService(source fixture.Source, repo fixture.Repository) *MatchService {
	return NewMatchService(source, repo, MatchServiceConfig{
		Now: func() time.Time { return time.Date(2025, 3, 8, 18, 0, 0, 0, time.UTC) },
	})
}

func playedDetails(id string) fixture.Details {
	return fixture.Details{
		Fixture: fixture.Fixture{
			ID:        id,
			HomeTeam:  fixture.Team{ID: "133604", Name: "Arsenal"},
			AwayTeam:  fixture.Team{ID: "133610", Name: "Chelsea"},
			HomeScore: fixture.NewScore(2),
			AwayScore: fixture.NewScore(1),
			Status:    "FT",
			Date:      "2025-03-08",
			Time:      "15:00:00",
		},
		HomeGoalDetails: "12':Saka;50':Havertz",
		AwayGoalDetails: "80':Palmer",
		HomeYellowCards: "33':Rice",
		HomeLineup:      fixture.LineupFields{Goalkeeper: "Raya", Defense: "White; Saliba;Gabriel; "},
	}
}

func TestMatchService_FetchByID_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := fixturemock.NewSource(t)
	service := newTestMatchService(source, fixturemock.NewRepository(t))

	source.
		On("LookupEvent", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "2070001").
		Return(playedDetails("2070001"), true, nil).
		Once()

	got, found, err := service.FetchByID(ctx, " 2070001 ")
	if err != nil || !found {
		t.Fatalf("fetch by id: found=%v err=%v", found, err)
	}
	if got.HomeTeam.Name != "Arsenal" {
		t.Fatalf("unexpected match: %+v", got.Fixture)
	}
}

func TestMatchService_FetchByID_RejectsMismatchedRecordUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	service := newTestMatchService(source, fixturemock.NewRepository(t))

	source.On("LookupEvent", mock.Anything, "2070001").
		Return(playedDetails("999"), true, nil).
		Once()

	got, found, err := service.FetchByID(context.Background(), "2070001")
	if !errors.Is(err, ErrServerDataMismatch) {
		t.Fatalf("expected ErrServerDataMismatch, got %v", err)
	}
	if found || got.ID != "" {
		t.Fatalf("mismatched record must not be returned: %+v", got.Fixture)
	}
}

func TestMatchService_FetchByID_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	service := newTestMatchService(source, fixturemock.NewRepository(t))

	source.On("LookupEvent", mock.Anything, "404").Return(fixture.Details{}, false, nil).Once()

	_, found, err := service.FetchByID(context.Background(), "404")
	if err != nil || found {
		t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
	}
}

func TestMatchService_Timeline_BuildsViewUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	service := newTestMatchService(source, fixturemock.NewRepository(t))

	source.On("LookupEvent", mock.Anything, "2070001").Return(playedDetails("2070001"), true, nil).Once()

	view, err := service.Timeline(context.Background(), "2070001")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if view.State != timeline.StateTimeline {
		t.Fatalf("unexpected state: %s", view.State)
	}
	first, ok := view.Entries[0].(timeline.Divider)
	if !ok || first.Marker != timeline.MarkerFulltime || first.Score != "2 - 1" {
		t.Fatalf("unexpected first entry: %+v", view.Entries[0])
	}
}

func TestMatchService_Timeline_UpstreamFailureWithoutSeedUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestMatchService(source, repo)

	source.On("LookupEvent", mock.Anything, "2070001").
		Return(fixture.Details{}, false, &ServerError{StatusCode: 503}).
		Once()
	repo.On("GetByID", mock.Anything, "2070001").Return(fixture.Fixture{}, false, nil).Once()

	view, err := service.Timeline(context.Background(), "2070001")
	if err != nil {
		t.Fatalf("expected error to be rendered in the view, got %v", err)
	}
	if view.State != timeline.StateServerError || view.Error == "" {
		t.Fatalf("expected server error view, got %+v", view)
	}
}

func TestMatchService_Timeline_FailureWithSeedServesSeedUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestMatchService(source, repo)

	source.On("LookupEvent", mock.Anything, "2070002").
		Return(fixture.Details{}, false, &NetworkError{Op: "GET /lookupevent.php", Err: errors.New("reset")}).
		Once()
	repo.On("GetByID", mock.Anything, "2070002").
		Return(fixture.Fixture{ID: "2070002", Date: "2025-03-09", Time: "16:30:00", Status: "NS"}, true, nil).
		Once()

	view, err := service.Timeline(context.Background(), "2070002")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if view.State != timeline.StateNotStarted || view.Kickoff != "16:30" {
		t.Fatalf("expected seeded not-started view, got %+v", view)
	}
}

func TestMatchService_Timeline_MismatchIsNeverMaskedBySeedUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	service := newTestMatchService(source, fixturemock.NewRepository(t))

	source.On("LookupEvent", mock.Anything, "2070001").Return(playedDetails("1"), true, nil).Once()

	view, err := service.Timeline(context.Background(), "2070001")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if view.State != timeline.StateServerError {
		t.Fatalf("expected server error view, got %s", view.State)
	}
}

func TestMatchService_Timeline_UnavailableUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestMatchService(source, repo)

	source.On("LookupEvent", mock.Anything, "404").Return(fixture.Details{}, false, nil).Once()
	repo.On("GetByID", mock.Anything, "404").Return(fixture.Fixture{}, false, nil).Once()

	view, err := service.Timeline(context.Background(), "404")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if view.State != timeline.StateUnavailable {
		t.Fatalf("expected unavailable view, got %s", view.State)
	}
}

func TestMatchService_Timeline_RequiresID(t *testing.T) {
	t.Parallel()

	service := newTestMatchService(fixturemock.NewSource(t), fixturemock.NewRepository(t))

	if _, err := service.Timeline(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_LineupsAndStatsUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	service := newTestMatchService(source, fixturemock.NewRepository(t))

	source.On("LookupEvent", mock.Anything, "2070001").Return(playedDetails("2070001"), true, nil).Twice()

	lineups, err := service.Lineups(context.Background(), "2070001")
	if err != nil {
		t.Fatalf("lineups: %v", err)
	}
	if got := lineups.Home.Defenders; len(got) != 3 || got[1] != "Saliba" {
		t.Fatalf("unexpected defenders: %v", got)
	}

	stats, err := service.Stats(context.Background(), "2070001")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Home.Goals != 2 || stats.Away.Goals != 1 || stats.Home.YellowCards != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMatchService_Lineups_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	repo := fixturemock.NewRepository(t)
	service := newTestMatchService(source, repo)

	source.On("LookupEvent", mock.Anything, "404").Return(fixture.Details{}, false, nil).Once()
	repo.On("GetByID", mock.Anything, "404").Return(fixture.Fixture{}, false, nil).Once()

	if _, err := service.Lineups(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
