package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

func TestFixtureRepository_ReplaceLeague(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFixtureRepository(nil)

	first := []fixture.Fixture{{ID: "1", LeagueID: "4328"}, {ID: "2", LeagueID: "4328"}}
	if err := repo.ReplaceLeague(ctx, "4328", first); err != nil {
		t.Fatalf("replace league: %v", err)
	}
	if err := repo.ReplaceLeague(ctx, "4328", []fixture.Fixture{{ID: "3", LeagueID: "4328"}}); err != nil {
		t.Fatalf("replace league: %v", err)
	}

	items, _ := repo.ListByLeague(ctx, "4328")
	if len(items) != 1 || items[0].ID != "3" {
		t.Fatalf("expected window to be replaced, got=%+v", items)
	}

	// The id index outlives a window so previously seen fixtures can still seed a match view.
	if _, ok, _ := repo.GetByID(ctx, "1"); !ok {
		t.Fatalf("expected fixture 1 to stay indexed")
	}
	if _, ok, _ := repo.GetByID(ctx, "missing"); ok {
		t.Fatalf("expected unknown id to be absent")
	}
}

func TestFixtureRepository_ListReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFixtureRepository([]fixture.Fixture{{ID: "1", LeagueID: "4328", Status: "NS"}})

	items, _ := repo.ListByLeague(ctx, "4328")
	items[0].Status = "FT"

	again, _ := repo.ListByLeague(ctx, "4328")
	if again[0].Status != "NS" {
		t.Fatalf("expected repository to be isolated from caller mutation")
	}
}

func TestFavoriteRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFavoriteRepository()
	_ = repo.Add(ctx, "client-a", "2")
	_ = repo.Add(ctx, "client-a", "1")
	_ = repo.Add(ctx, "client-a", "1")
	_ = repo.Add(ctx, "client-b", "9")

	ids, _ := repo.List(ctx, "client-a")
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Fatalf("unexpected favorites: %v", ids)
	}

	_ = repo.Remove(ctx, "client-a", "1")
	_ = repo.Remove(ctx, "client-a", "2")
	_ = repo.Remove(ctx, "nobody", "2")
	if ids, _ := repo.List(ctx, "client-a"); len(ids) != 0 {
		t.Fatalf("expected empty favorites, got %v", ids)
	}
}

func TestSeedLeagues(t *testing.T) {
	t.Parallel()

	leagues := SeedLeagues(LeagueIDSerieA)
	if len(leagues) != 5 {
		t.Fatalf("expected 5 leagues, got=%d", len(leagues))
	}
	defaults := 0
	for _, l := range leagues {
		if err := l.Validate(); err != nil {
			t.Fatalf("invalid seed league %+v: %v", l, err)
		}
		if l.IsDefault {
			defaults++
			if l.ID != LeagueIDSerieA {
				t.Fatalf("unexpected default league: %s", l.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default league, got=%d", defaults)
	}

	repo := NewLeagueRepository(SeedLeagues(""))
	got, ok, _ := repo.GetByID(context.Background(), LeagueIDPremierLeague)
	if !ok || !got.IsDefault {
		t.Fatalf("expected premier league as fallback default, got=%+v", got)
	}
}
