package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

// FixtureRepository keeps the latest fetched window per league plus an id index
// spanning every league, used to seed match views.
type FixtureRepository struct {
	mu               sync.RWMutex
	fixturesByLeague map[string][]fixture.Fixture
	index            map[string]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{
		fixturesByLeague: make(map[string][]fixture.Fixture),
		index:            make(map[string]fixture.Fixture),
	}
	for _, item := range fixtures {
		r.fixturesByLeague[item.LeagueID] = append(r.fixturesByLeague[item.LeagueID], item)
		r.index[item.ID] = item
	}
	return r
}

func (r *FixtureRepository) ReplaceLeague(_ context.Context, leagueID string, fixtures []fixture.Fixture) error {
	items := make([]fixture.Fixture, len(fixtures))
	copy(items, fixtures)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.fixturesByLeague[leagueID] = items
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		r.index[item.ID] = item
	}
	return nil
}

func (r *FixtureRepository) ListByLeague(_ context.Context, leagueID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.fixturesByLeague[leagueID]
	out := make([]fixture.Fixture, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.index[fixtureID]
	return item, ok, nil
}
