package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/league"
)

// LeagueRepository is the static league catalog, listed in seed order.
type LeagueRepository struct {
	mu    sync.RWMutex
	items map[string]league.League
	order []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	order := make([]string, 0, len(leagues))
	for _, l := range leagues {
		if _, dup := items[l.ID]; !dup {
			order = append(order, l.ID)
		}
		items[l.ID] = l
	}

	return &LeagueRepository{items: items, order: order}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	return l, ok, nil
}
