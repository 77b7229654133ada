package memory

import (
	"context"
	"sort"
	"sync"
)

// FavoriteRepository stores favorite fixture ids per client key.
type FavoriteRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]struct{}
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{items: make(map[string]map[string]struct{})}
}

func (r *FavoriteRepository) List(_ context.Context, clientID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.items[clientID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *FavoriteRepository) Add(_ context.Context, clientID, fixtureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.items[clientID]
	if !ok {
		set = make(map[string]struct{})
		r.items[clientID] = set
	}
	set[fixtureID] = struct{}{}
	return nil
}

func (r *FavoriteRepository) Remove(_ context.Context, clientID, fixtureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.items[clientID]
	if !ok {
		return nil
	}
	delete(set, fixtureID)
	if len(set) == 0 {
		delete(r.items, clientID)
	}
	return nil
}
