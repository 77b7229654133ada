package favorite

import "context"

// Repository holds the fixture ids a client marked as favorite.
// Favorites are owned by the client; the fixture core only reads them.
type Repository interface {
	List(ctx context.Context, clientID string) ([]string, error)
	Add(ctx context.Context, clientID, fixtureID string) error
	Remove(ctx context.Context, clientID, fixtureID string) error
}

// Set is a lookup view over a client's favorites.
type Set map[string]struct{}

func NewSet(ids []string) Set {
	out := make(Set, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (s Set) Has(fixtureID string) bool {
	_, ok := s[fixtureID]
	return ok
}
