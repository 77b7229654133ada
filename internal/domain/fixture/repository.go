package fixture

import "context"

// Repository keeps the latest fixture window per league. A window is replaced wholesale.
type Repository interface {
	ReplaceLeague(ctx context.Context, leagueID string, fixtures []Fixture) error
	ListByLeague(ctx context.Context, leagueID string) ([]Fixture, error)
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
}
