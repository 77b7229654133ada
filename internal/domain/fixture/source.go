package fixture

import "context"

// Source is the upstream sports data provider. List calls return an empty slice,
// never nil, when the provider reports no events.
type Source interface {
	NextLeagueEvents(ctx context.Context, leagueID string) ([]Fixture, error)
	PastLeagueEvents(ctx context.Context, leagueID string) ([]Fixture, error)
	SeasonEvents(ctx context.Context, leagueID, season string) ([]Fixture, error)
	// LookupEvent reports found=false when the provider has no record for id.
	LookupEvent(ctx context.Context, id string) (Details, bool, error)
}
