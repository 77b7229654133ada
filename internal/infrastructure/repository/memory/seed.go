package memory

import "github.com/riskibarqy/matchday/internal/domain/league"

const (
	LeagueIDPremierLeague = "4328"
	LeagueIDLaLiga        = "4335"
	LeagueIDSerieA        = "4332"
	LeagueIDBundesliga    = "4331"
	LeagueIDLigue1        = "4334"
)

// SeedLeagues returns the followable league catalog. defaultID marks the league
// shown when a request names none.
func SeedLeagues(defaultID string) []league.League {
	leagues := []league.League{
		{ID: LeagueIDPremierLeague, Name: "Premier League", Code: "PL", CountryCode: "GB"},
		{ID: LeagueIDLaLiga, Name: "La Liga", Code: "LL", CountryCode: "ES"},
		{ID: LeagueIDSerieA, Name: "Serie A", Code: "SA", CountryCode: "IT"},
		{ID: LeagueIDBundesliga, Name: "Bundesliga", Code: "BL", CountryCode: "DE"},
		{ID: LeagueIDLigue1, Name: "Ligue 1", Code: "L1", CountryCode: "FR"},
	}
	if defaultID == "" {
		defaultID = LeagueIDPremierLeague
	}
	for i := range leagues {
		leagues[i].IsDefault = leagues[i].ID == defaultID
	}
	return leagues
}
