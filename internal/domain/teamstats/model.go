package teamstats

import (
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
)

// SideStats are the per-team counters derivable from the match record.
type SideStats struct {
	Goals       int `json:"goals"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
}

// MatchStats compares both teams of one match.
type MatchStats struct {
	FixtureID string    `json:"fixture_id"`
	Home      SideStats `json:"home"`
	Away      SideStats `json:"away"`
}

// FromDetails counts goals from the scores and cards from the delimited card fields.
// Absent scores count as zero.
func FromDetails(d fixture.Details) MatchStats {
	return MatchStats{
		FixtureID: d.ID,
		Home: SideStats{
			Goals:       d.HomeScore.OrZero(),
			YellowCards: countEntries(d.HomeYellowCards),
			RedCards:    countEntries(d.HomeRedCards),
		},
		Away: SideStats{
			Goals:       d.AwayScore.OrZero(),
			YellowCards: countEntries(d.AwayYellowCards),
			RedCards:    countEntries(d.AwayRedCards),
		},
	}
}

// HasStats is false when every counter is zero.
func (s MatchStats) HasStats() bool {
	return s.Home != (SideStats{}) || s.Away != (SideStats{})
}

func countEntries(raw string) int {
	return len(lineup.SplitPlayers(raw))
}
