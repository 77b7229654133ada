package lineup

import (
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

const playerSeparator = ";"

// Side is one team's starting players grouped by position line.
type Side struct {
	Goalkeepers []string `json:"goalkeepers"`
	Defenders   []string `json:"defenders"`
	Midfielders []string `json:"midfielders"`
	Forwards    []string `json:"forwards"`
}

// Lineups are both sides of a match.
type Lineups struct {
	Home Side `json:"home"`
	Away Side `json:"away"`
}

// Parse splits the raw lineup fields of a match into player names.
func Parse(d fixture.Details) Lineups {
	return Lineups{
		Home: ParseSide(d.HomeLineup),
		Away: ParseSide(d.AwayLineup),
	}
}

func ParseSide(fields fixture.LineupFields) Side {
	return Side{
		Goalkeepers: SplitPlayers(fields.Goalkeeper),
		Defenders:   SplitPlayers(fields.Defense),
		Midfielders: SplitPlayers(fields.Midfield),
		Forwards:    SplitPlayers(fields.Forward),
	}
}

// SplitPlayers splits on ';', trims each name and drops empty entries.
func SplitPlayers(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, playerSeparator) {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (s Side) Count() int {
	return len(s.Goalkeepers) + len(s.Defenders) + len(s.Midfielders) + len(s.Forwards)
}

// Available reports whether either side has at least one named player.
func (l Lineups) Available() bool {
	return l.Home.Count() > 0 || l.Away.Count() > 0
}
