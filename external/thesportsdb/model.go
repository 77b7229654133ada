package thesportsdb

import (
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

// eventsEnvelope is the shape of every events endpoint. The provider sends
// "events": null when a league has nothing to report.
type eventsEnvelope struct {
	Events []eventPayload `json:"events"`
}

type eventPayload struct {
	IDEvent          string        `json:"idEvent"`
	StrEvent         string        `json:"strEvent"`
	IDLeague         string        `json:"idLeague"`
	StrLeague        string        `json:"strLeague"`
	StrSeason        string        `json:"strSeason"`
	IDHomeTeam       string        `json:"idHomeTeam"`
	IDAwayTeam       string        `json:"idAwayTeam"`
	StrHomeTeam      string        `json:"strHomeTeam"`
	StrAwayTeam      string        `json:"strAwayTeam"`
	StrHomeTeamBadge string        `json:"strHomeTeamBadge"`
	StrAwayTeamBadge string        `json:"strAwayTeamBadge"`
	IntHomeScore     fixture.Score `json:"intHomeScore"`
	IntAwayScore     fixture.Score `json:"intAwayScore"`
	StrStatus        string        `json:"strStatus"`
	StrProgress      string        `json:"strProgress"`
	DateEvent        string        `json:"dateEvent"`
	StrTime          string        `json:"strTime"`
	StrVenue         string        `json:"strVenue"`
	StrThumb         string        `json:"strThumb"`
	StrVideo         string        `json:"strVideo"`

	StrDescriptionEN        string `json:"strDescriptionEN"`
	StrHomeGoalDetails      string `json:"strHomeGoalDetails"`
	StrAwayGoalDetails      string `json:"strAwayGoalDetails"`
	StrHomeYellowCards      string `json:"strHomeYellowCards"`
	StrAwayYellowCards      string `json:"strAwayYellowCards"`
	StrHomeRedCards         string `json:"strHomeRedCards"`
	StrAwayRedCards         string `json:"strAwayRedCards"`
	StrHomeLineupGoalkeeper string `json:"strHomeLineupGoalkeeper"`
	StrHomeLineupDefense    string `json:"strHomeLineupDefense"`
	StrHomeLineupMidfield   string `json:"strHomeLineupMidfield"`
	StrHomeLineupForward    string `json:"strHomeLineupForward"`
	StrAwayLineupGoalkeeper string `json:"strAwayLineupGoalkeeper"`
	StrAwayLineupDefense    string `json:"strAwayLineupDefense"`
	StrAwayLineupMidfield   string `json:"strAwayLineupMidfield"`
	StrAwayLineupForward    string `json:"strAwayLineupForward"`
}

func (p eventPayload) toFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:       strings.TrimSpace(p.IDEvent),
		Name:     strings.TrimSpace(p.StrEvent),
		LeagueID: strings.TrimSpace(p.IDLeague),
		League:   strings.TrimSpace(p.StrLeague),
		Season:   strings.TrimSpace(p.StrSeason),
		HomeTeam: fixture.Team{
			ID:    strings.TrimSpace(p.IDHomeTeam),
			Name:  strings.TrimSpace(p.StrHomeTeam),
			Badge: strings.TrimSpace(p.StrHomeTeamBadge),
		},
		AwayTeam: fixture.Team{
			ID:    strings.TrimSpace(p.IDAwayTeam),
			Name:  strings.TrimSpace(p.StrAwayTeam),
			Badge: strings.TrimSpace(p.StrAwayTeamBadge),
		},
		HomeScore: p.IntHomeScore,
		AwayScore: p.IntAwayScore,
		Status:    strings.TrimSpace(p.StrStatus),
		Progress:  strings.TrimSpace(p.StrProgress),
		Date:      strings.TrimSpace(p.DateEvent),
		Time:      strings.TrimSpace(p.StrTime),
		Venue:     strings.TrimSpace(p.StrVenue),
		Thumb:     strings.TrimSpace(p.StrThumb),
		Video:     strings.TrimSpace(p.StrVideo),
	}
}

func (p eventPayload) toDetails() fixture.Details {
	return fixture.Details{
		Fixture:         p.toFixture(),
		Description:     p.StrDescriptionEN,
		HomeGoalDetails: p.StrHomeGoalDetails,
		AwayGoalDetails: p.StrAwayGoalDetails,
		HomeYellowCards: p.StrHomeYellowCards,
		AwayYellowCards: p.StrAwayYellowCards,
		HomeRedCards:    p.StrHomeRedCards,
		AwayRedCards:    p.StrAwayRedCards,
		HomeLineup: fixture.LineupFields{
			Goalkeeper: p.StrHomeLineupGoalkeeper,
			Defense:    p.StrHomeLineupDefense,
			Midfield:   p.StrHomeLineupMidfield,
			Forward:    p.StrHomeLineupForward,
		},
		AwayLineup: fixture.LineupFields{
			Goalkeeper: p.StrAwayLineupGoalkeeper,
			Defense:    p.StrAwayLineupDefense,
			Midfield:   p.StrAwayLineupMidfield,
			Forward:    p.StrAwayLineupForward,
		},
	}
}
