package fixture

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Team identifies one side of a fixture.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Badge string `json:"badge,omitempty"`
}

// Fixture is one scheduled or played match as reported upstream.
type Fixture struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LeagueID  string `json:"league_id"`
	League    string `json:"league"`
	Season    string `json:"season"`
	HomeTeam  Team   `json:"home_team"`
	AwayTeam  Team   `json:"away_team"`
	HomeScore Score  `json:"home_score"`
	AwayScore Score  `json:"away_score"`
	// Status is free text; upstream reuses it for kickoff clock or date before a match.
	Status   string `json:"status"`
	Progress string `json:"progress,omitempty"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue,omitempty"`
	Thumb    string `json:"thumb,omitempty"`
	Video    string `json:"video,omitempty"`
}

// LineupFields holds the raw semicolon separated lineup strings for one side.
type LineupFields struct {
	Goalkeeper string `json:"goalkeeper,omitempty"`
	Defense    string `json:"defense,omitempty"`
	Midfield   string `json:"midfield,omitempty"`
	Forward    string `json:"forward,omitempty"`
}

// Details is a fixture enriched with the raw delimited event and lineup fields.
type Details struct {
	Fixture

	Description     string       `json:"description,omitempty"`
	HomeGoalDetails string       `json:"home_goal_details,omitempty"`
	AwayGoalDetails string       `json:"away_goal_details,omitempty"`
	HomeYellowCards string       `json:"home_yellow_cards,omitempty"`
	AwayYellowCards string       `json:"away_yellow_cards,omitempty"`
	HomeRedCards    string       `json:"home_red_cards,omitempty"`
	AwayRedCards    string       `json:"away_red_cards,omitempty"`
	HomeLineup      LineupFields `json:"home_lineup"`
	AwayLineup      LineupFields `json:"away_lineup"`
}

// DetailsFromFixture builds a partial details record, used as a seed before the lookup returns.
func DetailsFromFixture(f Fixture) Details {
	return Details{Fixture: f}
}

// Score is an optional integer score. The zero value means "not played yet".
type Score struct {
	value int
	valid bool
}

func NewScore(v int) Score {
	return Score{value: v, valid: true}
}

// ParseScore accepts the textual forms the upstream uses. Blank or non-numeric text is absent.
func ParseScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return Score{}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return Score{}
	}
	return NewScore(v)
}

func (s Score) Valid() bool {
	return s.valid
}

func (s Score) Value() (int, bool) {
	return s.value, s.valid
}

// OrZero returns the score, or zero when absent.
func (s Score) OrZero() int {
	if !s.valid {
		return 0
	}
	return s.value
}

func (s Score) String() string {
	if !s.valid {
		return ""
	}
	return strconv.Itoa(s.value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.value)), nil
}

func (s *Score) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	*s = ParseScore(text)
	return nil
}

// HasScores reports whether both sides carry a score.
func (f Fixture) HasScores() bool {
	return f.HomeScore.Valid() && f.AwayScore.Valid()
}

// HasAnyScore reports whether at least one side carries a score.
func (f Fixture) HasAnyScore() bool {
	return f.HomeScore.Valid() || f.AwayScore.Valid()
}

// ParseDate parses the fixture calendar date in UTC.
func (f Fixture) ParseDate() (time.Time, bool) {
	date := strings.TrimSpace(f.Date)
	if len(date) > len(DateLayout) {
		date = date[:len(DateLayout)]
	}
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Kickoff combines date and time in UTC. A missing or malformed time yields midnight.
func (f Fixture) Kickoff() (time.Time, bool) {
	day, ok := f.ParseDate()
	if !ok {
		return time.Time{}, false
	}
	clock, ok := parseClock(f.Time)
	if !ok {
		return day, true
	}
	return day.Add(clock), true
}

// KickoffClock returns the kickoff time as HH:MM, or an empty string when unknown.
func (f Fixture) KickoffClock() string {
	clock := strings.TrimSpace(f.Time)
	if len(clock) < 5 {
		return ""
	}
	return clock[:5]
}

func parseClock(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if i := strings.IndexAny(raw, "+Z"); i > 0 {
		raw = raw[:i]
	}
	for _, layout := range []string{TimeLayout, "15:04"} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return time.Duration(parsed.Hour())*time.Hour +
				time.Duration(parsed.Minute())*time.Minute +
				time.Duration(parsed.Second())*time.Second, true
		}
	}
	return 0, false
}
