package fixture

import (
	"regexp"
	"strings"
	"time"
)

// Phase is the derived lifecycle position of a fixture.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseLive     Phase = "live"
	PhaseFinished Phase = "finished"
)

// staleStatusAfter is how long after kickoff a scored fixture counts as completed
// even when the status text was never updated.
const staleStatusAfter = 3 * time.Hour

var (
	clockStatusRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	dateStatusRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var notLiveStatuses = map[string]struct{}{
	"ns":              {},
	"not started":     {},
	"ft":              {},
	"match finished":  {},
	"finished":        {},
	"ppd":             {},
	"postponed":       {},
	"match postponed": {},
	"pst":             {},
	"tbd":             {},
	"abd":             {},
	"abandoned":       {},
	"match abandoned": {},
	"canc":            {},
	"cancelled":       {},
	"match cancelled": {},
	"int":             {},
	"interrupted":     {},
}

var notLiveFragments = []string{"postponed", "finished", "cancelled", "abandoned"}

var finishedStatuses = map[string]struct{}{
	"ft":             {},
	"match finished": {},
	"finished":       {},
	"aet":            {},
	"pen":            {},
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsLive treats any non-empty status outside the terminal and pre-match sets as in progress.
// Unknown markers such as "1H", "45+2'" or "ET" are reported live.
func IsLive(status string) bool {
	s := normalizeStatus(status)
	if s == "" {
		return false
	}
	if _, ok := notLiveStatuses[s]; ok {
		return false
	}
	for _, fragment := range notLiveFragments {
		if strings.Contains(s, fragment) {
			return false
		}
	}
	if clockStatusRegex.MatchString(s) || dateStatusRegex.MatchString(s) {
		return false
	}
	return true
}

func IsFinished(status string) bool {
	_, ok := finishedStatuses[normalizeStatus(status)]
	return ok
}

// IsCompleted falls back to scores and kickoff age when the status text is stale.
func IsCompleted(status string, home, away Score, kickoff, now time.Time) bool {
	if IsFinished(status) {
		return true
	}
	if !home.Valid() || !away.Valid() || kickoff.IsZero() {
		return false
	}
	return kickoff.Before(now.Add(-staleStatusAfter))
}

// Completed applies IsCompleted to a fixture using its scheduled kickoff.
func (f Fixture) Completed(now time.Time) bool {
	kickoff, _ := f.Kickoff()
	return IsCompleted(f.Status, f.HomeScore, f.AwayScore, kickoff, now)
}

// Classify resolves the phase; completion wins over a live-looking status.
func Classify(f Fixture, now time.Time) Phase {
	switch {
	case f.Completed(now):
		return PhaseFinished
	case IsLive(f.Status):
		return PhaseLive
	default:
		return PhaseUpcoming
	}
}

// DisplayStatus is the short status shown next to a fixture in lists.
func DisplayStatus(f Fixture, now time.Time) string {
	switch Classify(f, now) {
	case PhaseFinished:
		return "FT"
	case PhaseLive:
		if progress := strings.TrimSpace(f.Progress); progress != "" {
			return progress
		}
		return strings.TrimSpace(f.Status)
	}
	if clock := f.KickoffClock(); clock != "" {
		return clock
	}
	return "--:--"
}
