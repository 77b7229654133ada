package fixture

import (
	"fmt"
	"sort"
	"time"
)

const (
	seasonStartMonth = time.August
	windowLookBack   = 7 * 24 * time.Hour
	windowLookAhead  = 30 * 24 * time.Hour
)

// SeasonLabel returns the "YYYY-YYYY" label of the season containing now.
// Seasons start in August.
func SeasonLabel(now time.Time) string {
	startYear := now.Year()
	if now.Month() < seasonStartMonth {
		startYear--
	}
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}

// MergeUnique concatenates the sources in order and keeps the first fixture seen per id.
// Fixtures without an id are dropped.
func MergeUnique(sources ...[]Fixture) []Fixture {
	size := 0
	for _, items := range sources {
		size += len(items)
	}

	seen := make(map[string]struct{}, size)
	out := make([]Fixture, 0, size)
	for _, items := range sources {
		for _, item := range items {
			if item.ID == "" {
				continue
			}
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// SortByKickoff orders fixtures by date then time, keeping input order for ties.
// Fixtures with an unparseable date sort first.
func SortByKickoff(items []Fixture) {
	keys := make(map[string]time.Time, len(items))
	for _, item := range items {
		kickoff, _ := item.Kickoff()
		keys[item.ID] = kickoff
	}
	sort.SliceStable(items, func(i, j int) bool {
		return keys[items[i].ID].Before(keys[items[j].ID])
	})
}

// InWindow reports whether the fixture date parses, is no older than the previous
// calendar year, and falls within [now-7d, now+30d].
func InWindow(f Fixture, now time.Time) bool {
	day, ok := f.ParseDate()
	if !ok {
		return false
	}
	if day.Year() < now.Year()-1 {
		return false
	}
	start := now.Add(-windowLookBack)
	end := now.Add(windowLookAhead)
	return !day.Before(start) && !day.After(end)
}

// FilterWindow keeps the fixtures accepted by InWindow.
func FilterWindow(items []Fixture, now time.Time) []Fixture {
	out := make([]Fixture, 0, len(items))
	for _, item := range items {
		if InWindow(item, now) {
			out = append(out, item)
		}
	}
	return out
}

// SameDay reports whether the fixture is scheduled on the calendar day of day.
func SameDay(f Fixture, day time.Time) bool {
	parsed, ok := f.ParseDate()
	if !ok {
		return false
	}
	y1, m1, d1 := parsed.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
