package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

const halftimeMinute = 45

// Input is everything the assembler needs; Err is the fetch failure, if any.
type Input struct {
	Details       *fixture.Details
	Err           error
	Now           time.Time
	HalftimeScore HalftimeScoreMode
}

// Build resolves the view state in order: fetch error, missing match, not started,
// no events, then the timeline itself.
func Build(in Input) View {
	if in.Err != nil {
		return View{State: StateServerError, Error: in.Err.Error()}
	}
	if in.Details == nil {
		return View{State: StateUnavailable}
	}

	d := *in.Details
	completed := d.Completed(in.Now)
	if !d.HasAnyScore() && !completed {
		return View{State: StateNotStarted, Date: d.Date, Kickoff: d.KickoffClock()}
	}

	events := ParseDetails(d)
	if len(events) == 0 {
		return View{State: StateNoEvents, Date: d.Date, Kickoff: d.KickoffClock()}
	}

	return View{
		State:   StateTimeline,
		Date:    d.Date,
		Kickoff: d.KickoffClock(),
		Entries: Assemble(d, events, completed, in.HalftimeScore),
	}
}

// Assemble orders events latest first and interleaves the dividers.
func Assemble(d fixture.Details, events []Event, completed bool, mode HalftimeScoreMode) []Entry {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	SortLatestFirst(sorted)

	var secondHalf, firstHalf []Event
	for _, e := range sorted {
		if e.Minute > halftimeMinute {
			secondHalf = append(secondHalf, e)
		} else {
			firstHalf = append(firstHalf, e)
		}
	}

	out := make([]Entry, 0, len(sorted)+3)
	if completed || d.HasAnyScore() {
		out = append(out, Divider{
			Marker: MarkerFulltime,
			Label:  "Fulltime",
			Score:  formatScore(d.HomeScore.OrZero(), d.AwayScore.OrZero()),
		})
	}
	for _, e := range secondHalf {
		out = append(out, e)
	}
	if len(secondHalf) > 0 && len(firstHalf) > 0 {
		out = append(out, Divider{
			Marker: MarkerHalftime,
			Label:  "Halftime",
			Score:  halftimeScore(firstHalf, mode),
		})
	}
	for _, e := range firstHalf {
		out = append(out, e)
	}
	return append(out, kickoffDivider(d))
}

// SortLatestFirst sorts by minute then stoppage time, descending. Ties keep input order.
func SortLatestFirst(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Minute != events[j].Minute {
			return events[i].Minute > events[j].Minute
		}
		return events[i].Stoppage > events[j].Stoppage
	})
}

func halftimeScore(firstHalf []Event, mode HalftimeScoreMode) string {
	if mode == HalftimeScorePlaceholder {
		return "1 - 0"
	}
	home, away := 0, 0
	for _, e := range firstHalf {
		if e.Type != EventGoal {
			continue
		}
		if e.Side == SideHome {
			home++
		} else {
			away++
		}
	}
	return formatScore(home, away)
}

func kickoffDivider(d fixture.Details) Divider {
	clock := d.KickoffClock()
	if clock == "" {
		clock = "00:00"
	}
	return Divider{Marker: MarkerKickoff, Label: "Kick Off -" + clock}
}

func formatScore(home, away int) string {
	return fmt.Sprintf("%d - %d", home, away)
}
