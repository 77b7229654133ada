package timeline

import (
	"errors"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

var testNow = time.Date(2026, 10, 16, 22, 0, 0, 0, time.UTC)

func finishedDetails() fixture.Details {
	return fixture.Details{
		Fixture: fixture.Fixture{
			ID:        "2070001",
			Status:    "Match Finished",
			Date:      "2026-10-16",
			Time:      "15:00:00",
			HomeScore: fixture.NewScore(2),
			AwayScore: fixture.NewScore(1),
		},
		HomeGoalDetails: "12:Smith;50:Jones",
		AwayGoalDetails: "80:Doe",
	}
}

func describe(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case Divider:
			out = append(out, string(v.Marker))
		case Event:
			out = append(out, v.Clock+" "+v.Player+"("+string(v.Side)+")")
		}
	}
	return out
}

func TestBuild_OrdersEventsAndDividers(t *testing.T) {
	t.Parallel()

	d := finishedDetails()
	view := Build(Input{Details: &d, Now: testNow})
	if view.State != StateTimeline {
		t.Fatalf("unexpected state: %s", view.State)
	}

	got := describe(view.Entries)
	want := []string{"fulltime", "80' Doe(away)", "50' Jones(home)", "halftime", "12' Smith(home)", "kickoff"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected timeline:\n got=%v\nwant=%v", got, want)
	}

	fulltime := view.Entries[0].(Divider)
	if fulltime.Score != "2 - 1" {
		t.Fatalf("unexpected fulltime score: %q", fulltime.Score)
	}
	halftime := view.Entries[3].(Divider)
	if halftime.Score != "1 - 0" {
		t.Fatalf("unexpected computed halftime score: %q", halftime.Score)
	}
	kickoff := view.Entries[len(view.Entries)-1].(Divider)
	if kickoff.Label != "Kick Off -15:00" {
		t.Fatalf("unexpected kickoff label: %q", kickoff.Label)
	}
}

func TestBuild_MinutesNeverIncrease(t *testing.T) {
	t.Parallel()

	d := finishedDetails()
	d.HomeYellowCards = "33:Brown;88:Green"
	d.AwayRedCards = "45+2':White"

	view := Build(Input{Details: &d, Now: testNow})
	last := 1 << 30
	for _, entry := range view.Entries {
		e, ok := entry.(Event)
		if !ok {
			continue
		}
		if e.Minute > last {
			t.Fatalf("minutes increased: %d after %d", e.Minute, last)
		}
		last = e.Minute
	}
}

func TestBuild_HalftimeComputedVersusPlaceholder(t *testing.T) {
	t.Parallel()

	d := finishedDetails()
	d.HomeGoalDetails = "60:Jones"
	d.AwayGoalDetails = "10:Doe;30:Roe"

	computed := Build(Input{Details: &d, Now: testNow})
	placeholder := Build(Input{Details: &d, Now: testNow, HalftimeScore: HalftimeScorePlaceholder})

	findHalftime := func(entries []Entry) Divider {
		for _, entry := range entries {
			if div, ok := entry.(Divider); ok && div.Marker == MarkerHalftime {
				return div
			}
		}
		t.Fatalf("halftime divider missing")
		return Divider{}
	}

	if got := findHalftime(computed.Entries).Score; got != "0 - 2" {
		t.Fatalf("unexpected computed halftime score: %q", got)
	}
	if got := findHalftime(placeholder.Entries).Score; got != "1 - 0" {
		t.Fatalf("unexpected placeholder halftime score: %q", got)
	}
}

func TestBuild_NoHalftimeWhenOneHalfEmpty(t *testing.T) {
	t.Parallel()

	d := finishedDetails()
	d.HomeGoalDetails = "12:Smith"
	d.AwayGoalDetails = "30:Doe"

	view := Build(Input{Details: &d, Now: testNow})
	got := describe(view.Entries)
	want := []string{"fulltime", "30' Doe(away)", "12' Smith(home)", "kickoff"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected timeline: got=%v want=%v", got, want)
	}
}

func TestBuild_TerminalStates(t *testing.T) {
	t.Parallel()

	upcoming := fixture.Details{Fixture: fixture.Fixture{ID: "1", Status: "NS", Date: "2026-10-20", Time: "19:30:00"}}
	view := Build(Input{Details: &upcoming, Now: testNow})
	if view.State != StateNotStarted || view.Kickoff != "19:30" || view.Date != "2026-10-20" {
		t.Fatalf("unexpected not started view: %+v", view)
	}

	// Events on an unscored, unfinished match are ignored.
	upcoming.HomeGoalDetails = "10:Ghost"
	if view := Build(Input{Details: &upcoming, Now: testNow}); view.State != StateNotStarted {
		t.Fatalf("expected not started to bypass timeline, got=%s", view.State)
	}

	noEvents := finishedDetails()
	noEvents.HomeGoalDetails = ""
	noEvents.AwayGoalDetails = " ; "
	if view := Build(Input{Details: &noEvents, Now: testNow}); view.State != StateNoEvents {
		t.Fatalf("expected no events state, got=%s", view.State)
	}

	d := finishedDetails()
	view = Build(Input{Details: &d, Err: errors.New("upstream status=503"), Now: testNow})
	if view.State != StateServerError || view.Error == "" || len(view.Entries) != 0 {
		t.Fatalf("expected server error to short-circuit, got=%+v", view)
	}

	if view := Build(Input{Now: testNow}); view.State != StateUnavailable {
		t.Fatalf("expected unavailable state, got=%s", view.State)
	}
}

func TestBuild_FulltimeOnScoredLiveMatch(t *testing.T) {
	t.Parallel()

	live := fixture.Details{
		Fixture: fixture.Fixture{
			ID:        "3",
			Status:    "2H",
			Date:      "2026-10-16",
			Time:      "21:00:00",
			HomeScore: fixture.NewScore(0),
			AwayScore: fixture.NewScore(1),
		},
		AwayGoalDetails: "55:Late",
	}
	view := Build(Input{Details: &live, Now: testNow})
	if view.State != StateTimeline {
		t.Fatalf("unexpected state: %s", view.State)
	}
	if div, ok := view.Entries[0].(Divider); !ok || div.Marker != MarkerFulltime || div.Score != "0 - 1" {
		t.Fatalf("expected leading fulltime divider, got=%+v", view.Entries[0])
	}
}

func TestEntries_MarshalWithKind(t *testing.T) {
	t.Parallel()

	raw, err := sonic.Marshal([]Entry{
		Event{ID: "goal-home-12-0", Minute: 12, Clock: "12'", Side: SideHome, Type: EventGoal, Player: "Smith"},
		Divider{Marker: MarkerKickoff, Label: "Kick Off -15:00"},
	})
	if err != nil {
		t.Fatalf("marshal entries: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, `"kind":"event"`) || !strings.Contains(text, `"kind":"divider"`) {
		t.Fatalf("expected kind tags in %s", text)
	}
	if !strings.Contains(text, `"player":"Smith"`) {
		t.Fatalf("expected event fields in %s", text)
	}
}
