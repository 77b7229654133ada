package main

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/timeline"
)

var renderNow = time.Date(2025, 3, 8, 16, 10, 0, 0, time.UTC)

func finishedFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:        "2070001",
		LeagueID:  "4328",
		League:    "English Premier League",
		HomeTeam:  fixture.Team{ID: "133604", Name: "Arsenal"},
		AwayTeam:  fixture.Team{ID: "133610", Name: "Chelsea"},
		HomeScore: fixture.NewScore(2),
		AwayScore: fixture.NewScore(1),
		Status:    "FT",
		Date:      "2025-03-08",
		Time:      "12:30:00",
	}
}

func TestRenderLeagues_MarksDefault(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := renderLeagues(&out, []league.League{
		{ID: "4328", Name: "Premier League", CountryCode: "GB", IsDefault: true},
		{ID: "4335", Name: "La Liga", CountryCode: "ES"},
	})
	if err != nil {
		t.Fatalf("render leagues: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "* 4328") {
		t.Fatalf("expected default marker on first league, got %q", lines[0])
	}
	if strings.HasPrefix(lines[1], "*") {
		t.Fatalf("unexpected default marker: %q", lines[1])
	}
}

func TestRenderFixtures_GroupsByDay(t *testing.T) {
	t.Parallel()

	upcoming := finishedFixture()
	upcoming.ID = "2070003"
	upcoming.HomeScore = fixture.Score{}
	upcoming.AwayScore = fixture.Score{}
	upcoming.Status = "NS"
	upcoming.Date = "2025-03-09"
	upcoming.Time = "14:00:00"

	var out bytes.Buffer
	if err := renderFixtures(&out, []fixture.Fixture{finishedFixture(), upcoming}, renderNow); err != nil {
		t.Fatalf("render fixtures: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Sat 8 Mar 2025", "Sun 9 Mar 2025", " 2 - 1 ", "FT", "14:00", "  -  "} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRenderFixtures_Empty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := renderFixtures(&out, nil, renderNow); err != nil {
		t.Fatalf("render fixtures: %v", err)
	}
	if !strings.Contains(out.String(), "no fixtures") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRenderMatch_TimelineLineupsAndStats(t *testing.T) {
	t.Parallel()

	d := fixture.DetailsFromFixture(finishedFixture())
	d.HomeYellowCards = "30':Declan Rice;"
	d.HomeLineup = fixture.LineupFields{Goalkeeper: "David Raya", Forward: "Kai Havertz; Bukayo Saka"}

	view := timeline.View{
		State: timeline.StateTimeline,
		Entries: []timeline.Entry{
			timeline.Divider{Marker: timeline.MarkerFulltime, Label: "Fulltime", Score: "2 - 1"},
			timeline.Event{Clock: "78'", Side: timeline.SideAway, Type: timeline.EventGoal, Player: "Cole Palmer"},
			timeline.Event{Clock: "30'", Side: timeline.SideHome, Type: timeline.EventYellowCard, Player: "Declan Rice"},
		},
	}

	var out bytes.Buffer
	if err := renderMatch(&out, d, view, renderNow); err != nil {
		t.Fatalf("render match: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Arsenal  2 - 1  Chelsea  [FT]",
		"-- Fulltime 2 - 1 --",
		"GOAL Cole Palmer",
		"YC Declan Rice",
		"FW  Kai Havertz, Bukayo Saka",
		"Yellow cards",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\n  Chelsea\n") {
		t.Fatalf("away side without players should be skipped:\n%s", text)
	}
}

func TestRenderMatch_NotStarted(t *testing.T) {
	t.Parallel()

	f := finishedFixture()
	f.HomeScore = fixture.Score{}
	f.AwayScore = fixture.Score{}
	f.Status = "NS"
	view := timeline.View{State: timeline.StateNotStarted, Date: "2025-03-08", Kickoff: "12:30"}

	var out bytes.Buffer
	if err := renderMatch(&out, fixture.DetailsFromFixture(f), view, renderNow.Add(-6*time.Hour)); err != nil {
		t.Fatalf("render match: %v", err)
	}
	if !strings.Contains(out.String(), "not started, kick off 2025-03-08 12:30") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Stats") {
		t.Fatalf("expected no stats block:\n%s", out.String())
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("Wolverhampton Wanderers", 10); got != "Wolverham~" {
		t.Fatalf("unexpected truncate: %q", got)
	}
	if got := truncate("Arsenal", 10); got != "Arsenal" {
		t.Fatalf("unexpected truncate: %q", got)
	}
}

func TestParseQueryArgs(t *testing.T) {
	t.Parallel()

	query, err := parseQueryArgs([]string{"id=4328", "s=2024-2025"})
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	want := url.Values{"id": {"4328"}, "s": {"2024-2025"}}
	if query.Encode() != want.Encode() {
		t.Fatalf("unexpected query: %v", query)
	}

	if _, err := parseQueryArgs([]string{"4328"}); err == nil {
		t.Fatalf("expected error for argument without '='")
	}
}
