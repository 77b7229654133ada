package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/domain/timeline"
	"github.com/valyala/bytebufferpool"
)

// Renderers build each block in a pooled buffer and write it with a single call.

func renderLeagues(w io.Writer, leagues []league.League) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, l := range leagues {
		marker := " "
		if l.IsDefault {
			marker = "*"
		}
		fmt.Fprintf(buf, "%s %-6s %-16s %s\n", marker, l.ID, l.Name, l.CountryCode)
	}
	_, err := w.Write(buf.B)
	return err
}

func renderFixtures(w io.Writer, items []fixture.Fixture, now time.Time) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if len(items) == 0 {
		_, _ = buf.WriteString("no fixtures in the current window\n")
	}
	day := ""
	for _, f := range items {
		if f.Date != day {
			day = f.Date
			fmt.Fprintf(buf, "\n%s\n", dayHeading(f))
		}
		fmt.Fprintf(buf, "  %-8s %-7s %24s %s %-24s\n",
			f.ID,
			fixture.DisplayStatus(f, now),
			truncate(f.HomeTeam.Name, 24),
			scoreLine(f),
			truncate(f.AwayTeam.Name, 24),
		)
	}
	_, err := w.Write(buf.B)
	return err
}

func renderMatch(w io.Writer, d fixture.Details, view timeline.View, now time.Time) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "%s %s %s  [%s]\n",
		d.HomeTeam.Name, scoreLine(d.Fixture), d.AwayTeam.Name, fixture.DisplayStatus(d.Fixture, now))
	if d.League != "" {
		fmt.Fprintf(buf, "%s, %s %s\n", d.League, d.Date, d.KickoffClock())
	}

	_, _ = buf.WriteString("\nEvents\n")
	writeTimeline(buf, view)

	lineups := lineup.Parse(d)
	if lineups.Available() {
		_, _ = buf.WriteString("\nLineups\n")
		writeSide(buf, d.HomeTeam.Name, lineups.Home)
		writeSide(buf, d.AwayTeam.Name, lineups.Away)
	}

	stats := teamstats.FromDetails(d)
	if stats.HasStats() {
		_, _ = buf.WriteString("\nStats\n")
		fmt.Fprintf(buf, "  %-14s %3d %3d\n", "Goals", stats.Home.Goals, stats.Away.Goals)
		fmt.Fprintf(buf, "  %-14s %3d %3d\n", "Yellow cards", stats.Home.YellowCards, stats.Away.YellowCards)
		fmt.Fprintf(buf, "  %-14s %3d %3d\n", "Red cards", stats.Home.RedCards, stats.Away.RedCards)
	}

	_, err := w.Write(buf.B)
	return err
}

func writeTimeline(buf *bytebufferpool.ByteBuffer, view timeline.View) {
	switch view.State {
	case timeline.StateServerError:
		fmt.Fprintf(buf, "  events unavailable: %s\n", view.Error)
	case timeline.StateUnavailable:
		_, _ = buf.WriteString("  match not available\n")
	case timeline.StateNotStarted:
		fmt.Fprintf(buf, "  not started, kick off %s %s\n", view.Date, view.Kickoff)
	case timeline.StateNoEvents:
		_, _ = buf.WriteString("  no events yet\n")
	case timeline.StateTimeline:
		for _, entry := range view.Entries {
			switch e := entry.(type) {
			case timeline.Divider:
				if e.Score != "" {
					fmt.Fprintf(buf, "  -- %s %s --\n", e.Label, e.Score)
				} else {
					fmt.Fprintf(buf, "  -- %s --\n", e.Label)
				}
			case timeline.Event:
				indent := ""
				if e.Side == timeline.SideAway {
					indent = strings.Repeat(" ", 20)
				}
				fmt.Fprintf(buf, "  %6s %s%s %s\n", e.Clock, indent, eventGlyph(e.Type), e.Player)
			}
		}
	}
}

func writeSide(buf *bytebufferpool.ByteBuffer, team string, side lineup.Side) {
	if side.Count() == 0 {
		return
	}
	fmt.Fprintf(buf, "  %s\n", team)
	lines := []struct {
		label   string
		players []string
	}{
		{"GK", side.Goalkeepers},
		{"DF", side.Defenders},
		{"MF", side.Midfielders},
		{"FW", side.Forwards},
	}
	for _, line := range lines {
		if len(line.players) == 0 {
			continue
		}
		fmt.Fprintf(buf, "    %s  %s\n", line.label, strings.Join(line.players, ", "))
	}
}

func eventGlyph(t timeline.EventType) string {
	switch t {
	case timeline.EventGoal:
		return "GOAL"
	case timeline.EventYellowCard:
		return "YC"
	case timeline.EventRedCard:
		return "RC"
	default:
		return strings.ToUpper(string(t))
	}
}

func scoreLine(f fixture.Fixture) string {
	if !f.HasAnyScore() {
		return "  -  "
	}
	return fmt.Sprintf("%2d - %-2d", f.HomeScore.OrZero(), f.AwayScore.OrZero())
}

func dayHeading(f fixture.Fixture) string {
	day, ok := f.ParseDate()
	if !ok {
		return f.Date
	}
	return day.Format("Mon 2 Jan 2006")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
