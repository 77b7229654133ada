package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

const (
	entrySeparator  = ";"
	playerSeparator = ":"
)

// minuteToken := digits ['+' digits] "'"?
var minuteTokenRegex = regexp.MustCompile(`^(\d+)\s*(?:\+\s*(\d+))?\s*'?$`)

var nonDigitRegex = regexp.MustCompile(`\D`)

// ParseField parses "12':Smith;45+2':Jones" into events. Malformed minutes become 0;
// a bad entry never aborts the rest of the field.
func ParseField(raw string, side Side, eventType EventType) []Event {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, entrySeparator)
	out := make([]Event, 0, len(parts))
	for idx, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}

		token, player, _ := strings.Cut(part, playerSeparator)
		token = strings.TrimSpace(token)
		minute, stoppage := ParseMinute(token)

		out = append(out, Event{
			ID:       fmt.Sprintf("%s-%s-%d-%d", eventType, side, minute, idx),
			Minute:   minute,
			Stoppage: stoppage,
			Clock:    clockLabel(token, minute, stoppage),
			Side:     side,
			Type:     eventType,
			Player:   strings.TrimSpace(player),
		})
	}
	return out
}

// ParseMinute extracts the minute and stoppage time from a minute token.
// Tokens outside the grammar fall back to all of their digits, or 0.
func ParseMinute(token string) (int, int) {
	token = strings.TrimSpace(token)
	if match := minuteTokenRegex.FindStringSubmatch(token); match != nil {
		minute, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, 0
		}
		stoppage := 0
		if match[2] != "" {
			stoppage, _ = strconv.Atoi(match[2])
		}
		return minute, stoppage
	}

	minute, err := strconv.Atoi(nonDigitRegex.ReplaceAllString(token, ""))
	if err != nil {
		return 0, 0
	}
	return minute, 0
}

func clockLabel(token string, minute, stoppage int) string {
	if strings.Contains(token, "'") {
		return token
	}
	if stoppage > 0 {
		return fmt.Sprintf("%d+%d'", minute, stoppage)
	}
	return fmt.Sprintf("%d'", minute)
}

// ParseDetails collects every event field of a match, home before away for each kind.
func ParseDetails(d fixture.Details) []Event {
	fields := []struct {
		raw       string
		side      Side
		eventType EventType
	}{
		{d.HomeGoalDetails, SideHome, EventGoal},
		{d.AwayGoalDetails, SideAway, EventGoal},
		{d.HomeYellowCards, SideHome, EventYellowCard},
		{d.AwayYellowCards, SideAway, EventYellowCard},
		{d.HomeRedCards, SideHome, EventRedCard},
		{d.AwayRedCards, SideAway, EventRedCard},
	}

	var out []Event
	for _, field := range fields {
		out = append(out, ParseField(field.raw, field.side, field.eventType)...)
	}
	return out
}
