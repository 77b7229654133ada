package timeline

import (
	sonic "github.com/bytedance/sonic"
)

type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

type EventType string

const (
	EventGoal       EventType = "goal"
	EventYellowCard EventType = "yellow-card"
	EventRedCard    EventType = "red-card"
	// Corner, substitution and injury events have no upstream field yet.
	EventCorner EventType = "corner"
	EventSub    EventType = "sub"
	EventInjury EventType = "injury"
)

type EntryKind string

const (
	KindEvent   EntryKind = "event"
	KindDivider EntryKind = "divider"
)

type Marker string

const (
	MarkerFulltime Marker = "fulltime"
	MarkerHalftime Marker = "halftime"
	MarkerKickoff  Marker = "kickoff"
)

// Entry is either an Event or a Divider.
type Entry interface {
	Kind() EntryKind
}

// Event is one parsed incident on the timeline.
type Event struct {
	ID       string    `json:"id"`
	Minute   int       `json:"minute"`
	Stoppage int       `json:"stoppage,omitempty"`
	Clock    string    `json:"clock"`
	Side     Side      `json:"side"`
	Type     EventType `json:"type"`
	Player   string    `json:"player"`
	Assist   string    `json:"assist,omitempty"`
}

func (Event) Kind() EntryKind { return KindEvent }

func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return sonic.Marshal(struct {
		Kind EntryKind `json:"kind"`
		plain
	}{Kind: KindEvent, plain: plain(e)})
}

// Divider marks kickoff, half-time or full-time.
type Divider struct {
	Marker Marker `json:"marker"`
	Label  string `json:"label"`
	Score  string `json:"score,omitempty"`
}

func (Divider) Kind() EntryKind { return KindDivider }

func (d Divider) MarshalJSON() ([]byte, error) {
	type plain Divider
	return sonic.Marshal(struct {
		Kind EntryKind `json:"kind"`
		plain
	}{Kind: KindDivider, plain: plain(d)})
}

// State is the terminal rendering state of a match timeline.
type State string

const (
	StateServerError State = "server_error"
	StateUnavailable State = "unavailable"
	StateNotStarted  State = "not_started"
	StateNoEvents    State = "no_events"
	StateTimeline    State = "timeline"
)

// View is what a consumer renders for the events tab of a match.
type View struct {
	State   State   `json:"state"`
	Error   string  `json:"error,omitempty"`
	Date    string  `json:"date,omitempty"`
	Kickoff string  `json:"kickoff,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
}

// HalftimeScoreMode selects the score printed on the half-time divider.
type HalftimeScoreMode int

const (
	// HalftimeScoreComputed counts goals scored at or before minute 45.
	HalftimeScoreComputed HalftimeScoreMode = iota
	// HalftimeScorePlaceholder always prints "1 - 0", matching the legacy web client.
	HalftimeScorePlaceholder
)
