package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/livefeed"
)

type leaguePublicDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	CountryCode string `json:"country_code"`
	IsDefault   bool   `json:"is_default"`
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Badge string `json:"badge,omitempty"`
}

type fixtureDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	LeagueID      string     `json:"league_id"`
	League        string     `json:"league"`
	Season        string     `json:"season"`
	HomeTeam      teamDTO    `json:"home_team"`
	AwayTeam      teamDTO    `json:"away_team"`
	HomeScore     *int       `json:"home_score"`
	AwayScore     *int       `json:"away_score"`
	Status        string     `json:"status"`
	Progress      string     `json:"progress,omitempty"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	KickoffAt     *time.Time `json:"kickoff_at,omitempty"`
	Phase         string     `json:"phase"`
	DisplayStatus string     `json:"display_status"`
	Venue         string     `json:"venue,omitempty"`
	Thumb         string     `json:"thumb,omitempty"`
	Video         string     `json:"video,omitempty"`
}

type matchDTO struct {
	fixtureDTO
	Description string               `json:"description,omitempty"`
	Lineups     lineup.Lineups       `json:"lineups"`
	HasLineups  bool                 `json:"has_lineups"`
	Stats       teamstats.MatchStats `json:"stats"`
	HasStats    bool                 `json:"has_stats"`
}

type lineupsDTO struct {
	lineup.Lineups
	Available bool `json:"available"`
}

type statsDTO struct {
	teamstats.MatchStats
	Available bool `json:"available"`
}

type favoritesDTO struct {
	ClientID   string   `json:"client_id"`
	FixtureIDs []string `json:"fixture_ids"`
}

type snapshotErrorDTO struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type liveSnapshotDTO[T any] struct {
	Key        string            `json:"key"`
	State      string            `json:"state"`
	IsLoading  bool              `json:"is_loading"`
	HasData    bool              `json:"has_data"`
	NoData     bool              `json:"no_data"`
	Generation uint64            `json:"generation"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
	Error      *snapshotErrorDTO `json:"error,omitempty"`
	Data       T                 `json:"data"`
}

func leagueToPublicDTO(ctx context.Context, l league.League) leaguePublicDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToPublicDTO")
	defer span.End()

	return leaguePublicDTO{
		ID:          l.ID,
		Name:        l.Name,
		Code:        l.Code,
		CountryCode: l.CountryCode,
		IsDefault:   l.IsDefault,
	}
}

func fixtureToDTO(f fixture.Fixture, now time.Time) fixtureDTO {
	out := fixtureDTO{
		ID:            f.ID,
		Name:          f.Name,
		LeagueID:      f.LeagueID,
		League:        f.League,
		Season:        f.Season,
		HomeTeam:      teamDTO(f.HomeTeam),
		AwayTeam:      teamDTO(f.AwayTeam),
		HomeScore:     scorePtr(f.HomeScore),
		AwayScore:     scorePtr(f.AwayScore),
		Status:        f.Status,
		Progress:      f.Progress,
		Date:          f.Date,
		Time:          f.Time,
		Phase:         string(fixture.Classify(f, now)),
		DisplayStatus: fixture.DisplayStatus(f, now),
		Venue:         f.Venue,
		Thumb:         f.Thumb,
		Video:         f.Video,
	}
	if kickoff, ok := f.Kickoff(); ok {
		out.KickoffAt = &kickoff
	}
	return out
}

func fixturesToDTO(items []fixture.Fixture, now time.Time) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item, now))
	}
	return out
}

func matchToDTO(d fixture.Details, now time.Time) matchDTO {
	lineups := lineup.Parse(d)
	stats := teamstats.FromDetails(d)
	return matchDTO{
		fixtureDTO:  fixtureToDTO(d.Fixture, now),
		Description: d.Description,
		Lineups:     lineups,
		HasLineups:  lineups.Available(),
		Stats:       stats,
		HasStats:    stats.HasStats(),
	}
}

func scorePtr(s fixture.Score) *int {
	v, ok := s.Value()
	if !ok {
		return nil
	}
	return &v
}

func snapshotToDTO[T, D any](ctx context.Context, snap livefeed.Snapshot[T], convert func(T) D) liveSnapshotDTO[D] {
	out := liveSnapshotDTO[D]{
		Key:        snap.Key,
		State:      string(snap.State),
		IsLoading:  snap.IsLoading,
		HasData:    snap.HasData,
		NoData:     snap.NoData,
		Generation: snap.Generation,
	}
	if !snap.UpdatedAt.IsZero() {
		updatedAt := snap.UpdatedAt
		out.UpdatedAt = &updatedAt
	}
	if snap.HasData {
		out.Data = convert(snap.Data)
	}
	if snap.Err != nil {
		mapped := mapError(ctx, snap.Err)
		message := snap.Err.Error()
		if mapped == internalMapped {
			message = internalErrorMessage
		}
		out.Error = &snapshotErrorDTO{
			Code:    mapped.HTTPStatus,
			Reason:  mapped.Reason,
			Message: message,
		}
	}
	return out
}
