package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/favorite"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

const dashboardDateRange = 3

type DashboardFilter string

const (
	DashboardFilterAll       DashboardFilter = "all"
	DashboardFilterLive      DashboardFilter = "live"
	DashboardFilterFavorites DashboardFilter = "favorites"
)

// ParseDashboardFilter defaults an empty value to all.
func ParseDashboardFilter(raw string) (DashboardFilter, error) {
	switch DashboardFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DashboardFilterAll:
		return DashboardFilterAll, nil
	case DashboardFilterLive:
		return DashboardFilterLive, nil
	case DashboardFilterFavorites:
		return DashboardFilterFavorites, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, raw)
	}
}

type DashboardQuery struct {
	LeagueID string
	ClientID string
	// Date selects the calendar day; zero means today.
	Date   time.Time
	Filter DashboardFilter
}

type DashboardDate struct {
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Label    string `json:"label"`
	Today    bool   `json:"today"`
	Selected bool   `json:"selected"`
}

type DashboardMatch struct {
	Fixture       fixture.Fixture `json:"fixture"`
	Phase         fixture.Phase   `json:"phase"`
	DisplayStatus string          `json:"display_status"`
	Favorite      bool            `json:"favorite"`
}

type DashboardGroup struct {
	League  string           `json:"league"`
	Matches []DashboardMatch `json:"matches"`
}

type DashboardCounts struct {
	All       int `json:"all"`
	Live      int `json:"live"`
	Favorites int `json:"favorites"`
}

type Dashboard struct {
	LeagueID string           `json:"league_id"`
	Date     string           `json:"date"`
	Filter   DashboardFilter  `json:"filter"`
	Dates    []DashboardDate  `json:"dates"`
	Counts   DashboardCounts  `json:"counts"`
	Groups   []DashboardGroup `json:"groups"`
}

type dashboardFixtureProvider interface {
	GetFixtures(ctx context.Context, leagueID string) ([]fixture.Fixture, error)
}

type DashboardService struct {
	fixtures     dashboardFixtureProvider
	favoriteRepo favorite.Repository
	now          func() time.Time
}

func NewDashboardService(fixtures dashboardFixtureProvider, favoriteRepo favorite.Repository, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		fixtures:     fixtures,
		favoriteRepo: favoriteRepo,
		now:          now,
	}
}

func (s *DashboardService) Get(ctx context.Context, query DashboardQuery) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get", leagueAttr(query.LeagueID))
	defer span.End()

	leagueID := strings.TrimSpace(query.LeagueID)
	if leagueID == "" {
		return Dashboard{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	filter := query.Filter
	if filter == "" {
		filter = DashboardFilterAll
	}

	now := s.now().UTC()
	day := query.Date
	if day.IsZero() {
		day = now
	}
	day = truncateDay(day)

	window, err := s.fixtures.GetFixtures(ctx, leagueID)
	if err != nil {
		return Dashboard{}, spanError(span, fmt.Errorf("get fixtures: %w", err))
	}

	favorites := favorite.Set{}
	if clientID := strings.TrimSpace(query.ClientID); clientID != "" && s.favoriteRepo != nil {
		ids, err := s.favoriteRepo.List(ctx, clientID)
		if err != nil {
			return Dashboard{}, fmt.Errorf("list favorites: %w", err)
		}
		favorites = favorite.NewSet(ids)
	}

	out := Dashboard{
		LeagueID: leagueID,
		Date:     day.Format(fixture.DateLayout),
		Filter:   filter,
		Dates:    dateStrip(day, now),
		Groups:   []DashboardGroup{},
	}

	groupIndex := make(map[string]int)
	for _, item := range window {
		if !fixture.SameDay(item, day) {
			continue
		}
		live := fixture.IsLive(item.Status)
		isFavorite := favorites.Has(item.ID)

		out.Counts.All++
		if live {
			out.Counts.Live++
		}
		if isFavorite {
			out.Counts.Favorites++
		}

		if filter == DashboardFilterLive && !live {
			continue
		}
		if filter == DashboardFilterFavorites && !isFavorite {
			continue
		}

		name := strings.TrimSpace(item.League)
		if name == "" {
			name = "Other"
		}
		idx, ok := groupIndex[name]
		if !ok {
			idx = len(out.Groups)
			groupIndex[name] = idx
			out.Groups = append(out.Groups, DashboardGroup{League: name})
		}
		out.Groups[idx].Matches = append(out.Groups[idx].Matches, DashboardMatch{
			Fixture:       item,
			Phase:         fixture.Classify(item, now),
			DisplayStatus: fixture.DisplayStatus(item, now),
			Favorite:      isFavorite,
		})
	}

	return out, nil
}

// dateStrip lists the days from day-3 to day+3.
func dateStrip(day, now time.Time) []DashboardDate {
	today := truncateDay(now)
	out := make([]DashboardDate, 0, 2*dashboardDateRange+1)
	for offset := -dashboardDateRange; offset <= dashboardDateRange; offset++ {
		date := day.AddDate(0, 0, offset)
		label := date.Format("2 Jan")
		isToday := date.Equal(today)
		if isToday {
			label = "Today"
		}
		out = append(out, DashboardDate{
			Date:     date.Format(fixture.DateLayout),
			Weekday:  date.Format("Mon"),
			Label:    label,
			Today:    isToday,
			Selected: offset == 0,
		})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
