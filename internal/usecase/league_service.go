package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/league"
)

type LeagueService struct {
	leagueRepo league.Repository
}

func NewLeagueService(leagueRepo league.Repository) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

// ResolveLeague returns the requested league, or the catalog default when leagueID is blank.
func (s *LeagueService) ResolveLeague(ctx context.Context, leagueID string) (league.League, error) {
	if strings.TrimSpace(leagueID) != "" {
		return s.GetLeague(ctx, leagueID)
	}

	leagues, err := s.ListLeagues(ctx)
	if err != nil {
		return league.League{}, err
	}
	selected, ok := league.DefaultOf(leagues)
	if !ok {
		return league.League{}, fmt.Errorf("%w: no leagues available", ErrNotFound)
	}
	return selected, nil
}
