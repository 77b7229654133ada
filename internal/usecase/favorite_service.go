package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/favorite"
)

type FavoriteService struct {
	favoriteRepo favorite.Repository
}

func NewFavoriteService(favoriteRepo favorite.Repository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

func (s *FavoriteService) List(ctx context.Context, clientID string) ([]string, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}

	ids, err := s.favoriteRepo.List(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

// Toggle adds or removes one fixture id for the client.
func (s *FavoriteService) Toggle(ctx context.Context, clientID, fixtureID string, on bool) error {
	clientID = strings.TrimSpace(clientID)
	fixtureID = strings.TrimSpace(fixtureID)
	if clientID == "" || fixtureID == "" {
		return fmt.Errorf("%w: client id and fixture id are required", ErrInvalidInput)
	}

	if on {
		if err := s.favoriteRepo.Add(ctx, clientID, fixtureID); err != nil {
			return fmt.Errorf("add favorite: %w", err)
		}
		return nil
	}
	if err := s.favoriteRepo.Remove(ctx, clientID, fixtureID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
