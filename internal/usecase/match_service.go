package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/lineup"
	"github.com/riskibarqy/matchday/internal/domain/teamstats"
	"github.com/riskibarqy/matchday/internal/domain/timeline"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type MatchServiceConfig struct {
	HalftimeScore timeline.HalftimeScoreMode
	Logger        *logging.Logger
	Now           func() time.Time
}

type MatchService struct {
	source        fixture.Source
	fixtureRepo   fixture.Repository
	halftimeScore timeline.HalftimeScoreMode
	logger        *logging.Logger
	now           func() time.Time
}

func NewMatchService(source fixture.Source, fixtureRepo fixture.Repository, cfg MatchServiceConfig) *MatchService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &MatchService{
		source:        source,
		fixtureRepo:   fixtureRepo,
		halftimeScore: cfg.HalftimeScore,
		logger:        logger,
		now:           now,
	}
}

// FetchByID looks the match up upstream. A record for a different id is rejected with
// ErrServerDataMismatch and never returned.
func (s *MatchService) FetchByID(ctx context.Context, id string) (fixture.Details, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return fixture.Details{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	details, found, err := s.source.LookupEvent(ctx, id)
	if err != nil {
		return fixture.Details{}, false, fmt.Errorf("lookup match: %w", err)
	}
	if !found {
		return fixture.Details{}, false, nil
	}
	if details.ID != id {
		s.logger.ErrorContext(ctx, "upstream returned a different match",
			"requested_id", id,
			"returned_id", details.ID,
		)
		return fixture.Details{}, false, crerr.Wrapf(ErrServerDataMismatch, "requested=%s returned=%s", id, details.ID)
	}
	return details, true, nil
}

func (s *MatchService) GetMatch(ctx context.Context, id string) (fixture.Details, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", matchAttr(id))
	defer span.End()

	details, found, err := s.FetchByID(ctx, id)
	return details, found, spanError(span, err)
}

// Seed returns the last fixture seen for id in a league window, as partial details.
func (s *MatchService) Seed(ctx context.Context, id string) (*fixture.Details, error) {
	item, found, err := s.fixtureRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("get seed fixture: %w", err)
	}
	if !found {
		return nil, nil
	}
	details := fixture.DetailsFromFixture(item)
	return &details, nil
}

// Timeline builds the events view. Only an invalid id is returned as an error;
// upstream failures become the server_error state.
func (s *MatchService) Timeline(ctx context.Context, id string) (timeline.View, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Timeline", matchAttr(id))
	defer span.End()

	details, err := s.resolve(ctx, id)
	if errors.Is(err, ErrInvalidInput) {
		return timeline.View{}, err
	}

	return s.BuildTimeline(details, err), nil
}

// BuildTimeline renders an already resolved record with the configured half-time policy.
func (s *MatchService) BuildTimeline(details *fixture.Details, fetchErr error) timeline.View {
	return timeline.Build(timeline.Input{
		Details:       details,
		Err:           fetchErr,
		Now:           s.now().UTC(),
		HalftimeScore: s.halftimeScore,
	})
}

func (s *MatchService) Lineups(ctx context.Context, id string) (lineup.Lineups, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Lineups", matchAttr(id))
	defer span.End()

	details, err := s.resolve(ctx, id)
	if err != nil {
		return lineup.Lineups{}, err
	}
	if details == nil {
		return lineup.Lineups{}, fmt.Errorf("%w: match=%s", ErrNotFound, id)
	}
	return lineup.Parse(*details), nil
}

func (s *MatchService) Stats(ctx context.Context, id string) (teamstats.MatchStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Stats", matchAttr(id))
	defer span.End()

	details, err := s.resolve(ctx, id)
	if err != nil {
		return teamstats.MatchStats{}, err
	}
	if details == nil {
		return teamstats.MatchStats{}, fmt.Errorf("%w: match=%s", ErrNotFound, id)
	}
	return teamstats.FromDetails(*details), nil
}

// resolve prefers the upstream record and falls back to the seed. A fetch failure is
// swallowed when a seed exists, except for a data mismatch.
func (s *MatchService) resolve(ctx context.Context, id string) (*fixture.Details, error) {
	details, found, err := s.FetchByID(ctx, id)
	if err == nil && found {
		return &details, nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrServerDataMismatch) {
		return nil, err
	}

	seed, seedErr := s.Seed(ctx, id)
	if seedErr != nil {
		s.logger.WarnContext(ctx, "load match seed failed", "match_id", id, "error", seedErr)
	}
	if seed == nil {
		return nil, err
	}
	if err != nil {
		s.logger.WarnContext(ctx, "match lookup failed, serving seed", "match_id", id, "error", err)
	}
	return seed, nil
}
