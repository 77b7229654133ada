package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type Handler struct {
	leagueService    *usecase.LeagueService
	fixtureService   *usecase.FixtureService
	matchService     *usecase.MatchService
	dashboardService *usecase.DashboardService
	liveService      *usecase.LiveService
	favoriteService  *usecase.FavoriteService
	allowedOrigins   []string
	logger           *logging.Logger
	validator        *validator.Validate
	ids              idgen.Generator
	now              func() time.Time
}

func NewHandler(
	leagueService *usecase.LeagueService,
	fixtureService *usecase.FixtureService,
	matchService *usecase.MatchService,
	dashboardService *usecase.DashboardService,
	liveService *usecase.LiveService,
	favoriteService *usecase.FavoriteService,
	allowedOrigins []string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:    leagueService,
		fixtureService:   fixtureService,
		matchService:     matchService,
		dashboardService: dashboardService,
		liveService:      liveService,
		favoriteService:  favoriteService,
		allowedOrigins:   allowedOrigins,
		logger:           logger,
		validator:        validator.New(),
		ids:              idgen.NewNanoIDGenerator(0),
		now:              time.Now,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type leaguePathParams struct {
	LeagueID string `validate:"required,numeric,max=16"`
}

type matchPathParams struct {
	MatchID string `validate:"required,numeric,max=16"`
}

type dashboardQueryParams struct {
	LeagueID string `validate:"required,numeric,max=16"`
	Date     string `validate:"omitempty,datetime=2006-01-02"`
	Filter   string `validate:"omitempty,oneof=all live favorites"`
	ClientID string `validate:"omitempty,max=128,printascii"`
}

type favoritePathParams struct {
	ClientID  string `validate:"required,max=128,printascii"`
	FixtureID string `validate:"omitempty,numeric,max=16"`
}
