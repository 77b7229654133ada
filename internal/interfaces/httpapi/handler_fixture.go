package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaguePublicDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToPublicDTO(ctx, l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixturesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if err := h.validateRequest(ctx, leaguePathParams{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.GetFixtures(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures, h.now().UTC()))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	query := r.URL.Query()
	params := dashboardQueryParams{
		LeagueID: strings.TrimSpace(r.PathValue("leagueID")),
		Date:     strings.TrimSpace(query.Get("date")),
		Filter:   strings.ToLower(strings.TrimSpace(query.Get("filter"))),
		ClientID: strings.TrimSpace(query.Get("client")),
	}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err)
		return
	}

	filter, err := usecase.ParseDashboardFilter(params.Filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var day time.Time
	if params.Date != "" {
		day, _ = time.Parse(fixture.DateLayout, params.Date)
	}

	dashboard, err := h.dashboardService.Get(ctx, usecase.DashboardQuery{
		LeagueID: params.LeagueID,
		ClientID: params.ClientID,
		Date:     day,
		Filter:   filter,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get dashboard failed", "league_id", params.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboard)
}
