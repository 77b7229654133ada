package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) matchIDFromPath(r *http.Request) (string, error) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.validateRequest(r.Context(), matchPathParams{MatchID: matchID}); err != nil {
		return "", err
	}
	return matchID, nil
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := h.matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	details, found, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: match=%s", usecase.ErrNotFound, matchID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(details, h.now().UTC()))
}

func (h *Handler) GetMatchTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchTimeline")
	defer span.End()

	matchID, err := h.matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchService.Timeline(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) GetMatchLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchLineups")
	defer span.End()

	matchID, err := h.matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lineups, err := h.matchService.Lineups(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match lineups failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupsDTO{Lineups: lineups, Available: lineups.Available()})
}

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStats")
	defer span.End()

	matchID, err := h.matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.matchService.Stats(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match stats failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsDTO{MatchStats: stats, Available: stats.HasStats()})
}
