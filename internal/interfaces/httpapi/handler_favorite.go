package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFavorites")
	defer span.End()

	clientID := strings.TrimSpace(r.PathValue("clientID"))
	if err := h.validateRequest(ctx, favoritePathParams{ClientID: clientID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	ids, err := h.favoriteService.List(ctx, clientID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, favoritesDTO{ClientID: clientID, FixtureIDs: ids})
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggleFavorite(w, r, true)
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggleFavorite(w, r, false)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request, on bool) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleFavorite")
	defer span.End()

	params := favoritePathParams{
		ClientID:  strings.TrimSpace(r.PathValue("clientID")),
		FixtureID: strings.TrimSpace(r.PathValue("fixtureID")),
	}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.favoriteService.Toggle(ctx, params.ClientID, params.FixtureID, on); err != nil {
		h.logger.WarnContext(ctx, "toggle favorite failed", "client_id", params.ClientID, "fixture_id", params.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	ids, err := h.favoriteService.List(ctx, params.ClientID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, favoritesDTO{ClientID: params.ClientID, FixtureIDs: ids})
}
