package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDocsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.APIDocs)
	mux.HandleFunc("GET /docs/", handler.APIDocs)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/fixtures", handler.ListFixturesByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/timeline", handler.GetMatchTimeline)
	mux.HandleFunc("GET /v1/matches/{matchID}/lineups", handler.GetMatchLineups)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats", handler.GetMatchStats)
}

func registerLiveRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/live/leagues/{leagueID}", handler.GetLiveLeague)
	mux.HandleFunc("GET /v1/live/leagues/{leagueID}/stream", handler.StreamLiveLeague)
	mux.HandleFunc("GET /v1/live/matches/{matchID}", handler.GetLiveMatch)
	mux.HandleFunc("GET /v1/live/matches/{matchID}/stream", handler.StreamLiveMatch)
}

func registerFavoriteRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/favorites/{clientID}", handler.ListFavorites)
	mux.HandleFunc("PUT /v1/favorites/{clientID}/{fixtureID}", handler.AddFavorite)
	mux.HandleFunc("DELETE /v1/favorites/{clientID}/{fixtureID}", handler.RemoveFavorite)
}
