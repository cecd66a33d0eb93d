package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerATPRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /atp/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /atp/tournaments/{id}", handler.GetTournament)
	mux.HandleFunc("GET /atp/matches/{id}", handler.LookupMatches)
	mux.HandleFunc("GET /atp/matches/{id}/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /atp/h2h/{player1}/{player2}", handler.GetHeadToHead)
}
