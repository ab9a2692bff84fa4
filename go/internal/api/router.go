package api

import (
	"net/http"
)

// NewRouter registers the league and draft endpoints. Paths keep their
// trailing slashes; {$} pins each pattern to an exact match instead of a
// subtree.
func NewRouter(s *Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", Healthz)

	mux.HandleFunc("POST /leagues/{$}", WithLogging(s.CreateLeague))
	mux.HandleFunc("GET /leagues/{$}", WithLogging(s.ListLeagues))
	mux.HandleFunc("GET /leagues/{id}/{$}", WithLogging(s.GetLeague))
	mux.HandleFunc("POST /leagues/{id}/start-draft/{$}", WithLogging(s.StartDraft))
	mux.HandleFunc("POST /leagues/{id}/pick/{$}", WithLogging(s.MakePick))
	mux.HandleFunc("GET /leagues/{id}/teams/{$}", WithLogging(s.GetTeams))
	mux.HandleFunc("POST /leagues/{id}/reset/{$}", WithLogging(s.ResetLeague))

	return mux
}
