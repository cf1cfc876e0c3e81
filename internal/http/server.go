// Package http exposes the ledger over a small JSON API. It is a thin
// collaborator: all invariants live in the store and the projection engine.
package http

import (
	"net/http"
	"time"

	"tally/internal/cache"
	"tally/internal/services"
)

type Server struct {
	http.Server
	service *services.LedgerService

	// Overview projections are cached per filter+day and purged on every
	// mutation, so responses never lag the stored record set.
	overviewCache *cache.LRU[overviewResponse]
}

func NewServer(addr string, service *services.LedgerService, cacheTTL time.Duration) *Server {
	s := &Server{
		service:       service,
		overviewCache: cache.NewLRU[overviewResponse](8, cacheTTL),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("PUT /api/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /api/overview", s.handleOverview)

	s.Addr = addr
	s.Handler = withRequestLogging(mux)
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 10 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
