package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(s.collector.Middleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Post("/invoke", s.handleInvoke)
		r.Get("/system", s.handleSystem)
		r.Get("/grids", s.handleListGrids)
		r.Get("/blocks", s.handleListBlocks)

		r.Route("/transitions", func(r chi.Router) {
			r.Get("/", s.handleListTransitions)
			r.Get("/{id}", s.handleGetTransition)
		})
	})

	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/api/v1/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	if s.metricsCfg.Enabled {
		path := s.metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, s.collector.Handler())
	}

	return r
}
