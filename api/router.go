// Package api 以 HTTP/JSON 暴露推荐查询。
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/catrec/service"
)

// NewRouter 创建路由：
//
//	GET /healthz
//	GET /metrics
//	GET /v1/users
//	GET /v1/users/{userID}
//	GET /v1/users/{userID}/recommendations?k=&n=
func NewRouter(svc *service.Recommender) http.Handler {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Get("/recommendations", h.GetRecommendations)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}
