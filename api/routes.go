package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"datatable/notify"
	"datatable/session"
)

// RegisterRoutes builds the HTTP surface over manager. Committed
// configurations stream to websocket clients through hub; gatherer, if
// non-nil, is served on /metrics.
func RegisterRoutes(manager *session.Manager, hub *notify.Hub, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{manager: manager, hub: hub}

	r.Get("/api/tables", h.listTables)
	r.Post("/api/tables", h.openTable)

	r.Route("/api/tables/{table}", func(r chi.Router) {
		r.Use(h.withSession)
		r.Delete("/", h.closeTable)

		r.Get("/config", h.getConfig)
		r.Put("/config", h.supplyConfig)
		r.Patch("/config", h.setFields)
		r.Post("/commit", h.commit)
		r.Post("/reset", h.factoryReset)
		r.Post("/reload", h.reload)
		r.Post("/view", h.view)

		r.Get("/presets", h.listPresets)
		r.Post("/presets", h.savePreset)
		r.Post("/presets/{id}/apply", h.applyPreset)
		r.Patch("/presets/{id}", h.renamePreset)
		r.Delete("/presets/{id}", h.deletePreset)

		r.Get("/ws", h.handleWS)
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type handler struct {
	manager *session.Manager
	hub     *notify.Hub
}
