package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vehiclegw/engine"
	"vehiclegw/logging"
	"vehiclegw/metrics"
)

// liveMessage is written for anything outside the /vehicles routes.
const liveMessage = "API server is live"

type Handlers struct {
	engine *engine.Engine
	log    logging.Logger
}

func NewRouter(eng *engine.Engine, log logging.Logger) http.Handler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	h := &Handlers{
		engine: eng,
		log:    log.WithName("www"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.accessLog)
	r.Use(h.recoverPanics)
	r.Use(middleware.StripSlashes)
	r.Use(maxBodySize)

	r.NotFound(h.handleLive)
	r.MethodNotAllowed(h.handleLive)

	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/{id}", h.handleInfo)
		r.Get("/{id}/{action}", h.handleQuery)
		r.Post("/{id}/{action}", h.handleCommand)
	})

	r.Get("/healthz", h.handleHealth)

	if mc := eng.AppConfig().Metrics; mc.Enabled {
		r.Handle(mc.Path, metrics.Handler())
	}

	return r
}
