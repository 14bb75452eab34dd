package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the dashboard router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Get("/previews/{name}", h.ServePreview)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Get("/featured", h.FeaturedProjects)
			r.Get("/stats", h.ProjectStats)
			r.Delete("/{id}", h.DeleteProject)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.CreateDraft)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetDraft)
				r.Delete("/", h.CancelDraft)
				r.Put("/fields", h.UpdateFields)
				r.Post("/technologies", h.AddTechnology)
				r.Delete("/technologies/{name}", h.RemoveTechnology)
				r.Post("/images", h.UploadImages)
				r.Post("/images/move", h.MoveImage)
				r.Delete("/images/{position}", h.RemoveImage)
				r.Post("/submit", h.SubmitDraft)
			})
		})

		if h.chat != nil {
			r.Route("/chat/sessions", func(r chi.Router) {
				r.Get("/", h.ListChats)
				r.Post("/", h.CreateChat)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", h.RenameChat)
					r.Delete("/", h.DeleteChat)
					r.Post("/select", h.SelectChat)
					r.Post("/clear", h.ClearChat)
					r.Post("/messages", h.SendChat)
				})
			})
		}
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
