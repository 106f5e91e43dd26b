package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Routes builds the HTTP router. staticDir holds the video assets and stylesheet.
func (ctx *Context) Routes(staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(ctx.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", ctx.HandleIndex)
	r.Post("/start", ctx.HandleStart)
	r.Get("/celebration", ctx.HandleCelebration)
	r.Route("/celebration/{id}", func(r chi.Router) {
		r.Get("/events", ctx.HandleSSE)
		r.Post("/voices", ctx.HandleVoices)
		r.Post("/media-error", ctx.HandleMediaError)
	})
	r.Get("/share/qr", ctx.HandleShareQR)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	return r
}

// requestLogger logs each request through logrus once it completes
func (ctx *Context) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		ctx.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
