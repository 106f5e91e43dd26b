package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/metrics"
	"github.com/aaronzipp/holiday-wishes/internal/speech"
)

const maxReportBytes = 64 << 10

type voicesReport struct {
	Supported bool           `json:"supported"`
	Voices    []speech.Voice `json:"voices"`
}

type mediaErrorReport struct {
	Media string `json:"media"`
	Error string `json:"error"`
}

// HandleVoices records the viewer's speech support and voice list
func (ctx *Context) HandleVoices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, exists := ctx.Store.Get(id)
	if !exists {
		http.NotFound(w, r)
		return
	}

	var report voicesReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBytes)).Decode(&report); err != nil {
		http.Error(w, "Invalid voices report", http.StatusBadRequest)
		return
	}
	session.Bridge.ReportVoices(report.Supported, report.Voices)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMediaError logs a playback refusal reported by the viewer. The
// celebration carries on regardless.
func (ctx *Context) HandleMediaError(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !ctx.Store.Exists(id) {
		http.NotFound(w, r)
		return
	}

	var report mediaErrorReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBytes)).Decode(&report); err != nil {
		http.Error(w, "Invalid media report", http.StatusBadRequest)
		return
	}
	ctx.Log.WithFields(logrus.Fields{
		"flow_id": id,
		"media":   report.Media,
		"error":   report.Error,
	}).Warn("autoplay blocked in browser")
	ctx.Metrics.MediaRejections.WithLabelValues(metrics.SourceBrowser).Inc()
	w.WriteHeader(http.StatusNoContent)
}
