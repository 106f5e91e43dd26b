package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/models"
	"github.com/aaronzipp/holiday-wishes/internal/render"
	"github.com/aaronzipp/holiday-wishes/internal/sse"
)

// HandleSSE streams celebration events to the viewer. When the last viewer
// goes away the celebration is unmounted.
func (ctx *Context) HandleSSE(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := ctx.Log.WithField("flow_id", id)

	session, exists := ctx.Store.Get(id)
	if !exists {
		log.Debug("handleSSE: celebration not found")
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies
	flusher.Flush()

	clientChan := make(chan models.SSEMessage, sse.BufferSize)
	session.Hub.AddClient(clientChan)
	first := session.MarkConnected()
	defer func() {
		if session.Hub.RemoveClient(clientChan) == 0 {
			ctx.EndSession(id, "viewer left")
		}
	}()

	// Send the current state so a late viewer catches up
	snap := session.Flow.Snapshot()
	sse.WriteEvent(w, sse.EventPhase, string(snap.Phase))
	if snap.Phase == models.PhaseGift {
		sse.WriteEvent(w, sse.EventGift, render.GiftCard(snap.Name, snap.Wish, ctx.Settings.Signature))
	}
	flusher.Flush()
	log.WithFields(logrus.Fields{
		"phase": snap.Phase,
		"first": first,
	}).Debug("handleSSE: viewer connected")

	// Listen for updates
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			log.Debug("handleSSE: viewer disconnected")
			return
		case msg := <-clientChan:
			if err := sse.WriteEvent(w, msg.Event, msg.Data); err != nil {
				log.WithError(err).Debug("handleSSE: write failed")
				return
			}
			flusher.Flush()
		}
	}
}
