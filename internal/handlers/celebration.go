package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/celebration"
	"github.com/aaronzipp/holiday-wishes/internal/models"
	"github.com/aaronzipp/holiday-wishes/internal/render"
	"github.com/aaronzipp/holiday-wishes/internal/speech"
	"github.com/aaronzipp/holiday-wishes/internal/sse"
	"github.com/aaronzipp/holiday-wishes/internal/store"
)

// HandleCelebration mounts a new celebration for the handed-off name and
// serves its page
func (ctx *Context) HandleCelebration(w http.ResponseWriter, r *http.Request) {
	name := celebration.DisplayName(r.URL.Query().Get("name"))
	session := ctx.StartSession(name)

	data := render.CelebrationData{
		ID:             session.ID,
		Heading:        render.Heading(name),
		CountdownVideo: ctx.Settings.CountdownVideo,
		TreeVideo:      ctx.Settings.TreeVideo,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := ctx.Templates.ExecuteTemplate(w, "celebration.html", data); err != nil {
		ctx.Log.WithError(err).Error("rendering celebration")
	}
}

// StartSession creates and mounts a celebration. If no viewer connects
// within the grace period the celebration is torn down.
func (ctx *Context) StartSession(name string) *store.Session {
	id := uuid.New().String()
	log := ctx.Log.WithField("flow_id", id)

	hub := sse.NewHub(log)
	bridge := sse.NewBridge(hub, log)
	flow := celebration.New(id, name, celebration.Deps{
		Scheduler: ctx.Scheduler,
		Media:     bridge,
		Effects:   bridge,
		Speech:    bridge,
		Catalog:   ctx.Catalog,
		Rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Observer: celebration.Observers{
			&viewObserver{hub: hub, signature: ctx.Settings.Signature},
			ctx.Metrics,
		},
		Log: ctx.Log,
	})

	session := &store.Session{
		ID:      id,
		Flow:    flow,
		Hub:     hub,
		Bridge:  bridge,
		Created: ctx.Scheduler.Now(),
	}
	ctx.Store.Set(session)
	ctx.Metrics.FlowsMounted.Inc()
	flow.Mount()

	session.SetGrace(ctx.Scheduler.AfterFunc(ctx.Settings.ConnectGrace, func() {
		if !session.Connected() {
			ctx.EndSession(id, "no viewer connected")
		}
	}))
	return session
}

// EndSession unmounts a celebration and forgets it. Safe to call more than once.
func (ctx *Context) EndSession(id, reason string) {
	session, ok := ctx.Store.Take(id)
	if !ok {
		return
	}
	session.StopGrace()
	snap := session.Flow.Unmount()
	ctx.Metrics.FlowsUnmounted.WithLabelValues(string(snap.Phase)).Inc()
	ctx.Log.WithFields(logrus.Fields{
		"flow_id": id,
		"phase":   snap.Phase,
		"reason":  reason,
		"age":     ctx.Scheduler.Now().Sub(session.Created),
	}).Info("celebration ended")
}

// Shutdown ends every mounted celebration
func (ctx *Context) Shutdown() {
	for _, session := range ctx.Store.Drain() {
		session.StopGrace()
		snap := session.Flow.Unmount()
		ctx.Metrics.FlowsUnmounted.WithLabelValues(string(snap.Phase)).Inc()
	}
}

// viewObserver pushes phase changes and the gift card to the viewer
type viewObserver struct {
	hub       *sse.Hub
	signature string
}

func (o *viewObserver) PhaseChanged(s celebration.Snapshot) {
	o.hub.Broadcast(sse.EventPhase, string(s.Phase))
	if s.Phase == models.PhaseGift {
		o.hub.Broadcast(sse.EventGift, render.GiftCard(s.Name, s.Wish, o.signature))
	}
}

func (o *viewObserver) Announced(celebration.Snapshot, speech.Result) {}

func (o *viewObserver) MediaRejected(celebration.Snapshot, error) {}
