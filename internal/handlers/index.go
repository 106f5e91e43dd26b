package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/celebration"
	"github.com/aaronzipp/holiday-wishes/internal/metrics"
	"github.com/aaronzipp/holiday-wishes/internal/render"
	"github.com/aaronzipp/holiday-wishes/internal/scheduler"
	"github.com/aaronzipp/holiday-wishes/internal/store"
	"github.com/aaronzipp/holiday-wishes/internal/wishes"
)

// Settings are the page-level options of the celebration
type Settings struct {
	CountdownVideo string
	TreeVideo      string
	Signature      string
	ConnectGrace   time.Duration
	PublicURL      string
}

// Context holds shared application dependencies
type Context struct {
	Store     *store.FlowStore
	Templates *template.Template
	Catalog   wishes.Catalog
	Scheduler scheduler.Scheduler
	Metrics   *metrics.Recorder
	Settings  Settings
	Log       logrus.FieldLogger
}

// HandleIndex serves the entry form
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx.renderIndex(w, http.StatusOK, render.IndexData{})
}

// HandleStart validates the submitted name and hands off to the celebration
func (ctx *Context) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	if !celebration.HasName(name) {
		ctx.renderIndex(w, http.StatusBadRequest, render.IndexData{Name: name, Error: "Please enter a name"})
		return
	}
	http.Redirect(w, r, render.CelebrationPath(name), http.StatusSeeOther)
}

func (ctx *Context) renderIndex(w http.ResponseWriter, status int, data render.IndexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := ctx.Templates.ExecuteTemplate(w, "index.html", data); err != nil {
		ctx.Log.WithError(err).Error("rendering index")
	}
}
