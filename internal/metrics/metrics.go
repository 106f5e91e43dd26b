// Package metrics exposes Prometheus counters for celebrations.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aaronzipp/holiday-wishes/internal/celebration"
	"github.com/aaronzipp/holiday-wishes/internal/models"
	"github.com/aaronzipp/holiday-wishes/internal/speech"
)

const namespace = "holiday_wishes"

// Media rejection sources
const (
	SourceServer  = "server"
	SourceBrowser = "browser"
)

// Recorder holds the application counters. It implements celebration.Observer.
type Recorder struct {
	FlowsMounted    prometheus.Counter
	FlowsUnmounted  *prometheus.CounterVec
	PhasesEntered   *prometheus.CounterVec
	WishesSelected  *prometheus.CounterVec
	Announcements   *prometheus.CounterVec
	MediaRejections *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		FlowsMounted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_mounted_total",
			Help:      "Celebrations started.",
		}),
		FlowsUnmounted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_unmounted_total",
			Help:      "Celebrations torn down, by the phase they were in.",
		}, []string{"phase"}),
		PhasesEntered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phases_entered_total",
			Help:      "Phase entries across all celebrations.",
		}, []string{"phase"}),
		WishesSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wishes_selected_total",
			Help:      "Wishes revealed, by catalog index.",
		}, []string{"index"}),
		Announcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_total",
			Help:      "Spoken announcement attempts, by result.",
		}, []string{"result"}),
		MediaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_rejections_total",
			Help:      "Video playback requests that were refused.",
		}, []string{"source"}),
	}
	reg.MustRegister(
		r.FlowsMounted,
		r.FlowsUnmounted,
		r.PhasesEntered,
		r.WishesSelected,
		r.Announcements,
		r.MediaRejections,
	)
	return r
}

// PhaseChanged counts phase entries and, at the gift, the selected wish.
func (r *Recorder) PhaseChanged(s celebration.Snapshot) {
	r.PhasesEntered.WithLabelValues(string(s.Phase)).Inc()
	if s.Phase == models.PhaseGift && s.WishIndex >= 0 {
		r.WishesSelected.WithLabelValues(strconv.Itoa(s.WishIndex)).Inc()
	}
}

func (r *Recorder) Announced(_ celebration.Snapshot, res speech.Result) {
	r.Announcements.WithLabelValues(string(res)).Inc()
}

func (r *Recorder) MediaRejected(_ celebration.Snapshot, _ error) {
	r.MediaRejections.WithLabelValues(SourceServer).Inc()
}
