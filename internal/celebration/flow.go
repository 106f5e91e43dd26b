// Package celebration runs the timed celebration sequence for one visitor:
// a countdown, then the tree, then the gift reveal with a spoken wish.
package celebration

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/models"
	"github.com/aaronzipp/holiday-wishes/internal/scheduler"
	"github.com/aaronzipp/holiday-wishes/internal/speech"
	"github.com/aaronzipp/holiday-wishes/internal/wishes"
)

// Media controls the tree video of the celebration view.
type Media interface {
	// PlayTree starts the tree video. The environment may refuse playback.
	PlayTree() error
	PauseTree()
}

// Origin is the burst origin as a fraction of the viewport.
type Origin struct {
	Y float64 `json:"y"`
}

// Burst describes a confetti burst.
type Burst struct {
	Particles int    `json:"particleCount"`
	Spread    int    `json:"spread"`
	Origin    Origin `json:"origin"`
}

// GiftBurst is fired when the gift opens.
var GiftBurst = Burst{Particles: BurstParticles, Spread: BurstSpread, Origin: Origin{Y: BurstOriginY}}

// Effects fires one-shot visual effects.
type Effects interface {
	Burst(b Burst)
}

// Snapshot is a read-only view of a flow.
type Snapshot struct {
	ID        string
	Name      string
	Phase     models.Phase
	Wish      string
	WishIndex int
}

// Observer is notified of flow events. Calls are made while the flow is
// locked, so implementations must not call back into the Flow.
type Observer interface {
	PhaseChanged(s Snapshot)
	Announced(s Snapshot, r speech.Result)
	MediaRejected(s Snapshot, err error)
}

// Deps are the capabilities a Flow drives. Nil fields fall back to no-ops.
type Deps struct {
	Scheduler scheduler.Scheduler
	Media     Media
	Effects   Effects
	Speech    speech.Synthesizer
	Catalog   wishes.Catalog
	Rand      *rand.Rand
	Observer  Observer
	Log       logrus.FieldLogger
}

// Flow is one run of the celebration. Phases only move forward and each
// phase owns at most one pending timer.
type Flow struct {
	id   string
	name string
	deps Deps
	log  logrus.FieldLogger

	announcer *speech.Announcer

	mu        sync.Mutex
	phase     models.Phase
	wish      string
	wishIndex int
	mounted   bool
	unmounted bool
	seq       uint64
	cancel    scheduler.Cancel
}

// DisplayName returns raw, or DefaultName when raw is empty.
func DisplayName(raw string) string {
	if raw == "" {
		return DefaultName
	}
	return raw
}

// HasName reports whether a submitted name is acceptable.
func HasName(raw string) bool {
	return strings.TrimSpace(raw) != ""
}

// New creates a flow for the given display name. The flow does nothing
// until Mount is called.
func New(id, name string, deps Deps) *Flow {
	if deps.Scheduler == nil {
		deps.Scheduler = scheduler.Real{}
	}
	if deps.Media == nil {
		deps.Media = nopMedia{}
	}
	if deps.Effects == nil {
		deps.Effects = nopEffects{}
	}
	if deps.Observer == nil {
		deps.Observer = NopObserver{}
	}
	if deps.Catalog.Len() == 0 {
		deps.Catalog = wishes.Default()
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	log := deps.Log.WithField("flow_id", id)
	return &Flow{
		id:        id,
		name:      DisplayName(name),
		deps:      deps,
		log:       log,
		announcer: speech.NewAnnouncer(deps.Speech, log),
		phase:     models.PhaseCountdown,
		wishIndex: -1,
	}
}

// ID returns the flow id.
func (f *Flow) ID() string { return f.id }

// Name returns the display name.
func (f *Flow) Name() string { return f.name }

// Mount enters the countdown phase and arms its timer. Calling Mount more
// than once, or after Unmount, does nothing.
func (f *Flow) Mount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mounted || f.unmounted {
		return
	}
	f.mounted = true
	f.log.WithField("name", f.name).Info("celebration mounted")
	f.deps.Observer.PhaseChanged(f.snapshot())
	f.arm(CountdownDelay, f.enterTree)
}

// Unmount cancels any pending timer and detaches pending speech. No state
// changes after Unmount returns.
func (f *Flow) Unmount() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.unmounted {
		f.unmounted = true
		if f.cancel != nil {
			f.cancel()
			f.cancel = nil
		}
		f.announcer.Close()
		f.log.WithField("phase", f.phase).Info("celebration unmounted")
	}
	return f.snapshot()
}

// Snapshot returns the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// Phase returns the current phase.
func (f *Flow) Phase() models.Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *Flow) snapshot() Snapshot {
	return Snapshot{
		ID:        f.id,
		Name:      f.name,
		Phase:     f.phase,
		Wish:      f.wish,
		WishIndex: f.wishIndex,
	}
}

// arm must be called with mu held.
func (f *Flow) arm(d time.Duration, step func()) {
	f.seq++
	seq := f.seq
	f.cancel = f.deps.Scheduler.AfterFunc(d, func() { f.fire(seq, step) })
}

// fire runs step if the timer that scheduled it is still the current one.
func (f *Flow) fire(seq uint64, step func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unmounted || seq != f.seq {
		return
	}
	f.cancel = nil
	step()
}

func (f *Flow) enterTree() {
	if f.phase != models.PhaseCountdown {
		return
	}
	f.setPhase(f.phase.Next())
	if err := f.deps.Media.PlayTree(); err != nil {
		f.log.WithError(err).Warn("tree video playback rejected")
		f.deps.Observer.MediaRejected(f.snapshot(), err)
	}
	f.arm(TreeDelay, f.openGift)
}

func (f *Flow) openGift() {
	if f.phase != models.PhaseTree {
		f.log.WithField("phase", f.phase).Debug("gift already open")
		return
	}
	f.deps.Media.PauseTree()
	f.deps.Effects.Burst(GiftBurst)
	f.wishIndex, f.wish = wishes.Select(f.deps.Catalog, f.deps.Rand)
	result := f.announcer.Announce(f.wish)
	f.deps.Observer.Announced(f.snapshot(), result)
	f.setPhase(f.phase.Next())
}

func (f *Flow) setPhase(p models.Phase) {
	f.log.WithFields(logrus.Fields{"from": f.phase, "phase": p}).Info("phase changed")
	f.phase = p
	f.deps.Observer.PhaseChanged(f.snapshot())
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) PhaseChanged(Snapshot)             {}
func (NopObserver) Announced(Snapshot, speech.Result) {}
func (NopObserver) MediaRejected(Snapshot, error)     {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) PhaseChanged(s Snapshot) {
	for _, ob := range o {
		ob.PhaseChanged(s)
	}
}

func (o Observers) Announced(s Snapshot, r speech.Result) {
	for _, ob := range o {
		ob.Announced(s, r)
	}
}

func (o Observers) MediaRejected(s Snapshot, err error) {
	for _, ob := range o {
		ob.MediaRejected(s, err)
	}
}

type nopMedia struct{}

func (nopMedia) PlayTree() error { return nil }
func (nopMedia) PauseTree()      {}

type nopEffects struct{}

func (nopEffects) Burst(Burst) {}
