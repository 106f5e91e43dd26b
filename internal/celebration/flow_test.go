package celebration

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/holiday-wishes/internal/models"
	"github.com/aaronzipp/holiday-wishes/internal/scheduler"
	"github.com/aaronzipp/holiday-wishes/internal/speech"
	"github.com/aaronzipp/holiday-wishes/internal/wishes"
)

type fakeMedia struct {
	playErr error
	calls   []string
}

func (m *fakeMedia) PlayTree() error {
	m.calls = append(m.calls, "play")
	return m.playErr
}

func (m *fakeMedia) PauseTree() { m.calls = append(m.calls, "pause") }

type fakeEffects struct{ bursts []Burst }

func (e *fakeEffects) Burst(b Burst) { e.bursts = append(e.bursts, b) }

type fakeSynth struct {
	supported bool
	voices    []speech.Voice
	spoken    []speech.Utterance
	cancels   int
}

func (s *fakeSynth) Supported() bool               { return s.supported }
func (s *fakeSynth) Voices() []speech.Voice        { return s.voices }
func (s *fakeSynth) OnVoicesChanged(func()) func() { return func() {} }
func (s *fakeSynth) Cancel()                       { s.cancels++ }
func (s *fakeSynth) Speak(u speech.Utterance)      { s.spoken = append(s.spoken, u) }

type recorder struct {
	phases    []models.Phase
	announced []speech.Result
	rejected  []error
	last      Snapshot
}

func (r *recorder) PhaseChanged(s Snapshot) {
	r.phases = append(r.phases, s.Phase)
	r.last = s
}

func (r *recorder) Announced(_ Snapshot, res speech.Result) { r.announced = append(r.announced, res) }
func (r *recorder) MediaRejected(_ Snapshot, err error)     { r.rejected = append(r.rejected, err) }

type harness struct {
	clock   *scheduler.Manual
	media   *fakeMedia
	effects *fakeEffects
	synth   *fakeSynth
	obs     *recorder
	flow    *Flow
}

func newHarness(t *testing.T, name string) *harness {
	t.Helper()
	h := &harness{
		clock:   scheduler.NewManual(time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)),
		media:   &fakeMedia{},
		effects: &fakeEffects{},
		synth:   &fakeSynth{supported: true, voices: []speech.Voice{{Name: "Daniel"}}},
		obs:     &recorder{},
	}
	h.flow = New("flow-1", name, Deps{
		Scheduler: h.clock,
		Media:     h.media,
		Effects:   h.effects,
		Speech:    h.synth,
		Catalog:   wishes.Default(),
		Rand:      rand.New(rand.NewPCG(7, 7)),
		Observer:  h.obs,
	})
	return h
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Friend", DisplayName(""))
	assert.Equal(t, "Ada", DisplayName("Ada"))
	assert.Equal(t, "  Ada ", DisplayName("  Ada "))
}

func TestHasName(t *testing.T) {
	assert.True(t, HasName("Ada"))
	assert.True(t, HasName(" Ada "))
	assert.False(t, HasName(""))
	assert.False(t, HasName(" \t\n "))
}

func TestFlow_NotMountedDoesNothing(t *testing.T) {
	h := newHarness(t, "Ada")
	assert.Equal(t, 0, h.clock.Pending())
	h.clock.Advance(time.Minute)
	assert.Equal(t, models.PhaseCountdown, h.flow.Phase())
	assert.Empty(t, h.obs.phases)
}

func TestFlow_FullSequence(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	assert.Equal(t, models.PhaseCountdown, h.flow.Phase())
	assert.Equal(t, 1, h.clock.Pending(), "countdown owns one timer")

	h.clock.Advance(CountdownDelay - time.Millisecond)
	assert.Equal(t, models.PhaseCountdown, h.flow.Phase())
	assert.Empty(t, h.media.calls)

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, models.PhaseTree, h.flow.Phase())
	assert.Equal(t, []string{"play"}, h.media.calls)
	assert.Equal(t, 1, h.clock.Pending(), "tree owns one timer")

	h.clock.Advance(TreeDelay - time.Millisecond)
	assert.Equal(t, models.PhaseTree, h.flow.Phase())
	assert.Empty(t, h.synth.spoken)

	h.clock.Advance(time.Millisecond)
	snap := h.flow.Snapshot()
	assert.Equal(t, models.PhaseGift, snap.Phase)
	assert.Equal(t, "Ada", snap.Name)
	assert.True(t, wishes.Default().Contains(snap.Wish))
	assert.Equal(t, wishes.Default().At(snap.WishIndex), snap.Wish)

	assert.Equal(t, []string{"play", "pause"}, h.media.calls)
	assert.Equal(t, []Burst{{Particles: 150, Spread: 70, Origin: Origin{Y: 0.6}}}, h.effects.bursts)
	require.Len(t, h.synth.spoken, 1)
	assert.Equal(t, snap.Wish, h.synth.spoken[0].Text)
	assert.Equal(t, 1, h.synth.cancels)

	assert.Equal(t, []models.Phase{models.PhaseCountdown, models.PhaseTree, models.PhaseGift}, h.obs.phases)
	assert.Equal(t, []speech.Result{speech.ResultSpoken}, h.obs.announced)
	assert.Equal(t, 0, h.clock.Pending(), "gift is terminal")

	h.clock.Advance(time.Hour)
	assert.Equal(t, models.PhaseGift, h.flow.Phase())
	assert.Len(t, h.obs.phases, 3)
}

func TestFlow_WishSelectedAtGiftOnly(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	h.clock.Advance(CountdownDelay)

	snap := h.flow.Snapshot()
	assert.Empty(t, snap.Wish)
	assert.Equal(t, -1, snap.WishIndex)
}

func TestFlow_DuplicateGiftTriggerSpeaksOnce(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	h.clock.Advance(CountdownDelay)
	seq := h.flow.seq

	h.flow.fire(seq, h.flow.openGift)
	h.flow.fire(seq, h.flow.openGift)
	h.clock.Advance(TreeDelay)

	assert.Len(t, h.synth.spoken, 1)
	assert.Len(t, h.effects.bursts, 1)
	assert.Equal(t, []string{"play", "pause"}, h.media.calls)
	assert.Equal(t, []models.Phase{models.PhaseCountdown, models.PhaseTree, models.PhaseGift}, h.obs.phases)
}

func TestFlow_StaleTimerIgnored(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	stale := h.flow.seq
	h.clock.Advance(CountdownDelay)

	h.flow.fire(stale, h.flow.enterTree)
	assert.Equal(t, []string{"play"}, h.media.calls)
}

func TestFlow_UnmountDuringCountdown(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	h.clock.Advance(10 * time.Second)

	snap := h.flow.Unmount()
	assert.Equal(t, models.PhaseCountdown, snap.Phase)
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(time.Hour)
	assert.Equal(t, models.PhaseCountdown, h.flow.Phase())
	assert.Empty(t, h.media.calls)
	assert.Len(t, h.obs.phases, 1)
}

func TestFlow_UnmountDuringTree(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	h.clock.Advance(CountdownDelay + 3*time.Second)

	h.flow.Unmount()
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(time.Hour)
	assert.Equal(t, models.PhaseTree, h.flow.Phase())
	assert.Empty(t, h.synth.spoken)
	assert.Empty(t, h.effects.bursts)
}

func TestFlow_MountIsIdempotentAndFinalAfterUnmount(t *testing.T) {
	h := newHarness(t, "Ada")
	h.flow.Mount()
	h.flow.Mount()
	assert.Equal(t, 1, h.clock.Pending())

	h.flow.Unmount()
	h.flow.Unmount()
	h.flow.Mount()
	assert.Equal(t, 0, h.clock.Pending())
}

func TestFlow_AutoplayRejectionDoesNotStopSequence(t *testing.T) {
	h := newHarness(t, "Ada")
	h.media.playErr = errors.New("NotAllowedError")
	h.flow.Mount()

	h.clock.Advance(CountdownDelay)
	require.Len(t, h.obs.rejected, 1)
	assert.Equal(t, models.PhaseTree, h.flow.Phase())

	h.clock.Advance(TreeDelay)
	assert.Equal(t, models.PhaseGift, h.flow.Phase())
	assert.Len(t, h.synth.spoken, 1)
}

func TestFlow_SpeechUnavailable(t *testing.T) {
	h := newHarness(t, "Ada")
	h.synth.supported = false
	h.flow.Mount()
	h.clock.Advance(CountdownDelay + TreeDelay)

	assert.Equal(t, models.PhaseGift, h.flow.Phase())
	assert.Empty(t, h.synth.spoken)
	assert.Equal(t, []speech.Result{speech.ResultUnsupported}, h.obs.announced)
}

func TestFlow_DefaultName(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, "Friend", h.flow.Name())
}

func TestFlow_NilDepsFallBack(t *testing.T) {
	clock := scheduler.NewManual(time.Now())
	f := New("bare", "Ada", Deps{Scheduler: clock})
	f.Mount()
	require.NotPanics(t, func() { clock.Advance(CountdownDelay + TreeDelay) })
	assert.Equal(t, models.PhaseGift, f.Phase())
	assert.True(t, wishes.Default().Contains(f.Snapshot().Wish))
}

func TestFlow_IndependentInstances(t *testing.T) {
	clock := scheduler.NewManual(time.Now())
	rng := rand.New(rand.NewPCG(99, 1))
	seen := map[string]int{}
	for range 200 {
		f := New("f", "Ada", Deps{Scheduler: clock, Rand: rng})
		f.Mount()
		clock.Advance(CountdownDelay + TreeDelay)
		seen[f.Snapshot().Wish]++
	}
	assert.Greater(t, len(seen), 1, "wishes vary across instances")
	for w := range seen {
		assert.True(t, wishes.Default().Contains(w))
	}
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	obs := Observers{a, b}
	obs.PhaseChanged(Snapshot{Phase: models.PhaseTree})
	obs.Announced(Snapshot{}, speech.ResultSpoken)
	obs.MediaRejected(Snapshot{}, errors.New("x"))

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []models.Phase{models.PhaseTree}, r.phases)
		assert.Len(t, r.announced, 1)
		assert.Len(t, r.rejected, 1)
	}
}

func TestPhase_Next(t *testing.T) {
	assert.Equal(t, models.PhaseTree, models.PhaseCountdown.Next())
	assert.Equal(t, models.PhaseGift, models.PhaseTree.Next())
	assert.Equal(t, models.Phase(""), models.PhaseGift.Next())
}
