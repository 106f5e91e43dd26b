package speech

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	mu        sync.Mutex
	supported bool
	voices    []Voice
	listeners map[int]func()
	nextID    int
	cancels   int
	spoken    []Utterance
	calls     []string
}

func newFakeSynth(supported bool, voices ...Voice) *fakeSynth {
	return &fakeSynth{supported: supported, voices: voices, listeners: map[int]func(){}}
}

func (f *fakeSynth) Supported() bool { return f.supported }

func (f *fakeSynth) Voices() []Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Voice(nil), f.voices...)
}

func (f *fakeSynth) OnVoicesChanged(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeSynth) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	f.calls = append(f.calls, "cancel")
}

func (f *fakeSynth) Speak(u Utterance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, u)
	f.calls = append(f.calls, "speak")
}

func (f *fakeSynth) loadVoices(v ...Voice) {
	f.mu.Lock()
	f.voices = v
	ls := make([]func(), 0, len(f.listeners))
	for _, l := range f.listeners {
		ls = append(ls, l)
	}
	f.mu.Unlock()
	for _, l := range ls {
		l()
	}
}

func (f *fakeSynth) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		want   string
	}{
		{"none", nil, ""},
		{"no match", []Voice{{Name: "Samantha"}, {Name: "Karen"}}, ""},
		{"substring match", []Voice{{Name: "Samantha"}, {Name: "Microsoft David - English (United States)"}}, "Microsoft David - English (United States)"},
		{"first voice in list wins", []Voice{{Name: "Google US English"}, {Name: "Google UK English Male"}}, "Google US English"},
		{"daniel", []Voice{{Name: "Daniel"}}, "Daniel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectVoice(tt.voices))
		})
	}
}

func TestAnnounce_Unsupported(t *testing.T) {
	synth := newFakeSynth(false, Voice{Name: "Daniel"})
	a := NewAnnouncer(synth, nil)

	assert.Equal(t, ResultUnsupported, a.Announce("hello"))
	assert.Empty(t, synth.spoken)
	assert.Zero(t, synth.cancels)
}

func TestAnnounce_NilSynthIsNoop(t *testing.T) {
	a := NewAnnouncer(nil, nil)
	require.NotPanics(t, func() {
		assert.Equal(t, ResultUnsupported, a.Announce("hello"))
	})
}

func TestAnnounce_SpeaksOnceWithTuning(t *testing.T) {
	synth := newFakeSynth(true, Voice{Name: "Alex"}, Voice{Name: "Daniel", Lang: "en-GB"})
	a := NewAnnouncer(synth, nil)

	assert.Equal(t, ResultSpoken, a.Announce("Peace on earth"))
	assert.Equal(t, ResultDuplicate, a.Announce("Peace on earth"))
	assert.Equal(t, ResultDuplicate, a.Announce("something else"))

	require.Len(t, synth.spoken, 1)
	assert.Equal(t, Utterance{Text: "Peace on earth", Voice: "Daniel", Rate: 0.8, Pitch: 0.7}, synth.spoken[0])
	assert.Equal(t, []string{"cancel", "speak"}, synth.calls, "other speech is cancelled first")
	assert.True(t, a.Spoken())
}

func TestAnnounce_DefaultVoiceWhenNoPreferredMatch(t *testing.T) {
	synth := newFakeSynth(true, Voice{Name: "Samantha"})
	a := NewAnnouncer(synth, nil)

	a.Announce("hi")
	require.Len(t, synth.spoken, 1)
	assert.Empty(t, synth.spoken[0].Voice)
}

func TestAnnounce_DefersUntilVoicesLoad(t *testing.T) {
	synth := newFakeSynth(true)
	a := NewAnnouncer(synth, nil)

	assert.Equal(t, ResultDeferred, a.Announce("Let it snow"))
	assert.Empty(t, synth.spoken)
	assert.Equal(t, 1, synth.listenerCount())

	synth.loadVoices(Voice{Name: "Google UK English Male"})
	require.Len(t, synth.spoken, 1)
	assert.Equal(t, "Google UK English Male", synth.spoken[0].Voice)
	assert.Equal(t, 0, synth.listenerCount(), "listener detached after firing")

	synth.loadVoices(Voice{Name: "Daniel"})
	assert.Len(t, synth.spoken, 1, "voices changing again does not speak twice")
}

func TestAnnounce_DeferredDuplicateIgnored(t *testing.T) {
	synth := newFakeSynth(true)
	a := NewAnnouncer(synth, nil)

	a.Announce("one")
	assert.Equal(t, ResultDuplicate, a.Announce("two"))
	assert.Equal(t, 1, synth.listenerCount())

	synth.loadVoices(Voice{Name: "David"})
	require.Len(t, synth.spoken, 1)
	assert.Equal(t, "one", synth.spoken[0].Text)
}

func TestAnnouncer_CloseDetachesPendingListener(t *testing.T) {
	synth := newFakeSynth(true)
	a := NewAnnouncer(synth, nil)

	a.Announce("never heard")
	a.Close()
	assert.Equal(t, 0, synth.listenerCount())

	synth.loadVoices(Voice{Name: "Daniel"})
	assert.Empty(t, synth.spoken)
}

func TestNoop(t *testing.T) {
	var s Synthesizer = Noop{}
	assert.False(t, s.Supported())
	assert.Nil(t, s.Voices())
	require.NotPanics(t, func() {
		s.OnVoicesChanged(func() {})()
		s.Cancel()
		s.Speak(Utterance{Text: "x"})
	})
}
