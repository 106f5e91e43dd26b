// Package speech drives a one-shot spoken announcement on top of an
// environment-provided text-to-speech capability.
package speech

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Delivery parameters for announcements: slower and deeper than normal.
const (
	Rate  = 0.8
	Pitch = 0.7
)

// PreferredVoices are matched as substrings of voice names.
var PreferredVoices = []string{
	"Google UK English Male",
	"Daniel",
	"David",
	"Google US English",
}

// Voice is one voice offered by the environment.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang,omitempty"`
}

// Utterance is a single request to speak.
type Utterance struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"` // empty selects the environment default
	Rate  float64 `json:"rate"`
	Pitch float64 `json:"pitch"`
}

// Synthesizer is the process-wide speech capability of the environment.
type Synthesizer interface {
	// Supported reports whether the environment can speak at all.
	Supported() bool
	// Voices returns the voices available right now, possibly none yet.
	Voices() []Voice
	// OnVoicesChanged registers fn to run when the voice list loads. The
	// returned func detaches the listener.
	OnVoicesChanged(fn func()) (detach func())
	// Cancel stops any in-flight or queued speech.
	Cancel()
	Speak(u Utterance)
}

// Noop is a Synthesizer for environments without speech.
type Noop struct{}

func (Noop) Supported() bool               { return false }
func (Noop) Voices() []Voice               { return nil }
func (Noop) OnVoicesChanged(func()) func() { return func() {} }
func (Noop) Cancel()                       {}
func (Noop) Speak(Utterance)               {}

// Result describes what an Announce call did.
type Result string

const (
	ResultSpoken      Result = "spoken"
	ResultDeferred    Result = "deferred"
	ResultUnsupported Result = "unsupported"
	ResultDuplicate   Result = "duplicate"
)

// SelectVoice returns the first voice whose name contains any preferred
// name, or "" when none match.
func SelectVoice(voices []Voice) string {
	for _, v := range voices {
		for _, p := range PreferredVoices {
			if strings.Contains(v.Name, p) {
				return v.Name
			}
		}
	}
	return ""
}

// Announcer speaks at most once. Create one per flow instance.
type Announcer struct {
	synth Synthesizer
	log   logrus.FieldLogger

	mu     sync.Mutex
	spoken bool
	detach func()
}

// NewAnnouncer returns an Announcer over synth. A nil synth behaves like Noop.
func NewAnnouncer(synth Synthesizer, log logrus.FieldLogger) *Announcer {
	if synth == nil {
		synth = Noop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Announcer{synth: synth, log: log}
}

// Announce speaks text once. Later calls are ignored. When the voice list
// is not loaded yet, speaking is deferred until the synthesizer reports it.
func (a *Announcer) Announce(text string) Result {
	if !a.synth.Supported() {
		a.log.Debug("speech synthesis unavailable, skipping announcement")
		return ResultUnsupported
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.spoken {
		return ResultDuplicate
	}
	a.spoken = true

	a.synth.Cancel()

	if voices := a.synth.Voices(); len(voices) > 0 {
		a.speak(text, voices)
		return ResultSpoken
	}

	var once sync.Once
	detach := a.synth.OnVoicesChanged(func() {
		once.Do(func() { a.deferred(text) })
	})
	// the list may have loaded between the check above and registration
	if voices := a.synth.Voices(); len(voices) > 0 {
		detach()
		a.speak(text, voices)
		return ResultSpoken
	}
	a.detach = detach
	a.log.Debug("voices not loaded yet, deferring announcement")
	return ResultDeferred
}

// Spoken reports whether an announcement has been triggered.
func (a *Announcer) Spoken() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spoken
}

// Close detaches a still-pending voices listener. The deferred
// announcement, if any, will not happen.
func (a *Announcer) Close() {
	a.mu.Lock()
	detach := a.detach
	a.detach = nil
	a.mu.Unlock()
	if detach != nil {
		detach()
	}
}

func (a *Announcer) deferred(text string) {
	a.mu.Lock()
	detach := a.detach
	a.detach = nil
	if detach == nil {
		// closed before the voices arrived
		a.mu.Unlock()
		return
	}
	a.speak(text, a.synth.Voices())
	a.mu.Unlock()
	detach()
}

// speak must be called with mu held.
func (a *Announcer) speak(text string, voices []Voice) {
	u := Utterance{
		Text:  text,
		Voice: SelectVoice(voices),
		Rate:  Rate,
		Pitch: Pitch,
	}
	a.log.WithField("voice", u.Voice).Info("speaking announcement")
	a.synth.Speak(u)
}
