package sse

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/celebration"
	"github.com/aaronzipp/holiday-wishes/internal/speech"
)

// Bridge exposes the viewer's browser as the media, effects and speech
// capabilities of a celebration. Commands go out over the hub; the browser
// reports its voices back through ReportVoices.
type Bridge struct {
	hub *Hub
	log logrus.FieldLogger

	mu        sync.Mutex
	supported bool
	voices    []speech.Voice
	listeners map[int]func()
	nextID    int
}

// NewBridge creates a bridge on top of hub
func NewBridge(hub *Hub, log logrus.FieldLogger) *Bridge {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bridge{hub: hub, log: log, listeners: make(map[int]func())}
}

// PlayTree asks the browser to start the tree video. With nobody watching
// the request is reported as rejected.
func (b *Bridge) PlayTree() error {
	if b.hub.Broadcast(EventVideoPlay, "tree") == 0 {
		return fmt.Errorf("play tree video: %w", ErrNoViewers)
	}
	return nil
}

// PauseTree asks the browser to pause the tree video
func (b *Bridge) PauseTree() {
	b.hub.Broadcast(EventVideoPause, "tree")
}

// Burst asks the browser to fire confetti
func (b *Bridge) Burst(burst celebration.Burst) {
	if _, err := b.hub.BroadcastJSON(EventConfetti, burst); err != nil {
		b.log.WithError(err).Warn("confetti burst dropped")
	}
}

// ReportVoices records the browser's speech support and voice list. Voices
// listeners run when the report carries at least one voice.
func (b *Bridge) ReportVoices(supported bool, voices []speech.Voice) {
	b.mu.Lock()
	b.supported = supported
	b.voices = append([]speech.Voice(nil), voices...)
	var listeners []func()
	if len(voices) > 0 {
		for _, fn := range b.listeners {
			listeners = append(listeners, fn)
		}
	}
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{"supported": supported, "voices": len(voices)}).Debug("voices reported")
	for _, fn := range listeners {
		fn()
	}
}

// Supported reports whether the browser said it can speak
func (b *Bridge) Supported() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supported
}

// Voices returns the last reported voice list
func (b *Bridge) Voices() []speech.Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]speech.Voice(nil), b.voices...)
}

// OnVoicesChanged registers fn until the returned detach func is called
func (b *Bridge) OnVoicesChanged(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// ListenerCount returns the number of attached voices listeners
func (b *Bridge) ListenerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Cancel asks the browser to drop any queued speech
func (b *Bridge) Cancel() {
	b.hub.Broadcast(EventSpeechCancel, "")
}

// Speak asks the browser to speak u
func (b *Bridge) Speak(u speech.Utterance) {
	if _, err := b.hub.BroadcastJSON(EventSpeak, u); err != nil {
		b.log.WithError(err).Warn("utterance dropped")
	}
}
