package models

// SSEMessage represents a message sent via Server-Sent Events
type SSEMessage struct {
	Event string // Event type (e.g., "phase", "video-play")
	Data  string // HTML fragment or JSON payload, single line
}
