package sse

// SSE event type constants
const (
	EventPhase        = "phase"
	EventGift         = "gift"
	EventVideoPlay    = "video-play"
	EventVideoPause   = "video-pause"
	EventConfetti     = "confetti"
	EventSpeak        = "speak"
	EventSpeechCancel = "speech-cancel"
)

const (
	// BufferSize is the buffer size for SSE message channels
	BufferSize = 10

	// SendTimeoutSeconds is the timeout for sending messages to SSE clients
	SendTimeoutSeconds = 1
)
