package celebration

import "time"

const (
	// CountdownDelay is how long the countdown video runs before the tree appears
	CountdownDelay = 25 * time.Second

	// TreeDelay is how long the tree video runs before the gift opens
	TreeDelay = 8 * time.Second

	// DefaultName is used when no display name is handed off
	DefaultName = "Friend"
)

// Confetti burst fired when the gift opens
const (
	BurstParticles = 150
	BurstSpread    = 70
	BurstOriginY   = 0.6
)
