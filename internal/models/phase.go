package models

// Phase is the current step of a celebration
type Phase string

const (
	PhaseCountdown Phase = "countdown"
	PhaseTree      Phase = "tree"
	PhaseGift      Phase = "gift"
)

// Next returns the phase that follows p, or "" for the terminal phase
func (p Phase) Next() Phase {
	switch p {
	case PhaseCountdown:
		return PhaseTree
	case PhaseTree:
		return PhaseGift
	default:
		return ""
	}
}
