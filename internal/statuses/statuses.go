package statuses

// Lifecycle of a game document in Mongo. The usecase keeps these in sync
// with the engine phase.
const (
	StatusWaitOpponent = "waiting_opponent"
	StatusActive       = "active"
	StatusScoring      = "scoring"
	StatusCompleted    = "completed"
)
