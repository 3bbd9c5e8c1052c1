package engine

import (
	"errors"
	"time"
)

// MoveType enumerates the kinds of moves a player can submit.
type MoveType uint8

const (
	PlaceStone MoveType = iota
	Pass
	Resign
)

func (t MoveType) String() string {
	switch t {
	case PlaceStone:
		return "place"
	case Pass:
		return "pass"
	case Resign:
		return "resign"
	default:
		return "unknown"
	}
}

func (t MoveType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// ParseMoveType maps the wire name of a move back to its MoveType.
func ParseMoveType(s string) (MoveType, bool) {
	switch s {
	case "place":
		return PlaceStone, true
	case "pass":
		return Pass, true
	case "resign":
		return Resign, true
	}
	return 0, false
}

// Move is one accepted entry of the game record. Pos is meaningful only for
// PlaceStone; Captured lists the opponent stones the move removed.
type Move struct {
	Player   Stone      `json:"player"`
	Type     MoveType   `json:"type"`
	Pos      Position   `json:"pos"`
	Captured []Position `json:"captured,omitempty"`
	PlayedAt time.Time  `json:"played_at"`
}

// Result is the final outcome of a game. Points are zero when the game ended
// by resignation. Winner is Empty on a draw (possible only with zero komi).
type Result struct {
	BlackPoints float64 `json:"black_points"`
	WhitePoints float64 `json:"white_points"`
	Winner      Stone   `json:"winner"`
}

// Rule violations reported by the engine. Every rejection is one of these
// sentinels; the board and game state are left untouched when they are
// returned.
var (
	ErrOccupied         = errors.New("occupied")
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrSuicide          = errors.New("suicide")
	ErrKoViolation      = errors.New("ko violation")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongPhase       = errors.New("wrong phase")
	ErrInvalidOperation = errors.New("invalid operation")
)
