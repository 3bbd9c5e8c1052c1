// Package engine implements the rules of Go (Baduk): move legality, group
// capture, ko, the playing/scoring/finished phase machine and area scoring.
// An Engine is a pure synchronous state machine with no I/O; it holds one
// game and is not safe for concurrent use, the caller serializes access.
package engine

import "time"

// Phase is the lifecycle stage of a game.
type Phase uint8

const (
	Playing Phase = iota
	Scoring
	Finished
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Scoring:
		return "scoring"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

var validSizes = map[int]bool{9: true, 13: true, 19: true}

// Engine owns the full state of one game. All mutation goes through
// MakeMove, MarkDeadStones, ResumePlaying and FinalizeGame; accessors hand
// out copies only.
type Engine struct {
	size     int
	komi     float64
	board    *Board
	phase    Phase
	current  Stone
	history  []Move
	passes   int
	ko       *Position
	dead     map[Position]struct{}
	captures map[Stone]int // prisoners taken by each color
	result   *Result
	resigned Stone
}

// New creates an engine for an empty board. Black moves first.
func New(size int, komi float64) (*Engine, error) {
	if !validSizes[size] {
		return nil, ErrInvalidOperation
	}
	return &Engine{
		size:     size,
		komi:     komi,
		board:    NewBoard(size),
		phase:    Playing,
		current:  Black,
		dead:     make(map[Position]struct{}),
		captures: map[Stone]int{Black: 0, White: 0},
	}, nil
}

func (e *Engine) Phase() Phase         { return e.phase }
func (e *Engine) CurrentPlayer() Stone { return e.current }
func (e *Engine) Komi() float64        { return e.komi }

// Result returns a copy of the final result, or nil while the game is
// still undecided.
func (e *Engine) Result() *Result {
	if e.result == nil {
		return nil
	}
	r := *e.result
	return &r
}

// MakeMove validates and applies one move for player. On rejection the
// returned error is one of the sentinel rule errors and no state changed.
func (e *Engine) MakeMove(player Stone, moveType MoveType, pos Position) (Move, error) {
	if player != Black && player != White {
		return Move{}, ErrNotYourTurn
	}

	switch moveType {
	case Resign:
		return e.resign(player)
	case Pass:
		return e.pass(player)
	case PlaceStone:
		return e.place(player, pos)
	default:
		return Move{}, ErrInvalidOperation
	}
}

func (e *Engine) place(player Stone, pos Position) (Move, error) {
	if e.phase != Playing {
		return Move{}, ErrWrongPhase
	}
	if player != e.current {
		return Move{}, ErrNotYourTurn
	}
	if !e.board.InBounds(pos) {
		return Move{}, ErrOutOfBounds
	}
	if e.board.Get(pos) != Empty {
		return Move{}, ErrOccupied
	}
	if e.ko != nil && *e.ko == pos {
		return Move{}, ErrKoViolation
	}

	// Tentative placement. Opponent groups are captured first, then the
	// placing group's liberties decide suicide (capture-before-suicide
	// ordering).
	e.board.set(pos, player)

	opponent := player.Opponent()
	var captured []Position
	for _, n := range e.board.Neighbors(pos) {
		if e.board.Get(n) != opponent {
			continue
		}
		g := e.board.GroupAt(n)
		if len(g.Liberties) == 0 {
			for _, s := range g.Stones {
				e.board.set(s, Empty)
				captured = append(captured, s)
			}
		}
	}

	own := e.board.GroupAt(pos)
	if len(own.Liberties) == 0 {
		// Suicide: exact rollback of the placement and any removals.
		for _, s := range captured {
			e.board.set(s, opponent)
		}
		e.board.set(pos, Empty)
		return Move{}, ErrSuicide
	}

	// A single captured stone that leaves the new stone alone on one
	// liberty opens a ko: the captured point is forbidden for the very
	// next move only.
	e.ko = nil
	if len(captured) == 1 && len(own.Stones) == 1 && len(own.Liberties) == 1 {
		ko := captured[0]
		e.ko = &ko
	}

	mv := Move{
		Player:   player,
		Type:     PlaceStone,
		Pos:      pos,
		Captured: captured,
		PlayedAt: time.Now(),
	}
	e.history = append(e.history, mv)
	e.captures[player] += len(captured)
	e.passes = 0
	e.current = e.current.Opponent()
	return mv, nil
}

func (e *Engine) pass(player Stone) (Move, error) {
	if e.phase != Playing {
		return Move{}, ErrWrongPhase
	}
	if player != e.current {
		return Move{}, ErrNotYourTurn
	}

	mv := Move{Player: player, Type: Pass, PlayedAt: time.Now()}
	e.history = append(e.history, mv)
	e.passes++
	e.ko = nil
	// Turn order keeps alternating so a resumed game continues correctly.
	e.current = e.current.Opponent()
	if e.passes >= 2 {
		e.phase = Scoring
	}
	return mv, nil
}

// resign is accepted from either player during Playing or Scoring,
// regardless of whose turn it is.
func (e *Engine) resign(player Stone) (Move, error) {
	if e.phase == Finished {
		return Move{}, ErrWrongPhase
	}

	mv := Move{Player: player, Type: Resign, PlayedAt: time.Now()}
	e.history = append(e.history, mv)
	e.resigned = player
	e.result = &Result{Winner: player.Opponent()}
	e.phase = Finished
	return mv, nil
}
