package engine

// Snapshot is a value-semantics copy of the full game state. The relay
// broadcasts it after every mutation and the persistence collaborator
// serializes it when the game ends; nothing in it aliases engine internals.
type Snapshot struct {
	BoardSize         int        `json:"board_size"`
	Komi              float64    `json:"komi"`
	Board             [][]Stone  `json:"board"`
	CurrentPlayer     Stone      `json:"current_player"`
	Phase             Phase      `json:"phase"`
	MoveHistory       []Move     `json:"move_history"`
	ConsecutivePasses int        `json:"consecutive_passes"`
	KoPoint           *Position  `json:"ko_point,omitempty"`
	DeadStones        []Position `json:"dead_stones,omitempty"`
	CapturesByBlack   int        `json:"captures_by_black"`
	CapturesByWhite   int        `json:"captures_by_white"`
	Result            *Result    `json:"result,omitempty"`
	ResignedPlayer    Stone      `json:"resigned_player,omitempty"`
}

// Snapshot deep-copies the current game state.
func (e *Engine) Snapshot() Snapshot {
	history := make([]Move, len(e.history))
	copy(history, e.history)
	for i := range history {
		if len(history[i].Captured) > 0 {
			captured := make([]Position, len(history[i].Captured))
			copy(captured, history[i].Captured)
			history[i].Captured = captured
		}
	}

	var ko *Position
	if e.ko != nil {
		k := *e.ko
		ko = &k
	}

	return Snapshot{
		BoardSize:         e.size,
		Komi:              e.komi,
		Board:             e.board.Grid(),
		CurrentPlayer:     e.current,
		Phase:             e.phase,
		MoveHistory:       history,
		ConsecutivePasses: e.passes,
		KoPoint:           ko,
		DeadStones:        e.DeadStones(),
		CapturesByBlack:   e.captures[Black],
		CapturesByWhite:   e.captures[White],
		Result:            e.Result(),
		ResignedPlayer:    e.resigned,
	}
}
