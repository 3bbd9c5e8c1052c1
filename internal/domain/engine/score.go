package engine

import "sort"

// MarkDeadStones toggles the dead mark on the whole group at pos. Marking is
// only meaningful while players negotiate the result, so it is restricted to
// the Scoring phase. Marking an empty or off-board point is rejected.
func (e *Engine) MarkDeadStones(pos Position) error {
	if e.phase != Scoring {
		return ErrWrongPhase
	}
	color := e.board.Get(pos)
	if color != Black && color != White {
		return ErrInvalidOperation
	}

	g := e.board.GroupAt(pos)
	_, marked := e.dead[pos]
	for _, s := range g.Stones {
		if marked {
			delete(e.dead, s)
		} else {
			e.dead[s] = struct{}{}
		}
	}
	return nil
}

// ResumePlaying returns from Scoring to Playing when the players disagree on
// dead stones. Marks are cleared, the pass counter resets, and the turn
// stays with whoever was next.
func (e *Engine) ResumePlaying() error {
	if e.phase != Scoring {
		return ErrWrongPhase
	}
	e.dead = make(map[Position]struct{})
	e.passes = 0
	e.phase = Playing
	return nil
}

// FinalizeGame removes the agreed dead stones, scores the board and ends the
// game. Scoring is Chinese area scoring: stones on the board plus enclosed
// territory, komi added to White. Empty regions reaching both colors are
// dame and count for neither player.
func (e *Engine) FinalizeGame() (Result, error) {
	if e.phase != Scoring {
		return Result{}, ErrWrongPhase
	}

	for p := range e.dead {
		color := e.board.Get(p)
		if color == Black || color == White {
			e.board.set(p, Empty)
			e.captures[color.Opponent()]++
		}
	}

	blackTerritory, whiteTerritory := e.countTerritory()

	result := Result{
		BlackPoints: float64(e.board.stoneCount(Black) + blackTerritory),
		WhitePoints: float64(e.board.stoneCount(White)+whiteTerritory) + e.komi,
	}
	switch {
	case result.BlackPoints > result.WhitePoints:
		result.Winner = Black
	case result.WhitePoints > result.BlackPoints:
		result.Winner = White
	default:
		result.Winner = Empty // draw, only possible with zero komi
	}

	e.result = &result
	e.phase = Finished
	return result, nil
}

// countTerritory flood-fills every empty region and credits it to the single
// color enclosing it, if any.
func (e *Engine) countTerritory() (black, white int) {
	visited := make(map[Position]struct{})

	for y := 0; y < e.size; y++ {
		for x := 0; x < e.size; x++ {
			seed := Position{X: x, Y: y}
			if e.board.Get(seed) != Empty {
				continue
			}
			if _, seen := visited[seed]; seen {
				continue
			}

			region := 0
			bordersBlack, bordersWhite := false, false
			queue := []Position{seed}
			visited[seed] = struct{}{}
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				region++
				for _, n := range e.board.Neighbors(cur) {
					switch e.board.Get(n) {
					case Black:
						bordersBlack = true
					case White:
						bordersWhite = true
					case Empty:
						if _, seen := visited[n]; !seen {
							visited[n] = struct{}{}
							queue = append(queue, n)
						}
					}
				}
			}

			switch {
			case bordersBlack && !bordersWhite:
				black += region
			case bordersWhite && !bordersBlack:
				white += region
			}
		}
	}
	return black, white
}

// DeadStones returns the currently marked dead positions in row-major order.
func (e *Engine) DeadStones() []Position {
	dead := make([]Position, 0, len(e.dead))
	for p := range e.dead {
		dead = append(dead, p)
	}
	sort.Slice(dead, func(i, j int) bool {
		if dead[i].Y != dead[j].Y {
			return dead[i].Y < dead[j].Y
		}
		return dead[i].X < dead[j].X
	})
	return dead
}
