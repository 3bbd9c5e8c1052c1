package engine

// Stone is the content of a board intersection.
type Stone uint8

const (
	Empty Stone = iota
	Black
	White
)

// Offboard is the sentinel Get returns for coordinates outside the grid.
const Offboard Stone = 0xff

func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	case Empty:
		return "empty"
	default:
		return "offboard"
	}
}

// Opponent returns the other player color. Empty has no opponent.
func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (s Stone) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Stone) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"black"`:
		*s = Black
	case `"white"`:
		*s = White
	default:
		*s = Empty
	}
	return nil
}

// Position is a 0-indexed board coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is a square goban. Cells are stored in a flat slice, row-major.
// The dimensions are fixed at construction.
type Board struct {
	size  int
	cells []Stone
}

func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Stone, size*size),
	}
}

func (b *Board) Size() int { return b.size }

func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.size && p.Y >= 0 && p.Y < b.size
}

// Get returns the stone at p, or Offboard for out-of-range coordinates.
// Callers that need to distinguish must bounds-check with InBounds first.
func (b *Board) Get(p Position) Stone {
	if !b.InBounds(p) {
		return Offboard
	}
	return b.cells[p.Y*b.size+p.X]
}

func (b *Board) set(p Position, s Stone) {
	b.cells[p.Y*b.size+p.X] = s
}

// Neighbors returns the up to four orthogonally adjacent positions of p,
// clipped to the board bounds.
func (b *Board) Neighbors(p Position) []Position {
	candidates := [4]Position{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
	neighbors := make([]Position, 0, 4)
	for _, n := range candidates {
		if b.InBounds(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// Group is a maximal set of same-color stones connected by orthogonal
// adjacency, together with its liberties. A Group is derived from the board
// on demand and is not kept up to date as the board changes.
type Group struct {
	Color     Stone
	Stones    []Position
	Liberties map[Position]struct{}
}

// GroupAt flood-fills the connected group containing the stone at p.
// If p is empty or off the board, the returned group has no stones.
func (b *Board) GroupAt(p Position) Group {
	color := b.Get(p)
	group := Group{Color: color, Liberties: make(map[Position]struct{})}
	if color != Black && color != White {
		group.Color = Empty
		return group
	}

	visited := make(map[Position]struct{})
	queue := []Position{p}
	visited[p] = struct{}{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		group.Stones = append(group.Stones, cur)

		for _, n := range b.Neighbors(cur) {
			switch b.Get(n) {
			case Empty:
				group.Liberties[n] = struct{}{}
			case color:
				if _, seen := visited[n]; !seen {
					visited[n] = struct{}{}
					queue = append(queue, n)
				}
			}
		}
	}
	return group
}

// Contains reports whether p is one of the group's stones.
func (g Group) Contains(p Position) bool {
	for _, s := range g.Stones {
		if s == p {
			return true
		}
	}
	return false
}

// Grid returns a row-major deep copy of the board cells, Grid()[y][x].
func (b *Board) Grid() [][]Stone {
	rows := make([][]Stone, b.size)
	for y := 0; y < b.size; y++ {
		row := make([]Stone, b.size)
		copy(row, b.cells[y*b.size:(y+1)*b.size])
		rows[y] = row
	}
	return rows
}

func (b *Board) clone() *Board {
	cells := make([]Stone, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// stoneCount counts the stones of the given color currently on the board.
func (b *Board) stoneCount(color Stone) int {
	count := 0
	for _, c := range b.cells {
		if c == color {
			count++
		}
	}
	return count
}
