package sgf

// GameTree is one tree of an SGF record: a main line of nodes plus
// variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node is a single SGF node. A property may carry several values,
// e.g. AB[aa][bb].
type Node struct {
	Properties map[string][]string
}

// SGF is the root of a record.
type SGF struct {
	Root *GameTree
}
