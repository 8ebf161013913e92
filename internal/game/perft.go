package game

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Depth 0 is one node. b is unchanged on return.
func (b *Board) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, a := range moves {
		b.Apply(a)
		nodes += b.Perft(depth - 1)
		b.Undo(a)
	}
	return nodes
}

// PerftEntry is one root move of a Divide and the nodes below it.
type PerftEntry struct {
	Move  string `json:"move"`
	Nodes int64  `json:"nodes"`
}

// Divide splits Perft(depth) by root move, in generation order.
func (b *Board) Divide(depth int) []PerftEntry {
	if depth <= 0 {
		return nil
	}
	moves := b.GenerateLegalMoves()
	entries := make([]PerftEntry, 0, len(moves))
	for _, a := range moves {
		b.Apply(a)
		entries = append(entries, PerftEntry{Move: a.String(), Nodes: b.Perft(depth - 1)})
		b.Undo(a)
	}
	return entries
}
