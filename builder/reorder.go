package builder

// Move returns a new list with the element at from removed and reinserted at
// to, standard array-move semantics: moving down shifts the elements in
// between up by one, moving up shifts them down by one. Every element's
// PositionIndex is rewritten to its final array position, so the result is
// always a dense 0..n-1 ordering no matter what the inputs carried. Indices
// must be in range; the store validates them before delegating here.
func Move(items []Item, from, to int) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	if from != to {
		moved := out[from]
		out = append(out[:from], out[from+1:]...)
		out = append(out, Item{})
		copy(out[to+1:], out[to:])
		out[to] = moved
	}
	renumber(out)
	return out
}

// renumber rewrites PositionIndex to match each item's array position.
func renumber(items []Item) {
	for i := range items {
		items[i].PositionIndex = i
	}
}
