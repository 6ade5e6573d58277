package domain

// OutputGroup is an input candidate for coin selection. It can represent a
// single utxo or a group of utxos that must be spent together. The caller is
// responsible for crafting groups correctly, an incorrect representation
// leads to an incorrect selection result.
type OutputGroup struct {
	// Value is the total value of the utxo(s) in the smallest currency unit.
	Value uint64
	// Weight is the total weight of spending the utxo(s), including all
	// txin fields and witness data.
	Weight uint32
	// InputCount is the number of underlying inputs bundled in this group.
	InputCount int
	// CreationSequence denotes the relative age of the group among a set of
	// groups, lower meaning older. Nil means no relative age is known and
	// the group is considered only after all aged ones by FIFO selection.
	CreationSequence *uint32
}

// WithSequence is a helper to build a group with a creation sequence inline.
func (g OutputGroup) WithSequence(seq uint32) OutputGroup {
	g.CreationSequence = &seq
	return g
}
