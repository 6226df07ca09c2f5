package transport

// Envelope is the in-memory analogue of a wire message: a tag plus whatever
// scalar payload that tag carries. Exactly one of the payload fields is
// meaningful for a given Tag — Header/Cost/PathInts/ConstraintInts together
// encode a serialized CT node (codec.Wire); Count carries a TagChildCount
// count; LLTask carries a low-level neighbor-expansion request; LLResult
// carries a TagLLResult reply, its neighbor count included. A zero-value Envelope with Tag == TagTerminate/TagLLTerminate
// needs no payload at all, matching spec.md §6's "zero-length message".
type Envelope struct {
	Tag            Tag
	Header         [8]int64
	Cost           float64
	PathInts       []int64
	ConstraintInts []int64
	Count          int64
	LLTask         [5]int64 // node_index, x, y, g, t (spec.md §6)
	LLResult       []int64  // from_node_index, neighbor_count, then neighbor_count*4 ints
}
