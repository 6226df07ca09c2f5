// Package transport implements the process-group abstraction of spec.md §5
// and §6: typed message send/receive between ranks, a bounded async send
// pool with owned buffers, and the collective reductions the decentralized
// mode needs. Ranks are goroutines rather than OS processes — see
// SPEC_FULL.md §2 for why that is the idiomatic Go rendering of "parallel
// processes communicating by message passing" spec.md's own launcher
// (explicitly out of scope) would otherwise provide. It is grounded on
// ek-roj/roj-node-go/transport's UDP transport (same background-receive /
// channel / non-blocking-select shape, here over in-process channels
// instead of a UDP socket) and ek-roj/roj-node-go/consensus's mutex-guarded
// shared state (here generalized into the barrier-based Collective).
package transport

// Tag discriminates message kinds, encoded as a small integer exactly like
// the wire protocol's message tags (spec.md §6).
type Tag int

const (
	TagTask        Tag = iota // coordinator -> worker: a CT node to expand
	TagChildren               // worker -> coordinator: one child CT node (after a TagChildCount)
	TagSolution               // worker -> coordinator, or peer -> peer: a feasible CT node
	TagDPNode                 // decentralized peer -> peer: a CT node to admit
	TagTerminate              // zero-length: stop the receiver
	TagLLTask                 // coordinator -> neighbor-expander: one A* state to expand
	TagLLResult               // neighbor-expander -> coordinator: generated neighbors
	TagLLTerminate            // zero-length: stop a neighbor-expander
	TagChildCount             // precedes TagChildren: how many node payloads follow
)

// Rank identifies a peer within a Group.
type Rank int
