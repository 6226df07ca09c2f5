package transport

import "github.com/elektrokombinacija/mapf-cbs/internal/codec"

// WireEnvelope packs a codec.Wire (a fully serialized CT node) into a single
// Envelope under tag — see the AsyncSendPool doc comment for why this
// module sends a node as one envelope rather than four discrete messages.
func WireEnvelope(tag Tag, w codec.Wire) Envelope {
	return Envelope{
		Tag:            tag,
		Header:         w.Header(),
		Cost:           w.Cost,
		PathInts:       w.PathInts,
		ConstraintInts: w.ConstraintInts,
	}
}

// Wire reconstructs a codec.Wire from an Envelope built by WireEnvelope.
func (e Envelope) Wire() codec.Wire {
	w := codec.FromHeader(e.Header)
	w.Cost = e.Cost
	w.PathInts = e.PathInts
	w.ConstraintInts = e.ConstraintInts
	return w
}
