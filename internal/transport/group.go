package transport

import "sync"

// link is the one-directional mailbox from a single source rank to a
// single destination rank. It supports "probe without consuming" — needed
// by the non-blocking-probe-plus-sleep pattern of spec.md §5 — by holding
// at most one peeked envelope aside from the channel itself.
type link struct {
	ch     chan Envelope
	mu     sync.Mutex
	peeked *Envelope
}

func newLink(capacity int) *link {
	return &link{ch: make(chan Envelope, capacity)}
}

func (l *link) send(e Envelope) {
	l.ch <- e
}

// probe reports whether a message is available without removing it.
func (l *link) probe() (Envelope, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.peeked != nil {
		return *l.peeked, true
	}
	select {
	case e := <-l.ch:
		l.peeked = &e
		return e, true
	default:
		return Envelope{}, false
	}
}

// recv blocks until a message is available, consuming it.
func (l *link) recv() Envelope {
	l.mu.Lock()
	if l.peeked != nil {
		e := *l.peeked
		l.peeked = nil
		l.mu.Unlock()
		return e
	}
	l.mu.Unlock()
	return <-l.ch
}

// mailboxCapacity bounds how many envelopes may sit unread in one link
// before a sender blocks. Generous because every non-blocking send this
// module issues is already buffer-owned and rate-limited by the
// AsyncSendPool upstream of it.
const mailboxCapacity = 1024

// Group is a fixed-size process group: size() ranks, each able to address
// every other by Rank. It owns every link, so endpoints never see each
// other's internals.
type Group struct {
	size  int
	links [][]*link // links[dst][src]
	timeouts *Collective
	reduce   *Collective
}

// NewGroup builds a group of n ranks and returns one Endpoint per rank, in
// rank order.
func NewGroup(n int) []*Endpoint {
	g := &Group{size: n}
	g.links = make([][]*link, n)
	for dst := range g.links {
		g.links[dst] = make([]*link, n)
		for src := range g.links[dst] {
			g.links[dst][src] = newLink(mailboxCapacity)
		}
	}
	g.timeouts = NewCollective(n, 1)
	g.reduce = NewCollective(n, 2)

	eps := make([]*Endpoint, n)
	for r := 0; r < n; r++ {
		eps[r] = &Endpoint{self: Rank(r), group: g}
	}
	return eps
}

// Endpoint is one rank's handle onto its Group: the only object a search
// loop holds to talk to its peers.
type Endpoint struct {
	self  Rank
	group *Group
}

// Rank returns this endpoint's own rank.
func (e *Endpoint) Rank() Rank { return e.self }

// Size returns the group's rank count.
func (e *Endpoint) Size() int { return e.group.size }

// SendBlocking delivers env to dst synchronously from the caller's
// perspective (the link itself is buffered, so this only blocks if dst is
// badly backed up). Used for the fixed-size control messages spec.md §5
// reserves blocking sends for: TAG_TERMINATE, a TAG_CHILDREN count, and any
// receive whose header was already peeked.
func (e *Endpoint) SendBlocking(dst Rank, env Envelope) {
	e.group.links[dst][e.self].send(env)
}

// ProbeFrom reports whether a message from src is available, without
// consuming it.
func (e *Endpoint) ProbeFrom(src Rank) (Envelope, bool) {
	return e.group.links[e.self][src].probe()
}

// RecvFrom blocks until a message from src arrives, consuming it. Callers
// pin the source exactly as spec.md §5 requires for any follow-up receive
// whose header already named how many messages to expect.
func (e *Endpoint) RecvFrom(src Rank) Envelope {
	return e.group.links[e.self][src].recv()
}

// ProbeAny scans every source in rank order and returns the first one with
// a pending message, without consuming it. Used by the decentralized
// searcher's inbound drain loop (spec.md §4.6) which accepts work from any
// peer.
func (e *Endpoint) ProbeAny() (Rank, Envelope, bool) {
	for src := 0; src < e.group.size; src++ {
		if src == int(e.self) {
			continue
		}
		if env, ok := e.group.links[e.self][Rank(src)].probe(); ok {
			return Rank(src), env, true
		}
	}
	return 0, Envelope{}, false
}

// DrainAny consumes and returns every pending message currently available
// from any source, without blocking — the decentralized searcher's
// per-iteration "drain all pending incoming node messages" step.
func (e *Endpoint) DrainAny() []Envelope {
	var out []Envelope
	for {
		src, _, ok := e.ProbeAny()
		if !ok {
			return out
		}
		out = append(out, e.RecvFrom(src))
	}
}
