package sfu

import "github.com/pion/webrtc/v4"

// command is the closed set of operations the coordinator accepts on its
// queue. Only the types declared below can implement it, since isCommand
// is unexported, so a switch over command in the coordinator's loop can be
// exhaustive.
type command interface {
	isCommand()
}

// ReceiveOffer is enqueued by intake when a client sends an SDP offer. A
// uuid absent from the peer table means this is that peer's join; a uuid
// already present means it's a renegotiation offer from an existing peer.
type ReceiveOffer struct {
	UUID string
	SDP  string
	Tx   Sender
}

// ReceiveAnswer is enqueued by intake when a client answers a
// server-initiated offer.
type ReceiveAnswer struct {
	UUID string
	SDP  string
}

// ReceiveICECandidate is enqueued by intake for a client-trickled
// candidate.
type ReceiveICECandidate struct {
	UUID      string
	Candidate string
}

// SendICECandidate is enqueued by a peer connection's OnICECandidate
// callback; the coordinator forwards it to that peer's client.
type SendICECandidate struct {
	UUID      string
	Candidate string
}

// SendOffer is enqueued by a peer connection's OnNegotiationNeeded
// callback, which fires after a new outbound track is wired onto it.
type SendOffer struct {
	UUID string
}

// OnTrack is enqueued by a peer connection's OnTrack callback: uuid has
// started publishing a new remote track that must be fanned out to every
// other peer.
type OnTrack struct {
	UUID  string
	Track *webrtc.TrackRemote
}

// removePeer is not part of spec.md's closed PeerChanCommand set — it's
// the extension spec.md §9 anticipates ("future additions (e.g.
// PeerLeave)") needed to implement peer-table removal (§9 open question 1).
// It's enqueued on terminal connection-state changes and on signaling
// channel closure.
type removePeer struct {
	UUID string
}

func (ReceiveOffer) isCommand()        {}
func (ReceiveAnswer) isCommand()       {}
func (ReceiveICECandidate) isCommand() {}
func (SendICECandidate) isCommand()    {}
func (SendOffer) isCommand()           {}
func (OnTrack) isCommand()             {}
func (removePeer) isCommand()          {}
