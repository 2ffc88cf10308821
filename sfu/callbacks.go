package sfu

import (
	"log"

	"github.com/pion/webrtc/v4"
)

// wireCallbacks registers the four engine callbacks spec.md §4.4 requires.
// None does blocking work; each only enqueues a command for the
// coordinator's own goroutine to act on.
func (c *Coordinator) wireCallbacks(peer *Peer) {
	uuid := peer.UUID
	pc := peer.PC

	pc.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil {
			// End-of-gathering sentinel; nothing to forward.
			return
		}
		serialized, err := candidateJSON(candidate)
		if err != nil {
			log.Printf("sfu: %s serialize local ICE candidate: %v", uuid, err)
			return
		}
		c.enqueue(SendICECandidate{UUID: uuid, Candidate: serialized})
	})

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		if track.Kind() == webrtc.RTPCodecTypeVideo {
			go pliTicker(pc, track.SSRC())
		}
		c.enqueue(OnTrack{UUID: uuid, Track: track})
	})

	pc.OnNegotiationNeeded(func() {
		c.enqueue(SendOffer{UUID: uuid})
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Printf("sfu: %s connection state: %s", uuid, state)
		switch state {
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed, webrtc.PeerConnectionStateDisconnected:
			c.enqueue(removePeer{UUID: uuid})
		}
	})
}
