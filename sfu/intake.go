package sfu

import (
	"encoding/json"
	"log"

	"github.com/pion/webrtc/v4"

	"github.com/kalman/sfu/signaling"
)

// Accept spawns one goroutine per accepted connection that translates its
// inbound messages into commands on c and enqueues a removal once the
// connection's message stream ends, whatever the cause.
func (c *Coordinator) Accept(conns <-chan *signaling.Conn) {
	for sc := range conns {
		go c.intake(sc)
	}
}

func (c *Coordinator) intake(sc *signaling.Conn) {
	uuid := sc.UUID
	defer c.enqueue(removePeer{UUID: uuid})

	for msg := range sc.Recv {
		switch msg.Event {
		case signaling.EventOffer:
			sdp, err := decodeSDP(msg.Data)
			if err != nil {
				log.Printf("sfu: %s malformed offer: %v", uuid, err)
				continue
			}
			c.enqueue(ReceiveOffer{UUID: uuid, SDP: sdp, Tx: sc})
		case signaling.EventAnswer:
			sdp, err := decodeSDP(msg.Data)
			if err != nil {
				log.Printf("sfu: %s malformed answer: %v", uuid, err)
				continue
			}
			c.enqueue(ReceiveAnswer{UUID: uuid, SDP: sdp})
		case signaling.EventCandidate:
			c.enqueue(ReceiveICECandidate{UUID: uuid, Candidate: msg.Data})
		default:
			log.Printf("sfu: %s unrecognized event %q, dropping", uuid, msg.Event)
		}
	}
}

// decodeSDP unwraps the inner {"type": ..., "sdp": ...} object a Message's
// Data field carries and returns just the SDP text, the form every
// coordinator handler expects.
func decodeSDP(data string) (string, error) {
	var desc webrtc.SessionDescription
	if err := json.Unmarshal([]byte(data), &desc); err != nil {
		return "", err
	}
	return desc.SDP, nil
}
