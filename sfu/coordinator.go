package sfu

import (
	"encoding/json"
	"log"

	"github.com/pion/webrtc/v4"
)

// Coordinator is the single-writer owner of the peer table. Every mutation
// of that table, and of any Peer's output tracks, happens on the goroutine
// running Run — everything else (intake tasks, engine callbacks, forwarding
// workers) only ever posts a command to cmds. This replaces fine-grained
// locking with total ordering of one serialized command stream.
type Coordinator struct {
	stunServer string
	cmds       chan command
	peers      map[string]*Peer
}

func NewCoordinator(stunServer string) *Coordinator {
	return &Coordinator{
		stunServer: stunServer,
		cmds:       make(chan command, 64),
		peers:      make(map[string]*Peer),
	}
}

// enqueue posts a command for the coordinator to process. Safe to call from
// any goroutine — engine callbacks, intake tasks, anything.
func (c *Coordinator) enqueue(cmd command) {
	c.cmds <- cmd
}

// Run drains the command queue in FIFO order until cmds is closed.
// Processing one command is logically atomic: Run may suspend awaiting an
// engine call, but never starts a second command before the first returns.
func (c *Coordinator) Run() {
	for cmd := range c.cmds {
		switch cmd := cmd.(type) {
		case ReceiveOffer:
			c.handleReceiveOffer(cmd)
		case ReceiveAnswer:
			c.handleReceiveAnswer(cmd)
		case ReceiveICECandidate:
			c.handleReceiveICECandidate(cmd)
		case SendICECandidate:
			c.handleSendICECandidate(cmd)
		case SendOffer:
			c.handleSendOffer(cmd)
		case OnTrack:
			c.handleOnTrack(cmd)
		case removePeer:
			c.handleRemovePeer(cmd)
		default:
			log.Printf("sfu: unknown command %T", cmd)
		}
	}
}

// Stop closes the command queue, causing Run to return once it has drained
// whatever was already enqueued.
func (c *Coordinator) Stop() {
	close(c.cmds)
}

func (c *Coordinator) handleReceiveOffer(cmd ReceiveOffer) {
	peer, known := c.peers[cmd.UUID]
	if !known {
		c.joinPeer(cmd)
		return
	}

	// Open question 2 in the design notes: treat a renegotiation offer
	// from an already-known peer symmetrically with the join case —
	// set remote description and answer back — instead of silently
	// setting remote description with no reply.
	if err := peer.PC.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  cmd.SDP,
	}); err != nil {
		log.Printf("sfu: %s set remote description (renegotiation offer): %v", cmd.UUID, err)
		return
	}

	answer, err := peer.PC.CreateAnswer(nil)
	if err != nil {
		log.Printf("sfu: %s create answer (renegotiation): %v", cmd.UUID, err)
		return
	}
	if err := peer.PC.SetLocalDescription(answer); err != nil {
		log.Printf("sfu: %s set local description (renegotiation answer): %v", cmd.UUID, err)
		return
	}

	peer.Tx.SendMessage(answerMessage(cmd.UUID, answer.SDP))
}

func (c *Coordinator) joinPeer(cmd ReceiveOffer) {
	api, err := NewAPI()
	if err != nil {
		log.Printf("sfu: %s build engine API: %v", cmd.UUID, err)
		return
	}

	pc, err := api.NewPeerConnection(ICEConfiguration(c.stunServer))
	if err != nil {
		log.Printf("sfu: %s create peer connection: %v", cmd.UUID, err)
		return
	}

	peer := newPeer(cmd.UUID, pc, cmd.Tx)
	c.wireCallbacks(peer)

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  cmd.SDP,
	}); err != nil {
		log.Printf("sfu: %s set remote description (join): %v", cmd.UUID, err)
		pc.Close()
		return
	}

	// Every already-known peer Q gets an outbound track added for each
	// kind it publishes, so the new arrival receives their media as soon
	// as negotiation completes.
	for _, existing := range c.peers {
		for kind, pub := range existing.published {
			c.addOutputTrack(peer, existing.UUID, kind, pub.local)
		}
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		log.Printf("sfu: %s create answer (join): %v", cmd.UUID, err)
		pc.Close()
		return
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		log.Printf("sfu: %s set local description (join answer): %v", cmd.UUID, err)
		pc.Close()
		return
	}

	peer.Tx.SendMessage(answerMessage(cmd.UUID, answer.SDP))

	c.peers[cmd.UUID] = peer
	log.Printf("sfu: %s joined (%d peers now in room)", cmd.UUID, len(c.peers))
}

func (c *Coordinator) handleReceiveAnswer(cmd ReceiveAnswer) {
	peer, ok := c.peers[cmd.UUID]
	if !ok {
		log.Printf("sfu: answer from unknown peer %s, dropping", cmd.UUID)
		return
	}

	if err := peer.PC.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  cmd.SDP,
	}); err != nil {
		log.Printf("sfu: %s set remote description (answer): %v", cmd.UUID, err)
	}
}

func (c *Coordinator) handleReceiveICECandidate(cmd ReceiveICECandidate) {
	peer, ok := c.peers[cmd.UUID]
	if !ok {
		log.Printf("sfu: ICE candidate for unknown peer %s, dropping", cmd.UUID)
		return
	}

	var init webrtc.ICECandidateInit
	if err := json.Unmarshal([]byte(cmd.Candidate), &init); err != nil {
		log.Printf("sfu: %s malformed ICE candidate: %v", cmd.UUID, err)
		return
	}

	if err := peer.PC.AddICECandidate(init); err != nil {
		log.Printf("sfu: %s add ICE candidate: %v", cmd.UUID, err)
	}
}

func (c *Coordinator) handleSendICECandidate(cmd SendICECandidate) {
	peer, ok := c.peers[cmd.UUID]
	if !ok {
		return
	}
	peer.Tx.SendMessage(candidateMessage(cmd.UUID, cmd.Candidate))
}

func (c *Coordinator) handleSendOffer(cmd SendOffer) {
	peer, ok := c.peers[cmd.UUID]
	if !ok {
		return
	}

	if peer.PC.SignalingState() != webrtc.SignalingStateStable {
		// The next negotiation-needed event will reissue this; retrying
		// here would race the in-flight negotiation.
		log.Printf("sfu: %s not stable (%s), dropping offer attempt", cmd.UUID, peer.PC.SignalingState())
		return
	}

	offer, err := peer.PC.CreateOffer(nil)
	if err != nil {
		log.Printf("sfu: %s create offer: %v", cmd.UUID, err)
		return
	}
	if err := peer.PC.SetLocalDescription(offer); err != nil {
		log.Printf("sfu: %s set local description (offer): %v", cmd.UUID, err)
		return
	}

	peer.Tx.SendMessage(offerMessage(cmd.UUID, offer.SDP))
}

func (c *Coordinator) handleOnTrack(cmd OnTrack) {
	publisher, ok := c.peers[cmd.UUID]
	if !ok {
		log.Printf("sfu: track from unknown peer %s, dropping", cmd.UUID)
		return
	}

	kind := mediaKindOf(cmd.Track.Kind())

	if _, exists := publisher.published[kind]; exists {
		// Idempotence: a repeated OnTrack for a kind this peer already
		// publishes never creates a second local track or worker.
		return
	}

	local, err := webrtc.NewTrackLocalStaticRTP(
		cmd.Track.Codec().RTPCodecCapability, kind.String(), streamIDFor(cmd.UUID),
	)
	if err != nil {
		log.Printf("sfu: %s create forwarding track: %v", cmd.UUID, err)
		return
	}
	publisher.published[kind] = published{remote: cmd.Track, local: local}

	for _, dest := range c.peers {
		if dest.UUID == cmd.UUID {
			continue
		}
		c.addOutputTrack(dest, cmd.UUID, kind, local)
	}

	go forwardRTP(cmd.Track, local)
}

// addOutputTrack wires dest to receive kind from source, unless it already
// is. One shared local track is added to dest's connection per (source,
// kind); writes to that track by the single forwarding worker for source
// fan out to every destination bound to it.
func (c *Coordinator) addOutputTrack(dest *Peer, source string, kind MediaKind, local *webrtc.TrackLocalStaticRTP) {
	key := sourceKind{Source: source, Kind: kind}
	if _, exists := dest.outputTracks[key]; exists {
		// Outbound track uniqueness: a given (dest, source, kind) edge is
		// wired exactly once.
		return
	}

	sender, err := dest.PC.AddTrack(local)
	if err != nil {
		log.Printf("sfu: %s add outbound %s track from %s: %v", dest.UUID, kind, source, err)
		return
	}

	dest.outputTracks[key] = local
	go drainRTCP(sender)
}

func streamIDFor(publisherUUID string) string {
	return "webrtc-sfu-" + publisherUUID
}

// handleRemovePeer tears down uuid's place in the room. Other peers' output
// tracks that carried uuid's media are left in place: the forwarding worker
// feeding them observes the closed remote track and exits on its own, so
// those tracks simply go quiet rather than needing active cleanup here.
func (c *Coordinator) handleRemovePeer(cmd removePeer) {
	peer, ok := c.peers[cmd.UUID]
	if !ok {
		return
	}
	delete(c.peers, cmd.UUID)
	if err := peer.PC.Close(); err != nil {
		log.Printf("sfu: %s close peer connection: %v", cmd.UUID, err)
	}
	log.Printf("sfu: %s left (%d peers remain)", cmd.UUID, len(c.peers))
}
