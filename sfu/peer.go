package sfu

import (
	"github.com/pion/webrtc/v4"

	"github.com/kalman/sfu/signaling"
)

// MediaKind is one of the two track kinds this forwarder deals in.
type MediaKind int

const (
	KindAudio MediaKind = iota
	KindVideo
)

func (k MediaKind) String() string {
	if k == KindAudio {
		return "audio"
	}
	return "video"
}

func mediaKindOf(codecType webrtc.RTPCodecType) MediaKind {
	if codecType == webrtc.RTPCodecTypeAudio {
		return KindAudio
	}
	return KindVideo
}

// Sender is the capability the coordinator needs from a signaling
// connection: the ability to push a Message back to that peer's client.
// The concrete transport (signaling.Conn) lives outside this package —
// the coordinator only ever depends on this interface.
type Sender interface {
	SendMessage(signaling.Message)
}

// sourceKind names one (source peer, media kind) edge: the unit an
// outbound track or a published track is keyed by.
type sourceKind struct {
	Source string
	Kind   MediaKind
}

// published is the local track this peer forwards its own remote media
// onto, shared by reference across every destination peer connection that
// subscribes to it — writing to it once fans out to every subscriber.
type published struct {
	remote *webrtc.TrackRemote
	local  *webrtc.TrackLocalStaticRTP
}

// Peer is one connected participant: their peer connection, the signaling
// sender back to their client, the tracks they're forwarding to the room,
// and the outbound tracks the coordinator has wired up on their own
// connection to carry other peers' media to them. Only the coordinator
// mutates a Peer; callbacks and forwarding workers only read PC/UUID.
type Peer struct {
	UUID string
	PC   *webrtc.PeerConnection
	Tx   Sender

	// outputTracks holds, for each (source, kind) this peer has been
	// wired to receive, the shared local track carrying it. Written only
	// by the coordinator.
	outputTracks map[sourceKind]*webrtc.TrackLocalStaticRTP

	// published holds, for each kind this peer itself publishes, the
	// local track forwarding workers write into. Written only by the
	// coordinator.
	published map[MediaKind]published
}

func newPeer(uuid string, pc *webrtc.PeerConnection, tx Sender) *Peer {
	return &Peer{
		UUID:         uuid,
		PC:           pc,
		Tx:           tx,
		outputTracks: make(map[sourceKind]*webrtc.TrackLocalStaticRTP),
		published:    make(map[MediaKind]published),
	}
}
