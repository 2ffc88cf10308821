package sfu

import (
	"errors"
	"io"
	"log"
	"time"
	"weak"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
)

const pliInterval = 3 * time.Second

// forwardRTP copies every RTP packet read from remote onto local until the
// source track ends or the shared local track is no longer writable. One of
// these runs per (publisher, kind); pion fans the writes out to every
// RTPSender bound to local, so this is the only goroutine that ever touches
// it.
func forwardRTP(remote *webrtc.TrackRemote, local *webrtc.TrackLocalStaticRTP) {
	buf := make([]byte, 1500)
	for {
		n, _, err := remote.Read(buf)
		if err != nil {
			return
		}

		if _, err := local.Write(buf[:n]); err != nil {
			if !errors.Is(err, io.ErrClosedPipe) {
				log.Printf("sfu: forward %s: %v", local.StreamID(), err)
			}
			return
		}
	}
}

// pliTicker asks the publisher identified by ssrc for a new keyframe every
// pliInterval, for as long as its peer connection is still alive. It holds
// only a weak reference to the connection so it never keeps a departed
// peer's connection reachable — once the peer is removed and collected, the
// next tick finds pc gone and the goroutine exits on its own, with no
// removePeer-side bookkeeping required to stop it.
func pliTicker(pc *webrtc.PeerConnection, ssrc webrtc.SSRC) {
	weakPC := weak.Make(pc)

	ticker := time.NewTicker(pliInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !pliTick(weakPC, ssrc) {
			return
		}
	}
}

// pliTick sends one PictureLossIndication to the connection weakPC still
// points at, reporting whether the ticker should keep running. It returns
// false once the peer connection has been collected or a write fails,
// which is the signal pliTicker uses to stop.
func pliTick(weakPC weak.Pointer[webrtc.PeerConnection], ssrc webrtc.SSRC) bool {
	pc := weakPC.Value()
	if pc == nil {
		return false
	}
	err := pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{
		SenderSSRC: 0,
		MediaSSRC:  uint32(ssrc),
	}})
	return err == nil
}

// drainRTCP reads and discards RTCP from sender. pion requires this: an
// RTPSender whose RTCP is never read will eventually back up and stall.
func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}
