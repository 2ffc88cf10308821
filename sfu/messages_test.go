package sfu

import (
	"encoding/json"
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestOfferMessageRoundTrips(t *testing.T) {
	msg := offerMessage("peer-a", "v=0\r\n")
	if msg.UUID != "peer-a" {
		t.Fatalf("UUID = %q, want peer-a", msg.UUID)
	}
	sdp, err := decodeSDP(msg.Data)
	if err != nil {
		t.Fatalf("decodeSDP(offerMessage.Data): %v", err)
	}
	if sdp != "v=0\r\n" {
		t.Fatalf("sdp = %q, want %q", sdp, "v=0\r\n")
	}
}

func TestAnswerMessageRoundTrips(t *testing.T) {
	msg := answerMessage("peer-b", "v=0\r\n")
	var desc webrtc.SessionDescription
	if err := json.Unmarshal([]byte(msg.Data), &desc); err != nil {
		t.Fatalf("unmarshal answer data: %v", err)
	}
	if desc.Type != webrtc.SDPTypeAnswer {
		t.Fatalf("type = %v, want answer", desc.Type)
	}
}

func TestCandidateMessagePassesDataThrough(t *testing.T) {
	raw := `{"candidate":"candidate:1 1 UDP 1 127.0.0.1 1 typ host","sdpMid":"0"}`
	msg := candidateMessage("peer-c", raw)
	if msg.Data != raw {
		t.Fatalf("candidateMessage did not pass data through unchanged")
	}
	if msg.Event != "candidate" {
		t.Fatalf("event = %q, want candidate", msg.Event)
	}
}
