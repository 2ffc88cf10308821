package sfu

import (
	"encoding/json"
	"log"

	"github.com/pion/webrtc/v4"

	"github.com/kalman/sfu/signaling"
)

// sdpData JSON-encodes an SDP session description the way a client expects
// to find it in a Message's Data field: a JSON-encoded string (the "double
// encoding" in the wire protocol) carrying {"type": ..., "sdp": ...}.
func sdpData(sdpType webrtc.SDPType, sdp string) string {
	data, err := json.Marshal(webrtc.SessionDescription{Type: sdpType, SDP: sdp})
	if err != nil {
		log.Printf("sfu: marshal session description: %v", err)
		return ""
	}
	return string(data)
}

func offerMessage(uuid, sdp string) signaling.Message {
	return signaling.Message{Event: signaling.EventOffer, Data: sdpData(webrtc.SDPTypeOffer, sdp), UUID: uuid}
}

func answerMessage(uuid, sdp string) signaling.Message {
	return signaling.Message{Event: signaling.EventAnswer, Data: sdpData(webrtc.SDPTypeAnswer, sdp), UUID: uuid}
}

func candidateMessage(uuid, candidateData string) signaling.Message {
	return signaling.Message{Event: signaling.EventCandidate, Data: candidateData, UUID: uuid}
}

// candidateJSON serializes a local ICE candidate the way a client expects
// to find one in a Message's Data field.
func candidateJSON(candidate *webrtc.ICECandidate) (string, error) {
	data, err := json.Marshal(candidate.ToJSON())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
