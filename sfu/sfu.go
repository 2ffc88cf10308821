package sfu

import (
	"fmt"

	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/nack"
	"github.com/pion/webrtc/v4"
)

// newMediaEngine registers the codec set every outbound track and every
// accepted remote track is expected to use: VP8 for video, Opus for audio.
func newMediaEngine() (*webrtc.MediaEngine, error) {
	me := &webrtc.MediaEngine{}

	if err := me.RegisterCodec(webrtc.RTPCodecParameters{
		RTPCodecCapability: webrtc.RTPCodecCapability{
			MimeType:    webrtc.MimeTypeVP8,
			ClockRate:   90000,
			SDPFmtpLine: "",
		},
		PayloadType: 96,
	}, webrtc.RTPCodecTypeVideo); err != nil {
		return nil, fmt.Errorf("register VP8: %w", err)
	}

	if err := me.RegisterCodec(webrtc.RTPCodecParameters{
		RTPCodecCapability: webrtc.RTPCodecCapability{
			MimeType:    webrtc.MimeTypeOpus,
			ClockRate:   48000,
			Channels:    2,
			SDPFmtpLine: "minptime=10;useinbandfec=1",
		},
		PayloadType: 111,
	}, webrtc.RTPCodecTypeAudio); err != nil {
		return nil, fmt.Errorf("register Opus: %w", err)
	}

	return me, nil
}

// NewAPI builds a fresh engine API — its own MediaEngine and its own
// interceptor registry — for a single peer connection. It must be called
// once per peer, never shared across peers: interceptor chains (the NACK
// generator/responder in particular) carry per-connection state.
func NewAPI() (*webrtc.API, error) {
	me, err := newMediaEngine()
	if err != nil {
		return nil, err
	}

	ir := &interceptor.Registry{}

	responder, err := nack.NewResponderInterceptor()
	if err != nil {
		return nil, fmt.Errorf("nack responder: %w", err)
	}
	ir.Add(responder)

	generator, err := nack.NewGeneratorInterceptor()
	if err != nil {
		return nil, fmt.Errorf("nack generator: %w", err)
	}
	ir.Add(generator)

	if err := webrtc.RegisterDefaultInterceptors(me, ir); err != nil {
		return nil, fmt.Errorf("register default interceptors: %w", err)
	}

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(me),
		webrtc.WithInterceptorRegistry(ir),
	), nil
}

// ICEConfiguration returns the RTCConfiguration every peer connection in
// the room shares: the given STUN server (none when stunServer is empty),
// no TURN.
func ICEConfiguration(stunServer string) webrtc.Configuration {
	var servers []webrtc.ICEServer
	if stunServer != "" {
		servers = append(servers, webrtc.ICEServer{URLs: []string{stunServer}})
	}
	return webrtc.Configuration{ICEServers: servers}
}
