package sfu

import "testing"

func TestNewAPIIsIndependentPerCall(t *testing.T) {
	// Per §4.5: NewAPI must be safe to call once per peer connection,
	// never shared, since the NACK interceptor chain carries per-connection
	// state. Two independent calls must each succeed.
	api1, err := NewAPI()
	if err != nil {
		t.Fatalf("first NewAPI(): %v", err)
	}
	api2, err := NewAPI()
	if err != nil {
		t.Fatalf("second NewAPI(): %v", err)
	}
	if api1 == api2 {
		t.Fatal("NewAPI() returned the same instance twice")
	}
}

func TestICEConfiguration(t *testing.T) {
	cfg := ICEConfiguration("stun:stun.example.com:3478")
	if len(cfg.ICEServers) != 1 {
		t.Fatalf("ICEConfiguration: got %d ICE servers, want 1", len(cfg.ICEServers))
	}
	if got := cfg.ICEServers[0].URLs[0]; got != "stun:stun.example.com:3478" {
		t.Fatalf("ICEConfiguration: URL = %q", got)
	}

	empty := ICEConfiguration("")
	if len(empty.ICEServers) != 0 {
		t.Fatalf("ICEConfiguration(\"\"): got %d ICE servers, want 0", len(empty.ICEServers))
	}
}
