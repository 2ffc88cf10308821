package sfu

import "testing"

func TestDecodeSDPUnwrapsEnvelope(t *testing.T) {
	sdp, err := decodeSDP(`{"type":"offer","sdp":"v=0\r\no=- 0 0 IN IP4 0.0.0.0\r\n"}`)
	if err != nil {
		t.Fatalf("decodeSDP: %v", err)
	}
	want := "v=0\r\no=- 0 0 IN IP4 0.0.0.0\r\n"
	if sdp != want {
		t.Fatalf("decodeSDP = %q, want %q", sdp, want)
	}
}

func TestDecodeSDPRejectsMalformedJSON(t *testing.T) {
	if _, err := decodeSDP("not json"); err == nil {
		t.Fatal("decodeSDP: expected error for malformed input, got nil")
	}
}
