package signaling

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1)
	conn, _, err := websocket.Dial(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestListenerAcceptAssignsUUID(t *testing.T) {
	l := NewListener(":0")
	srv := httptest.NewServer(l.srv.Handler)
	defer srv.Close()

	client := dial(t, srv)
	defer client.Close(websocket.StatusNormalClosure, "")

	select {
	case conn := <-l.Accepted():
		if conn.UUID == "" {
			t.Fatal("accepted connection has empty UUID")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for accepted connection")
	}
}

func TestConnRoundTripsMessages(t *testing.T) {
	l := NewListener(":0")
	srv := httptest.NewServer(l.srv.Handler)
	defer srv.Close()

	client := dial(t, srv)
	defer client.Close(websocket.StatusNormalClosure, "")

	var conn *Conn
	select {
	case conn = <-l.Accepted():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for accepted connection")
	}

	// Client -> server
	out, err := json.Marshal(Message{Event: EventOffer, Data: `{"type":"offer","sdp":"v=0"}`})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := client.Write(context.Background(), websocket.MessageText, out); err != nil {
		t.Fatalf("client write: %v", err)
	}

	select {
	case msg := <-conn.Recv:
		if msg.Event != EventOffer {
			t.Fatalf("event = %q, want %q", msg.Event, EventOffer)
		}
		if msg.UUID != conn.UUID {
			t.Fatalf("server stamped UUID %q, want %q", msg.UUID, conn.UUID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server to receive message")
	}

	// Server -> client
	conn.SendMessage(Message{Event: EventAnswer, Data: `{"type":"answer","sdp":"v=0"}`})

	readCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := client.Read(readCtx)
	if err != nil {
		t.Fatalf("client read: %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != EventAnswer {
		t.Fatalf("event = %q, want %q", got.Event, EventAnswer)
	}
}

func TestConnRecvClosesOnDisconnect(t *testing.T) {
	l := NewListener(":0")
	srv := httptest.NewServer(l.srv.Handler)
	defer srv.Close()

	client := dial(t, srv)

	var conn *Conn
	select {
	case conn = <-l.Accepted():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for accepted connection")
	}

	client.Close(websocket.StatusNormalClosure, "")

	select {
	case _, ok := <-conn.Recv:
		if ok {
			t.Fatal("expected Recv to be closed, got a message instead")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Recv to close")
	}
}
