package signaling

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"nhooyr.io/websocket"
)

const (
	pingInterval = 30 * time.Second
	sendBufSize  = 256
	recvBufSize  = 256
)

// Conn is one peer's signaling duplex: SendMessage pushes a Message out to
// the client, Recv yields Messages the client sent. Recv closes when the
// underlying socket dies, which is how intake learns the connection is gone.
type Conn struct {
	UUID string
	Recv <-chan Message

	ws     *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	send   chan Message
	recv   chan Message
}

func newConn(uuid string, ws *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		UUID:   uuid,
		ws:     ws,
		ctx:    ctx,
		cancel: cancel,
		send:   make(chan Message, sendBufSize),
		recv:   make(chan Message, recvBufSize),
	}
	c.Recv = c.recv
	return c
}

// SendMessage queues msg for delivery to the client. A client that isn't
// draining fast enough gets disconnected rather than backing up the caller —
// the same policy the teacher applies to its chat Hub.
func (c *Conn) SendMessage(msg Message) {
	select {
	case c.send <- msg:
	default:
		c.Close()
	}
}

func (c *Conn) run() {
	go c.writePump()
	c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.cancel()
		close(c.recv)
	}()

	for {
		_, data, err := c.ws.Read(c.ctx)
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("signaling: %s sent malformed envelope: %v", c.UUID, err)
			continue
		}
		msg.UUID = c.UUID

		select {
		case c.recv <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("signaling: marshal message for %s: %v", c.UUID, err)
				continue
			}
			if err := c.ws.Write(c.ctx, websocket.MessageText, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.Ping(c.ctx); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// Close tears down the socket. Safe to call more than once.
func (c *Conn) Close() {
	c.cancel()
	c.ws.Close(websocket.StatusNormalClosure, "")
}
