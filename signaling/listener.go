package signaling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Listener accepts one WebSocket connection per participant and assigns
// each an opaque, process-unique uuid used as the routing key on every
// subsequent message.
type Listener struct {
	addr   string
	srv    *http.Server
	accept chan *Conn
}

func NewListener(addr string) *Listener {
	l := &Listener{
		addr:   addr,
		accept: make(chan *Conn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handle)
	l.srv = &http.Server{Addr: addr, Handler: mux}

	return l
}

// Accepted yields one *Conn per accepted participant, in accept order.
func (l *Listener) Accepted() <-chan *Conn {
	return l.accept
}

// ListenAndServe blocks serving signaling connections until ctx is
// cancelled, then shuts down gracefully.
func (l *Listener) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("signaling: listening on %s", l.addr)
		if err := l.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		if err := l.srv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("signaling: shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (l *Listener) handle(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("signaling: accept: %v", err)
		return
	}

	id := uuid.New().String()
	conn := newConn(id, ws)

	go conn.run()
	l.accept <- conn
}
