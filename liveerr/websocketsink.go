// Package liveerr streams tree-construction parse errors to a connected
// websocket client as they are reported, for interactive debugging of
// malformed HTML (a devtools-style "show me every parse error live" view).
package liveerr

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/htmlforge/forge/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ParseErrorEventArgs is the JSON frame pushed to the client for each
// reported parse error.
type ParseErrorEventArgs struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// WebSocketSink is an errors.Subscriber that forwards each ParseError to a
// connected websocket client as a JSON text frame. Errors reported before a
// client connects, or after the connection closes, are dropped.
//
// Because errors.Subscriber must not block the parser, WebSocketSink writes
// from a background goroutine fed by a buffered channel; a slow or stalled
// client drops frames rather than backing up the parse.
type WebSocketSink struct {
	conn   *websocket.Conn
	events chan ParseErrorEventArgs
	done   chan struct{}
}

// NewWebSocketSink upgrades r/w to a websocket connection and returns a sink
// that writes parse-error frames to it. Call Close when the parse (and the
// connection) is done.
func NewWebSocketSink(w http.ResponseWriter, r *http.Request) (*WebSocketSink, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	s := &WebSocketSink{
		conn:   conn,
		events: make(chan ParseErrorEventArgs, 64),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s, nil
}

// Subscriber returns the errors.Subscriber callback to pass to
// forge.WithErrorSubscriber.
func (s *WebSocketSink) Subscriber() errors.Subscriber {
	return func(e *errors.ParseError) {
		frame := ParseErrorEventArgs{
			Code:    e.Code,
			Message: e.Message,
			Line:    e.Line,
			Column:  e.Column,
		}
		select {
		case s.events <- frame:
		default:
			// Client isn't draining fast enough; drop rather than block
			// the parser, per the Subscriber contract.
		}
	}
}

// Close stops the write loop and closes the underlying connection.
func (s *WebSocketSink) Close() error {
	close(s.done)
	return s.conn.Close()
}

func (s *WebSocketSink) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case frame := <-s.events:
			_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			data, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
