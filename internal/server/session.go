package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/driftwall/driftwall/pkg/engine"
	"github.com/driftwall/driftwall/pkg/observability"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second

	// defaultViewportW and defaultViewportH size the view until the
	// client reports its real viewport.
	defaultViewportW = 1440.0
	defaultViewportH = 900.0
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is the envelope for everything a session client sends.
type clientMessage struct {
	Type   string  `json:"type"`
	Phase  string  `json:"phase,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// helloMessage is the first message of a session.
type helloMessage struct {
	Type      string  `json:"type"`
	SessionID string  `json:"session_id"`
	WorldSize float64 `json:"world_size"`
	Photos    int     `json:"photos"`
	Title     string  `json:"title,omitempty"`
	Subtitle  string  `json:"subtitle,omitempty"`
}

// frameMessage carries one camera frame to the client.
type frameMessage struct {
	Type  string       `json:"type"`
	Frame engine.Frame `json:"frame"`
}

// session is one websocket pan session. The engine is single-threaded;
// the mutex serializes the reader goroutine's inputs against the tick loop.
type session struct {
	id     string
	conn   *websocket.Conn
	engine *engine.Engine
	mu     sync.Mutex
}

// handleSession upgrades the connection and runs the session tick loop
// until the client disconnects.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		id:     uuid.NewString(),
		conn:   conn,
		engine: engine.New(s.result.Layout, defaultViewportW, defaultViewportH),
	}

	ctx := r.Context()
	started := time.Now()
	observability.Session().OnSessionStart(ctx, sess.id)
	s.logger.Info("session started", "session", sess.id)
	defer func() {
		conn.Close()
		observability.Session().OnSessionEnd(ctx, sess.id, time.Since(started))
		s.logger.Info("session ended", "session", sess.id, "lifetime", time.Since(started))
	}()

	hello := helloMessage{
		Type:      "hello",
		SessionID: sess.id,
		WorldSize: s.result.Layout.WorldSize,
		Photos:    s.result.Stats.PhotoCount,
		Title:     s.result.Layout.Title,
		Subtitle:  s.result.Layout.Subtitle,
	}
	if err := sess.write(hello); err != nil {
		return
	}

	// Reader goroutine feeds inputs; closing done ends the tick loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.readInputs(s)
	}()

	tick := time.NewTicker(time.Duration(s.cfg.TickMS) * time.Millisecond)
	defer tick.Stop()

	var last engine.Frame
	published := false
	for {
		select {
		case <-done:
			return
		case now := <-tick.C:
			sess.mu.Lock()
			frame := sess.engine.Step(now)
			sess.mu.Unlock()

			if published && sameFrame(last, frame) {
				continue
			}
			if err := sess.write(frameMessage{Type: "frame", Frame: frame}); err != nil {
				return
			}
			observability.Session().OnFramePublished(ctx, sess.id, visibleCount(frame))
			last = frame
			published = true
		}
	}
}

// readInputs consumes client messages until the connection drops.
func (sess *session) readInputs(s *Server) {
	for {
		_, payload, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warn("discarding malformed message", "session", sess.id, "error", err)
			continue
		}

		now := time.Now()
		sess.mu.Lock()
		switch msg.Type {
		case "pointer":
			switch msg.Phase {
			case "down":
				sess.engine.PointerDown(now, msg.X, msg.Y)
			case "move":
				sess.engine.PointerMove(now, msg.X, msg.Y)
			case "up":
				sess.engine.PointerUp(now, msg.X, msg.Y)
			case "cancel":
				sess.engine.PointerCancel(now)
			}
		case "viewport":
			if msg.Width > 0 && msg.Height > 0 {
				sess.engine.SetViewport(msg.Width, msg.Height)
			}
		case "recenter":
			sess.engine.Recenter(now)
		case "clear_selection":
			sess.engine.ClearSelection()
		default:
			s.logger.Warn("unknown message type", "session", sess.id, "type", msg.Type)
		}
		sess.mu.Unlock()
	}
}

// write sends one JSON message with a bounded deadline. The tick loop is
// the only writer after the hello message, so no write lock is needed.
func (sess *session) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sess.conn.WriteMessage(websocket.TextMessage, data)
}

// sameFrame reports whether two frames are identical for publish purposes.
// Tile contents only change when the offset, scale, or viewport does, so
// the scalar fields plus the visible count are sufficient.
func sameFrame(a, b engine.Frame) bool {
	return a.Offset == b.Offset &&
		a.Scale == b.Scale &&
		a.ShowRecenter == b.ShowRecenter &&
		a.Selected == b.Selected &&
		a.Phase == b.Phase &&
		visibleCount(a) == visibleCount(b)
}

func visibleCount(f engine.Frame) int {
	n := 0
	for _, t := range f.Tiles {
		n += len(t.Indexes)
	}
	return n
}
