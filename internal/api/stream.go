package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/compass/pkg/logger"
)

// Stream is a websocket hub that pushes run-completed events to connected
// presentation clients.
type Stream struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// RunEvent is the message sent when an analysis run completes.
type RunEvent struct {
	Type      string    `json:"type"` // "run_completed"
	RunID     int64     `json:"run_id,omitempty"`
	Entries   int       `json:"entries"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStream creates a stream hub.
func NewStream(log *logger.Logger) *Stream {
	return &Stream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API sits behind the same origin as the presentation layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the connection and keeps it registered until it closes.
func (s *Stream) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Websocket client connected")

	// Drain reads so close frames are processed; clients never send data.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NotifyRunCompleted broadcasts a run event to all clients. Implements
// jobs.Notifier.
func (s *Stream) NotifyRunCompleted(runID int64, entries int) {
	event := RunEvent{
		Type:      "run_completed",
		RunID:     runID,
		Entries:   entries,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

func (s *Stream) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}
