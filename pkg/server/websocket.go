package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vtree/pkg/runtime"
)

// SessionMessage is a client message of a live preview session.
type SessionMessage struct {
	// State is merged into the live component's state before change
	// detection.
	State map[string]any `json:"state"`
}

// session is a live preview of one component instance. The instance is
// owned by the goroutine running run.
type session struct {
	srv    *Server
	conn   *websocket.Conn
	ref    *runtime.ComponentRef
	logger *slog.Logger

	closeOnce sync.Once
}

// handleWebSocket opens a live preview session. The component is created
// before the upgrade so that creation errors are plain HTTP errors.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.isClosing() {
		s.writeError(w, r, ErrShuttingDown)
		return
	}
	ref, err := s.create(r.Context(), chi.URLParam(r, "name"), nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ref.Destroy()
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		srv:    s,
		conn:   conn,
		ref:    ref,
		logger: s.logger.With("session", ref.Def().Name, "remote", r.RemoteAddr),
	}
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		ref.Destroy()
		sess.close()
		return
	}
	s.sessions[sess] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()
	s.metrics.SessionOpened()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.metrics.SessionClosed()
		s.wg.Done()
	}()
	sess.run()
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// run sends the initial render, then answers every state update with a
// fresh render until the connection closes.
func (sess *session) run() {
	defer sess.close()
	defer sess.ref.Destroy()

	cfg := sess.srv.config
	sess.conn.SetReadLimit(cfg.MaxBodySize)
	sess.logger.Info("session opened")

	if err := sess.send(); err != nil {
		sess.logger.Error("write error", "error", err)
		return
	}

	for {
		sess.conn.SetReadDeadline(time.Now().Add(cfg.SessionReadTimeout))
		typ, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			sess.logger.Info("session closed")
			return
		}
		if typ != websocket.TextMessage {
			sess.logger.Warn("ignoring non-text message", "type", typ)
			continue
		}

		var m SessionMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			sess.logger.Debug("invalid message", "error", err)
			if err := sess.write(errorResponse{Error: "invalid message: " + err.Error()}); err != nil {
				return
			}
			continue
		}
		sess.ref.SetState(m.State)
		sess.ref.DetectChanges()
		if err := sess.send(); err != nil {
			sess.logger.Error("write error", "error", err)
			return
		}
	}
}

func (sess *session) send() error {
	resp, err := sess.srv.response(sess.ref.Def().Name, "", sess.ref.RootNodes())
	if err != nil {
		return sess.write(newErrorResponse(err))
	}
	return sess.write(resp)
}

func (sess *session) write(v any) error {
	sess.conn.SetWriteDeadline(time.Now().Add(sess.srv.config.WriteTimeout))
	return sess.conn.WriteJSON(v)
}

// close sends a close frame and closes the connection. It is safe to call
// from any goroutine.
func (sess *session) close() {
	sess.closeOnce.Do(func() {
		sess.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		sess.conn.Close()
	})
}
