package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"voxlate/audio"
	"voxlate/core"
	"voxlate/protocol"
	"voxlate/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ControllerFactory builds a session controller whose playback goes to the
// given output device. The server calls it once per connection.
type ControllerFactory func(device audio.OutputDevice) *session.Controller

// Server exposes the session controller to a browser UI over WebSocket.
// Commands arrive as JSON envelopes; state, translation history and raw
// audio are pushed back on the same connection.
type Server struct {
	addr     string
	factory  ControllerFactory
	upgrader websocket.Upgrader
	logger   *core.Logger
}

// NewServer creates a server listening on addr once ListenAndServe is called.
func NewServer(addr string, factory ControllerFactory, logger *core.Logger) *Server {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}
	return &Server{
		addr:    addr,
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The UI is served from anywhere during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ListenAndServe blocks serving /ws until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("websocket server listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sessionID := uuid.New().String()
	logger := s.logger.With(map[string]interface{}{"session_id": sessionID})
	client := &client{
		conn:   &wsConn{conn: conn},
		logger: logger,
	}
	defer client.close()

	device := &Device{conn: client.conn, logger: logger}
	ctrl := s.factory(device)
	client.ctrl = ctrl

	ctrl.SetOnChange(func(snap session.Snapshot) {
		client.send(protocol.MsgState, snap)
	})

	logger.Info("client connected")
	client.sendOptions()
	client.send(protocol.MsgState, ctrl.Snapshot())
	client.send(protocol.MsgHistory, ctrl.History())

	client.readLoop(r.Context())
	logger.Info("client disconnected")
}

// wsConn serializes writes to a websocket connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) writeBinary(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *wsConn) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// client is one connected UI.
type client struct {
	conn   *wsConn
	ctrl   *session.Controller
	logger *core.Logger
}

func (c *client) close() {
	if err := c.conn.close(); err != nil {
		c.logger.Debug("close failed", "error", err)
	}
}

func (c *client) send(msgType protocol.MessageType, payload interface{}) {
	data, err := protocol.Marshal(msgType, payload)
	if err != nil {
		c.logger.Warn("marshal failed", "type", msgType, "error", err)
		return
	}
	if err := c.conn.writeText(data); err != nil {
		c.logger.Debug("write failed", "type", msgType, "error", err)
	}
}

func (c *client) sendError(msg string) {
	c.send(protocol.MsgError, protocol.ErrorPayload{Message: msg})
}

func (c *client) sendOptions() {
	c.send(protocol.MsgOptions, map[string]interface{}{
		"voices":    core.Voices,
		"languages": core.Languages,
	})
}

// readLoop dispatches incoming envelopes until the connection drops.
// Submit and replay run in their own goroutines so reads stay responsive
// during the network waits; the controller's busy guard keeps the sequence
// single-flight.
func (c *client) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.conn.ReadMessage()
		if err != nil {
			return
		}

		msgType, raw, err := protocol.Unmarshal(data)
		if err != nil {
			c.logger.Debug("bad envelope", "error", err)
			c.sendError("malformed message")
			continue
		}

		switch msgType {
		case protocol.MsgSubmit:
			payload, err := protocol.UnmarshalPayload[protocol.SubmitPayload](raw)
			if err != nil {
				c.sendError("malformed submit payload")
				continue
			}
			go c.submit(ctx, payload.Text)

		case protocol.MsgReplay:
			payload, err := protocol.UnmarshalPayload[protocol.ReplayPayload](raw)
			if err != nil {
				c.sendError("malformed replay payload")
				continue
			}
			go c.replay(ctx, payload.Text)

		case protocol.MsgStop:
			c.ctrl.StopSpeaking()

		case protocol.MsgSetLanguages:
			payload, err := protocol.UnmarshalPayload[protocol.SetLanguagesPayload](raw)
			if err != nil {
				c.sendError("malformed set_languages payload")
				continue
			}
			if err := c.ctrl.SetLanguages(core.LanguagePair{Source: payload.Source, Target: payload.Target}); err != nil {
				c.sendError(err.Error())
			}

		case protocol.MsgSwapLanguages:
			c.ctrl.SwapLanguages()

		case protocol.MsgSetVoice:
			payload, err := protocol.UnmarshalPayload[protocol.SetVoicePayload](raw)
			if err != nil {
				c.sendError("malformed set_voice payload")
				continue
			}
			if err := c.ctrl.SetVoice(payload.VoiceID); err != nil {
				c.sendError(err.Error())
			}

		case protocol.MsgLoadHistory:
			payload, err := protocol.UnmarshalPayload[protocol.LoadHistoryPayload](raw)
			if err != nil {
				c.sendError("malformed load_history payload")
				continue
			}
			rec, ok := c.ctrl.FindHistoryEntry(payload.Timestamp)
			if !ok {
				c.sendError("history entry not found")
				continue
			}
			c.ctrl.LoadHistoryEntry(rec)

		case protocol.MsgClearHistory:
			if err := c.ctrl.ClearHistory(); err != nil {
				c.sendError(err.Error())
				continue
			}
			c.send(protocol.MsgHistory, c.ctrl.History())

		case protocol.MsgGetHistory:
			c.send(protocol.MsgHistory, c.ctrl.History())

		case protocol.MsgGetState:
			c.send(protocol.MsgState, c.ctrl.Snapshot())

		case protocol.MsgClearError:
			c.ctrl.ClearError()

		default:
			c.logger.Debug("unknown message type", "type", msgType)
		}
	}
}

func (c *client) submit(ctx context.Context, text string) {
	err := c.ctrl.Submit(ctx, text)
	switch {
	case err == nil:
		c.send(protocol.MsgHistory, c.ctrl.History())
	case errors.Is(err, core.ErrBusy):
		c.sendError("Busy with another request.")
	case errors.Is(err, core.ErrEmptyInput):
		// Locally suppressed: no transition, no message.
	default:
		// Sequence failures already surface through the Error state.
	}
}

func (c *client) replay(ctx context.Context, text string) {
	err := c.ctrl.Replay(ctx, text)
	if errors.Is(err, core.ErrBusy) {
		c.sendError("Busy with another request.")
	}
}
