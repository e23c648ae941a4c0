package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// wsReply answers one WebSocket request. Exactly one of Floor and Error
// is set.
type wsReply struct {
	Floor  *GenerateResponse `json:"floor,omitempty"`
	Error  string            `json:"error,omitempty"`
	Status int               `json:"status"`
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		s.log.Warn("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Server.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				s.log.Warn("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	go s.serveWebSocket(conn, clientIP)
}

// serveWebSocket answers requests one at a time until the client leaves.
func (s *Server) serveWebSocket(conn *websocket.Conn, clientIP string) {
	defer func() {
		s.connLimiter.Release(clientIP)
		conn.Close()
	}()

	if limit := s.cfg.Server.WebSocket.MaxMessageSize; limit > 0 {
		conn.SetReadLimit(limit)
	}
	log := s.log.With("client_ip", clientIP)
	log.Debug("WebSocket client connected")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("WebSocket read failed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply := s.handleWebSocketRequest(data)
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("WebSocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) handleWebSocketRequest(data []byte) wsReply {
	var req GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsReply{Error: "invalid request", Status: http.StatusBadRequest}
	}

	// Requests outlive the upgrade request's context.
	resp, err := s.generate(s.baseContext(), req)
	if err == nil {
		return wsReply{Floor: resp, Status: http.StatusCreated}
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return wsReply{Error: reqErr.Error(), Status: reqErr.status}
	}
	s.log.Error("floor generation failed", "error", err)
	return wsReply{Error: "generation failed", Status: http.StatusInternalServerError}
}
