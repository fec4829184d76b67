package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/session"
)

type socketFrame struct {
	Message string `json:"message"`
}

type socketReply struct {
	chatResponse
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
}

// handleChatSocket runs chat actions for the caller's session, one per incoming frame.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	id, _ := s.registry.Do(sessionID(r), func(*session.Session) error { return nil })
	setSessionCookie(w, id)

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("failed to accept websocket", zap.Error(err))
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "bye"); closeErr != nil {
			s.log.Debug("failed to close websocket", zap.Error(closeErr))
		}
	}()

	log := logger.WithSession(s.log, id)
	log.Debug("websocket chat opened")

	ctx := r.Context()
	for {
		var frame socketFrame
		if err := wsjson.Read(ctx, ws, &frame); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		var reply socketReply
		resp, newID, err := s.chat(r, id, frame.Message)
		// An expired session is replaced by the registry; follow it.
		id = newID
		if err != nil {
			_, body := statusFor(err)
			reply.Error, reply.Field = body.Error, body.Field
		} else {
			reply.chatResponse = resp
		}

		if err := wsjson.Write(ctx, ws, reply); err != nil {
			log.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}
