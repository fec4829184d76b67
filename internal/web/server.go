// Package web serves the practice assistant over HTTP: a single embedded page,
// a small JSON API and a websocket chat channel, all backed by the session registry.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/session"
	"github.com/spigell/talentscout/internal/validator"
)

// CookieName carries the session ID between requests.
const CookieName = "talentscout_session"

// Server owns the HTTP handlers. It is safe for concurrent use.
type Server struct {
	registry *session.Registry
	machine  *session.Machine
	log      *zap.Logger
	schema   *jsonschema.Schema
}

func NewServer(registry *session.Registry, machine *session.Machine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	return &Server{
		registry: registry,
		machine:  machine,
		log:      log,
		schema:   reflector.Reflect(&validator.Profile{}),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSnapshot)
		r.Post("/session/acknowledge", s.handleAcknowledge)
		r.Post("/session/profile", s.handleProfile)
		r.Post("/session/chat", s.handleChat)
		r.Post("/session/reset", s.handleReset)

		r.Post("/contact/open", s.handleContactOpen)
		r.Post("/contact/close", s.handleContactClose)
		r.Post("/contact", s.handleContactSubmit)

		r.Get("/schema/profile", s.handleProfileSchema)
	})

	r.Get("/ws/chat", s.handleChatSocket)

	return r
}

func sessionID(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// withSession runs fn on the caller's session and refreshes the cookie.
// On success it writes the resulting snapshot.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *session.Session) error) {
	var snap session.Snapshot
	id, err := s.registry.Do(sessionID(r), func(sess *session.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		snap = s.machine.Snapshot(sess)
		return nil
	})
	setSessionCookie(w, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	JSON(w, http.StatusOK, snap)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(indexPage)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(*session.Session) error { return nil })
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, s.machine.Acknowledge)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var input validator.Profile
	if err := decodeForm(w, r, &input); err != nil {
		s.fail(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *session.Session) error {
		return s.machine.SubmitProfile(r.Context(), sess, input)
	})
}

type chatRequest struct {
	Message string `json:"message" mapstructure:"message"`
}

type chatResponse struct {
	Reply   session.Turn     `json:"reply"`
	Session session.Snapshot `json:"session"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeForm(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	resp, id, err := s.chat(r, sessionID(r), req.Message)
	setSessionCookie(w, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

func (s *Server) chat(r *http.Request, id, message string) (chatResponse, string, error) {
	var resp chatResponse
	started := time.Now()

	id, err := s.registry.Do(id, func(sess *session.Session) error {
		reply, err := s.machine.Chat(r.Context(), sess, message)
		if err != nil {
			return err
		}
		resp = chatResponse{Reply: reply, Session: s.machine.Snapshot(sess)}
		return nil
	})
	if err == nil {
		logger.WithSession(s.log, id).Debug("chat handled", zap.Duration("duration", time.Since(started)))
	}
	return resp, id, err
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.registry.Reset(sessionID(r))

	var snap session.Snapshot
	id, _ := s.registry.Do("", func(sess *session.Session) error {
		snap = s.machine.Snapshot(sess)
		return nil
	})
	setSessionCookie(w, id)
	JSON(w, http.StatusOK, snap)
}

func (s *Server) handleContactOpen(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) error {
		s.machine.OpenContact(sess)
		return nil
	})
}

func (s *Server) handleContactClose(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) error {
		s.machine.CloseContact(sess)
		return nil
	})
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var input session.ContactInput
	if err := decodeForm(w, r, &input); err != nil {
		s.fail(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *session.Session) error {
		return s.machine.SubmitContact(r.Context(), sess, input)
	})
}

func (s *Server) handleProfileSchema(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, s.schema)
}
