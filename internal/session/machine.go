package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/store"
	"github.com/spigell/talentscout/internal/validator"
)

var (
	ErrContactOpen   = errors.New("contact form is open")
	ErrContactClosed = errors.New("contact form is not open")
	ErrProfileLocked = errors.New("profile already submitted for this session")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrWrongView     = errors.New("action is not available on this screen")
)

// Gateway is the model-facing side of the machine. Both calls always return renderable text.
type Gateway interface {
	GenerateQuestions(ctx context.Context, techStack string) string
	AnswerFollowup(ctx context.Context, input, techStack, priorQuestions string) string
	Notice() string
}

// Options configures a Machine. Zero values fall back to defaults.
type Options struct {
	Matcher     *validator.Matcher
	EmailDomain string
	Contacts    store.ContactStore
	Now         func() time.Time
}

// Machine applies user actions to sessions. It holds no per-session state.
type Machine struct {
	gateway  Gateway
	matcher  *validator.Matcher
	rules    []validator.Rule
	contacts store.ContactStore
	now      func() time.Time
	log      *zap.Logger
}

func NewMachine(gateway Gateway, opts Options, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Matcher == nil {
		opts.Matcher = validator.Default()
	}
	if opts.Contacts == nil {
		opts.Contacts = store.NopStore{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Machine{
		gateway:  gateway,
		matcher:  opts.Matcher,
		rules:    validator.ProfileRules(opts.Matcher, opts.EmailDomain),
		contacts: opts.Contacts,
		now:      opts.Now,
		log:      log,
	}
}

// Acknowledge leaves the intro screen. Repeated calls are no-ops.
func (m *Machine) Acknowledge(s *Session) error {
	if s.showContact {
		return ErrContactOpen
	}
	if s.view == ViewChat {
		return nil
	}

	s.view = ViewChat
	s.history = append(s.history, Turn{Role: RoleAssistant, Content: welcomeMessage})
	logger.WithSession(m.log, s.id).Debug("intro acknowledged")
	return nil
}

// SubmitProfile validates the candidate form and, on success, generates the practice set.
// A rejected form leaves the session untouched.
func (m *Machine) SubmitProfile(ctx context.Context, s *Session, input validator.Profile) error {
	if s.showContact {
		return ErrContactOpen
	}
	if s.view != ViewChat {
		return ErrWrongView
	}
	if s.stage != StageForm {
		return ErrProfileLocked
	}

	profile, err := validator.ValidateProfile(m.rules, input)
	if err != nil {
		logger.WithSession(m.log, s.id).Info("profile rejected", zap.Error(err))
		return err
	}

	candidate := profileFrom(profile)
	questions := m.gateway.GenerateQuestions(ctx, candidate.TechStack)

	s.candidate = &candidate
	s.history = append(s.history, Turn{Role: RoleAssistant, Content: acceptedMessage(candidate)})
	s.latestQuestions = questions
	s.stage = StageQuestions

	logger.WithSession(m.log, s.id).Info("profile accepted", zap.String("tech_stack", candidate.TechStack))
	return nil
}

// Chat records one candidate message and the reply for the current stage.
func (m *Machine) Chat(ctx context.Context, s *Session, input string) (Turn, error) {
	if s.showContact {
		return Turn{}, ErrContactOpen
	}
	if s.view != ViewChat {
		return Turn{}, ErrWrongView
	}
	if strings.TrimSpace(input) == "" {
		return Turn{}, ErrEmptyMessage
	}

	s.chat = append(s.chat, Turn{Role: RoleUser, Content: input})

	var reply string
	switch s.stage {
	case StageEnded:
		reply = WrappedUpMessage
	case StageForm:
		reply = FillFormMessage
	case StageQuestions:
		reply = m.answer(ctx, s, input)
	}

	turn := Turn{Role: RoleAssistant, Content: reply}
	s.chat = append(s.chat, turn)
	return turn, nil
}

func (m *Machine) answer(ctx context.Context, s *Session, input string) string {
	log := logger.WithSession(m.log, s.id)

	switch {
	case m.matcher.IsEndIntent(input):
		s.stage = StageEnded
		log.Info("session ended by candidate")
		return GoodbyeMessage
	case m.matcher.IsOutOfScope(input):
		log.Debug("out of scope message")
		return OutOfScopeMessage
	default:
		return m.gateway.AnswerFollowup(ctx, input, s.candidate.TechStack, s.latestQuestions)
	}
}

// OpenContact shows the contact overlay.
func (m *Machine) OpenContact(s *Session) {
	s.showContact = true
}

// CloseContact hides the contact overlay without sending anything.
func (m *Machine) CloseContact(s *Session) {
	s.showContact = false
}

// SubmitContact stores an inquiry and closes the overlay.
func (m *Machine) SubmitContact(ctx context.Context, s *Session, input ContactInput) error {
	if !s.showContact {
		return ErrContactClosed
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)

	switch {
	case input.Name == "":
		return &validator.ValidationError{Field: "name", Message: "Please enter your name."}
	case input.Email == "":
		return &validator.ValidationError{Field: "email", Message: "Please enter your email."}
	case input.Message == "":
		return &validator.ValidationError{Field: "message", Message: "Please enter a message."}
	}

	err := m.contacts.SaveContact(ctx, store.ContactMessage{
		SessionID: s.id,
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: m.now().UTC(),
	})
	if err != nil {
		return err
	}

	s.showContact = false
	logger.WithSession(m.log, s.id).Info("contact message saved")
	return nil
}

// Snapshot returns a copy of s for rendering.
func (m *Machine) Snapshot(s *Session) Snapshot {
	notice := ""
	if m.gateway != nil {
		notice = m.gateway.Notice()
	}
	return s.snapshot(notice)
}
