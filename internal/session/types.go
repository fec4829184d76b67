// Package session holds the per-candidate practice flow: which screen is shown,
// how far the candidate got, and the two append-only conversation logs.
package session

import (
	"fmt"

	"github.com/spigell/talentscout/internal/validator"
)

// View selects the top-level screen.
type View int

const (
	ViewIntro View = iota
	ViewChat
)

func (v View) String() string {
	switch v {
	case ViewIntro:
		return "intro"
	case ViewChat:
		return "chat"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

func (v View) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Stage is the candidate-flow phase.
type Stage int

const (
	StageForm Stage = iota
	StageQuestions
	StageEnded
)

func (s Stage) String() string {
	switch s {
	case StageForm:
		return "form"
	case StageQuestions:
		return "questions"
	case StageEnded:
		return "ended"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation log.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CandidateProfile is the accepted profile. It is set once per session.
type CandidateProfile struct {
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone,omitempty"`
	YearsExperience float64 `json:"years_experience"`
	DesiredPosition string  `json:"desired_position,omitempty"`
	Location        string  `json:"location,omitempty"`
	TechStack       string  `json:"tech_stack"`
}

func profileFrom(p validator.Profile) CandidateProfile {
	return CandidateProfile{
		FullName:        p.FullName,
		Email:           p.Email,
		Phone:           p.Phone,
		YearsExperience: p.YearsExperience,
		DesiredPosition: p.DesiredPosition,
		Location:        p.Location,
		TechStack:       p.TechStack,
	}
}

// ContactInput is the "Contact us" form.
type ContactInput struct {
	Name    string `json:"name" mapstructure:"name"`
	Email   string `json:"email" mapstructure:"email"`
	Message string `json:"message" mapstructure:"message"`
}

// Session is the state of one practice run. Its fields change only through Machine.
type Session struct {
	id              string
	view            View
	stage           Stage
	candidate       *CandidateProfile
	latestQuestions string
	history         []Turn
	chat            []Turn
	showContact     bool
}

// New returns a session on the intro screen with an empty form.
func New(id string) *Session {
	return &Session{id: id, view: ViewIntro, stage: StageForm}
}

func (s *Session) ID() string { return s.id }

func (s *Session) View() View { return s.view }

func (s *Session) Stage() Stage { return s.stage }

func (s *Session) ShowContact() bool { return s.showContact }

// Candidate returns a copy of the accepted profile.
func (s *Session) Candidate() (CandidateProfile, bool) {
	if s.candidate == nil {
		return CandidateProfile{}, false
	}
	return *s.candidate, true
}

func (s *Session) LatestQuestions() string { return s.latestQuestions }

// Snapshot is a read-only copy of a session for renderers.
type Snapshot struct {
	SessionID       string            `json:"session_id"`
	View            View              `json:"view"`
	Stage           Stage             `json:"stage"`
	ShowContact     bool              `json:"show_contact"`
	Candidate       *CandidateProfile `json:"candidate,omitempty"`
	LatestQuestions string            `json:"latest_questions,omitempty"`
	History         []Turn            `json:"history"`
	Chat            []Turn            `json:"chat"`
	Notice          string            `json:"notice,omitempty"`
}

func (s *Session) snapshot(notice string) Snapshot {
	snap := Snapshot{
		SessionID:       s.id,
		View:            s.view,
		Stage:           s.stage,
		ShowContact:     s.showContact,
		LatestQuestions: s.latestQuestions,
		History:         append([]Turn{}, s.history...),
		Chat:            append([]Turn{}, s.chat...),
		Notice:          notice,
	}
	if s.candidate != nil {
		c := *s.candidate
		snap.Candidate = &c
	}
	return snap
}
