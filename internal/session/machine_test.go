package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talentscout/internal/store"
	"github.com/spigell/talentscout/internal/validator"
)

type fakeGateway struct {
	questions      string
	answer         string
	notice         string
	questionCalls  int
	followupCalls  int
	lastTechStack  string
	lastPrior      string
	lastFollowupIn string
}

func (f *fakeGateway) GenerateQuestions(_ context.Context, techStack string) string {
	f.questionCalls++
	f.lastTechStack = techStack
	return f.questions
}

func (f *fakeGateway) AnswerFollowup(_ context.Context, input, techStack, prior string) string {
	f.followupCalls++
	f.lastFollowupIn = input
	f.lastTechStack = techStack
	f.lastPrior = prior
	return f.answer
}

func (f *fakeGateway) Notice() string { return f.notice }

type recordingStore struct {
	saved []store.ContactMessage
	err   error
}

func (r *recordingStore) SaveContact(_ context.Context, msg store.ContactMessage) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, msg)
	return nil
}

func (r *recordingStore) Close() error { return nil }

func newTestMachine(t *testing.T) (*Machine, *fakeGateway) {
	t.Helper()

	gw := &fakeGateway{questions: "### Java\n1. q", answer: "Here is a hint."}
	return NewMachine(gw, Options{}, zap.NewNop()), gw
}

func validProfile() validator.Profile {
	return validator.Profile{
		FullName:        "Ada Lovelace",
		Email:           "user@gmail.com",
		Phone:           "1234567890",
		YearsExperience: 3,
		TechStack:       "Java, Docker",
	}
}

func chatReady(t *testing.T, m *Machine) *Session {
	t.Helper()

	s := New("s1")
	if err := m.Acknowledge(s); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	return s
}

func TestAcknowledgeMovesToChatOnce(t *testing.T) {
	m, _ := newTestMachine(t)
	s := New("s1")

	if s.View() != ViewIntro || s.Stage() != StageForm {
		t.Fatalf("unexpected initial state %s/%s", s.View(), s.Stage())
	}

	for i := 0; i < 2; i++ {
		if err := m.Acknowledge(s); err != nil {
			t.Fatalf("acknowledge #%d: %v", i, err)
		}
	}

	if s.View() != ViewChat {
		t.Fatalf("expected chat view, got %s", s.View())
	}
	snap := m.Snapshot(s)
	if len(snap.History) != 1 || snap.History[0].Role != RoleAssistant {
		t.Fatalf("expected a single welcome turn, got %+v", snap.History)
	}
}

func TestSubmitProfileRejectsWrongDomain(t *testing.T) {
	m, gw := newTestMachine(t)
	s := chatReady(t, m)

	p := validProfile()
	p.Email = "user@yahoo.com"

	err := m.SubmitProfile(context.Background(), s, p)
	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "email" {
		t.Fatalf("expected email field, got %q", verr.Field)
	}
	if s.Stage() != StageForm {
		t.Fatalf("stage changed to %s", s.Stage())
	}
	if _, ok := s.Candidate(); ok {
		t.Fatal("candidate set after rejected profile")
	}
	if s.LatestQuestions() != "" {
		t.Fatal("questions set after rejected profile")
	}
	if gw.questionCalls != 0 {
		t.Fatalf("gateway called %d times", gw.questionCalls)
	}
	if len(m.Snapshot(s).History) != 1 {
		t.Fatal("history changed after rejected profile")
	}
}

func TestSubmitProfileAccepted(t *testing.T) {
	m, gw := newTestMachine(t)
	s := chatReady(t, m)

	if err := m.SubmitProfile(context.Background(), s, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if s.Stage() != StageQuestions {
		t.Fatalf("expected questions stage, got %s", s.Stage())
	}
	c, ok := s.Candidate()
	if !ok || c.FullName != "Ada Lovelace" || c.TechStack != "Java, Docker" {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if s.LatestQuestions() == "" {
		t.Fatal("expected questions to be stored")
	}
	if gw.questionCalls != 1 || gw.lastTechStack != "Java, Docker" {
		t.Fatalf("unexpected gateway usage: calls=%d stack=%q", gw.questionCalls, gw.lastTechStack)
	}

	history := m.Snapshot(s).History
	last := history[len(history)-1].Content
	if !strings.Contains(last, "**Ada Lovelace**") || !strings.Contains(last, "`Java, Docker`") {
		t.Fatalf("unexpected confirmation %q", last)
	}
}

func TestSubmitProfileLockedAfterAcceptance(t *testing.T) {
	m, gw := newTestMachine(t)
	s := chatReady(t, m)

	if err := m.SubmitProfile(context.Background(), s, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	other := validProfile()
	other.FullName = "Someone Else"

	if err := m.SubmitProfile(context.Background(), s, other); !errors.Is(err, ErrProfileLocked) {
		t.Fatalf("expected ErrProfileLocked, got %v", err)
	}
	if c, _ := s.Candidate(); c.FullName != "Ada Lovelace" {
		t.Fatalf("candidate overwritten: %+v", c)
	}
	if gw.questionCalls != 1 {
		t.Fatalf("expected one generation call, got %d", gw.questionCalls)
	}
}

func TestSubmitProfileRequiresChatView(t *testing.T) {
	m, _ := newTestMachine(t)
	s := New("s1")

	if err := m.SubmitProfile(context.Background(), s, validProfile()); !errors.Is(err, ErrWrongView) {
		t.Fatalf("expected ErrWrongView, got %v", err)
	}
	if _, err := m.Chat(context.Background(), s, "hi"); !errors.Is(err, ErrWrongView) {
		t.Fatalf("expected ErrWrongView, got %v", err)
	}
}

func TestChatByStage(t *testing.T) {
	m, gw := newTestMachine(t)
	ctx := context.Background()
	s := chatReady(t, m)

	reply, err := m.Chat(ctx, s, "bye")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Content != FillFormMessage {
		t.Fatalf("expected fill-form notice, got %q", reply.Content)
	}
	if s.Stage() != StageForm {
		t.Fatalf("form stage must not end, got %s", s.Stage())
	}

	if err := m.SubmitProfile(ctx, s, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	reply, _ = m.Chat(ctx, s, "Can you explain question 2?")
	if reply.Content != "Here is a hint." {
		t.Fatalf("unexpected follow-up %q", reply.Content)
	}
	if gw.lastTechStack != "Java, Docker" || gw.lastPrior != s.LatestQuestions() {
		t.Fatalf("follow-up context not passed: stack=%q prior=%q", gw.lastTechStack, gw.lastPrior)
	}

	reply, _ = m.Chat(ctx, s, "what's the weather in Paris")
	if reply.Content != OutOfScopeMessage {
		t.Fatalf("expected out-of-scope reply, got %q", reply.Content)
	}
	if gw.followupCalls != 1 {
		t.Fatalf("out-of-scope must not call gateway, calls=%d", gw.followupCalls)
	}

	reply, _ = m.Chat(ctx, s, "Thanks a lot!")
	if reply.Content != GoodbyeMessage {
		t.Fatalf("expected goodbye, got %q", reply.Content)
	}
	if s.Stage() != StageEnded {
		t.Fatalf("expected ended stage, got %s", s.Stage())
	}

	snap := m.Snapshot(s)
	if len(snap.Chat) != 8 {
		t.Fatalf("expected 8 chat turns, got %d", len(snap.Chat))
	}
	for i, turn := range snap.Chat {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if turn.Role != want {
			t.Fatalf("turn %d: expected %s, got %s", i, want, turn.Role)
		}
	}
}

func TestChatAfterEndNeverCallsGateway(t *testing.T) {
	m, gw := newTestMachine(t)
	ctx := context.Background()
	s := chatReady(t, m)

	if err := m.SubmitProfile(ctx, s, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := m.Chat(ctx, s, "goodbye"); err != nil {
		t.Fatalf("chat: %v", err)
	}

	inputs := []string{"explain question 1", "bye", "weather", "Java generics?"}
	for _, in := range inputs {
		reply, err := m.Chat(ctx, s, in)
		if err != nil {
			t.Fatalf("chat %q: %v", in, err)
		}
		if reply.Content != WrappedUpMessage {
			t.Fatalf("input %q: expected wrapped-up notice, got %q", in, reply.Content)
		}
	}
	if gw.followupCalls != 0 {
		t.Fatalf("gateway called %d times after end", gw.followupCalls)
	}
	if gw.questionCalls != 1 {
		t.Fatalf("unexpected question calls %d", gw.questionCalls)
	}
}

func TestChatRejectsBlankInput(t *testing.T) {
	m, _ := newTestMachine(t)
	s := chatReady(t, m)

	if _, err := m.Chat(context.Background(), s, "  \n\t"); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(m.Snapshot(s).Chat) != 0 {
		t.Fatal("blank input must not be recorded")
	}
}

func TestContactOverlayBlocksActions(t *testing.T) {
	m, _ := newTestMachine(t)
	ctx := context.Background()
	s := New("s1")

	m.OpenContact(s)
	if !s.ShowContact() {
		t.Fatal("overlay not open")
	}

	if err := m.Acknowledge(s); !errors.Is(err, ErrContactOpen) {
		t.Fatalf("acknowledge: expected ErrContactOpen, got %v", err)
	}
	if err := m.SubmitProfile(ctx, s, validProfile()); !errors.Is(err, ErrContactOpen) {
		t.Fatalf("submit: expected ErrContactOpen, got %v", err)
	}
	if _, err := m.Chat(ctx, s, "hello"); !errors.Is(err, ErrContactOpen) {
		t.Fatalf("chat: expected ErrContactOpen, got %v", err)
	}
	if s.View() != ViewIntro || s.Stage() != StageForm {
		t.Fatalf("state changed under overlay: %s/%s", s.View(), s.Stage())
	}

	m.CloseContact(s)
	if s.ShowContact() {
		t.Fatal("overlay still open")
	}
	if err := m.Acknowledge(s); err != nil {
		t.Fatalf("acknowledge after close: %v", err)
	}
}

func TestSubmitContact(t *testing.T) {
	contacts := &recordingStore{}
	m := NewMachine(&fakeGateway{}, Options{Contacts: contacts}, zap.NewNop())
	ctx := context.Background()
	s := New("s1")
	m.OpenContact(s)

	tests := []struct {
		name  string
		input ContactInput
		field string
	}{
		{name: "missing name", input: ContactInput{Email: "a@b.c", Message: "hi"}, field: "name"},
		{name: "missing email", input: ContactInput{Name: "Ada", Message: "hi"}, field: "email"},
		{name: "blank message", input: ContactInput{Name: "Ada", Email: "a@b.c", Message: "   "}, field: "message"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := m.SubmitContact(ctx, s, tc.input)
			var verr *validator.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
			if !s.ShowContact() {
				t.Fatal("overlay closed on invalid submission")
			}
		})
	}

	if err := m.SubmitContact(ctx, s, ContactInput{Name: " Ada ", Email: "ada@gmail.com", Message: "Hello"}); err != nil {
		t.Fatalf("submit contact: %v", err)
	}
	if s.ShowContact() {
		t.Fatal("overlay should close after submission")
	}
	if len(contacts.saved) != 1 {
		t.Fatalf("expected one saved message, got %d", len(contacts.saved))
	}
	got := contacts.saved[0]
	if got.SessionID != "s1" || got.Name != "Ada" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected saved message %+v", got)
	}
}

func TestSubmitContactRequiresOpenOverlay(t *testing.T) {
	contacts := &recordingStore{}
	m := NewMachine(&fakeGateway{}, Options{Contacts: contacts}, zap.NewNop())
	s := New("s1")

	err := m.SubmitContact(context.Background(), s, ContactInput{Name: "Ada", Email: "a@b.c", Message: "hi"})
	if !errors.Is(err, ErrContactClosed) {
		t.Fatalf("expected ErrContactClosed, got %v", err)
	}
	if len(contacts.saved) != 0 {
		t.Fatalf("inquiry saved with overlay closed: %+v", contacts.saved)
	}
}

func TestSubmitContactStoreFailureKeepsOverlay(t *testing.T) {
	contacts := &recordingStore{err: errors.New("disk full")}
	m := NewMachine(&fakeGateway{}, Options{Contacts: contacts}, zap.NewNop())
	s := New("s1")
	m.OpenContact(s)

	err := m.SubmitContact(context.Background(), s, ContactInput{Name: "Ada", Email: "a@b.c", Message: "hi"})
	if err == nil {
		t.Fatal("expected store error")
	}
	if !s.ShowContact() {
		t.Fatal("overlay closed after failed save")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m, gw := newTestMachine(t)
	gw.notice = "degraded"
	s := chatReady(t, m)

	if err := m.SubmitProfile(context.Background(), s, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := m.Snapshot(s)
	if snap.Notice != "degraded" || snap.SessionID != "s1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	snap.History[0].Content = "tampered"
	snap.Candidate.FullName = "tampered"

	again := m.Snapshot(s)
	if again.History[0].Content == "tampered" || again.Candidate.FullName == "tampered" {
		t.Fatal("snapshot shares memory with session")
	}
}

func TestMachineLogsProfileRejection(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMachine(&fakeGateway{}, Options{}, zap.New(core))
	s := New("s1")
	if err := m.Acknowledge(s); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	p := validProfile()
	p.Phone = "12345"
	if err := m.SubmitProfile(context.Background(), s, p); err == nil {
		t.Fatal("expected phone rejection")
	}

	entries := logs.FilterMessage("profile rejected").All()
	if len(entries) != 1 {
		t.Fatalf("expected one rejection log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["session_id"]; got != "s1" {
		t.Fatalf("expected session_id field, got %v", got)
	}
}
