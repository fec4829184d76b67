package groq

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/talentscout/internal/prompt"
	"github.com/tmc/langchaingo/llms"
)

type fakeLLM struct {
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	return f.resp, f.err
}

func messageText(t *testing.T, m llms.MessageContent) string {
	t.Helper()
	if len(m.Parts) != 1 {
		t.Fatalf("expected one part, got %d", len(m.Parts))
	}
	part, ok := m.Parts[0].(llms.TextContent)
	if !ok {
		t.Fatalf("expected text part, got %T", m.Parts[0])
	}
	return part.Text
}

func TestClientComplete(t *testing.T) {
	llm := &fakeLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: " ### Java \n"}}}}
	c := &Client{llm: llm, model: DefaultModel}

	pair := prompt.Followup("Java", "### Java", "explain q1")
	out, err := c.Complete(context.Background(), pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "### Java" {
		t.Fatalf("unexpected output: %q", out)
	}

	if len(llm.messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(llm.messages))
	}
	if llm.messages[0].Role != llms.ChatMessageTypeSystem || messageText(t, llm.messages[0]) != pair.System {
		t.Fatalf("unexpected system message: %+v", llm.messages[0])
	}
	if llm.messages[1].Role != llms.ChatMessageTypeHuman || messageText(t, llm.messages[1]) != pair.User {
		t.Fatalf("unexpected user message: %+v", llm.messages[1])
	}
	if llm.options.Temperature != 0.4 {
		t.Fatalf("unexpected temperature: %v", llm.options.Temperature)
	}
	if llm.options.Model != DefaultModel {
		t.Fatalf("unexpected model option: %q", llm.options.Model)
	}
}

func TestClientCompleteErrors(t *testing.T) {
	c := &Client{llm: &fakeLLM{err: errors.New("401 unauthorized")}, model: DefaultModel}
	if _, err := c.Complete(context.Background(), prompt.Questions("Go")); err == nil {
		t.Fatal("expected transport error")
	}

	c = &Client{llm: &fakeLLM{resp: &llms.ContentResponse{}}, model: DefaultModel}
	if _, err := c.Complete(context.Background(), prompt.Questions("Go")); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("", "", ""); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New("gsk_test", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != DefaultModel || c.Provider() != "groq" {
		t.Fatalf("unexpected client identity: %s/%s", c.Provider(), c.Model())
	}
}
