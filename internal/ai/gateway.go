// Package ai sends prompt pairs to a chat-completion provider and turns every
// failure into a fixed, renderable fallback.
package ai

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/prompt"
	"github.com/spigell/talentscout/internal/utils"
	"go.uber.org/zap"
)

// FallbackQuestions is served whenever question generation fails or returns
// text without a single "###" section.
const FallbackQuestions = `### General

1. Tell me about a recent project you worked on and what your role was.
2. How do you usually debug and fix tricky issues in your code?
3. How do you keep yourself updated with new tools, frameworks, or libraries?
4. Describe a situation where you had to learn a new technology quickly.

**Mini Assignment:**  
Pick one of your past projects and refactor it to improve code readability and structure.  
Write down what you improved and why.`

// FollowupApology is served whenever a follow-up answer cannot be produced.
const FollowupApology = "Something went wrong while calling the AI model, " +
	"but you can still use the questions above to practice on your own."

// NoCredentialNotice is shown for the whole session when no usable API key is configured.
const NoCredentialNotice = "No usable AI model API key is configured, so generic practice questions are used. " +
	"Set GROQ_API_KEY (or the key of the configured provider) in the environment or a .env file, " +
	"and check the ai.provider and ai.api-key-file settings."

const sectionMarker = "###"

const defaultMaxLogLength = 200

// ErrEmptyResponse is returned by providers when the model produced no text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Completer executes one chat completion.
type Completer interface {
	Complete(ctx context.Context, p prompt.Pair) (string, error)
	Provider() string
	Model() string
}

// Gateway turns prompt pairs into model text. With a nil Completer it never
// touches the network and always returns the fallbacks.
type Gateway struct {
	completer Completer
	notice    string
	logger    *zap.Logger
	maxLogLen int
}

// NewGateway wraps completer. Pass a nil completer to run in fallback-only mode.
func NewGateway(completer Completer, log *zap.Logger, maxLogLength int) *Gateway {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	g := &Gateway{completer: completer, maxLogLen: maxLogLength}
	if completer == nil {
		g.notice = NoCredentialNotice
		g.logger = logger.WithFields(log)
	} else {
		g.logger = logger.WithCommonFields(log, completer.Provider(), completer.Model())
	}

	return g
}

// Notice returns the persistent configuration notice, or "" when a provider is configured.
func (g *Gateway) Notice() string {
	return g.notice
}

// Enabled reports whether calls reach a real provider.
func (g *Gateway) Enabled() bool {
	return g.completer != nil
}

// GenerateQuestions returns a markdown practice set for techStack. It always
// returns renderable markdown.
func (g *Gateway) GenerateQuestions(ctx context.Context, techStack string) string {
	if g.completer == nil {
		g.logger.Debug("no credential, serving fallback questions")
		return FallbackQuestions
	}

	text, err := g.complete(ctx, "questions", prompt.Questions(techStack))
	if err != nil {
		g.logger.Error("question generation failed, serving fallback", zap.Error(err))
		return FallbackQuestions
	}

	if !strings.Contains(text, sectionMarker) {
		g.logger.Warn("model response is not in the expected format, serving fallback",
			zap.String("response_preview", utils.TruncateForLog(text, g.maxLogLen)),
		)
		return FallbackQuestions
	}

	return text
}

// AnswerFollowup answers a candidate message about the previously generated set.
func (g *Gateway) AnswerFollowup(ctx context.Context, input, techStack, priorQuestions string) string {
	if g.completer == nil {
		g.logger.Debug("no credential, serving follow-up apology")
		return FollowupApology
	}

	text, err := g.complete(ctx, "followup", prompt.Followup(techStack, priorQuestions, input))
	if err != nil {
		g.logger.Error("follow-up answer failed, serving apology", zap.Error(err))
		return FollowupApology
	}

	return text
}

func (g *Gateway) complete(ctx context.Context, task string, p prompt.Pair) (string, error) {
	g.logger.Debug("chat completion request",
		zap.String("task", task),
		zap.Float64("temperature", p.Temperature),
		zap.Int("prompt_length", utf8.RuneCountInString(p.User)),
		zap.String("prompt_preview", utils.TruncateForLog(p.User, g.maxLogLen)),
	)

	started := time.Now()
	raw, err := g.completer.Complete(ctx, p)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Debug("chat completion response",
		zap.String("task", task),
		zap.Duration("took", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, g.maxLogLen)),
	)

	return text, nil
}
