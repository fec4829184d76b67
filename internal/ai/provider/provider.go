// Package provider builds the configured chat-completion backend.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/claude"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/ai/groq"
	"github.com/spigell/talentscout/internal/secrets"
	"go.uber.org/zap"
)

const (
	Groq      = "groq"
	Gemini    = "gemini"
	Anthropic = "anthropic"
)

// Config selects a provider and its credential.
type Config struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

// envKeys lists the conventional environment variables for each provider.
var envKeys = map[string][]string{
	Groq:      {"GROQ_API_KEY"},
	Gemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	Anthropic: {"ANTHROPIC_API_KEY"},
}

// Name returns the normalized provider name, defaulting to groq.
func (c Config) Name() string {
	name := strings.ToLower(strings.TrimSpace(c.Provider))
	if name == "" {
		return Groq
	}
	return name
}

// New resolves the credential and builds the completer. It never fails: a missing
// or unusable credential, an unknown provider or a client that cannot be built all
// yield a nil completer, which puts the gateway in fallback-only mode.
func New(ctx context.Context, cfg Config, log *zap.Logger) ai.Completer {
	if log == nil {
		log = zap.NewNop()
	}

	name := cfg.Name()
	env, ok := envKeys[name]
	if !ok {
		log.Warn("unsupported ai provider, running with fallback answers only",
			zap.String("provider", cfg.Provider),
		)
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  name + " api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   env,
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		log.Warn("ai credential is not configured, running with fallback answers only",
			zap.String("provider", name),
			zap.Strings("env", env),
		)
		return nil
	}
	if err != nil {
		log.Warn("ai credential is unusable, running with fallback answers only",
			zap.String("provider", name),
			zap.Error(err),
		)
		return nil
	}

	completer, err := build(ctx, name, apiKey, cfg)
	if err != nil {
		log.Warn("building ai client failed, running with fallback answers only",
			zap.String("provider", name),
			zap.Error(err),
		)
		return nil
	}
	return completer
}

func build(ctx context.Context, name, apiKey string, cfg Config) (ai.Completer, error) {
	switch name {
	case Gemini:
		g, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case Anthropic:
		c, err := claude.New(apiKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := groq.New(apiKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
