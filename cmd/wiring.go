package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/provider"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/session"
	"github.com/spigell/talentscout/internal/store"
	"github.com/spigell/talentscout/internal/validator"
)

// components are shared by the serve and practice commands.
type components struct {
	gateway  *ai.Gateway
	machine  *session.Machine
	contacts store.ContactStore
}

func (c *components) Close() error {
	return c.contacts.Close()
}

func buildComponents(ctx context.Context, config *Config, log *zap.Logger) (*components, error) {
	matcher := validator.Default()
	if config.KeywordsFile != "" {
		loaded, err := validator.LoadMatcher(config.KeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("loading keywords: %w", err)
		}
		matcher = loaded
		log.Info("keyword sets loaded", zap.String("file", config.KeywordsFile))
	}

	contacts, err := openContactStore(config.ContactDB)
	if err != nil {
		return nil, err
	}

	completer := provider.New(ctx, config.AI.Config, log)
	gateway := ai.NewGateway(completer, log, config.AI.MaxLogLength)
	if completer != nil {
		logger.WithCommonFields(log, completer.Provider(), completer.Model()).Info("ai provider ready")
	}

	machine := session.NewMachine(gateway, session.Options{
		Matcher:     matcher,
		EmailDomain: config.EmailDomain,
		Contacts:    contacts,
	}, log)

	return &components{gateway: gateway, machine: machine, contacts: contacts}, nil
}

func openContactStore(path string) (store.ContactStore, error) {
	if path == "" {
		return store.NopStore{}, nil
	}

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening contact store: %w", err)
	}
	return s, nil
}
