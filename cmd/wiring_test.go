package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/provider"
)

func TestBuildComponentsFallsBackOnBadCredentials(t *testing.T) {
	tests := []struct {
		name string
		ai   provider.Config
	}{
		{name: "missing key file", ai: provider.Config{APIKeyFile: filepath.Join(t.TempDir(), "missing")}},
		{name: "unknown provider", ai: provider.Config{Provider: "openai", APIKey: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{AI: &AIConfig{Config: tt.ai}}

			deps, err := buildComponents(context.Background(), config, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer deps.Close()

			if deps.gateway.Enabled() {
				t.Fatal("gateway should run in fallback-only mode")
			}
			if deps.gateway.Notice() != ai.NoCredentialNotice {
				t.Fatalf("unexpected notice %q", deps.gateway.Notice())
			}
			if deps.machine == nil {
				t.Fatal("machine not built")
			}
		})
	}
}
