package azure

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRequiresLogger(t *testing.T) {
	if _, err := New(config.AzureConfig{}, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestConfiguredRequiresEndpointKeyAndDeployment(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")

	tests := []struct {
		name string
		cfg  config.AzureConfig
		want bool
	}{
		{"empty", config.AzureConfig{}, false},
		{"endpoint only", config.AzureConfig{Endpoint: "https://r.openai.azure.com"}, false},
		{"no deployment", config.AzureConfig{Endpoint: "https://r.openai.azure.com", APIKey: "k"}, false},
		{"complete", config.AzureConfig{Endpoint: "https://r.openai.azure.com", APIKey: "k", Deployment: "gpt-4o"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg, testLogger())
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := p.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeUnconfiguredFailsWithoutNetwork(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")

	p, err := New(config.AzureConfig{}, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := p.Sanitize(context.Background(), "text", provider.DefaultSanitizeOptions())
	if res.Success {
		t.Fatal("Sanitize succeeded while unconfigured")
	}
	if !strings.Contains(res.Error, "azure") {
		t.Errorf("error %q does not name the provider", res.Error)
	}
}
