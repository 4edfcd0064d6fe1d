package pipeline

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/provider"
)

type fakeProvider struct {
	name       string
	configured bool
	analysis   string
	result     provider.Result
	calls      int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) AnalyzeText(_ context.Context, _ string, _ provider.SanitizeOptions) string {
	return f.analysis
}

func (f *fakeProvider) Sanitize(_ context.Context, text string, _ provider.SanitizeOptions) provider.Result {
	f.calls++
	r := f.result
	r.OriginalText = text
	if !r.Success && r.SanitizedText == "" {
		r.SanitizedText = text
	}
	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(t *testing.T, providers ...provider.Provider) *Pipeline {
	t.Helper()
	logger := testLogger()
	return New(provider.NewSelector("", logger, providers...), logger)
}

func TestSanitizeLocalOnlyFallbackWhenNoProvider(t *testing.T) {
	p := newPipeline(t, &fakeProvider{name: "openai", configured: false})

	content := "alice@example.com logged in from 203.0.113.5"
	res, err := p.Sanitize(context.Background(), content, "", detect.AllOptions(), provider.DefaultSanitizeOptions())
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}

	want := "user1@example.com logged in from 10.0.0.1"
	if res.SanitizedText != want {
		t.Errorf("SanitizedText = %q, want %q", res.SanitizedText, want)
	}
	if res.ProviderName != LocalProviderName {
		t.Errorf("ProviderName = %q, want %q", res.ProviderName, LocalProviderName)
	}
	if res.UsedAI {
		t.Error("UsedAI = true, want false")
	}
	if res.AIError == "" {
		t.Error("AIError is empty, want selector failure message")
	}
	if res.LocalReplacementCount != 2 {
		t.Errorf("LocalReplacementCount = %d, want 2", res.LocalReplacementCount)
	}
	if len(res.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(res.Mappings))
	}
}

func TestSanitizeLocalOnlyFallbackWhenProviderFails(t *testing.T) {
	fake := &fakeProvider{
		name:       "openai",
		configured: true,
		result:     provider.Result{Success: false, Error: "boom"},
	}
	p := newPipeline(t, fake)

	content := "request from 203.0.113.5 failed"
	res, err := p.Sanitize(context.Background(), content, "", detect.AllOptions(), provider.DefaultSanitizeOptions())
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}

	local := detect.DetectAndReplace(content, detect.AllOptions())
	if res.SanitizedText != local.PrefilteredText {
		t.Errorf("SanitizedText = %q, want pre-filtered %q", res.SanitizedText, local.PrefilteredText)
	}
	if !reflect.DeepEqual(res.Mappings, local.Mappings) {
		t.Errorf("Mappings = %v, want local %v", res.Mappings, local.Mappings)
	}
	if res.ProviderName != LocalProviderName {
		t.Errorf("ProviderName = %q, want %q", res.ProviderName, LocalProviderName)
	}
	if res.AIProviderName != "openai" {
		t.Errorf("AIProviderName = %q, want openai", res.AIProviderName)
	}
	if res.UsedAI {
		t.Error("UsedAI = true, want false")
	}
	if res.AIError != "boom" {
		t.Errorf("AIError = %q, want %q", res.AIError, "boom")
	}
}

func TestSanitizeUsesAIResult(t *testing.T) {
	fake := &fakeProvider{
		name:       "ollama",
		configured: true,
		analysis:   `{"items":[],"model":"test"}`,
		result: provider.Result{
			Success:       true,
			SanitizedText: "user SANITIZED_USER_1 logged in",
			Mappings: []detect.Mapping{
				{Type: "AI.Username", Original: "jdoe", Replacement: "SANITIZED_USER_1"},
			},
		},
	}
	p := newPipeline(t, fake)

	res, err := p.Sanitize(context.Background(), "user jdoe logged in", "", detect.AllOptions(), provider.DefaultSanitizeOptions())
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}

	if !res.UsedAI {
		t.Fatal("UsedAI = false, want true")
	}
	if res.ProviderName != "ollama" {
		t.Errorf("ProviderName = %q, want ollama", res.ProviderName)
	}
	if res.SanitizedText != "user SANITIZED_USER_1 logged in" {
		t.Errorf("SanitizedText = %q", res.SanitizedText)
	}
	if res.AnalysisJSON != fake.analysis {
		t.Errorf("AnalysisJSON = %q, want %q", res.AnalysisJSON, fake.analysis)
	}
	if len(res.Mappings) != 1 || res.Mappings[0].Original != "jdoe" {
		t.Errorf("Mappings = %v, want the AI username mapping", res.Mappings)
	}
}

func TestSanitizeMergeLocalWins(t *testing.T) {
	fake := &fakeProvider{
		name:       "ollama",
		configured: true,
		result: provider.Result{
			Success:       true,
			SanitizedText: "user1@example.com logged in",
			Mappings: []detect.Mapping{
				{Type: "AI.Email", Original: "alice@example.com", Replacement: "SANITIZED_EMAIL_1"},
				{Type: "AI.Username", Original: "alice@example.com", Replacement: "SANITIZED_USER_1"},
			},
		},
	}
	p := newPipeline(t, fake)

	res, err := p.Sanitize(context.Background(), "alice@example.com logged in", "", detect.AllOptions(), provider.DefaultSanitizeOptions())
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}

	if len(res.Mappings) != 1 {
		t.Fatalf("got %d mappings, want 1: %v", len(res.Mappings), res.Mappings)
	}
	m := res.Mappings[0]
	if m.Type != "Local.Email" || m.Replacement != "user1@example.com" {
		t.Errorf("merged mapping = %+v, want the local email mapping", m)
	}
}

func TestSanitizeRevertsFalsePositiveHostnames(t *testing.T) {
	fake := &fakeProvider{
		name:       "ollama",
		configured: true,
		result: provider.Result{
			Success:       true,
			SanitizedText: "host1.example.local ERROR connection to db refused",
			Mappings: []detect.Mapping{
				{Type: "AI.Hostname", Original: "10:15:42", Replacement: "host1.example.local"},
				{Type: "AI.Hostname", Original: "connection to db", Replacement: "host2.example.local"},
			},
		},
	}
	p := newPipeline(t, fake)

	res, err := p.Sanitize(context.Background(), "10:15:42 ERROR connection to db refused", "", detect.Options{}, provider.DefaultSanitizeOptions())
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}

	if !strings.Contains(res.SanitizedText, "10:15:42") {
		t.Errorf("SanitizedText = %q, timestamp replacement was not reverted", res.SanitizedText)
	}
	for _, m := range res.Mappings {
		if m.Original == "10:15:42" || m.Original == "connection to db" {
			t.Errorf("false-positive mapping survived the guard: %+v", m)
		}
	}
}

func TestSanitizeEmptyContent(t *testing.T) {
	fake := &fakeProvider{
		name:       "ollama",
		configured: true,
		result:     provider.Result{Success: true, SanitizedText: ""},
	}
	p := newPipeline(t, fake)

	res, err := p.Sanitize(context.Background(), "", "", detect.AllOptions(), provider.DefaultSanitizeOptions())
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if res.SanitizedText != "" || len(res.Mappings) != 0 {
		t.Errorf("empty input produced %+v", res)
	}
}

func TestSanitizeCancelledContext(t *testing.T) {
	p := newPipeline(t, &fakeProvider{name: "ollama", configured: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Sanitize(ctx, "text", "", detect.AllOptions(), provider.DefaultSanitizeOptions()); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestIsFalsePositiveHostname(t *testing.T) {
	tests := []struct {
		name    string
		mapping detect.Mapping
		want    bool
	}{
		{"timestamp", detect.Mapping{Type: "AI.Hostname", Original: "10:15:42"}, true},
		{"two groups", detect.Mapping{Type: "Hostname", Original: "08:30"}, true},
		{"contains space", detect.Mapping{Type: "AI.Hostname", Original: "web server one"}, true},
		{"real hostname", detect.Mapping{Type: "AI.Hostname", Original: "db01.internal.net"}, false},
		{"non-hostname type", detect.Mapping{Type: "AI.Email", Original: "10:15:42"}, false},
		{"port suffix", detect.Mapping{Type: "AI.Hostname", Original: "db01:5432"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFalsePositiveHostname(tt.mapping); got != tt.want {
				t.Errorf("isFalsePositiveHostname(%+v) = %v, want %v", tt.mapping, got, tt.want)
			}
		})
	}
}
