// Package ollama implements the AI provider contract for a local Ollama
// instance.
package ollama

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/provider"
)

const defaultTimeout = 10 * time.Minute

const configHint = "set providers.ollama.host and providers.ollama.model"

// Provider talks to a local model through the Ollama API client.
type Provider struct {
	client *api.Client
	model  string
	logger *slog.Logger
	retry  provider.RetryPolicy
}

// New creates the provider. An unparseable host is an error; a missing host
// or model leaves the provider unconfigured.
func New(cfg config.OllamaConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	p := &Provider{
		model:  cfg.Model,
		logger: logger,
		retry:  provider.DefaultRetryPolicy(),
	}

	if cfg.Host != "" {
		parsed, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, errors.Join(errors.New("invalid ollama host"), err)
		}
		timeout := defaultTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		p.client = api.NewClient(parsed, &http.Client{Timeout: timeout})
	}

	return p, nil
}

// Name returns the stable selection identifier.
func (p *Provider) Name() string { return "ollama" }

// Configured reports whether host and model are present.
func (p *Provider) Configured() bool { return p.client != nil && p.model != "" }

// AnalyzeText lists sensitive items in the text, best effort.
func (p *Provider) AnalyzeText(ctx context.Context, text string, opts provider.SanitizeOptions) string {
	if !p.Configured() {
		return provider.AnalysisErrorJSON(p.Name(), provider.NotConfiguredError(p.Name(), configHint))
	}

	reply, err := p.chat(ctx, provider.AnalyzeSystemPrompt(), text)
	if err != nil {
		return provider.AnalysisErrorJSON(p.Name(), err)
	}
	if obj, ok := provider.ExtractJSONObject(reply); ok {
		return obj
	}
	return provider.AnalysisErrorJSON(p.Name(), errors.New("no JSON object in analysis reply"))
}

// Sanitize rewrites the text with mock replacements, chunking large inputs.
// Local models get a smaller chunk budget than hosted ones.
func (p *Provider) Sanitize(ctx context.Context, text string, opts provider.SanitizeOptions) provider.Result {
	if !p.Configured() {
		return provider.Failure(text, provider.NotConfiguredError(p.Name(), configHint))
	}

	system := provider.SanitizeSystemPrompt(opts)
	sanitized, mappings, err := provider.SanitizeChunks(ctx, text, provider.DefaultChunkTokenLimit/2,
		func(ctx context.Context, chunk string) (string, []detect.Mapping, error) {
			reply, err := p.chat(ctx, system, chunk)
			if err != nil {
				return "", nil, err
			}
			out, m, ok := provider.ParseSanitizeReply(reply, chunk)
			if !ok {
				p.logger.Warn("unparseable sanitize reply, keeping chunk unchanged", "provider", p.Name())
			}
			return out, m, nil
		})
	if err != nil {
		return provider.Failure(text, err)
	}

	return provider.Result{
		OriginalText:  text,
		SanitizedText: sanitized,
		Mappings:      mappings,
		Success:       true,
	}
}

// chat performs one non-streaming chat round trip with retry.
func (p *Provider) chat(ctx context.Context, system, user string) (string, error) {
	req := &api.ChatRequest{
		Model: p.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Options: map[string]interface{}{
			"temperature": 0,
		},
		Stream: new(bool), // complete response, no streaming
	}

	var content string
	err := p.retry.Do(ctx, p.logger, "ollama chat", func(ctx context.Context) error {
		content = ""
		err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			content = resp.Message.Content
			return nil
		})
		if err != nil {
			return wrapTransport(err)
		}
		return nil
	})
	return content, err
}

// wrapTransport maps Ollama client errors onto the shared transport error.
func wrapTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return &provider.TransportError{StatusCode: statusErr.StatusCode, Err: err}
	}
	return &provider.TransportError{Err: err}
}
