// Package azure implements the AI provider contract for Azure OpenAI
// deployments.
package azure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/provider"
)

const defaultTimeout = 5 * time.Minute

const configHint = "set providers.azure.endpoint, providers.azure.deployment and AZURE_OPENAI_API_KEY"

// Provider talks to an Azure OpenAI deployment through go-openai's Azure
// configuration. The deployment name doubles as the model identifier.
type Provider struct {
	client     *goopenai.Client
	deployment string
	logger     *slog.Logger
	retry      provider.RetryPolicy
}

// New creates the provider. Missing endpoint, key, or deployment leaves it
// unconfigured; Configured reports that state.
func New(cfg config.AzureConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}

	p := &Provider{
		deployment: cfg.Deployment,
		logger:     logger,
		retry:      provider.DefaultRetryPolicy(),
	}

	if apiKey != "" && cfg.Endpoint != "" {
		clientCfg := goopenai.DefaultAzureConfig(apiKey, cfg.Endpoint)
		if cfg.APIVersion != "" {
			clientCfg.APIVersion = cfg.APIVersion
		}
		timeout := defaultTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		clientCfg.HTTPClient = &http.Client{Timeout: timeout}
		p.client = goopenai.NewClientWithConfig(clientCfg)
	}

	return p, nil
}

// Name returns the stable selection identifier.
func (p *Provider) Name() string { return "azure" }

// Configured reports whether endpoint, key, and deployment are present.
func (p *Provider) Configured() bool { return p.client != nil && p.deployment != "" }

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
func (p *Provider) Sanitize(ctx context.Context, text string, opts provider.SanitizeOptions) provider.Result {
	if !p.Configured() {
		return provider.Failure(text, provider.NotConfiguredError(p.Name(), configHint))
	}

	system := provider.SanitizeSystemPrompt(opts)
	sanitized, mappings, err := provider.SanitizeChunks(ctx, text, provider.DefaultChunkTokenLimit,
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

func (p *Provider) chat(ctx context.Context, system, user string) (string, error) {
	var content string
	err := p.retry.Do(ctx, p.logger, "azure chat", func(ctx context.Context) error {
		resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
			Model:       p.deployment,
			Temperature: 0,
			Messages: []goopenai.ChatCompletionMessage{
				{Role: goopenai.ChatMessageRoleSystem, Content: system},
				{Role: goopenai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return wrapTransport(err)
		}
		if len(resp.Choices) == 0 {
			return &provider.TransportError{Err: errors.New("completion returned no choices")}
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	return content, err
}

func wrapTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &provider.TransportError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &provider.TransportError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &provider.TransportError{Err: err}
}
