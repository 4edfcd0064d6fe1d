// Package provider defines the AI provider abstraction used by the
// sanitization pipeline.
//
// A Provider wraps one hosted or local language model and offers two
// operations: best-effort analysis of text for sensitive items, and
// sanitization that rewrites the text with mock replacements. Implementations
// live in subpackages (openai, azure, ollama) and share this package's
// prompt, chunking, retry, and response-parsing helpers.
//
// Providers never panic on ordinary failures: Sanitize reports them through
// the Result's Success and Error fields, and AnalyzeText degrades to an
// error-shaped JSON payload.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/detect"
)

// Provider is the uniform contract every AI implementation satisfies.
// Implementations must be safe for concurrent use: the only shared state
// is the underlying transport client.
type Provider interface {
	// Name returns the stable identifier used for selection (e.g. "openai").
	Name() string

	// Configured reports whether the minimum settings are present.
	// It does not verify that credentials are valid.
	Configured() bool

	// AnalyzeText asks the model to list sensitive items in the text and
	// returns the raw JSON payload. Failures degrade to an error-shaped
	// JSON string instead of an error return.
	AnalyzeText(ctx context.Context, text string, opts SanitizeOptions) string

	// Sanitize asks the model to rewrite the text with mock replacements.
	// Unconfigured providers return Success=false without any network I/O.
	Sanitize(ctx context.Context, text string, opts SanitizeOptions) Result
}

// SanitizeOptions controls what the model is instructed to preserve.
// The options are advisory: they are enforced by prompt instruction only.
type SanitizeOptions struct {
	PreserveTimestamps bool
	PreserveLogLevels  bool
	PreserveStructure  bool
}

// DefaultSanitizeOptions returns options with everything preserved.
func DefaultSanitizeOptions() SanitizeOptions {
	return SanitizeOptions{
		PreserveTimestamps: true,
		PreserveLogLevels:  true,
		PreserveStructure:  true,
	}
}

// OptionsFromConfig converts the configuration snapshot into sanitize options.
func OptionsFromConfig(cfg config.SanitizationConfig) SanitizeOptions {
	return SanitizeOptions{
		PreserveTimestamps: cfg.PreserveTimestamps,
		PreserveLogLevels:  cfg.PreserveLogLevels,
		PreserveStructure:  cfg.PreserveStructure,
	}
}

// Result is the outcome of a single Sanitize call (whole text or one chunk
// set). When Success is false, Error carries a human-readable explanation
// and SanitizedText is empty.
type Result struct {
	OriginalText  string
	SanitizedText string
	Mappings      []detect.Mapping
	Success       bool
	Error         string
}

// Failure builds a failed Result for the given original text.
func Failure(original string, err error) Result {
	return Result{OriginalText: original, Success: false, Error: err.Error()}
}

// ErrNotConfigured is wrapped by providers that are asked to sanitize
// without their minimum configuration present.
var ErrNotConfigured = errors.New("provider is not configured")

// NotConfiguredError describes which settings a provider is missing.
func NotConfiguredError(name, hint string) error {
	return fmt.Errorf("%w: %s (%s)", ErrNotConfigured, name, hint)
}
