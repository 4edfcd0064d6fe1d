// Package pipeline orchestrates log sanitization: local regex pre-filter,
// AI provider selection, AI sanitization with fallback, false-positive
// filtering, and mapping merge.
//
// The pipeline is the error boundary of the system. Ordinary provider
// failures never escape it: they degrade to a local-only result with an
// explanatory error string, so callers always receive sanitized output.
package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/provider"
)

// LocalProviderName is reported as the provider when AI enhancement did not
// apply and only the local detector's output is returned.
const LocalProviderName = "LocalDetector"

// tokenWarnCeiling is the estimated token count above which a warning is
// logged. The provider's own chunking still handles the input.
const tokenWarnCeiling = 128000

// Result is the pipeline's sole externally visible artifact.
type Result struct {
	OriginalText          string           `json:"originalText"`
	SanitizedText         string           `json:"sanitizedText"`
	Mappings              []detect.Mapping `json:"mappings"`
	ProviderName          string           `json:"providerName"`
	AIProviderName        string           `json:"aiProviderName,omitempty"`
	UsedAI                bool             `json:"usedAiSuccessfully"`
	AIError               string           `json:"aiError,omitempty"`
	AnalysisJSON          string           `json:"analysisJson,omitempty"`
	LocalReplacementCount int              `json:"localReplacementCount"`
}

// Pipeline wires the local detector to the provider selector.
type Pipeline struct {
	selector *provider.Selector
	logger   *slog.Logger
}

// New creates a Pipeline. The selector is consulted afresh on every call.
func New(selector *provider.Selector, logger *slog.Logger) *Pipeline {
	return &Pipeline{selector: selector, logger: logger}
}

// Sanitize runs the full pipeline on content. The returned error is reserved
// for precondition failures (a dead context); every provider-level failure
// degrades to a local-only Result instead.
func (p *Pipeline) Sanitize(ctx context.Context, content, preferredProvider string, detectOpts detect.Options, sanitizeOpts provider.SanitizeOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	local := detect.DetectAndReplace(content, detectOpts)
	res := &Result{
		OriginalText:          content,
		SanitizedText:         local.PrefilteredText,
		Mappings:              local.Mappings,
		ProviderName:          LocalProviderName,
		LocalReplacementCount: len(local.Mappings),
	}

	if tokens := provider.EstimateTokens(local.PrefilteredText); tokens > tokenWarnCeiling {
		p.logger.Warn("input exceeds token ceiling, relying on provider chunking",
			"estimated_tokens", tokens,
			"ceiling", tokenWarnCeiling,
		)
	}

	ai, err := p.selector.Get(preferredProvider)
	if err != nil {
		p.logger.Warn("no AI provider available, returning local-only result", "error", err)
		res.AIError = err.Error()
		return res, nil
	}
	res.AIProviderName = ai.Name()

	// Analysis is diagnostic only; its failures are embedded in the payload.
	res.AnalysisJSON = ai.AnalyzeText(ctx, local.PrefilteredText, sanitizeOpts)
	p.logger.Debug("analysis collected", "provider", ai.Name(), "bytes", len(res.AnalysisJSON))

	aiResult := ai.Sanitize(ctx, local.PrefilteredText, sanitizeOpts)
	if !aiResult.Success {
		p.logger.Warn("AI sanitize failed, returning local-only result",
			"provider", ai.Name(),
			"error", aiResult.Error,
		)
		res.AIError = aiResult.Error
		return res, nil
	}

	sanitized, aiMappings := p.filterFalsePositives(aiResult.SanitizedText, aiResult.Mappings)
	res.SanitizedText = sanitized
	res.Mappings = mergeMappings(local.Mappings, aiMappings)
	res.ProviderName = ai.Name()
	res.UsedAI = true

	p.logger.Info("sanitization complete",
		"provider", ai.Name(),
		"local_mappings", res.LocalReplacementCount,
		"total_mappings", len(res.Mappings),
	)
	return res, nil
}

// timeOfDayPattern matches digit groups separated by colons (10:15:42),
// which upstream models misread as hostnames often enough to warrant an
// unconditional guard.
var timeOfDayPattern = regexp.MustCompile(`^\d+(:\d+)+$`)

// isFalsePositiveHostname reports whether an AI-proposed hostname mapping is
// a known unreliable shape: a value containing a space, or a time-of-day
// pattern.
func isFalsePositiveHostname(m detect.Mapping) bool {
	if !strings.Contains(strings.ToLower(m.Type), "hostname") {
		return false
	}
	return strings.Contains(m.Original, " ") || timeOfDayPattern.MatchString(m.Original)
}

// filterFalsePositives reverts false-positive hostname replacements in the
// sanitized text and drops them from the mapping set.
func (p *Pipeline) filterFalsePositives(text string, mappings []detect.Mapping) (string, []detect.Mapping) {
	kept := make([]detect.Mapping, 0, len(mappings))
	for _, m := range mappings {
		if isFalsePositiveHostname(m) {
			if m.Replacement != "" {
				text = strings.ReplaceAll(text, m.Replacement, m.Original)
			}
			p.logger.Debug("reverted false-positive hostname", "value", m.Original)
			continue
		}
		kept = append(kept, m)
	}
	return text, kept
}

// mergeMappings combines local and AI mappings. Local mappings always win
// for the same original value; AI mappings are appended only for originals
// not already covered (first writer wins within the AI set too).
func mergeMappings(local, ai []detect.Mapping) []detect.Mapping {
	merged := make([]detect.Mapping, 0, len(local)+len(ai))
	covered := make(map[string]struct{}, len(local)+len(ai))

	for _, m := range local {
		merged = append(merged, m)
		covered[m.Original] = struct{}{}
	}
	for _, m := range ai {
		if _, ok := covered[m.Original]; ok {
			continue
		}
		covered[m.Original] = struct{}{}
		merged = append(merged, m)
	}
	return merged
}
