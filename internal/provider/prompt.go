package provider

import (
	"strings"

	"github.com/logscrub/logscrub/internal/detect"
)

// The category list in both prompts must stay in lockstep with the local
// detector: detect.Categories is the single authoritative set.

// sanitizeSystem is the fixed instruction for the sanitization operation.
// The model must return strictly-structured JSON; everything else is treated
// as a best-effort miss by the response parser.
const sanitizeSystem = `You are a log sanitization assistant. You receive raw log text and replace every sensitive value with a realistic mock value.

Sensitive categories (use these exact type names): %CATEGORIES%

Rules:
1. Return ONLY a single JSON object, no markdown fences, no prose:
   {"sanitizedText": "...", "mappings": [{"type": "...", "original": "...", "replacement": "..."}]}
2. Replace every occurrence of a sensitive value with the same mock value
3. Never invent log lines; the output must differ from the input only in replaced values
4. Values that are already mock values (user1@example.com, 10.0.0.x, host1.example.local, APIKEY_REDACTED_x) must be left untouched
5. Time-of-day values like 10:15:42 are NOT hostnames; never classify them as sensitive`

// analyzeSystem is the fixed instruction for the analysis operation.
const analyzeSystem = `You are a log analysis assistant. You receive raw log text and list every sensitive value in it.

Sensitive categories (use these exact type names): %CATEGORIES%

Rules:
1. Return ONLY a single JSON object, no markdown fences, no prose:
   {"items": [{"type": "...", "value": "...", "start": 0, "length": 0}], "model": "..."}
2. start is the zero-based character offset of the value, length its character count
3. Report each distinct value once per occurrence
4. Time-of-day values like 10:15:42 are NOT hostnames`

// SanitizeSystemPrompt returns the system prompt for sanitization, with
// preservation instructions appended per the options.
func SanitizeSystemPrompt(opts SanitizeOptions) string {
	var sb strings.Builder
	sb.WriteString(withCategories(sanitizeSystem))

	if opts.PreserveTimestamps {
		sb.WriteString("\n6. Preserve all timestamps exactly as they appear")
	}
	if opts.PreserveLogLevels {
		sb.WriteString("\n7. Preserve log level markers (DEBUG, INFO, WARN, ERROR, FATAL) exactly")
	}
	if opts.PreserveStructure {
		sb.WriteString("\n8. Preserve line breaks, field ordering, and surrounding punctuation")
	}

	return sb.String()
}

// AnalyzeSystemPrompt returns the system prompt for analysis.
func AnalyzeSystemPrompt() string {
	return withCategories(analyzeSystem)
}

func withCategories(prompt string) string {
	names := make([]string, 0, len(detect.Categories()))
	for _, c := range detect.Categories() {
		names = append(names, string(c))
	}
	return strings.ReplaceAll(prompt, "%CATEGORIES%", strings.Join(names, ", "))
}
