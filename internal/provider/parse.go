package provider

import (
	"encoding/json"
	"strings"

	"github.com/logscrub/logscrub/internal/detect"
)

// sanitizeReply is the strict JSON envelope the sanitization prompt demands.
type sanitizeReply struct {
	SanitizedText string           `json:"sanitizedText"`
	Mappings      []detect.Mapping `json:"mappings"`
}

// ExtractJSONObject pulls the outermost JSON object out of a model reply,
// tolerating prose or markdown fences around it.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseSanitizeReply parses a model reply against the sanitization envelope.
// On any parse failure it degrades to best effort: the original text is
// returned unchanged with no mappings and ok=false, so the caller can log
// the miss without failing the chunk.
func ParseSanitizeReply(raw, original string) (text string, mappings []detect.Mapping, ok bool) {
	obj, found := ExtractJSONObject(raw)
	if !found {
		return original, nil, false
	}

	var reply sanitizeReply
	if err := json.Unmarshal([]byte(obj), &reply); err != nil {
		return original, nil, false
	}
	if reply.SanitizedText == "" {
		return original, nil, false
	}

	return reply.SanitizedText, reply.Mappings, true
}

// AnalysisErrorJSON builds the error-shaped payload AnalyzeText returns when
// the call itself fails.
func AnalysisErrorJSON(providerName string, err error) string {
	payload := map[string]string{
		"provider": providerName,
		"error":    err.Error(),
	}
	b, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return `{"error":"analysis failed"}`
	}
	return string(b)
}
