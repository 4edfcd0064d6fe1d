package provider

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around", `Sure, here you go: {"a":1} Hope that helps!`, `{"a":1}`, true},
		{"no object", "I cannot do that.", "", false},
		{"empty", "", "", false},
		{"reversed braces", "} {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractJSONObject(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseSanitizeReply(t *testing.T) {
	original := "alice@example.com logged in"

	t.Run("valid envelope", func(t *testing.T) {
		raw := `{"sanitizedText":"user1@example.com logged in","mappings":[{"type":"AI.Email","original":"alice@example.com","replacement":"user1@example.com"}]}`
		text, mappings, ok := ParseSanitizeReply(raw, original)
		if !ok {
			t.Fatal("valid reply not accepted")
		}
		if text != "user1@example.com logged in" {
			t.Errorf("text = %q", text)
		}
		if len(mappings) != 1 || mappings[0].Original != "alice@example.com" {
			t.Errorf("mappings = %v", mappings)
		}
	})

	t.Run("fenced envelope", func(t *testing.T) {
		raw := "```json\n{\"sanitizedText\":\"clean\",\"mappings\":[]}\n```"
		text, _, ok := ParseSanitizeReply(raw, original)
		if !ok || text != "clean" {
			t.Errorf("ParseSanitizeReply = (%q, ok=%v), want (clean, true)", text, ok)
		}
	})

	degraded := []struct {
		name string
		raw  string
	}{
		{"no json", "I refuse."},
		{"malformed json", `{"sanitizedText": "unterminated`},
		{"missing field", `{"mappings":[]}`},
		{"empty sanitized text", `{"sanitizedText":"","mappings":[]}`},
	}
	for _, tt := range degraded {
		t.Run(tt.name, func(t *testing.T) {
			text, mappings, ok := ParseSanitizeReply(tt.raw, original)
			if ok {
				t.Fatal("degenerate reply accepted")
			}
			if text != original {
				t.Errorf("text = %q, want the original passed through", text)
			}
			if len(mappings) != 0 {
				t.Errorf("mappings = %v, want none", mappings)
			}
		})
	}
}

func TestAnalysisErrorJSON(t *testing.T) {
	raw := AnalysisErrorJSON("ollama", errors.New(`model "x" not found`))

	var payload map[string]string
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload["provider"] != "ollama" {
		t.Errorf("provider = %q", payload["provider"])
	}
	if payload["error"] == "" {
		t.Error("error field is empty")
	}
}
