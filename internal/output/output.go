// Package output provides formatted rendering for sanitization results
// and mapping tables. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/pipeline"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
	mode   ColorMode
}

// New creates a new output Writer.
func New(w io.Writer, format Format, mode ColorMode) *Writer {
	return &Writer{w: w, format: format, mode: mode}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteResult outputs a pipeline result in the configured format. The
// sanitized text itself is written separately by the caller; this renders
// the report.
func (wr *Writer) WriteResult(res *pipeline.Result) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(res)
	case FormatTable:
		if err := wr.writeSummary(res); err != nil {
			return err
		}
		return wr.writeMappingTable(res.Mappings)
	default:
		if err := wr.writeSummary(res); err != nil {
			return err
		}
		return wr.writeMappingText(res.Mappings)
	}
}

// WriteMappings outputs a mapping set in the configured format.
func (wr *Writer) WriteMappings(mappings []detect.Mapping) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(mappings)
	case FormatTable:
		return wr.writeMappingTable(mappings)
	default:
		return wr.writeMappingText(mappings)
	}
}

func (wr *Writer) writeSummary(res *pipeline.Result) error {
	colorize := shouldColorize(wr.mode, wr.w)

	provider := res.ProviderName
	if colorize {
		provider = colorBold + provider + colorReset
	}

	fmt.Fprintf(wr.w, "Provider: %s\n", provider)
	if res.AIError != "" {
		line := fmt.Sprintf("AI error: %s", res.AIError)
		if colorize {
			line = colorYellow + line + colorReset
		}
		fmt.Fprintln(wr.w, line)
	}
	_, err := fmt.Fprintf(wr.w, "Replacements: %d local, %d total\n", res.LocalReplacementCount, len(res.Mappings))
	return err
}

func (wr *Writer) writeMappingText(mappings []detect.Mapping) error {
	colorize := shouldColorize(wr.mode, wr.w)

	for _, m := range mappings {
		typ := m.Type
		if colorize {
			typ = colorizeMappingType(typ)
		}
		fmt.Fprintf(wr.w, "%s\t%s -> %s\n", typ, m.Original, m.Replacement)
	}
	return nil
}

func (wr *Writer) writeMappingTable(mappings []detect.Mapping) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tORIGINAL\tREPLACEMENT")
	fmt.Fprintln(tw, "----\t--------\t-----------")

	for _, m := range mappings {
		orig := m.Original
		if len(orig) > 60 {
			orig = orig[:57] + "..."
		}
		repl := m.Replacement
		if len(repl) > 60 {
			repl = repl[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Type, orig, repl)
	}

	return tw.Flush()
}
