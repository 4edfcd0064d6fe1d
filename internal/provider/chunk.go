package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/logscrub/logscrub/internal/detect"
)

// DefaultChunkTokenLimit bounds the estimated token count of a single chunk
// sent to a model.
const DefaultChunkTokenLimit = 8000

// Token estimation: roughly 1 token per 4 characters for log text.
const charsPerToken = 4

// EstimateTokens returns a rough token count for text (ceiling of len/4).
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// SplitChunks splits text into chunks whose estimated token count stays
// within tokenLimit. Chunk boundaries prefer the last newline in the window,
// then the last carriage return, then a space at or past the window's
// midpoint, and finally a hard cut. Concatenating the chunks reconstructs
// the input exactly.
func SplitChunks(text string, tokenLimit int) []string {
	if tokenLimit <= 0 {
		tokenLimit = DefaultChunkTokenLimit
	}
	window := tokenLimit * charsPerToken
	if len(text) <= window {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for len(text)-pos > window {
		seg := text[pos : pos+window]

		cut := strings.LastIndexByte(seg, '\n')
		if cut < 0 {
			cut = strings.LastIndexByte(seg, '\r')
		}
		if cut < 0 {
			if sp := strings.LastIndexByte(seg, ' '); sp >= window/2 {
				cut = sp
			}
		}
		if cut < 0 {
			cut = window - 1
		}

		chunks = append(chunks, text[pos:pos+cut+1])
		pos += cut + 1
	}
	if pos < len(text) {
		chunks = append(chunks, text[pos:])
	}
	return chunks
}

// ChunkFunc sanitizes a single chunk, returning the rewritten chunk and the
// mappings applied to it.
type ChunkFunc func(ctx context.Context, chunk string) (string, []detect.Mapping, error)

// SanitizeChunks splits text, sanitizes each chunk sequentially via fn, and
// concatenates results in order. A failing chunk fails the whole operation
// with the chunk index and total count in the error; partial output is never
// reported as success.
func SanitizeChunks(ctx context.Context, text string, tokenLimit int, fn ChunkFunc) (string, []detect.Mapping, error) {
	chunks := SplitChunks(text, tokenLimit)

	var sb strings.Builder
	sb.Grow(len(text))
	var mappings []detect.Mapping

	for i, chunk := range chunks {
		sanitized, chunkMappings, err := fn(ctx, chunk)
		if err != nil {
			return "", nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		sb.WriteString(sanitized)
		mappings = append(mappings, chunkMappings...)
	}

	return sb.String(), mappings, nil
}
