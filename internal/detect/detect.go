package detect

import (
	"sort"
	"strings"
)

// candidate is a single accepted regex match with its span in the input.
type candidate struct {
	category Category
	start    int
	end      int
	value    string
}

// DetectAndReplace scans text for every enabled category and replaces each
// detected value with a deterministic mock. It is synchronous and performs
// no I/O.
//
// Overlapping matches are resolved earliest-longest-wins: candidates are
// sorted by start ascending then length descending, and a candidate is kept
// only if it begins at or after the end of the previously kept one. Ties at
// identical spans fall to the earlier category in scan order.
func DetectAndReplace(text string, opts Options) Result {
	if text == "" {
		return Result{OriginalText: text, PrefilteredText: text}
	}

	candidates := collect(text, opts)
	if len(candidates) == 0 {
		return Result{OriginalText: text, PrefilteredText: text}
	}

	// Earliest-longest-wins. The stable sort preserves category scan order
	// for candidates with identical start and length.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].end-candidates[i].start > candidates[j].end-candidates[j].start
	})

	kept := candidates[:0]
	lastEnd := 0
	for _, c := range candidates {
		if c.start >= lastEnd {
			kept = append(kept, c)
			lastEnd = c.end
		}
	}

	// Allocate mocks in ascending text order so the first occurrence in the
	// input always gets index 1.
	alloc := newMockAllocator()
	replacements := make([]string, len(kept))
	for i, c := range kept {
		replacements[i] = alloc.replacementFor(c.category, c.value)
	}

	var sb strings.Builder
	sb.Grow(len(text))
	prev := 0
	for i, c := range kept {
		sb.WriteString(text[prev:c.start])
		sb.WriteString(replacements[i])
		prev = c.end
	}
	sb.WriteString(text[prev:])

	// One mapping per unique (type, original) pair, in first-occurrence order.
	seen := make(map[string]struct{}, len(kept))
	mappings := make([]Mapping, 0, len(kept))
	for i, c := range kept {
		key := string(c.category) + "|" + c.value
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		mappings = append(mappings, Mapping{
			Type:        c.category.MappingType(),
			Original:    c.value,
			Replacement: replacements[i],
		})
	}

	return Result{
		OriginalText:    text,
		PrefilteredText: sb.String(),
		Mappings:        mappings,
	}
}

// collect runs each enabled rule against the text and returns validated
// candidates. When a rule's regex defines capture groups, the first
// non-empty group is the sensitive span; otherwise the whole match is.
func collect(text string, opts Options) []candidate {
	var candidates []candidate

	for _, r := range rulesFor(opts) {
		matches := r.re.FindAllStringSubmatchIndex(text, -1)
		for _, m := range matches {
			start, end := m[0], m[1]
			for g := 1; g < len(m)/2; g++ {
				if m[2*g] >= 0 {
					start, end = m[2*g], m[2*g+1]
					break
				}
			}
			value := text[start:end]
			if r.validate != nil && !r.validate(value) {
				continue
			}
			candidates = append(candidates, candidate{
				category: r.category,
				start:    start,
				end:      end,
				value:    value,
			})
		}
	}

	return candidates
}
