// Package parser locates JSON objects embedded in free-form text, such as
// model output wrapped in prose or code fences, or an API error body quoted
// inside a longer error message.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject is returned when no JSON object could be located.
var ErrNoObject = errors.New("no json object found")

// MaxCandidates bounds how many '{' positions ExtractObject brace-matches
// from, keeping the fallback linear in the length of text.
const MaxCandidates = 32

// ExtractObject returns the JSON object embedded in text.
//
// Strategy:
//  1. The span from the first '{' to the last '}' (the widest candidate),
//     accepted when it is valid JSON.
//  2. Otherwise, brace matching from each '{' in turn, up to MaxCandidates
//     of them; the first balanced span that is valid JSON wins.
//
// Returns ("", false) when nothing parses.
func ExtractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}

	if candidate := text[start : end+1]; json.Valid([]byte(candidate)) {
		return candidate, true
	}

	tried := 0
	for i := start; i < len(text) && tried < MaxCandidates; i++ {
		if text[i] != '{' {
			continue
		}
		tried++
		if n, ok := matchBraces(text[i:]); ok {
			candidate := text[i : i+n+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
	}
	return "", false
}

// Decode unmarshals the JSON object in text into a T.
//
// The trimmed text is tried as-is first. Failing that, a ```json fenced
// block containing anchor is tried, then brace matching around anchor.
// An empty anchor skips the anchored strategies and uses ExtractObject.
func Decode[T any](text string, anchor string) (T, error) {
	var out T

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return out, ErrNoObject
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		return out, nil
	}

	raw, err := locate(trimmed, anchor)
	if err != nil {
		return out, err
	}

	out = *new(T)
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decode json object: %w", err)
	}
	return out, nil
}

func locate(text, anchor string) (string, error) {
	if anchor == "" {
		if raw, ok := ExtractObject(text); ok {
			return raw, nil
		}
		return "", ErrNoObject
	}

	if !strings.Contains(text, anchor) {
		return "", ErrNoObject
	}
	if raw, ok := fromCodeBlock(text, anchor); ok {
		return raw, nil
	}
	return byBracketMatch(text, anchor)
}

// fromCodeBlock returns the body of the first ```json block containing anchor.
func fromCodeBlock(text, anchor string) (string, bool) {
	const fence = "```"
	remaining := text

	for {
		openIdx := strings.Index(remaining, fence+"json")
		if openIdx == -1 {
			return "", false
		}

		blockStart := openIdx + len(fence+"json")
		if blockStart < len(remaining) && remaining[blockStart] == '\n' {
			blockStart++
		}

		closeIdx := strings.Index(remaining[blockStart:], fence)
		if closeIdx == -1 {
			return "", false
		}

		block := remaining[blockStart : blockStart+closeIdx]
		if strings.Contains(block, anchor) {
			return strings.TrimSpace(block), true
		}
		remaining = remaining[blockStart+closeIdx+len(fence):]
	}
}

// byBracketMatch isolates the object enclosing anchor, or failing that the
// first object after it.
func byBracketMatch(text, anchor string) (string, error) {
	anchorIdx := strings.Index(text, anchor)

	if braceStart := strings.LastIndex(text[:anchorIdx], "{"); braceStart >= 0 {
		raw := text[braceStart:]
		if end, ok := matchBraces(raw); ok && strings.Contains(raw[:end+1], anchor) {
			return raw[:end+1], nil
		}
	}

	braceStart := strings.Index(text[anchorIdx:], "{")
	if braceStart == -1 {
		return "", ErrNoObject
	}
	raw := text[anchorIdx+braceStart:]
	end, ok := matchBraces(raw)
	if !ok {
		return "", fmt.Errorf("unmatched braces after %q", anchor)
	}
	return raw[:end+1], nil
}

// matchBraces returns the index of the '}' closing the '{' at position 0.
// String literals (with escapes) are skipped; brace and bracket depth are
// tracked independently.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	braceDepth := 0
	bracketDepth := 0
	inString := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth == 0 {
				return i, true
			}
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
	}

	return 0, false
}
