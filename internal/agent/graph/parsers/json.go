// Package parsers turns possibly-noisy language model replies into validated
// domain values. Models wrap JSON in prose or markdown fences more often than
// not, so every parser here layers progressively looser extraction before
// giving up.
package parsers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
)

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSONObject pulls a JSON object out of a model reply. It tries, in
// order: the whole reply as JSON, a fenced ```json block, and the first
// balanced {...} substring with trailing commas cleaned up. The returned
// bytes are valid JSON or err is non-nil.
func ExtractJSONObject(content string) ([]byte, error) {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty reply")
	}

	// direct parse
	if b := tryObject(content); b != nil {
		return b, nil
	}

	// fenced code block
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		if b := tryObject(m[1]); b != nil {
			return b, nil
		}
	}

	// first balanced {...} substring
	if inner, ok := balancedObject(content); ok {
		if b := tryObject(inner); b != nil {
			return b, nil
		}
		cleaned := trailingCommaRe.ReplaceAllString(inner, "$1")
		if b := tryObject(cleaned); b != nil {
			return b, nil
		}
	}

	return nil, fmt.Errorf("no JSON object in reply")
}

func tryObject(s string) []byte {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil
	}
	if !json.Valid([]byte(s)) {
		return nil
	}
	return []byte(s)
}

// balancedObject returns the substring from the first '{' to its matching
// '}', tracking nesting and string literals.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// capStrings trims, drops empties, and limits a string list to max entries.
func capStrings(in []string, max int) []string {
	out := make([]string, 0, min(len(in), max))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}
