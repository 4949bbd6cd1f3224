package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode errors.
var (
	// ErrNoJSON indicates the reply holds no valid JSON document.
	ErrNoJSON = errors.New("no JSON document in reply")

	// ErrNoYAML indicates the reply holds no valid YAML block.
	ErrNoYAML = errors.New("no YAML block in reply")
)

// FindJSON locates the first valid JSON object or array in a reply.
// It tries, in order: the whole reply, fenced blocks tagged json or
// untagged, then the first balanced {...} or [...] span in the prose.
func FindJSON(text string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(text)
	if isDocument(trimmed) {
		return json.RawMessage(trimmed), true
	}

	for _, b := range CodeBlocks(text) {
		if b.Language != "" && b.Language != "json" {
			continue
		}
		if c := strings.TrimSpace(b.Content); isDocument(c) {
			return json.RawMessage(c), true
		}
	}

	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		end := matchClose(text, start)
		if end < 0 {
			continue
		}
		if c := text[start : end+1]; json.Valid([]byte(c)) {
			return json.RawMessage(c), true
		}
	}
	return nil, false
}

// DecodeJSON finds the JSON document in a reply and decodes it into out.
func DecodeJSON(text string, out any) error {
	raw, ok := FindJSON(text)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrNoJSON, err)
	}
	return nil
}

// DecodeYAML decodes the first fenced yaml or yml block into out.
func DecodeYAML(text string, out any) error {
	var lastErr error
	for _, b := range CodeBlocks(text) {
		if b.Language != "yaml" && b.Language != "yml" {
			continue
		}
		if err := yaml.Unmarshal([]byte(b.Content), out); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrNoYAML, lastErr)
	}
	return ErrNoYAML
}

func isDocument(s string) bool {
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return false
	}
	return json.Valid([]byte(s))
}

// matchClose returns the index of the bracket closing the one at start,
// skipping brackets inside JSON strings, or -1.
func matchClose(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
