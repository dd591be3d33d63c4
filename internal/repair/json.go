// Package repair provides best-effort recovery of JSON payloads from malformed
// LLM responses. Structured-completion output is expected to be JSON, but models
// wrap it in markdown fences, prepend commentary, or emit trailing commas; this
// package applies a fixed sequence of repair strategies before a response may be
// treated as malformed.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jonathan/persona-screener/internal/llm"
)

// trailingCommaRe matches a comma followed only by whitespace and a closing
// brace or bracket. Safe to strip outside of string literals.
var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// ExtractJSON coerces a raw LLM response into a valid JSON document.
// Strategies, in order: markdown fence stripping, balanced-brace extraction,
// trailing-comma removal. Returns an *UnrepairableError if every strategy fails.
func ExtractJSON(raw string) (string, error) {
	text := llm.CleanJSONBlock(raw)
	if json.Valid([]byte(text)) {
		return text, nil
	}

	// Extract the first balanced top-level object, dropping surrounding prose.
	if extracted, ok := extractBalancedObject(text); ok {
		if json.Valid([]byte(extracted)) {
			return extracted, nil
		}
		text = extracted
	}

	// Trailing commas before } or ] are the most common remaining defect.
	cleaned := stripTrailingCommas(text)
	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	return "", &UnrepairableError{Raw: raw}
}

// Unmarshal repairs raw and unmarshals the result into v.
func Unmarshal(raw string, v any) error {
	text, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(text), v)
}

// extractBalancedObject returns the substring from the first '{' to its matching
// closing brace, tracking nesting depth and skipping braces inside string literals.
func extractBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// stripTrailingCommas removes commas that directly precede a closing brace or
// bracket. String literals are preserved by splitting on quote boundaries.
func stripTrailingCommas(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escaped := false
	segStart := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			if inString {
				// Closing quote: emit string segment untouched
				sb.WriteString(text[segStart : i+1])
			} else {
				// Opening quote: emit preceding segment with commas stripped
				sb.WriteString(trailingCommaRe.ReplaceAllString(text[segStart:i], "$1"))
				sb.WriteByte('"')
			}
			inString = !inString
			segStart = i + 1
		}
	}
	if segStart < len(text) {
		if inString {
			sb.WriteString(text[segStart:])
		} else {
			sb.WriteString(trailingCommaRe.ReplaceAllString(text[segStart:], "$1"))
		}
	}

	return sb.String()
}
