// Package extract pulls JSON payloads out of free-form completion text.
package extract

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNoJSON is returned when text holds no decodable JSON value of the requested kind.
var ErrNoJSON = errors.New("no json payload found")

// IDs parses the first JSON array of ids embedded in text.
// The widest span from the first '[' to the last ']' is tried first; if that does not decode,
// the first balanced bracket span is used. Elements may be numbers or numeric strings;
// anything else is skipped. ok is false when no array could be decoded.
func IDs(text string) ([]int64, bool) {
	for _, span := range candidates(text, '[', ']') {
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(span), &raw); err != nil {
			continue
		}
		ids := make([]int64, 0, len(raw))
		for _, item := range raw {
			if id, ok := toID(item); ok {
				ids = append(ids, id)
			}
		}
		return ids, true
	}
	return nil, false
}

// Object decodes the first JSON object embedded in text into v.
func Object(text string, v any) error {
	for _, span := range candidates(text, '{', '}') {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}
	return ErrNoJSON
}

func candidates(text string, open, close byte) []string {
	var spans []string
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start >= 0 && end > start {
		spans = append(spans, text[start:end+1])
	}
	if balanced, ok := Balanced(text, open, close); ok && (len(spans) == 0 || balanced != spans[0]) {
		spans = append(spans, balanced)
	}
	return spans
}

// Balanced returns the first span of text opened by open and closed by the matching close.
// Brackets inside JSON string literals are ignored.
func Balanced(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	for start >= 0 {
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
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func toID(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if id, err := n.Int64(); err == nil {
			return id, true
		}
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}
