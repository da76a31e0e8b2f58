package chat

import (
	"encoding/json"
	"strings"
)

// messageFields are the reply keys treated as the message body, in priority
// order.
var messageFields = []string{"output", "message", "text", "response", "reply"}

// ParseReply normalizes a webhook reply body into display text. In priority
// order: a JSON array takes the first element's message field, a JSON object
// takes its message field, a JSON-encoded string gets a second parse pass,
// and anything else falls back to the raw text. Parse failures never error;
// they degrade to the raw body.
func ParseReply(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) == 0 {
			return text
		}
		if msg, ok := messageFrom(arr[0]); ok {
			return msg
		}
		return text
	}

	if msg, ok := messageFrom(raw); ok {
		return msg
	}

	// A reply that is itself a JSON-encoded string needs a second pass:
	// the inner value may be another object.
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if msg, ok := messageFrom([]byte(inner)); ok {
			return msg
		}
		return inner
	}

	return text
}

// messageFrom extracts the first populated message field from a JSON object.
func messageFrom(raw []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, field := range messageFields {
		v, ok := obj[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}
