package llm

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// CleanJSONBlock removes markdown code fences and any conversational
// preamble or trailer around a JSON value.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// skip a language identifier such as "json"
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	if text[start] == '{' {
		if obj := ExtractJSONObject(text[start:]); obj != "" {
			return obj
		}
	} else if arr := extractJSONArray(text[start:]); arr != "" {
		return arr
	}
	return text[start:]
}

// ExtractJSONObject returns the outermost {...} span starting at the first
// '{'. Braces inside strings are ignored. If the object never closes, as in
// a truncated response, the span runs to the end of text.
func ExtractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	if end := matchingClose(text[start:], '{', '}'); end >= 0 {
		return text[start : start+end+1]
	}
	return strings.TrimSpace(text[start:])
}

// extractJSONArray returns the balanced [...] span at the start of text
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		return ""
	}
	if end := matchingClose(text, '[', ']'); end >= 0 {
		return text[:end+1]
	}
	return ""
}

// matchingClose finds the index of the close that balances text[0], or -1
func matchingClose(text string, open, close byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
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
				return i
			}
		}
	}
	return -1
}

// RepairJSON closes what a truncated JSON document left open: an unterminated
// string, a dangling key separator, a trailing comma and any unclosed
// objects or arrays. It does not invent values beyond a null for a key with
// no value.
func RepairJSON(text string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
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
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(text)
	if inString {
		if escaped {
			// drop the dangling backslash
			repaired := strings.TrimSuffix(sb.String(), `\`)
			sb.Reset()
			sb.WriteString(repaired)
		}
		sb.WriteByte('"')
	}

	out := strings.TrimRight(sb.String(), " \t\r\n")
	switch {
	case strings.HasSuffix(out, ","):
		out = strings.TrimSuffix(out, ",")
	case strings.HasSuffix(out, ":"):
		out += " null"
	}

	for i := len(stack) - 1; i >= 0; i-- {
		out += string(stack[i])
	}
	return out
}

// DecodeJSON extracts the JSON object from a raw model response and decodes
// it into v. A response that fails to parse gets exactly one repair attempt.
// repaired reports whether that attempt was needed.
func DecodeJSON(text string, v interface{}) (repaired bool, err error) {
	obj := ExtractJSONObject(CleanJSONBlock(text))
	if obj == "" {
		return false, &ParseError{Message: "no JSON object in response", Raw: truncate(text, 200)}
	}

	firstErr := json.Unmarshal([]byte(obj), v)
	if firstErr == nil {
		return false, nil
	}

	if err := json.Unmarshal([]byte(RepairJSON(obj)), v); err != nil {
		return true, &ParseError{Message: "response is not valid JSON after repair", Raw: truncate(text, 200), Cause: firstErr}
	}
	return true, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return Clip(s, n) + "..."
}

// Clip cuts s to at most n bytes without splitting a UTF-8 sequence
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
