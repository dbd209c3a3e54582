package rendering

import "strings"

// Arg is one key=value argument of a markup command
type Arg struct {
	Key   string
	Value string
}

// KV renders key={escaped value}. It reports false when the value is empty
// after whitespace collapsing, and callers must drop it.
func KV(key, value string) (string, bool) {
	escaped := Escape(value)
	if escaped == "" {
		return "", false
	}
	return key + "={" + escaped + "}", true
}

// Command renders \name{k1={v1}, k2={v2}} from the non-empty args.
// A command with no surviving argument is not emitted at all.
func Command(name string, args ...Arg) string {
	pairs := make([]string, 0, len(args))
	for _, a := range args {
		if pair, ok := KV(a.Key, a.Value); ok {
			pairs = append(pairs, pair)
		}
	}
	if len(pairs) == 0 {
		return ""
	}
	return `\` + name + "{" + strings.Join(pairs, ", ") + "}"
}

// Wrap renders \name{escaped text}, or nothing when text is empty
func Wrap(name, text string) string {
	escaped := Escape(text)
	if escaped == "" {
		return ""
	}
	return `\` + name + "{" + escaped + "}"
}

// Bullets renders an itemize environment. Each item is collapsed to a single
// line; empty items are dropped, and no surviving item means no environment.
func Bullets(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if escaped := Escape(item); escaped != "" {
			kept = append(kept, escaped)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\\begin{itemize}\n")
	for _, item := range kept {
		sb.WriteString("  \\item ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\\end{itemize}")
	return sb.String()
}

// joinNonEmpty joins the non-blank parts with sep
func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CollapseWhitespace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// lines joins the non-empty markup fragments one per line
func lines(fragments ...string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "\n")
}
