package dialogue

import "strings"

// FormatContext renders the last N turns as ordered "speaker: text" lines for
// prompt context. Every generation request sees the same bounded window.
func FormatContext(turns []Turn, lastN int) string {
	if len(turns) == 0 {
		return ""
	}
	if lastN <= 0 {
		lastN = 6
	}
	recent := turns
	if len(recent) > lastN {
		recent = recent[len(recent)-lastN:]
	}
	var b strings.Builder
	for i, t := range recent {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(t.Speaker))
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}
