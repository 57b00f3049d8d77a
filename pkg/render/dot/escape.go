package dot

import (
	"regexp"
	"strings"
)

// Escape makes text safe for embedding in HTML-like Graphviz labels.
//
// The substitution table is fixed: the five markup characters become
// entities, a newline becomes a left-aligned line break, and the record
// delimiters |, { and } are backslash-escaped. Every other byte passes
// through unchanged.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\n':
			b.WriteString(`<br align="left"/>`)
		case '|':
			b.WriteString(`\|`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeQuoted escapes text for a double-quoted DOT string.
// Line breaks produced by [Escape] carry quotes of their own.
func escapeQuoted(text string) string {
	return strings.ReplaceAll(Escape(text), `"`, `\"`)
}

var (
	plainIDRe   = regexp.MustCompile(`^[A-Za-z_\x80-\xff][A-Za-z0-9_\x80-\xff]*$`)
	numeralIDRe = regexp.MustCompile(`^-?(\.[0-9]+|[0-9]+(\.[0-9]*)?)$`)
)

var keywords = map[string]bool{
	"node": true, "edge": true, "graph": true,
	"digraph": true, "subgraph": true, "strict": true,
}

// nodeID returns id as a DOT identifier, quoting it unless it is already
// a plain identifier or numeral.
func nodeID(id string) string {
	if (plainIDRe.MatchString(id) || numeralIDRe.MatchString(id)) && !keywords[strings.ToLower(id)] {
		return id
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(id) + `"`
}
