// Package inline implements §4.7: a lazy parser that turns one text string
// into a sequence of inline nodes (plain text, bold, italic, code, math,
// reference, marker, image). It is invoked on demand by lex/ast's
// TextContent, never eagerly during the main pipeline.
package inline

import "strings"

// Kind is the closed set of inline node kinds.
type Kind uint8

const (
	// PlainText is a run of ordinary text.
	PlainText Kind = iota
	// Bold is a `*...*` span; its nested content is in Children.
	Bold
	// Italic is a `_..._` span; its nested content is in Children.
	Italic
	// Code is a `` `...` `` span; Text holds the raw unparsed content.
	Code
	// Math is a `$...$` span; Text holds the raw unparsed content and
	// MathML optionally holds a post-processed annotation.
	Math
	// Reference is a `[...]` span; RefKind distinguishes its sub-kind.
	Reference
	// Marker is a marker span. Neither Parse nor lex/ast produces it:
	// dialog lines keep their leading dash as plain paragraph text.
	Marker
	// Image is a `![alt](src "title")` span.
	Image
)

// RefKind is the closed set of reference sub-kinds, decided by the
// content inside the brackets (§4.7).
type RefKind uint8

const (
	// FootnoteNumber is an all-digits reference, e.g. "[12]".
	FootnoteNumber RefKind = iota
	// FootnoteLabel is a reference that is not otherwise recognized.
	// Parse has no document context, so a reference to a session title
	// is also tagged FootnoteLabel; lex/query's broken-reference check
	// resolves it against session titles and annotation labels but does
	// not retag it.
	FootnoteLabel
	// SessionTitle is not assigned by Parse or by lex/query.
	SessionTitle
	// CitationKeys is an "@"-prefixed reference, e.g. "[@doe2020]".
	CitationKeys
	// URL is a reference whose content has a recognized URL scheme.
	URL
	// FilePath is a reference whose content starts with "./" or "../".
	FilePath
)

// Node is one inline element. Only the fields relevant to Kind are
// populated; the rest are zero.
type Node struct {
	Kind Kind

	// Text holds plain text, code, math, or marker raw content.
	Text string

	// Children holds nested inline content for Bold and Italic.
	Children []Node

	// RefKind and RefValue describe a Reference node.
	RefKind  RefKind
	RefValue string

	// Alt, Src, Title describe an Image node.
	Alt   string
	Src   string
	Title string

	// MathML is an optional post-processed annotation for a Math node.
	MathML string
}

var urlSchemes = []string{"http://", "https://", "mailto:", "ftp://"}

// Parse turns raw text into a sequence of inline nodes (§4.7). It never
// returns an error: any unmatched opening delimiter degrades to plain
// text, which keeps the lazy parse total over arbitrary input.
func Parse(s string) []Node {
	return parseSpan(s)
}

func parseSpan(s string) []Node {
	var out []Node
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, Node{Kind: PlainText, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '!' && i+1 < len(s) && s[i+1] == '[':
			if node, next, ok := scanImage(s, i); ok {
				flush()
				out = append(out, node)
				i = next

				continue
			}
		case s[i] == '[':
			if node, next, ok := scanReference(s, i); ok {
				flush()
				out = append(out, node)
				i = next

				continue
			}
		case s[i] == '*':
			if node, next, ok := scanDelimited(s, i, '*', Bold); ok {
				flush()
				out = append(out, node)
				i = next

				continue
			}
		case s[i] == '_':
			if node, next, ok := scanDelimited(s, i, '_', Italic); ok {
				flush()
				out = append(out, node)
				i = next

				continue
			}
		case s[i] == '`':
			if node, next, ok := scanRaw(s, i, '`', Code); ok {
				flush()
				out = append(out, node)
				i = next

				continue
			}
		case s[i] == '$':
			if node, next, ok := scanRaw(s, i, '$', Math); ok {
				flush()
				out = append(out, node)
				i = next

				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()

	return out
}

// scanDelimited scans a `<delim>...<delim>` span whose content is itself
// parsed as inline content (bold/italic nesting, §4.7).
func scanDelimited(s string, start int, delim byte, kind Kind) (Node, int, bool) {
	end := strings.IndexByte(s[start+1:], delim)
	if end == -1 {
		return Node{}, 0, false
	}
	end += start + 1
	inner := s[start+1 : end]
	if inner == "" {
		return Node{}, 0, false
	}

	return Node{Kind: kind, Children: parseSpan(inner)}, end + 1, true
}

// scanRaw scans a `<delim>...<delim>` span whose content is stored
// verbatim, unparsed (code and math spans, §4.7).
func scanRaw(s string, start int, delim byte, kind Kind) (Node, int, bool) {
	end := strings.IndexByte(s[start+1:], delim)
	if end == -1 {
		return Node{}, 0, false
	}
	end += start + 1

	return Node{Kind: kind, Text: s[start+1 : end]}, end + 1, true
}

// scanReference scans a `[...]` span and decides its sub-kind from its
// content (§4.7).
func scanReference(s string, start int) (Node, int, bool) {
	end := strings.IndexByte(s[start+1:], ']')
	if end == -1 {
		return Node{}, 0, false
	}
	end += start + 1
	content := s[start+1 : end]
	if content == "" {
		return Node{}, 0, false
	}

	return Node{Kind: Reference, RefKind: classifyReference(content), RefValue: content}, end + 1, true
}

func classifyReference(content string) RefKind {
	if strings.HasPrefix(content, "@") {
		return CitationKeys
	}
	if strings.HasPrefix(content, "./") || strings.HasPrefix(content, "../") {
		return FilePath
	}
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(content, scheme) {
			return URL
		}
	}
	if isAllDigits(content) {
		return FootnoteNumber
	}

	return FootnoteLabel
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// scanImage scans a `![alt](src "title")` span starting at the '!'.
func scanImage(s string, start int) (Node, int, bool) {
	altEnd := strings.IndexByte(s[start+2:], ']')
	if altEnd == -1 {
		return Node{}, 0, false
	}
	altEnd += start + 2
	if altEnd+1 >= len(s) || s[altEnd+1] != '(' {
		return Node{}, 0, false
	}
	parenEnd := strings.IndexByte(s[altEnd+2:], ')')
	if parenEnd == -1 {
		return Node{}, 0, false
	}
	parenEnd += altEnd + 2

	alt := s[start+2 : altEnd]
	inside := s[altEnd+2 : parenEnd]
	src, title := splitSrcTitle(inside)

	return Node{Kind: Image, Alt: alt, Src: src, Title: title}, parenEnd + 1, true
}

// splitSrcTitle splits an image's parenthesized content into its URL and
// an optional quoted title, e.g. `src "title"` -> ("src", "title").
func splitSrcTitle(inside string) (src, title string) {
	inside = strings.TrimSpace(inside)
	q := strings.IndexByte(inside, '"')
	if q == -1 {
		return inside, ""
	}
	src = strings.TrimSpace(inside[:q])
	rest := inside[q+1:]
	if end := strings.IndexByte(rest, '"'); end != -1 {
		title = rest[:end]
	}

	return src, title
}
