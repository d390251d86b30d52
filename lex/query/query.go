// Package query implements §4.8: read-only traversals over a built AST
// for link discovery, diagnostics, and byte-position-to-ancestor-chain
// lookup. Every function here takes a *ast.Document and returns a plain
// value; none mutate the tree, so they are safe to call concurrently
// from multiple goroutines on the same Document (§5).
package query

import (
	"sort"

	"github.com/lex-fmt/core-sub003/lex/ast"
	"github.com/lex-fmt/core-sub003/lex/inline"
	"github.com/lex-fmt/core-sub003/lex/token"
	"github.com/lex-fmt/core-sub003/lexerr"
)

// LinkKind distinguishes the three reference shapes link discovery
// reports (§4.8 "Link discovery").
type LinkKind uint8

const (
	LinkURL LinkKind = iota
	LinkFilePath
	LinkVerbatimSrc
)

// Link is one discovered reference, with its byte range and kind.
type Link struct {
	Kind  LinkKind
	Value string
	Range token.Range
}

// DiscoverLinks walks doc and yields every URL reference, file
// reference, and verbatim-block src parameter (§4.8 "Link discovery").
func DiscoverLinks(doc *ast.Document) []Link {
	var out []Link
	ast.Walk(doc, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.TextLine:
			out = append(out, linksInText(&t.Text)...)
		case *ast.Session:
			out = append(out, linksInText(&t.Title)...)
		case *ast.Definition:
			out = append(out, linksInText(&t.Subject)...)
		case *ast.ListItem:
			out = append(out, linksInText(&t.Text)...)
		case *ast.Verbatim:
			if src, ok := paramValue(t.Closing, "src"); ok {
				out = append(out, Link{Kind: LinkVerbatimSrc, Value: src, Range: t.Range()})
			}
		}

		return true
	}, nil)

	return out
}

func linksInText(tc *ast.TextContent) []Link {
	var out []Link
	for _, n := range tc.Inline() {
		switch n.Kind {
		case inline.Reference:
			switch n.RefKind {
			case inline.URL:
				out = append(out, Link{Kind: LinkURL, Value: n.RefValue, Range: tc.Range()})
			case inline.FilePath:
				out = append(out, Link{Kind: LinkFilePath, Value: n.RefValue, Range: tc.Range()})
			}
		case inline.Image:
			out = append(out, Link{Kind: LinkURL, Value: n.Src, Range: tc.Range()})
		}
	}

	return out
}

func paramValue(ann *ast.Annotation, key string) (string, bool) {
	if ann == nil {
		return "", false
	}
	for _, p := range ann.Params {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// Diagnostics walks doc and reports the findings named in §4.8:
// broken footnote/citation/session references, single-item-list hints
// (unreachable under the current grammar invariant but retained for
// future relaxation), empty annotation labels, duplicate parameter
// keys, and empty verbatim closing labels.
func Diagnostics(doc *ast.Document) []lexerr.Diagnostic {
	labels := collectLabels(doc)
	var out []lexerr.Diagnostic

	ast.Walk(doc, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.TextLine:
			out = append(out, referenceDiagnostics(&t.Text, labels)...)
		case *ast.Session:
			out = append(out, referenceDiagnostics(&t.Title, labels)...)
		case *ast.Definition:
			out = append(out, referenceDiagnostics(&t.Subject, labels)...)
		case *ast.ListItem:
			out = append(out, referenceDiagnostics(&t.Text, labels)...)
		case *ast.List:
			if len(t.Items) == 1 {
				out = append(out, lexerr.Diagnostic{
					Severity: lexerr.Hint,
					Range:    toLexerrRange(t.Range()),
					Message:  "single-item list",
				})
			}
		case *ast.Annotation:
			out = append(out, annotationDiagnostics(t)...)
		case *ast.Verbatim:
			if t.Closing != nil && t.Closing.Label() == "" {
				out = append(out, lexerr.Diagnostic{
					Severity: lexerr.Warning,
					Range:    toLexerrRange(t.Closing.Range()),
					Message:  "empty verbatim closing label",
				})
			}
		}

		return true
	}, nil)

	return out
}

// collectLabels gathers every annotation label and session title in the
// document, for reference-resolution diagnostics.
func collectLabels(doc *ast.Document) map[string]bool {
	labels := map[string]bool{}
	ast.Walk(doc, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.Session:
			if t.Title.Raw != "" {
				labels[t.Title.Raw] = true
			}
			for _, a := range t.Annotations {
				if a.Label() != "" {
					labels[a.Label()] = true
				}
			}
		case *ast.Definition:
			for _, a := range t.Annotations {
				if a.Label() != "" {
					labels[a.Label()] = true
				}
			}
		case *ast.Annotation:
			if t.Label() != "" {
				labels[t.Label()] = true
			}
		}

		return true
	}, nil)

	return labels
}

func referenceDiagnostics(tc *ast.TextContent, labels map[string]bool) []lexerr.Diagnostic {
	var out []lexerr.Diagnostic
	for _, n := range tc.Inline() {
		if n.Kind != inline.Reference {
			continue
		}
		switch n.RefKind {
		case inline.FootnoteLabel, inline.CitationKeys, inline.SessionTitle:
			if !labels[n.RefValue] {
				out = append(out, lexerr.Diagnostic{
					Severity: lexerr.Warning,
					Range:    toLexerrRange(tc.Range()),
					Message:  "broken reference: " + n.RefValue,
				})
			}
		}
	}

	return out
}

func annotationDiagnostics(a *ast.Annotation) []lexerr.Diagnostic {
	var out []lexerr.Diagnostic
	if a.Label() == "" {
		out = append(out, lexerr.Diagnostic{
			Severity: lexerr.Structural,
			Range:    toLexerrRange(a.Range()),
			Message:  "annotation with empty label",
		})
	}
	seen := map[string]bool{}
	for _, p := range a.Params {
		if seen[p.Key] {
			out = append(out, lexerr.Diagnostic{
				Severity: lexerr.Warning,
				Range:    toLexerrRange(a.Range()),
				Message:  "duplicate parameter key: " + p.Key,
			})

			continue
		}
		seen[p.Key] = true
	}

	return out
}

func toLexerrRange(r token.Range) lexerr.Range {
	return lexerr.Range{Start: r.Start, End: r.End}
}

// Position is a 1-based (line, column) pair, matching editor convention.
type Position struct {
	Line   int
	Column int
}

// AncestorChain returns the chain of node kinds from the root down to
// the innermost container containing pos, using idx to translate pos to
// a byte offset (§4.8 "Position lookup").
func AncestorChain(doc *ast.Document, idx *LineIndex, pos Position) []ast.Kind {
	offset := idx.Offset(pos.Line, pos.Column)
	var chain []ast.Kind
	ast.Walk(doc, func(n ast.Node) bool {
		r := n.Range()
		if r == (token.Range{}) {
			return true
		}
		if offset < r.Start || offset >= r.End {
			return false
		}
		chain = append(chain, n.Kind())

		return true
	}, nil)

	return chain
}

// LineIndex converts byte offsets to/from 1-based (line, column) pairs
// by a one-time scan of the source (§3 "Line/column positions").
type LineIndex struct {
	lineStarts []int // byte offset of the first byte of each line
	length     int
}

// NewLineIndex scans source once and builds a LineIndex.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{lineStarts: starts, length: len(source)}
}

// Position returns the 1-based (line, column) for a byte offset.
func (idx *LineIndex) Position(offset int) Position {
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	return Position{Line: line + 1, Column: offset - idx.lineStarts[line] + 1}
}

// Offset returns the byte offset for a 1-based (line, column) pair.
func (idx *LineIndex) Offset(line, column int) int {
	if line < 1 {
		line = 1
	}
	if line > len(idx.lineStarts) {
		return idx.length
	}

	return idx.lineStarts[line-1] + (column - 1)
}
