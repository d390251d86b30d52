// Package ast implements §4.6: the user-facing tree the rest of the
// pipeline builds toward. A Document owns every node reachable from it;
// tokens and parse nodes may be dropped once a Document is built.
package ast

import (
	"sync"

	"github.com/lex-fmt/core-sub003/lex/inline"
	"github.com/lex-fmt/core-sub003/lex/token"
)

// Kind is the closed set of AST node kinds (§3 "AST").
type Kind uint8

const (
	DocumentKind Kind = iota
	SessionKind
	DefinitionKind
	ListKind
	ListItemKind
	ParagraphKind
	TextLineKind
	VerbatimKind
	AnnotationKind
	BlankLineGroupKind
)

//nolint:revive // cyclomatic - switch cases are simple string returns
func (k Kind) String() string {
	switch k {
	case DocumentKind:
		return "Document"
	case SessionKind:
		return "Session"
	case DefinitionKind:
		return "Definition"
	case ListKind:
		return "List"
	case ListItemKind:
		return "ListItem"
	case ParagraphKind:
		return "Paragraph"
	case TextLineKind:
		return "TextLine"
	case VerbatimKind:
		return "Verbatim"
	case AnnotationKind:
		return "Annotation"
	case BlankLineGroupKind:
		return "BlankLineGroup"
	default:
		return "Unknown"
	}
}

// Node is the common interface every AST node satisfies (§6 "AST
// output"): a kind, a byte range, an optional display label, and its
// children (containers return them; leaves return nil).
type Node interface {
	Kind() Kind
	Range() token.Range
	Label() string
	Children() []Node
}

type base struct {
	kind  Kind
	rng   token.Range
	label string
}

func (b base) Kind() Kind        { return b.kind }
func (b base) Range() token.Range { return b.rng }
func (b base) Label() string     { return b.label }

// TextContent wraps a raw text string with its byte range and a lazily
// parsed inline sequence (§4.7). The zero value is usable but Range()
// returns a zero range; construct with newTextContent from the builder.
type TextContent struct {
	Raw string
	rng token.Range

	once   sync.Once
	parsed []inline.Node
}

// Range returns the text's byte range.
func (t *TextContent) Range() token.Range { return t.rng }

// Inline returns the parsed inline sequence, computing and caching it on
// first call (§4.7 "Parsed lazily"). Safe for concurrent callers.
func (t *TextContent) Inline() []inline.Node {
	t.once.Do(func() { t.parsed = inline.Parse(t.Raw) })

	return t.parsed
}

func newTextContent(raw string, rng token.Range) TextContent {
	return TextContent{Raw: raw, rng: rng}
}

// Document is the root of the tree: optional document-level annotations
// (metadata) plus a synthetic root session whose children are the
// document body (§3 "AST").
type Document struct {
	base
	Metadata []Node
	Root     *Session
}

// Children returns the document's metadata annotations followed by the
// root session.
func (d *Document) Children() []Node {
	out := make([]Node, 0, len(d.Metadata)+1)
	out = append(out, d.Metadata...)

	return append(out, d.Root)
}

// Session is a titled container; a session whose subject ends with a
// blank line before its body (§4.5 pattern 6). The synthetic document
// root session carries a zero range per §3's containment invariant.
type Session struct {
	base
	Title       TextContent
	Items       []Node
	Annotations []*Annotation
}

func (s *Session) Children() []Node { return s.Items }

// Definition is a subject plus children, distinguished from Session by
// the absence of a blank line before its body (§4.5 pattern 5).
type Definition struct {
	base
	Subject     TextContent
	Items       []Node
	Annotations []*Annotation
}

func (d *Definition) Children() []Node { return d.Items }

// List holds two or more ListItem children (§3 invariant: "a single item
// is a paragraph").
type List struct {
	base
	Items []*ListItem
}

func (l *List) Children() []Node {
	out := make([]Node, len(l.Items))
	for i, item := range l.Items {
		out[i] = item
	}

	return out
}

// ListItem is one list entry: a marker, a text payload, optional nested
// children, and optional attached annotations.
type ListItem struct {
	base
	Marker      string
	Text        TextContent
	Items       []Node
	Annotations []*Annotation
}

func (li *ListItem) Children() []Node { return li.Items }

// Paragraph is an ordered sequence of text lines.
type Paragraph struct {
	base
	Lines []*TextLine
}

func (p *Paragraph) Children() []Node {
	out := make([]Node, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = l
	}

	return out
}

// TextLine is a single text-content value; a leaf.
type TextLine struct {
	base
	Text TextContent
}

func (t *TextLine) Children() []Node { return nil }

// VerbatimGroup is one (subject, raw content) pair inside a Verbatim
// block beyond the first, which is stored directly on Verbatim itself
// (§3 "Verbatim (block)").
type VerbatimGroup struct {
	Subject TextContent
	Content []byte
	Range   token.Range
}

// Verbatim is one or more (subject, raw content) groups sharing a single
// closing annotation. The first group's subject and content are flat
// fields; any further groups are in AdditionalGroups.
type Verbatim struct {
	base
	Subject          TextContent
	Content          []byte
	AdditionalGroups []VerbatimGroup
	Closing          *Annotation
}

func (v *Verbatim) Children() []Node {
	if v.Closing == nil {
		return nil
	}

	return []Node{v.Closing}
}

// Param is a single key/value annotation parameter, order-preserved.
type Param struct {
	Key   string
	Value string
}

// Annotation is a label plus ordered parameters plus optional child
// content. It can appear free-standing, as metadata attached to a
// container, or as a verbatim block's closing marker.
type Annotation struct {
	base
	Params []Param
	Items  []Node
	Inline *TextContent
}

func (a *Annotation) Children() []Node { return a.Items }

// BlankLineGroup is a count of consecutive blank lines, preserved for
// faithful round-trips.
type BlankLineGroup struct {
	base
	Count int
}

func (b *BlankLineGroup) Children() []Node { return nil }

// EnterFunc and LeaveFunc are the callbacks Walk invokes on each node.
type EnterFunc func(n Node) bool
type LeaveFunc func(n Node)

// Walk performs a depth-first traversal, invoking enter before a node's
// children and leave after (§6 "Visitors are callback-based"). If enter
// returns false, the node's children are skipped but leave still runs.
func Walk(n Node, enter EnterFunc, leave LeaveFunc) {
	if n == nil {
		return
	}
	descend := true
	if enter != nil {
		descend = enter(n)
	}
	if descend {
		for _, c := range n.Children() {
			Walk(c, enter, leave)
		}
	}
	if leave != nil {
		leave(n)
	}
}
