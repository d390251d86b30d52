// Package grammar implements §4.5: the declarative recursive-descent
// grammar engine that turns a line-container tree into a parse tree of
// element patterns (paragraph, session, definition, list, annotation,
// verbatim). It is the heart of the pipeline; every other stage exists to
// feed it a clean input or consume its output.
package grammar

import (
	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/linetree"
)

// Kind is the closed set of pre-AST parse-node kinds (§3 "Parse node").
type Kind uint8

const (
	// Session is a titled container whose subject is followed by a blank
	// line, then an indented container.
	Session Kind = iota
	// Definition is a titled container whose subject is immediately
	// followed (no blank line) by an indented container.
	Definition
	// List holds two or more ListItem children.
	List
	// ListItem is one list entry: a marker line plus optional children.
	ListItem
	// Paragraph is one or more consecutive text lines.
	Paragraph
	// Annotation is a ":: label params :: content" construct.
	Annotation
	// Verbatim is one or more (subject, raw content) groups sharing a
	// single closing annotation.
	Verbatim
	// BlankGroup is one or more consecutive blank lines.
	BlankGroup
	// DocumentMarker passes through the synthetic document-start line
	// (§4.4) so lex/ast can locate the metadata/body split without
	// reparsing the line-container tree itself.
	DocumentMarker
)

// Param is a single key/value annotation parameter, order-preserved.
type Param struct {
	Key   string
	Value string
}

// VerbatimGroup is one (subject, raw content lines) pair inside a Verbatim
// node (§3 "Verbatim (block)").
type VerbatimGroup struct {
	Subject classify.Line
	Content []classify.Line
}

// Node is a pre-AST parse tree node.
type Node struct {
	Kind     Kind
	Children []*Node

	// Subject holds the title/subject line for Session, Definition, and
	// the marker line for ListItem.
	Subject *classify.Line

	// Lines holds the raw text lines for Paragraph.
	Lines []classify.Line

	// Label and Params hold an Annotation's header.
	Label  string
	Params []Param
	// InlineLine holds the same-line trailing content of an
	// annotation-single, if any (nil otherwise).
	InlineLine *classify.Line

	// Groups and ClosingLabel/ClosingParams describe a Verbatim block; the
	// first group's subject is duplicated onto Subject for flat access (§3).
	Groups        []VerbatimGroup
	ClosingLabel  string
	ClosingParams []Param
	ClosingLine   *classify.Line

	// BlankCount is the number of consecutive blank lines in a BlankGroup.
	BlankCount int
}

// Parse runs the grammar engine over a line-container tree (after
// lex/linetree.InsertDocumentStart has run on the root) and returns the
// top-level parse nodes.
func Parse(root *linetree.Node) []*Node {
	return parseContainer(root.Children, true)
}

type matcher func(nodes []*linetree.Node, i int, atRoot, precededByBlank bool) (*Node, int, bool)

// matchers lists the patterns in priority order (§4.5 "Pattern order").
var matchers = []matcher{
	tryVerbatim,
	tryAnnotationBlock,
	tryAnnotationSingle,
	tryList,
	tryDefinition,
	trySession,
	tryParagraph,
	tryBlankGroup,
}

func parseContainer(nodes []*linetree.Node, atRoot bool) []*Node {
	var out []*Node
	precededByBlank := false
	i := 0
	for i < len(nodes) {
		if isLeafType(nodes[i], classify.DocumentStart) {
			out = append(out, &Node{Kind: DocumentMarker})
			precededByBlank = false
			i++

			continue
		}
		best, bestConsumed := (*Node)(nil), 0
		for _, m := range matchers {
			n, consumed, ok := m(nodes, i, atRoot, precededByBlank)
			if !ok {
				continue
			}
			// Strict > means the first matcher (in priority order) to reach
			// the longest match wins ties (§4.5 "Pattern order").
			if consumed > bestConsumed {
				best, bestConsumed = n, consumed
			}
		}
		if best == nil || bestConsumed == 0 {
			// No pattern claims this node (a stray annotation-end line, or
			// an indented container not introduced by a subject,
			// annotation or list line): it is skipped and does not appear
			// in the output.
			i++

			continue
		}
		out = append(out, best)
		precededByBlank = best.Kind == BlankGroup
		i += bestConsumed
	}

	return out
}

func isLeafType(n *linetree.Node, t classify.LineType) bool {
	return n.IsLeaf() && n.Line.Type == t
}
