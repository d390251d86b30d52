// Package linetree implements §4.4: it builds the recursive line-container
// tree from the classified flat line stream, then inserts the synthetic
// document-start marker that splits document metadata from document body.
package linetree

import (
	"github.com/lex-fmt/core-sub003/lex/classify"
)

// Node is a line-container tree node: either a leaf wrapping one classified
// line, or a container holding an ordered sequence of children
// corresponding to one matched Indent/Dedent pair (§3 "Line container").
type Node struct {
	Line     *classify.Line // non-nil for leaves
	Children []*Node        // non-nil for containers
}

// IsLeaf reports whether n wraps a single line rather than a container.
func (n *Node) IsLeaf() bool {
	return n.Line != nil
}

// Build consumes the classified line stream and emits the root container,
// with every Indent/Dedent pair folded into nesting. Unmatched trailing
// indents are closed implicitly at end-of-input (§4.4).
func Build(lines []classify.Line) *Node {
	root := &Node{}
	stack := []*Node{root}

	for i := range lines {
		switch lines[i].Type {
		case classify.Indent:
			child := &Node{}
			top := stack[len(stack)-1]
			top.Children = append(top.Children, child)
			stack = append(stack, child)
		case classify.Dedent:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		default:
			top := stack[len(stack)-1]
			top.Children = append(top.Children, &Node{Line: &lines[i]})
		}
	}

	return root
}

// InsertDocumentStart inserts the synthetic document-start marker (§4.4)
// immediately after any leading document-level annotations at the root,
// or at position zero if there are none.
func InsertDocumentStart(root *Node) {
	idx := metadataPrefixLen(root.Children)
	marker := &Node{Line: &classify.Line{Type: classify.DocumentStart}}

	children := make([]*Node, 0, len(root.Children)+1)
	children = append(children, root.Children[:idx]...)
	children = append(children, marker)
	children = append(children, root.Children[idx:]...)
	root.Children = children
}

// metadataPrefixLen returns the length of the leading run of children that
// constitute document-level annotation metadata: annotation-start lines,
// their optional indented container, an optional annotation-end line, and
// blank lines separating them.
func metadataPrefixLen(children []*Node) int {
	i := 0
	for i < len(children) {
		c := children[i]
		if c.IsLeaf() && c.Line.Type == classify.Blank {
			i++

			continue
		}
		if c.IsLeaf() && c.Line.Type == classify.AnnotationStart {
			i++
			if i < len(children) && !children[i].IsLeaf() {
				i++
			}
			if i < len(children) && children[i].IsLeaf() && children[i].Line.Type == classify.AnnotationEnd {
				i++
			}

			continue
		}

		break
	}

	return i
}
