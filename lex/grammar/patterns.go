package grammar

import (
	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/linetree"
)

// tryVerbatim matches one or more (subject, indented container) groups
// followed by a closing annotation at the same indent level as the first
// subject (§4.5 pattern 1). Content inside the indented containers is not
// reparsed — see flattenRaw.
func tryVerbatim(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.Subject) {
		return nil, 0, false
	}
	pos := i
	var groups []VerbatimGroup
	for {
		if pos >= len(nodes) || !isLeafType(nodes[pos], classify.Subject) {
			break
		}
		subject := *nodes[pos].Line
		pos++
		if pos >= len(nodes) || nodes[pos].IsLeaf() {
			// No indented container: not a verbatim group after all.
			return nil, 0, false
		}
		content := flattenRaw(nodes[pos])
		pos++
		groups = append(groups, VerbatimGroup{Subject: subject, Content: content})

		// A new subject continues the block only if it is not separated by
		// a blank line (§9 "verbatim group boundary").
		if pos < len(nodes) && isLeafType(nodes[pos], classify.Subject) {
			continue
		}

		break
	}
	if len(groups) == 0 {
		return nil, 0, false
	}
	if pos >= len(nodes) || !nodes[pos].IsLeaf() {
		return nil, 0, false
	}
	closingType := nodes[pos].Line.Type
	if closingType != classify.AnnotationEnd && closingType != classify.AnnotationStart {
		return nil, 0, false
	}
	closing := nodes[pos].Line
	pos++

	label, params := "", []Param(nil)
	if closingType == classify.AnnotationStart {
		label, params, _ = parseAnnotationHeader(closing.Tokens)
	}

	n := &Node{
		Kind:          Verbatim,
		Groups:        groups,
		Subject:       &groups[0].Subject,
		ClosingLabel:  label,
		ClosingParams: params,
		ClosingLine:   closing,
	}

	return n, pos - i, true
}

// flattenRaw collects every classified line inside a container, in
// document order, without reparsing them (§4.5 pattern 1).
func flattenRaw(n *linetree.Node) []classify.Line {
	if n.IsLeaf() {
		return []classify.Line{*n.Line}
	}
	var out []classify.Line
	for _, c := range n.Children {
		out = append(out, flattenRaw(c)...)
	}

	return out
}

// tryAnnotationBlock matches an annotation-start line followed by an
// indented container (§4.5 pattern 2).
func tryAnnotationBlock(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.AnnotationStart) {
		return nil, 0, false
	}
	if i+1 >= len(nodes) || nodes[i+1].IsLeaf() {
		return nil, 0, false
	}
	label, params, inline := parseAnnotationHeader(nodes[i].Line.Tokens)
	children := parseContainer(nodes[i+1].Children, false)
	n := &Node{
		Kind:     Annotation,
		Label:    label,
		Params:   params,
		Children: children,
	}
	if inline != nil {
		n.InlineLine = inline
	}

	return n, 2, true
}

// tryAnnotationSingle matches an annotation-start line with inline content
// or no content, and no following indented container (§4.5 pattern 3).
func tryAnnotationSingle(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.AnnotationStart) {
		return nil, 0, false
	}
	if i+1 < len(nodes) && !nodes[i+1].IsLeaf() {
		return nil, 0, false
	}
	label, params, inline := parseAnnotationHeader(nodes[i].Line.Tokens)
	n := &Node{
		Kind:       Annotation,
		Label:      label,
		Params:     params,
		InlineLine: inline,
	}

	return n, 1, true
}

// tryList matches two or more consecutive list lines at the same level,
// each optionally followed by an indented container (§4.5 pattern 4). A
// preceding blank line is required at the root level.
func tryList(nodes []*linetree.Node, i int, atRoot, precededByBlank bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.List) && !isLeafType(nodes[i], classify.SubjectOrListItem) {
		return nil, 0, false
	}
	if atRoot && !precededByBlank {
		return nil, 0, false
	}
	pos := i
	var items []*Node
	for pos < len(nodes) {
		if !isLeafType(nodes[pos], classify.List) && !isLeafType(nodes[pos], classify.SubjectOrListItem) {
			break
		}
		marker := nodes[pos].Line
		pos++
		var children []*Node
		if pos < len(nodes) && !nodes[pos].IsLeaf() {
			children = parseContainer(nodes[pos].Children, false)
			pos++
		}
		items = append(items, &Node{Kind: ListItem, Subject: marker, Children: children})
	}
	if len(items) < 2 {
		return nil, 0, false
	}

	return &Node{Kind: List, Children: items}, pos - i, true
}

// tryDefinition matches a subject line immediately followed (no blank
// line) by an indented container (§4.5 pattern 5).
func tryDefinition(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.Subject) {
		return nil, 0, false
	}
	if i+1 >= len(nodes) || nodes[i+1].IsLeaf() {
		return nil, 0, false
	}
	children := parseContainer(nodes[i+1].Children, false)
	n := &Node{Kind: Definition, Subject: nodes[i].Line, Children: children}

	return n, 2, true
}

// trySession matches a subject line, a blank line, then an indented
// container (§4.5 pattern 6).
func trySession(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.Subject) {
		return nil, 0, false
	}
	if i+1 >= len(nodes) || !isLeafType(nodes[i+1], classify.Blank) {
		return nil, 0, false
	}
	if i+2 >= len(nodes) || nodes[i+2].IsLeaf() {
		return nil, 0, false
	}
	children := parseContainer(nodes[i+2].Children, false)
	n := &Node{Kind: Session, Subject: nodes[i].Line, Children: children}

	return n, 3, true
}

// paragraphable reports whether a line type, when not consumed by a more
// specific pattern, accumulates into a paragraph (§4.5 pattern 7).
func paragraphable(t classify.LineType) bool {
	switch t {
	case classify.Paragraph, classify.Dialog, classify.Subject,
		classify.List, classify.SubjectOrListItem:
		return true
	default:
		return false
	}
}

func tryParagraph(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !nodes[i].IsLeaf() || !paragraphable(nodes[i].Line.Type) {
		return nil, 0, false
	}
	pos := i
	var lines []classify.Line
	for pos < len(nodes) && nodes[pos].IsLeaf() && paragraphable(nodes[pos].Line.Type) {
		lines = append(lines, *nodes[pos].Line)
		pos++
	}

	return &Node{Kind: Paragraph, Lines: lines}, pos - i, true
}

// tryBlankGroup matches one or more consecutive blank lines (§4.5 pattern
// 8).
func tryBlankGroup(nodes []*linetree.Node, i int, _, _ bool) (*Node, int, bool) {
	if !isLeafType(nodes[i], classify.Blank) {
		return nil, 0, false
	}
	pos := i
	count := 0
	for pos < len(nodes) && isLeafType(nodes[pos], classify.Blank) {
		pos++
		count++
	}

	return &Node{Kind: BlankGroup, BlankCount: count}, pos - i, true
}
