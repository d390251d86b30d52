package ast

import (
	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/grammar"
	"github.com/lex-fmt/core-sub003/lex/token"
)

// Build consumes the grammar engine's top-level parse nodes (§4.5) and
// produces the final Document (§4.6). parseNodes is the result of
// grammar.Parse run on a line-container tree after
// lex/linetree.InsertDocumentStart has marked the metadata/body split.
func Build(parseNodes []*grammar.Node) *Document {
	splitAt := len(parseNodes)
	for i, n := range parseNodes {
		if n.Kind == grammar.DocumentMarker {
			splitAt = i

			break
		}
	}
	metadata := convertAll(parseNodes[:splitAt])
	var body []Node
	if splitAt < len(parseNodes) {
		body = convertAll(parseNodes[splitAt+1:])
	}
	body = attachAnnotations(body)

	root := &Session{
		base:  base{kind: SessionKind},
		Items: body,
	}

	return &Document{
		base:     base{kind: DocumentKind, rng: documentRange(metadata, root)},
		Metadata: metadata,
		Root:     root,
	}
}

func documentRange(metadata []Node, root *Session) token.Range {
	var r token.Range
	for _, m := range metadata {
		r = r.Union(m.Range())
	}
	for _, c := range root.Items {
		r = r.Union(c.Range())
	}

	return r
}

func convertAll(nodes []*grammar.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if c := convert(n); c != nil {
			out = append(out, c)
		}
	}

	return attachAnnotations(out)
}

func convert(n *grammar.Node) Node {
	switch n.Kind {
	case grammar.Session:
		return convertSession(n)
	case grammar.Definition:
		return convertDefinition(n)
	case grammar.List:
		return convertList(n)
	case grammar.Paragraph:
		return convertParagraph(n)
	case grammar.Annotation:
		return convertAnnotation(n)
	case grammar.Verbatim:
		return convertVerbatim(n)
	case grammar.BlankGroup:
		return &BlankLineGroup{base: base{kind: BlankLineGroupKind}, Count: n.BlankCount}
	case grammar.DocumentMarker:
		return nil
	default:
		return nil
	}
}

func convertSession(n *grammar.Node) *Session {
	items := convertAll(n.Children)
	title := textFromSubjectLine(*n.Subject)
	rng := n.Subject.Range()
	for _, c := range items {
		rng = rng.Union(c.Range())
	}

	return &Session{
		base:  base{kind: SessionKind, rng: rng, label: title.Raw},
		Title: title,
		Items: items,
	}
}

func convertDefinition(n *grammar.Node) *Definition {
	items := convertAll(n.Children)
	subject := textFromSubjectLine(*n.Subject)
	rng := n.Subject.Range()
	for _, c := range items {
		rng = rng.Union(c.Range())
	}

	return &Definition{
		base:    base{kind: DefinitionKind, rng: rng, label: subject.Raw},
		Subject: subject,
		Items:   items,
	}
}

func convertList(n *grammar.Node) *List {
	items := make([]*ListItem, 0, len(n.Children))
	var rng token.Range
	for _, child := range n.Children {
		item := convertListItem(child)
		items = append(items, item)
		rng = rng.Union(item.Range())
	}

	return &List{base: base{kind: ListKind, rng: rng}, Items: items}
}

func convertListItem(n *grammar.Node) *ListItem {
	marker, rest := splitListMarker(*n.Subject)
	items := convertAll(n.Children)
	rng := n.Subject.Range()
	for _, c := range items {
		rng = rng.Union(c.Range())
	}

	return &ListItem{
		base:   base{kind: ListItemKind, rng: rng},
		Marker: marker,
		Text:   newTextContent(string(joinSemanticText(rest)), n.Subject.Range()),
		Items:  items,
	}
}

func convertParagraph(n *grammar.Node) *Paragraph {
	lines := make([]*TextLine, 0, len(n.Lines))
	var rng token.Range
	for i := range n.Lines {
		line := n.Lines[i]
		lines = append(lines, &TextLine{
			base: base{kind: TextLineKind, rng: line.Range()},
			Text: textFromLine(line),
		})
		rng = rng.Union(line.Range())
	}

	return &Paragraph{base: base{kind: ParagraphKind, rng: rng}, Lines: lines}
}

func convertAnnotation(n *grammar.Node) *Annotation {
	items := convertAll(n.Children)
	rng := token.Range{}
	for _, c := range items {
		rng = rng.Union(c.Range())
	}
	var inline *TextContent
	if n.InlineLine != nil {
		tc := textFromLine(*n.InlineLine)
		inline = &tc
		rng = rng.Union(n.InlineLine.Range())
	}

	return &Annotation{
		base:   base{kind: AnnotationKind, rng: rng, label: n.Label},
		Params: convertParams(n.Params),
		Items:  items,
		Inline: inline,
	}
}

func convertVerbatim(n *grammar.Node) *Verbatim {
	first := n.Groups[0]
	rng := first.Subject.Range()
	content := joinLines(first.Content)
	for _, l := range first.Content {
		rng = rng.Union(l.Range())
	}

	var additional []VerbatimGroup
	for _, g := range n.Groups[1:] {
		var groupRng token.Range = g.Subject.Range()
		for _, l := range g.Content {
			groupRng = groupRng.Union(l.Range())
		}
		rng = rng.Union(groupRng)
		additional = append(additional, VerbatimGroup{
			Subject: textFromSubjectLine(g.Subject),
			Content: joinLines(g.Content),
			Range:   groupRng,
		})
	}

	var closing *Annotation
	if n.ClosingLine != nil {
		closing = &Annotation{
			base:   base{kind: AnnotationKind, rng: n.ClosingLine.Range(), label: n.ClosingLabel},
			Params: convertParams(n.ClosingParams),
		}
		rng = rng.Union(n.ClosingLine.Range())
	}

	return &Verbatim{
		base:             base{kind: VerbatimKind, rng: rng},
		Subject:          textFromSubjectLine(first.Subject),
		Content:          content,
		AdditionalGroups: additional,
		Closing:          closing,
	}
}

func convertParams(params []grammar.Param) []Param {
	if params == nil {
		return nil
	}
	out := make([]Param, len(params))
	for i, p := range params {
		out[i] = Param{Key: p.Key, Value: p.Value}
	}

	return out
}

// attachAnnotations runs the annotation attachment pass (§4.6): a
// free-standing Annotation immediately preceding a semantic container at
// the same position is moved into that container's Annotations field
// instead of remaining a sibling. Consecutive leading annotations each
// attach by their own label, one slot per label.
func attachAnnotations(items []Node) []Node {
	out := make([]Node, 0, len(items))
	var pending []*Annotation
	for _, item := range items {
		if ann, ok := item.(*Annotation); ok && len(ann.Items) == 0 && ann.Inline == nil {
			pending = append(pending, ann)

			continue
		}
		if attachTo(item, pending) {
			pending = nil
		} else {
			out = append(out, nodesOf(pending)...)
			pending = nil
		}
		out = append(out, item)
	}
	// Trailing annotations with no following container stay free-standing.
	out = append(out, nodesOf(pending)...)

	return out
}

func nodesOf(anns []*Annotation) []Node {
	out := make([]Node, len(anns))
	for i, a := range anns {
		out[i] = a
	}

	return out
}

// attachTo moves anns into n's Annotations field if n is an attachable
// container kind, and reports whether it did so.
func attachTo(n Node, anns []*Annotation) bool {
	if len(anns) == 0 {
		return true
	}
	switch t := n.(type) {
	case *Session:
		t.Annotations = append(t.Annotations, anns...)
	case *Definition:
		t.Annotations = append(t.Annotations, anns...)
	case *ListItem:
		t.Annotations = append(t.Annotations, anns...)
	default:
		return false
	}

	return true
}

// textFromLine concatenates a line's non-structural token text: leading
// indentation, line terminators, and blank-line tokens carry no semantic
// content and are dropped (§4.6).
func textFromLine(l classify.Line) TextContent {
	return newTextContent(string(joinSemanticText(l.Tokens)), l.Range())
}

// textFromSubjectLine is textFromLine with the trailing colon marker
// also dropped (§4.6: "the trailing colon of a subject").
func textFromSubjectLine(l classify.Line) TextContent {
	toks := stripStructural(l.Tokens)
	if n := len(toks); n > 0 && toks[n-1].Kind == token.Colon {
		toks = toks[:n-1]
	}

	return newTextContent(string(joinText(toks)), l.Range())
}

func stripStructural(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		switch t.Kind {
		case token.Indentation, token.Terminator, token.BlankLine:
			continue
		default:
			out = append(out, t)
		}
	}
	for len(out) > 0 && out[0].Kind == token.Whitespace {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1].Kind == token.Whitespace {
		out = out[:len(out)-1]
	}

	return out
}

func joinSemanticText(toks []token.Token) []byte {
	return joinText(stripStructural(toks))
}

func joinText(toks []token.Token) []byte {
	var out []byte
	for _, t := range toks {
		out = append(out, t.Text...)
	}

	return out
}

// joinLines concatenates every token's raw text across a run of lines,
// in order, reproducing the exact original bytes including line breaks
// (§4.5 "the raw tokens are preserved verbatim").
func joinLines(lines []classify.Line) []byte {
	var out []byte
	for _, l := range lines {
		for _, t := range l.Tokens {
			out = append(out, t.Text...)
		}
	}

	return out
}

// splitListMarker splits a list-item line into its marker text and the
// remaining body tokens, with a trailing colon (subject-or-list-item)
// dropped from the body (§3 "ListItem").
func splitListMarker(l classify.Line) (marker string, rest []token.Token) {
	toks := stripStructural(l.Tokens)
	i := 0
	markerEnd := 0
	wrapped := false
	if i < len(toks) && toks[i].Kind == token.ParenOpen {
		wrapped = true
		i++
	}
	switch {
	case i < len(toks) && toks[i].Kind == token.Dash:
		i++
	case i < len(toks) && (toks[i].Kind == token.Number || toks[i].Kind == token.Text):
		i++
		if i < len(toks) && (toks[i].Kind == token.Period || toks[i].Kind == token.ParenClose) {
			i++
		}
	}
	if wrapped && i < len(toks) && toks[i].Kind == token.ParenClose {
		i++
	}
	markerEnd = i
	if markerEnd < len(toks) && toks[markerEnd].Kind == token.Whitespace {
		markerEnd++
	}

	body := toks[markerEnd:]
	if n := len(body); n > 0 && body[n-1].Kind == token.Colon {
		body = body[:n-1]
	}

	return string(joinText(toks[:i])), body
}
