package grammar

import (
	"strings"

	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/token"
)

// parseAnnotationHeader parses a classified annotation line's tokens into a
// label, an ordered parameter list, and any trailing inline content after
// the closing marker (§4.6 "Annotation header"). Values are reconstructed
// by concatenating each token's raw Text rather than re-joining trimmed
// strings with a single space, so a quoted value ("in progress") is kept
// byte-for-byte, surrounding quotes and internal whitespace included.
func parseAnnotationHeader(tokens []token.Token) (label string, params []Param, inline *classify.Line) {
	first, second := markerIndices(tokens)
	if first == -1 || second == -1 {
		return "", nil, nil
	}

	header := trimWhitespace(tokens[first+1 : second])
	for _, span := range splitTopLevel(header, token.Comma) {
		span = trimWhitespace(span)
		if len(span) == 0 {
			continue
		}
		if eq := topLevelEquals(span); eq != -1 {
			keyToks := trimWhitespace(span[:eq])
			// A label written before the first parameter ("note severity=high")
			// is separated from that parameter's key by whitespace.
			if label == "" && len(params) == 0 {
				for k := len(keyToks) - 1; k > 0; k-- {
					if keyToks[k].Kind == token.Whitespace {
						label = string(joinText(trimWhitespace(keyToks[:k])))
						keyToks = keyToks[k+1:]

						break
					}
				}
			}
			key := string(joinText(keyToks))
			valueToks := trimWhitespace(span[eq+1:])
			params = append(params, Param{Key: key, Value: string(joinText(valueToks))})

			continue
		}
		if label == "" {
			label = string(joinText(span))
		}
	}

	trailing := trimWhitespace(tokens[second+1:])
	trailing = stripTerminator(trailing)
	if len(trailing) > 0 {
		inline = &classify.Line{Tokens: trailing, Type: classify.Paragraph}
	}

	return label, params, inline
}

// markerIndices returns the token indices of the first two LexMarker
// tokens in tokens, or -1 for either that is missing.
func markerIndices(tokens []token.Token) (first, second int) {
	first, second = -1, -1
	for i, t := range tokens {
		if t.Kind != token.LexMarker {
			continue
		}
		if first == -1 {
			first = i

			continue
		}
		second = i

		break
	}

	return first, second
}

func trimWhitespace(toks []token.Token) []token.Token {
	i, j := 0, len(toks)
	for i < j && isSkippable(toks[i]) {
		i++
	}
	for j > i && isSkippable(toks[j-1]) {
		j--
	}

	return toks[i:j]
}

func isSkippable(t token.Token) bool {
	return t.Kind == token.Whitespace || t.Kind == token.Indentation
}

func stripTerminator(toks []token.Token) []token.Token {
	j := len(toks)
	for j > 0 && (toks[j-1].Kind == token.Terminator || toks[j-1].Kind == token.BlankLine) {
		j--
	}

	return toks[:j]
}

// splitTopLevel splits toks on every occurrence of kind, outside of a
// quoted span.
func splitTopLevel(toks []token.Token, kind token.Kind) [][]token.Token {
	var out [][]token.Token
	inQuote := false
	start := 0
	for i, t := range toks {
		if t.Kind == token.Quote {
			inQuote = !inQuote

			continue
		}
		if !inQuote && t.Kind == kind {
			out = append(out, toks[start:i])
			start = i + 1
		}
	}
	out = append(out, toks[start:])

	return out
}

// topLevelEquals returns the index of an Equals token outside any quoted
// span, or -1.
func topLevelEquals(toks []token.Token) int {
	inQuote := false
	for i, t := range toks {
		if t.Kind == token.Quote {
			inQuote = !inQuote

			continue
		}
		if !inQuote && t.Kind == token.Equals {
			return i
		}
	}

	return -1
}

// unquote strips one leading and one trailing Quote token, if both are
// present, and returns the raw text of what remains.
func unquote(toks []token.Token) []byte {
	if len(toks) >= 2 && toks[0].Kind == token.Quote && toks[len(toks)-1].Kind == token.Quote {
		return joinText(toks[1 : len(toks)-1])
	}

	return joinText(toks)
}

// joinText concatenates each token's raw Text in order. Because tokens are
// produced by scanning contiguous source bytes, this reproduces the exact
// original bytes spanned by toks, including any internal whitespace.
func joinText(toks []token.Token) []byte {
	var b strings.Builder
	for _, t := range toks {
		b.Write(t.Text)
	}

	return []byte(b.String())
}
