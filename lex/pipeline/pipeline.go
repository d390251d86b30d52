// Package pipeline implements §6's "Named pipeline configurations":
// composable, type-checked stage chaining plus a small registry of
// named configurations, each specifying which stages run and what they
// produce. Output serializers (Markdown, visual-tree, tag, DOM-viz) are
// out of scope (§1 Non-goals, §13); the lex-to-tag and lex-to-treeviz
// configurations stop at the AST and expose a Serializer hook an
// external collaborator supplies, rather than rendering anything
// themselves.
package pipeline

import (
	"github.com/lex-fmt/core-sub003/lex/ast"
	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/grammar"
	"github.com/lex-fmt/core-sub003/lex/indent"
	"github.com/lex-fmt/core-sub003/lex/lexer"
	"github.com/lex-fmt/core-sub003/lex/linetree"
	"github.com/lex-fmt/core-sub003/lex/token"
)

// Stage is a single pipeline transformation from I to O. Composing two
// stages is type-checked at build time: Compose only accepts a Stage[I,M]
// and a Stage[M,O] sharing the same middle type M (§6 "stage composition
// is type-checked at build time").
type Stage[I, O any] func(I) (O, error)

// Compose chains a and b into a single stage from I to O.
func Compose[I, M, O any](a Stage[I, M], b Stage[M, O]) Stage[I, O] {
	return func(in I) (O, error) {
		mid, err := a(in)
		if err != nil {
			var zero O

			return zero, err
		}

		return b(mid)
	}
}

// Tokenize, Indentation, Classify, LineTree, Grammar, and ASTBuild are the
// six raw stage values the named configurations below are built from; callers
// may also compose them directly into custom pipelines.
var (
	Tokenize Stage[[]byte, []token.Token] = func(src []byte) ([]token.Token, error) {
		return lexer.Tokenize(src), nil
	}
	Indentation Stage[[]token.Token, []token.Token] = indent.Run
	Classify    Stage[[]token.Token, []classify.Line] = func(toks []token.Token) ([]classify.Line, error) {
		return classify.Run(toks), nil
	}
	LineTree Stage[[]classify.Line, *linetree.Node] = func(lines []classify.Line) (*linetree.Node, error) {
		root := linetree.Build(lines)
		linetree.InsertDocumentStart(root)

		return root, nil
	}
	Grammar Stage[*linetree.Node, []*grammar.Node] = func(root *linetree.Node) ([]*grammar.Node, error) {
		return grammar.Parse(root), nil
	}
	ASTBuild Stage[[]*grammar.Node, *ast.Document] = func(nodes []*grammar.Node) (*ast.Document, error) {
		return ast.Build(nodes), nil
	}
)

var (
	tokensRaw         = Tokenize
	tokensIndentation = Compose(Tokenize, Indentation)
	tokensLineFlat    = Compose(tokensIndentation, Classify)
	tokensLineTree    = Compose(tokensLineFlat, LineTree)
	toDocument        = Compose(Compose(tokensLineTree, Grammar), ASTBuild)
)

// Serializer renders an AST to a target format. The core has none built
// in (§1 Non-goals); lex-to-tag and lex-to-treeviz configurations carry
// a nil Serializer until an external collaborator supplies one.
type Serializer func(*ast.Document) (string, error)

// Config is one named pipeline configuration (§6).
type Config struct {
	Name string
	// Run executes the configuration's stage chain over source bytes.
	Run func(source []byte) (any, error)
	// Serializer is nil in every registered configuration: the core ships
	// no serializer implementations. lex-to-tag and lex-to-treeviz name
	// the slot a caller fills in.
	Serializer Serializer
}

// Configs is the registry named in §6's table.
var Configs = map[string]Config{
	"default": {
		Name: "default",
		Run: func(src []byte) (any, error) {
			return toDocument(src)
		},
	},
	"tokens-raw": {
		Name: "tokens-raw",
		Run: func(src []byte) (any, error) {
			return tokensRaw(src)
		},
	},
	"tokens-indentation": {
		Name: "tokens-indentation",
		Run: func(src []byte) (any, error) {
			return tokensIndentation(src)
		},
	},
	"tokens-linebased-flat": {
		Name: "tokens-linebased-flat",
		Run: func(src []byte) (any, error) {
			return tokensLineFlat(src)
		},
	},
	"tokens-linebased-tree": {
		Name: "tokens-linebased-tree",
		Run: func(src []byte) (any, error) {
			return tokensLineTree(src)
		},
	},
	"lex-to-tag": {
		Name: "lex-to-tag",
		Run: func(src []byte) (any, error) {
			return toDocument(src)
		},
	},
	"lex-to-treeviz": {
		Name: "lex-to-treeviz",
		Run: func(src []byte) (any, error) {
			return toDocument(src)
		},
	},
}
