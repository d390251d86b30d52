package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/lex-fmt/core-sub003/lex/ast"
	"github.com/lex-fmt/core-sub003/lex/linetree"
	"github.com/lex-fmt/core-sub003/lex/pipeline"
	"github.com/lex-fmt/core-sub003/lex/query"
	"github.com/lex-fmt/core-sub003/lexerr"
)

func readSource(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return data, nil
}

func buildDocument(fs afero.Fs, path string) (*ast.Document, error) {
	src, err := readSource(fs, path)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.Configs["default"].Run(src)
	if err != nil {
		return nil, &lexerr.StageError{Stage: "default", Err: err}
	}
	doc, ok := result.(*ast.Document)
	if !ok {
		return nil, fmt.Errorf("pipeline %q did not produce a Document", "default")
	}

	return doc, nil
}

// ParseCmd runs the default pipeline and prints a summary of the AST.
type ParseCmd struct {
	Path string `arg:"" help:"Path to the source document" type:"path"`
}

func (c *ParseCmd) Run(env *Env) error {
	doc, err := buildDocument(env.FS, c.Path)
	if err != nil {
		return err
	}
	printTree(env, doc, 0)

	return nil
}

func printTree(env *Env, n ast.Node, depth int) {
	if n == nil {
		return
	}
	r := n.Range()
	indent := strings.Repeat("  ", depth)
	if n.Label() != "" {
		fmt.Fprintf(env.Stdout, "%s%s %d..%d %q\n", indent, n.Kind(), r.Start, r.End, n.Label())
	} else {
		fmt.Fprintf(env.Stdout, "%s%s %d..%d\n", indent, n.Kind(), r.Start, r.End)
	}
	for _, c := range n.Children() {
		printTree(env, c, depth+1)
	}
}

// TokensCmd dumps one named pipeline stage (§6).
type TokensCmd struct {
	Path  string `arg:"" help:"Path to the source document" type:"path"`
	Stage string `help:"Named pipeline configuration to run" default:"tokens-raw"`
}

func (c *TokensCmd) Run(env *Env) error {
	cfg, ok := pipeline.Configs[c.Stage]
	if !ok {
		return fmt.Errorf("unknown pipeline stage %q", c.Stage)
	}
	src, err := readSource(env.FS, c.Path)
	if err != nil {
		return err
	}
	result, err := cfg.Run(src)
	if err != nil {
		return &lexerr.StageError{Stage: c.Stage, Err: err}
	}
	fmt.Fprintf(env.Stdout, "%+v\n", result)

	return nil
}

// TreeCmd prints the line-container tree produced before grammar
// matching runs, for debugging the indentation/classification passes.
type TreeCmd struct {
	Path string `arg:"" help:"Path to the source document" type:"path"`
}

func (c *TreeCmd) Run(env *Env) error {
	src, err := readSource(env.FS, c.Path)
	if err != nil {
		return err
	}
	result, err := pipeline.Configs["tokens-linebased-tree"].Run(src)
	if err != nil {
		return &lexerr.StageError{Stage: "tokens-linebased-tree", Err: err}
	}
	root, ok := result.(*linetree.Node)
	if !ok {
		return fmt.Errorf("unexpected result type for tokens-linebased-tree")
	}
	printLineTree(env, root, 0)

	return nil
}

func printLineTree(env *Env, n *linetree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsLeaf() {
		fmt.Fprintf(env.Stdout, "%s%s %d..%d\n", indent, n.Line.Type, n.Line.Range().Start, n.Line.Range().End)

		return
	}
	fmt.Fprintf(env.Stdout, "%scontainer\n", indent)
	for _, c := range n.Children {
		printLineTree(env, c, depth+1)
	}
}

// LinksCmd lists every discovered URL, file-path, and verbatim-src
// reference (§4.8 "Link discovery").
type LinksCmd struct {
	Path string `arg:"" help:"Path to the source document" type:"path"`
}

func (c *LinksCmd) Run(env *Env) error {
	doc, err := buildDocument(env.FS, c.Path)
	if err != nil {
		return err
	}
	for _, l := range query.DiscoverLinks(doc) {
		fmt.Fprintf(env.Stdout, "%d..%d %s\n", l.Range.Start, l.Range.End, l.Value)
	}

	return nil
}

// DiagnoseCmd prints post-parse diagnostics and exits non-zero once the
// worst severity reaches the configured failure threshold.
type DiagnoseCmd struct {
	Path string `arg:"" help:"Path to the source document" type:"path"`
}

func (c *DiagnoseCmd) Run(env *Env) error {
	doc, err := buildDocument(env.FS, c.Path)
	if err != nil {
		return err
	}
	diags := query.Diagnostics(doc)
	printer := NewDiagnosticPrinter(env.Stdout)
	printer.PrintAll(diags)

	threshold := lexerr.Structural
	if env.Config != nil {
		threshold = env.Config.FailSeverity()
	}

	var result *multierror.Error
	for _, d := range diags {
		if d.Severity >= threshold {
			result = multierror.Append(result, errors.New(d.String()))
		}
	}

	return result.ErrorOrNil()
}
