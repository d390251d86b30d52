// Command lexfmt is a CLI front-end exercising the Lex parsing pipeline:
// parsing a document, dumping intermediate pipeline stages, running
// post-parse queries, and watching a file for re-parses on change.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/lex-fmt/core-sub003/lexconfig"
)

// CLI is the root command structure for kong (§11).
type CLI struct {
	// Verbose reports a failed lex.yaml load on stderr before the CLI
	// falls back to defaults; the subcommands do not read it.
	Verbose bool `help:"Enable verbose output" short:"v"`

	Parse    ParseCmd    `cmd:"" help:"Parse a document and print an AST summary"`
	Tokens   TokensCmd   `cmd:"" help:"Dump a named pipeline stage"`
	Tree     TreeCmd     `cmd:"" help:"Print the line-container tree"`
	Links    LinksCmd    `cmd:"" help:"List discovered links and references"`
	Diagnose DiagnoseCmd `cmd:"" help:"Print post-parse diagnostics"`
	Watch    WatchCmd    `cmd:"" help:"Re-parse and re-print diagnostics on file change"`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("lexfmt"),
		kong.Description("Lex document parser and diagnostics CLI"),
		kong.UsageOnError(),
	)

	fs := afero.NewOsFs()
	cfg, err := lexconfig.Load(fs, ".")
	if err != nil {
		if cli.Verbose {
			fmt.Fprintf(os.Stderr, "lexconfig: %v (using defaults)\n", err)
		}
		cfg = nil
	}

	env := &Env{FS: fs, Config: cfg, Stdout: os.Stdout, Stderr: os.Stderr}
	err = ctx.Run(env)
	ctx.FatalIfErrorf(err)
}

// Env is the dependency bundle every subcommand's Run method receives,
// mirroring the teacher's pattern of threading an afero.Fs through
// file-touching commands. Source files are read through FS; watch also
// stats and watches the file on the real filesystem via os and fsnotify.
type Env struct {
	FS     afero.Fs
	Config *lexconfig.Config
	Stdout *os.File
	Stderr *os.File
}
