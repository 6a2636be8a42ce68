package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"bintpl/lexer"
	"bintpl/parser"
)

// dumpASTCmd implements the "dump-ast" subcommand: lex and parse a
// template, printing its AST as JSON without evaluating it.
type dumpASTCmd struct {
	outPath string
}

func (*dumpASTCmd) Name() string     { return "dump-ast" }
func (*dumpASTCmd) Synopsis() string { return "Parse a template and print its AST as JSON" }
func (*dumpASTCmd) Usage() string {
	return `dump-ast [-out <file>] <template.bt>:
  Parse (but do not evaluate) a template, printing its AST as JSON.
`
}

func (d *dumpASTCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.outPath, "out", "", "write the AST JSON to this file instead of stdout")
}

func (d *dumpASTCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 usage: dump-ast <template.bt>\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read template: %v\n", err)
		return subcommands.ExitFailure
	}

	toks, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	p := parser.New(toks)
	stmts, err := p.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	if d.outPath != "" {
		if err := p.PrintToFile(stmts, d.outPath); err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to write AST: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	p.Print(stmts)
	return subcommands.ExitSuccess
}
