package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"bintpl/format"
	"bintpl/interpreter"
	"bintpl/reader"
)

// runCmd implements the "run" subcommand: evaluate a template against
// a binary file and print the resulting BTEntry tree.
type runCmd struct {
	quiet bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Evaluate a template against a binary file" }
func (*runCmd) Usage() string {
	return `run <template.bt> <file>:
  Evaluate the template, then print the located BTEntry tree for the file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.quiet, "quiet", false, "suppress the BTEntry tree, only show Printf/Warning output")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "💥 usage: run <template.bt> <file>\n")
		return subcommands.ExitUsageError
	}
	templatePath, filePath := args[0], args[1]

	src, err := os.ReadFile(templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read template: %v\n", err)
		return subcommands.ExitFailure
	}

	fileSrc, err := reader.NewFileSource(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to open file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer fileSrc.Close()

	var out bytes.Buffer
	interp, err := interpreter.New(fileSrc, &out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to initialize interpreter: %v\n", err)
		return subcommands.ExitFailure
	}

	if evalErr := interp.Evaluate(string(src)); evalErr != nil {
		fmt.Fprint(os.Stdout, out.String())
		fmt.Fprintf(os.Stderr, "%v\n", evalErr)
		return subcommands.ExitFailure
	}

	fmt.Fprint(os.Stdout, out.String())
	if !r.quiet {
		for _, entry := range format.Build(interp) {
			printEntry(os.Stdout, entry, 0)
		}
	}
	return subcommands.ExitSuccess
}

func printEntry(w io.Writer, e *format.BTEntry, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%s = %v  @ offset=%d size=%d\n", indent, e.Name, e.Value, e.Location.Offset, e.Location.Size)
	for _, child := range e.Children {
		printEntry(w, child, depth+1)
	}
}
