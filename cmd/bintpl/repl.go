package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"bintpl/format"
	"bintpl/interpreter"
	"bintpl/reader"
)

// replCmd implements the "repl" subcommand: an interactive session
// that accumulates template source line by line against an optional
// backing file, printing the BTEntry tree built so far after each line.
type replCmd struct {
	filePath string
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive template session" }
func (*replCmd) Usage() string {
	return `repl [-file <binary>]:
  Start an interactive session. Each line is parsed and evaluated
  against the accumulated source so far.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.filePath, "file", "", "binary file to interpret against (defaults to an empty buffer)")
}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var src reader.Source
	if r.filePath != "" {
		fileSrc, err := reader.NewFileSource(r.filePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to open file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer fileSrc.Close()
		src = fileSrc
	} else {
		src = reader.NewBytesSource(nil)
	}

	rl, err := readline.New("bt> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("bintpl interactive session. Ctrl-D to exit.")
	runREPL(rl, src, os.Stdout)
	return subcommands.ExitSuccess
}

// runREPL implements the accumulate-and-reevaluate loop: each accepted
// line is appended to the running source, then the whole thing is
// re-evaluated from scratch against a fresh Interpreter, so that later
// lines can reference earlier declarations without the REPL having to
// track incremental scope state itself.
func runREPL(rl *readline.Instance, src reader.Source, out io.Writer) {
	var accumulated string
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		candidate := accumulated + line + "\n"
		interp, ierr := interpreter.New(src, out)
		if ierr != nil {
			fmt.Fprintln(out, ierr)
			continue
		}
		if evalErr := interp.Evaluate(candidate); evalErr != nil {
			fmt.Fprintln(out, evalErr)
			continue
		}
		accumulated = candidate

		for _, entry := range format.Build(interp) {
			printEntry(out, entry, 0)
		}
	}
}
