// Command mathvm is a one-shot expression evaluator: one expression in
// via -e, one result stack out, exit. Not a REPL — no command dispatch,
// no interactive prompt, no help subsystem.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/candycode/micromath/catalog"
	"github.com/candycode/micromath/internal/compiler"
	"github.com/candycode/micromath/internal/mmerr"
	"github.com/candycode/micromath/internal/obslog"
	"github.com/candycode/micromath/internal/parser"
	"github.com/candycode/micromath/internal/vm"
)

const version = "0.1.0"

// procFlag allows setting -proc multiple times to register several
// user-defined procedures before evaluating -e, as in
// -proc "area(r)=Pi*r^2" -proc "double(x)=2*x".
type procFlag []string

func (f *procFlag) String() string { return fmt.Sprint(*f) }

func (f *procFlag) Set(val string) error {
	*f = append(*f, val)
	return nil
}

func main() {
	var (
		expr       = flag.String("e", "", "expression to evaluate (required)")
		verbose    = flag.Bool("v", false, "trace pipeline stages to stderr")
		swapArgs   = flag.Bool("swap-args", false, "reverse function-call argument order during postfix conversion")
		countArgs  = flag.Bool("count-args", true, "resolve function/operator overloads by declared arity")
		createVars = flag.Bool("create-vars", true, "auto-declare unresolved identifiers as new variables")
		showVer    = flag.Bool("version", false, "print version and exit")
		procs      procFlag
	)
	flag.Var(&procs, "proc", `define a procedure as "name(params)=body" (e.g. "area(r)=Pi*r^2"); may be repeated`)
	flag.Parse()

	if *showVer {
		fmt.Println("mathvm", version)
		return
	}
	if *expr == "" {
		fmt.Fprintln(os.Stderr, "mathvm: -e <expression> is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*expr, *verbose, *swapArgs, *countArgs, *createVars, procs); err != nil {
		fmt.Fprintln(os.Stderr, "mathvm:", err)
		os.Exit(1)
	}
}

func run(expr string, verbose, swapArgs, countArgs, createVars bool, procs []string) error {
	log := obslog.New(verbose, "mathvm")

	env := catalog.Default()
	for _, def := range procs {
		if err := catalog.ParseProcedureDef(env, def); err != nil {
			return fmt.Errorf("procedure definition: %w", err)
		}
	}

	p := parser.New(catalog.Operators(), swapArgs, countArgs, verbose, log)

	toks, err := p.Parse(expr)
	if err != nil {
		return explain(err)
	}

	prog, err := compiler.Compile(toks, env, compiler.Config{CountArgs: countArgs, CreateVars: createVars})
	if err != nil {
		return explain(err)
	}
	log.Debugf("program %s: %d instructions", prog.ID, len(prog.Code))

	m := vm.New(env, log)
	result, err := m.Run(prog)
	if err != nil {
		return explain(err)
	}

	printStack(result)
	return nil
}

// printStack renders the VM's final stack, one value per line, trimming
// trailing zeros the way a human expects a calculator to, and colorizing
// the values when stdout is a terminal.
func printStack(values []float64) {
	colorize := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	for _, v := range values {
		text := humanize.Ftoa(v)
		if colorize {
			fmt.Println("\033[32m" + text + "\033[0m")
		} else {
			fmt.Println(text)
		}
	}
}

// explain unwraps an mmerr.Error so the CLI reports component, kind and
// offending fragment instead of a flat error string.
func explain(err error) error {
	if e, ok := err.(*mmerr.Error); ok {
		return fmt.Errorf("%s: %s at offset %d (%q)", e.Component, e.Kind, e.Pos.Offset, e.Context)
	}
	return err
}
