// Command concolicvm loads an assembler source file, runs it either
// concretely or concolically, and reports the outcome — the final
// program counter and, in concolic mode, the accumulated path
// condition. Grounded on as/main.go and dis/main.go's flag-based CLI
// shape.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dcrain/concolic/asm"
	"github.com/dcrain/concolic/concolic"
	"github.com/dcrain/concolic/interpreter"
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/memory"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
)

// inputSources accumulates repeated -input flags of the form
// "name=1,2,3" (or bare "1,2,3" for the default-named queue) into a
// map of named ir.InputSource instances the assembler binds
// get_input(name) expressions to.
type inputSources map[string]ir.InputSource

func (s inputSources) String() string {
	var parts []string
	for name := range s {
		parts = append(parts, name)
	}
	return strings.Join(parts, ",")
}

func (s inputSources) Set(value string) error {
	name := "default"
	values := value
	if idx := strings.IndexByte(value, '='); idx >= 0 {
		name = value[:idx]
		values = value[idx+1:]
	}

	var words []word.Word
	for _, field := range strings.Split(values, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid -input value %q: %w", field, err)
		}
		words = append(words, word.New(int(v)))
	}
	s[name] = ir.NewInputQueue(words...)
	return nil
}

func main() {
	inputFile := flag.String("i", "", "Input assembler source file")
	printStatements := flag.Bool("print", false, "Print each instruction as it executes")
	symbolic := flag.Bool("symbolic", false, "Run the concolic interpreter instead of the concrete one")
	strict := flag.Bool("strict-taint", false, "Use the strict tainted-address policy (address OR value tainted)")
	sources := inputSources{}
	flag.Var(sources, "input", `named input queue, "name=1,2,3" (name defaults to "default")`)
	flag.Parse()

	if *inputFile == "" {
		fmt.Println("Error: -i is required")
		flag.Usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("reading input file: %v", err)
	}

	prog, err := asm.Parse(string(source), sources)
	if err != nil {
		log.Fatalf("assembling %s: %v", *inputFile, err)
	}

	policy := vmcontext.TaintPolicy(vmcontext.NewDefaultTaintPolicy())
	if *strict {
		policy = vmcontext.NewStrictTaintedAddressPolicy()
	}
	handler := vmcontext.TaintCheckHandler(vmcontext.DefaultTaintCheckHandler{})

	ctx := vmcontext.NewContext(memory.New(0), prog)

	if *symbolic {
		engine := concolic.New(policy, handler, *printStatements)
		ctx, err = engine.Run(ctx)
		report(ctx, err)
		fmt.Printf("constraints: %s\n", engine.Constraints())
		return
	}

	engine := interpreter.New(policy, handler, *printStatements)
	ctx, err = engine.Run(ctx)
	report(ctx, err)
}

func report(ctx *vmcontext.Context, err error) {
	if err != nil {
		if errors.Is(err, vmcontext.ErrAttack) {
			fmt.Printf("attack detected: %v\n", err)
			os.Exit(2)
		}
		log.Fatalf("run failed at pc %s: %v", ctx.PC, err)
	}
	fmt.Printf("halted at pc %s\n", ctx.PC)
}
