// Command inspect is an interactive step-through TUI over a loaded
// program: one instruction panel, one panel holding variables and the
// memory summary, and (in -symbolic mode) a path-condition panel. Grounded on
// monitor/main.go's bubbletea Model/Update/View structure, trimmed to
// the panels this domain needs.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dcrain/concolic/asm"
	"github.com/dcrain/concolic/concolic"
	"github.com/dcrain/concolic/interpreter"
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/memory"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
)

// stepper is satisfied by both interpreter.Interpreter and
// concolic.Interpreter; the inspector doesn't care which one is
// driving ctx.
type stepper interface {
	Step(ctx *vmcontext.Context) (ir.Instr, bool, error)
}

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	attack    = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Foreground(highlight).Padding(0, 1)

	progStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(46)

	stateStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(40)

	currentLineStyle = lipgloss.NewStyle().Background(highlight).Foreground(lipgloss.Color("#ffffff"))
	taintedStyle     = lipgloss.NewStyle().Foreground(attack).Bold(true)
)

type model struct {
	ctx     *vmcontext.Context
	prog    *vmcontext.Program
	engine  stepper
	pathFn  func() string // nil in concrete mode

	halted bool
	lastErr error

	width, height int
	gotoInput     textinput.Model
	showingGoto   bool
}

func newModel(ctx *vmcontext.Context, prog *vmcontext.Program, engine stepper, pathFn func() string) model {
	ti := textinput.New()
	ti.Placeholder = "instruction index"
	ti.CharLimit = 6
	ti.Width = 10
	return model{ctx: ctx, prog: prog, engine: engine, pathFn: pathFn, gotoInput: ti}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if idx, err := strconv.Atoi(m.gotoInput.Value()); err == nil {
					m.ctx.PC = word.New(idx)
					m.halted = false
					m.lastErr = nil
				}
				m.showingGoto = false
				return m, nil
			case tea.KeyEsc:
				m.showingGoto = false
				return m, nil
			}
			var cmd tea.Cmd
			m.gotoInput, cmd = m.gotoInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if !m.halted {
				_, ok, err := m.engine.Step(m.ctx)
				if err != nil {
					m.lastErr = err
					m.halted = true
				} else if !ok {
					m.halted = true
				}
			}
		case "r":
			for !m.halted {
				_, ok, err := m.engine.Step(m.ctx)
				if err != nil {
					m.lastErr = err
					m.halted = true
				} else if !ok {
					m.halted = true
				}
			}
		case "g":
			m.showingGoto = true
			m.gotoInput.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m model) View() string {
	prog := progStyle.Render(fmt.Sprintf("Program\n\n%s", m.formatProgram()))
	state := stateStyle.Render(fmt.Sprintf(
		"Variables\n\n%s\nMemory\n\n%s",
		m.formatVars(), m.formatMemory(),
	))

	var blocks []string
	blocks = append(blocks, prog, state)
	if m.pathFn != nil {
		blocks = append(blocks, stateStyle.Render(fmt.Sprintf("Path condition\n\n%s", m.pathFn())))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)

	status := fmt.Sprintf("pc: %s", m.ctx.PC)
	if m.halted {
		status += "  (halted)"
	}
	if m.lastErr != nil {
		status += "  error: " + m.lastErr.Error()
	}

	help := titleStyle.Render("s: step • r: run to completion • g: goto instruction • q: quit")

	out := lipgloss.JoinVertical(lipgloss.Left, content, titleStyle.Render(status), help)

	if m.showingGoto {
		dialog := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1).Width(30).Render(
			"Jump to instruction index:\n\n" + m.gotoInput.View(),
		)
		return lipgloss.JoinVertical(lipgloss.Center, out, dialog)
	}
	return out
}

func (m model) formatProgram() string {
	var b strings.Builder
	for i := 0; i < m.prog.Len(); i++ {
		instr, _ := m.prog.Fetch(word.New(i))
		line := fmt.Sprintf("%4d  %s", i, instr)
		if word.New(i) == m.ctx.PC {
			line = currentLineStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) formatVars() string {
	names := make([]string, 0, len(m.ctx.Vars))
	for name := range m.ctx.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		val := m.ctx.Vars[name]
		line := fmt.Sprintf("%s = %s", name, val)
		if v, ok := val.(ir.ValueExpr); ok && v.Value.Tainted {
			line = taintedStyle.Render(line + " [tainted]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(names) == 0 {
		b.WriteString("(none)\n")
	}
	return b.String()
}

func (m model) formatMemory() string {
	if m.ctx.Mem.PageCount() == 0 {
		return "(no pages resident)\n"
	}
	return fmt.Sprintf("%d page(s) resident, page size %d\n", m.ctx.Mem.PageCount(), m.ctx.Mem.PageSize())
}

func main() {
	inputFile := flag.String("i", "", "Input assembler source file")
	symbolic := flag.Bool("symbolic", false, "Step the concolic interpreter instead of the concrete one")
	flag.Parse()

	if *inputFile == "" {
		fmt.Println("Error: -i is required")
		flag.Usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(*inputFile)
	if err != nil {
		fmt.Printf("Error reading input file: %v\n", err)
		os.Exit(1)
	}

	prog, err := asm.Parse(string(source), nil)
	if err != nil {
		fmt.Printf("Error assembling %s: %v\n", *inputFile, err)
		os.Exit(1)
	}

	ctx := vmcontext.NewContext(memory.New(0), prog)
	policy := vmcontext.NewDefaultTaintPolicy()
	handler := vmcontext.DefaultTaintCheckHandler{}

	var m model
	if *symbolic {
		engine := concolic.New(policy, handler, false)
		m = newModel(ctx, prog, engine, func() string { return engine.Constraints().String() })
	} else {
		engine := interpreter.New(policy, handler, false)
		m = newModel(ctx, prog, engine, nil)
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
