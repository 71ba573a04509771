// Package repl implements the interactive line-editor shell: a
// bubbletea.Model with an input line (bubbles/textinput), a scrolling scale
// table, and an error banner, styled with lipgloss the same way the
// teacher's internal/project.ProjectSelector and internal/views screens are
// each one tea.Model with a handful of lipgloss.Style constants.
package repl

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/sonicweave-lang/sonicweave/internal/context"
	"github.com/sonicweave-lang/sonicweave/internal/eval"
	"github.com/sonicweave-lang/sonicweave/internal/parser"
	"github.com/sonicweave-lang/sonicweave/internal/stdlib"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(4)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the REPL's tea.Model: one persistent Interp/Env evaluating a
// history of lines, each line's resulting scale redrawn in full.
type Model struct {
	input   textinput.Model
	history []string
	lastErr string

	env     *eval.Env
	interp  *eval.Interp
	profile termenv.Profile

	width, height int
	quitting      bool
}

// New constructs a REPL model with a fresh Context/Env seeded by
// internal/stdlib's builtins and prelude.
func New() (*Model, error) {
	ctx := context.New()
	env, interp, err := stdlib.Install(ctx)
	if err != nil {
		return nil, fmt.Errorf("repl: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "5/4"
	ti.Focus()
	ti.Prompt = "sonicweave> "

	return &Model{
		input:   ti,
		env:     env,
		interp:  interp,
		profile: termenv.EnvColorProfile(),
	}, nil
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.history = append(m.history, line)
			m.lastErr = ""
			if err := m.evalLine(line); err != nil {
				m.lastErr = err.Error()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evalLine parses and runs one line of input against the REPL's persistent
// environment, so a "let" declaration or pitch statement on one line is
// visible to every line after it.
func (m *Model) evalLine(line string) error {
	prog, err := parser.Parse(line)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return m.interp.RunProgram(prog, m.env)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sonicweave"))
	b.WriteString("\n\n")
	b.WriteString(m.renderScale())
	b.WriteString("\n")
	if m.lastErr != "" {
		b.WriteString(errorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: evaluate  •  esc/ctrl+c: quit"))
	return b.String()
}

// renderScale draws the current top-level scale ($), one row per degree,
// coloring each row by the interval's Color when one is set (spec 3.5's
// Scale Workshop color notation), falling back to the profile's default.
func (m *Model) renderScale() string {
	if len(m.interp.Scale) == 0 {
		return helpStyle.Render("(empty scale)")
	}
	var rows []string
	for i, v := range m.interp.Scale {
		iv, ok := v.(value.Interval)
		if !ok {
			rows = append(rows, fmt.Sprintf("%s %v", indexStyle.Render(fmt.Sprintf("%d.", i)), v))
			continue
		}
		rows = append(rows, m.renderDegree(i, iv))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderDegree(i int, iv value.Interval) string {
	text := iv.String()
	idx := indexStyle.Render(fmt.Sprintf("%d.", i))
	if iv.Color == nil || iv.Color.IsNiente() {
		return idx + " " + text
	}
	c, err := colorful.Hex(iv.Color.Raw)
	if err != nil {
		return idx + " " + text
	}
	styled := termenv.String(text).Foreground(m.profile.Color(c.Hex())).String()
	return idx + " " + styled
}

// Run starts the bubbletea program in the alt screen, mirroring the
// teacher's project.RunProjectSelector.
func Run() error {
	m, err := New()
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
