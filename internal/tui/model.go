// Package tui is the interactive terminal calculator.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lemonberrylabs/quickcalc/pkg/expr"
	"github.com/lemonberrylabs/quickcalc/pkg/format"
	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/pkg/theme"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

const toastDuration = 1500 * time.Millisecond

// Options configure a new Model.
type Options struct {
	// Store receives every result confirmed with Enter. May be nil.
	Store store.Store
	// Preference is the initial theme preference.
	Preference theme.Preference
	// Palette pins a palette id; empty follows the resolved mode.
	Palette string
	// SystemDark reports whether the terminal background is dark.
	SystemDark bool
	// Copy writes text to the clipboard. Defaults to the system clipboard.
	Copy func(string) error
}

type clearToastMsg struct{ id int }

// Model is the calculator TUI model.
type Model struct {
	input textinput.Model
	store store.Store
	copy  func(string) error

	pref       theme.Preference
	paletteID  string
	systemDark bool
	styles     styles

	value float64
	ok    bool
	kind  types.ErrorKind

	showGuide bool
	toast     string
	toastID   int
	width     int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "2(3+4), 45% of 120, sqrt(16)..."
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Focus()

	m := Model{
		input:      ti,
		store:      opts.Store,
		copy:       opts.Copy,
		pref:       opts.Preference,
		paletteID:  opts.Palette,
		systemDark: opts.SystemDark,
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	if m.pref == "" {
		m.pref = theme.PreferSystem
	}
	m.applyTheme()
	return m
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) applyTheme() {
	p := theme.ForMode(m.mode())
	if pinned, ok := theme.Lookup(m.paletteID); ok {
		p = pinned
	}
	m.styles = newStyles(p)
	m.input.PromptStyle = m.styles.Prompt
}

func (m Model) mode() theme.Mode {
	return m.pref.Resolve(m.systemDark)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.showGuide {
				m.showGuide = false
				return m, nil
			}
			m.input.Reset()
			m.evaluate()
			return m, nil

		case "?":
			if m.showGuide || m.input.Value() == "" {
				m.showGuide = !m.showGuide
				return m, nil
			}

		case "ctrl+t":
			m.pref = m.pref.Next(m.mode())
			m.applyTheme()
			return m, m.flash("Theme: " + m.pref.Label())

		case "enter":
			if m.showGuide {
				return m, nil
			}
			return m, m.confirm()
		}

		if m.showGuide {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.evaluate()
	return m, cmd
}

// evaluate refreshes the live result from the current input.
func (m *Model) evaluate() {
	m.ok, m.kind, m.value = false, "", 0
	if expr.Normalize(m.input.Value()) == "" {
		return
	}
	v, err := expr.Evaluate(m.input.Value())
	if err != nil {
		m.kind = types.KindOf(err)
		return
	}
	m.value, m.ok = v, true
}

// confirm copies the current result and records it in history.
func (m *Model) confirm() tea.Cmd {
	if !m.ok {
		return nil
	}
	if m.store != nil {
		r := types.NewResult(m.input.Value(), m.value, format.Result(m.value), nil)
		if _, err := m.store.Add(context.Background(), r); err != nil {
			return m.flash("History: " + err.Error())
		}
	}
	if err := m.copy(format.Plain(m.value)); err != nil {
		return m.flash("Copy failed: " + err.Error())
	}
	return m.flash("Copied")
}

func (m *Model) flash(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	id := m.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("QuickCalc"))
	b.WriteString("  ")
	b.WriteString(m.styles.Badge.Render(m.pref.Label() + " theme"))
	if m.toast != "" {
		b.WriteString("  ")
		b.WriteString(m.styles.Toast.Render(m.toast))
	}
	b.WriteString("\n")

	if m.showGuide {
		b.WriteString(m.guideView())
	} else {
		b.WriteString(m.styles.Input.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.resultView())
	}

	b.WriteString("\n")
	help := "enter copy • esc clear • ? guide • ctrl+t theme • ctrl+c quit"
	if m.showGuide {
		help = "esc or ? close guide • ctrl+c quit"
	}
	b.WriteString(m.styles.Help.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m Model) resultView() string {
	switch {
	case m.ok:
		return m.styles.Result.Render("= " + format.Result(m.value))
	case m.kind != "":
		return m.styles.Muted.Render("no result yet " + m.styles.Error.Render("("+string(m.kind)+")"))
	default:
		return m.styles.Muted.Render("Type an expression. Press ? for the guide.")
	}
}

func (m Model) guideView() string {
	var rows []string

	rows = append(rows, m.styles.Heading.Render("Constants"))
	for _, name := range stdlib.ConstantNames() {
		v, _ := stdlib.Constant(name)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Name.Render(name),
			fmt.Sprintf("%-16s %s", format.Result(v), stdlib.Describe(name)),
		))
	}

	rows = append(rows, m.styles.Heading.Render("Functions"))
	for _, name := range stdlib.FunctionNames() {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Name.Render(name),
			stdlib.Describe(name),
		))
	}

	rows = append(rows, m.styles.Heading.Render("Syntax"))
	rows = append(rows,
		"+ - * / ^ ( )   15% = 0.15   45% of 120   2pi = 2*pi   leading = ignored",
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
