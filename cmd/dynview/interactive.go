package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomBoddaert/dynode/alloc"
	"github.com/tomBoddaert/dynode/dynlist"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	frontStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	backStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0C674"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewModel struct {
	err        error
	list       *dynlist.StringList
	counting   *alloc.Counting
	closeArena func() error
	input      textinput.Model
	status     string
	inputting  bool
	toFront    bool
	backward   bool
}

func newViewModel(counting *alloc.Counting, closeArena func() error, words []string) (*viewModel, error) {
	l := dynlist.NewStrings(counting)
	for _, w := range words {
		if err := l.PushBack(w); err != nil {
			l.Close()
			return nil, err
		}
	}

	ti := textinput.New()
	ti.Placeholder = "element"
	ti.Prompt = "push: "
	ti.Width = 40

	return &viewModel{
		list:       l,
		counting:   counting,
		closeArena: closeArena,
		input:      ti,
	}, nil
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.inputting {
		switch keyMsg.String() {
		case "enter":
			m.commitInput()
			return m, nil
		case "esc":
			m.inputting = false
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		case "ctrl+c":
			return m.quit()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m.quit()

	case "b":
		m.startInput(false)
	case "f":
		m.startInput(true)

	case "p":
		if s, ok := m.list.PopFront(); ok {
			m.status = fmt.Sprintf("popped front: %q", s)
		} else {
			m.status = "list is empty"
		}
	case "P":
		if s, ok := m.list.PopBack(); ok {
			m.status = fmt.Sprintf("popped back: %q", s)
		} else {
			m.status = "list is empty"
		}

	case "r":
		m.backward = !m.backward
	}

	return m, nil
}

func (m *viewModel) startInput(toFront bool) {
	m.inputting = true
	m.toFront = toFront
	if toFront {
		m.input.Prompt = "push front: "
	} else {
		m.input.Prompt = "push back: "
	}
	m.input.Focus()
}

func (m *viewModel) commitInput() {
	s := m.input.Value()
	m.inputting = false
	m.input.Blur()
	m.input.SetValue("")

	var err error
	if m.toFront {
		err = m.list.PushFront(s)
	} else {
		err = m.list.PushBack(s)
	}
	if err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("pushed %q", s)
}

func (m *viewModel) quit() (tea.Model, tea.Cmd) {
	if err := m.list.Close(); err != nil && m.err == nil {
		m.err = err
	}
	if err := m.closeArena(); err != nil && m.err == nil {
		m.err = err
	}
	return m, tea.Quit
}

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dynview"))
	b.WriteString(" ")
	b.WriteString(statStyle.Render(fmt.Sprintf("len %d • live blocks %d • live bytes %d",
		m.list.Len(), m.counting.Live(), m.counting.LiveBytes())))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.list.Len() == 0 {
		b.WriteString(helpStyle.Render("(empty)"))
		b.WriteString("\n")
	} else {
		i := 0
		last := m.list.Len() - 1
		render := func(s string) bool {
			idx := i
			if m.backward {
				idx = last - i
			}
			line := fmt.Sprintf("  %d: %q", idx, s)
			switch idx {
			case 0:
				line = frontStyle.Render(line + "  <- front")
			case last:
				line = backStyle.Render(line + "  <- back")
			}
			b.WriteString(line)
			b.WriteString("\n")
			i++
			return true
		}
		if m.backward {
			m.list.Backward()(render)
		} else {
			m.list.All()(render)
		}
	}

	b.WriteString("\n")
	if m.inputting {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter push • esc cancel"))
	} else {
		if m.status != "" {
			b.WriteString(statStyle.Render(m.status))
			b.WriteString("\n\n")
		}
		dir := "forward"
		if m.backward {
			dir = "backward"
		}
		b.WriteString(helpStyle.Render(
			"b push back • f push front • p pop front • P pop back • r reverse (" + dir + ") • q quit"))
	}

	return b.String()
}

func runInteractive(pages uint32, words []string) error {
	counting, closeArena, err := newAllocator(context.Background(), pages)
	if err != nil {
		return err
	}

	m, err := newViewModel(counting, closeArena, words)
	if err != nil {
		closeArena()
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
