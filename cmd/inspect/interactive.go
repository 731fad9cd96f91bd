package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/catalog"
	"github.com/hexlens/hexlens/memsource"
	"github.com/hexlens/hexlens/registry"
	"github.com/hexlens/hexlens/tree"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateInput modelState = iota
	stateShow
)

type inspectModel struct {
	src *memsource.Buffer
	cat *catalog.Catalog
	reg *registry.Registry

	inputs   []textinput.Model
	focusIdx int
	state    modelState

	handle   hexlens.ValueHandle
	summary  string
	children []tree.Child
	err      error
}

func newInspectModel(src *memsource.Buffer, cat *catalog.Catalog, reg *registry.Registry) *inspectModel {
	addrInput := textinput.New()
	addrInput.Prompt = "address: "
	addrInput.Placeholder = "0x1040"
	addrInput.Width = 40
	addrInput.Focus()

	typeInput := textinput.New()
	typeInput.Prompt = "type:    "
	typeInput.Placeholder = "smol_str::SmolStr"
	typeInput.Width = 40

	return &inspectModel{
		src:    src,
		cat:    cat,
		reg:    reg,
		inputs: []textinput.Model{addrInput, typeInput},
		state:  stateInput,
	}
}

type decodedMsg struct {
	err      error
	summary  string
	children []tree.Child
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) decode() tea.Msg {
	summary, err := m.reg.Summarize(m.handle, m.src)
	if err != nil {
		return decodedMsg{err: err}
	}

	var children []tree.Child
	if node, err := m.reg.Node(m.handle, m.src); err == nil {
		n, err := node.NumChildren()
		if err != nil {
			return decodedMsg{err: err}
		}
		for i := 0; i < n; i++ {
			c, err := node.ChildAtIndex(i)
			if err != nil {
				return decodedMsg{err: err}
			}
			children = append(children, c)
		}
	}

	return decodedMsg{summary: summary, children: children}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShow {
				return m, tea.Quit
			}

		case "tab":
			if m.state == stateInput {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "enter":
			if m.state == stateInput {
				addr, err := strconv.ParseUint(strings.TrimSpace(m.inputs[0].Value()), 0, 64)
				if err != nil {
					m.err = fmt.Errorf("bad address: %w", err)
					m.state = stateShow
					return m, nil
				}
				m.handle = hexlens.ValueHandle{
					Addr:     addr,
					TypeName: strings.TrimSpace(m.inputs[1].Value()),
				}
				return m, m.decode
			}

		case "u":
			// The process may have advanced; drop cached state and
			// decode the same value again.
			if m.state == stateShow {
				m.reg.Invalidate(m.handle)
				return m, m.decode
			}

		case "esc":
			if m.state == stateShow {
				m.state = stateInput
				m.summary = ""
				m.children = nil
				m.err = nil
			}
		}

	case decodedMsg:
		m.summary = msg.summary
		m.children = msg.children
		m.err = msg.err
		m.state = stateShow
	}

	if m.state == stateInput {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hexlens"))
	b.WriteString(fmt.Sprintf(" image @ 0x%x (%d bytes)", m.src.Base(), m.src.Size()))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		b.WriteString("Decode a value from the image:\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter decode • ctrl+c quit"))

	case stateShow:
		b.WriteString(fmt.Sprintf("%s @ 0x%x\n\n", nameStyle.Render(m.handle.TypeName), m.handle.Addr))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(summaryStyle.Render(m.summary))
			b.WriteString("\n")
			for _, c := range m.children {
				rendered := valueStyle.Render(c.Value)
				if c.Err != nil {
					rendered = errorStyle.Render(c.Value)
				}
				b.WriteString(fmt.Sprintf("  %-10s %s\n", c.Name, rendered))
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("u re-decode • esc back • q quit"))
	}

	return b.String()
}

func runInteractive(src *memsource.Buffer, cat *catalog.Catalog, reg *registry.Registry) error {
	p := tea.NewProgram(newInspectModel(src, cat, reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
