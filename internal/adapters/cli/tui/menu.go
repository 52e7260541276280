package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuOption is one selectable entry.
type MenuOption struct {
	Label string
	Value string
}

// MenuModel renders a single-choice menu. An empty Selected value after
// the program exits means the user backed out.
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

func NewMenuModel(title string, options []MenuOption) MenuModel {
	return MenuModel{title: title, options: options}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.selected = m.options[m.cursor].Value
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("? " + m.title))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString("> ")
			b.WriteString(selectedStyle.Render(opt.Label))
		} else {
			b.WriteString("  ")
			b.WriteString(normalStyle.Render(opt.Label))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move · enter select · q quit"))
	b.WriteByte('\n')
	return b.String()
}

// Selected returns the chosen value, or "" if the menu was dismissed.
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu shows the menu and blocks until a choice is made or dismissed.
func RunMenu(title string, options []MenuOption) (string, error) {
	final, err := tea.NewProgram(NewMenuModel(title, options)).Run()
	if err != nil {
		return "", err
	}
	return final.(MenuModel).Selected(), nil
}
