// Package ui contains the interactive terminal components of the CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// FixEntry is one selectable fix in the interactive picker.
type FixEntry struct {
	ID      string
	Title   string
	Path    string
	Line    uint32
	Col     uint32
	Message string
}

type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x")),
	All:     key.NewBinding(key.WithKeys("a")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

type pickerModel struct {
	entries  []FixEntry
	selected map[int]bool
	cursor   int
	width    int
	done     bool
	aborted  bool
}

var (
	pickerTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pickerCheckStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pickerDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewFixPicker returns a Bubble Tea model that lets the user choose which
// fixes to apply. All entries start selected.
func NewFixPicker(entries []FixEntry) tea.Model {
	selected := make(map[int]bool, len(entries))
	for i := range entries {
		selected[i] = true
	}
	return &pickerModel{
		entries:  entries,
		selected: selected,
		width:    80,
	}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, pickerKeys.Toggle):
			m.selected[m.cursor] = !m.selected[m.cursor]
		case key.Matches(msg, pickerKeys.All):
			// Если выбрано всё - снимаем, иначе выбираем всё
			all := true
			for i := range m.entries {
				if !m.selected[i] {
					all = false
					break
				}
			}
			for i := range m.entries {
				m.selected[i] = !all
			}
		case key.Matches(msg, pickerKeys.Confirm):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Quit):
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *pickerModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(fmt.Sprintf("select fixes to apply (%d/%d)", m.countSelected(), len(m.entries))))
	b.WriteString("\n\n")

	nameWidth := m.width - 8
	if nameWidth < 20 {
		nameWidth = 20
	}

	for i, entry := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = pickerCursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.selected[i] {
			check = pickerCheckStyle.Render("[x]")
		}
		loc := fmt.Sprintf("%s:%d:%d", entry.Path, entry.Line, entry.Col)
		line := fmt.Sprintf("%s%s %s  %s", cursor, check, truncate(loc, nameWidth/2), truncate(entry.Title, nameWidth/2))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render("space toggle · a all · enter apply · q cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m *pickerModel) countSelected() int {
	n := 0
	for i := range m.entries {
		if m.selected[i] {
			n++
		}
	}
	return n
}

// PickFixes runs the interactive picker and returns the IDs of the chosen
// fixes. A nil map with no error means the user cancelled.
func PickFixes(entries []FixEntry) (map[string]bool, error) {
	if len(entries) == 0 {
		return map[string]bool{}, nil
	}
	program := tea.NewProgram(NewFixPicker(entries))
	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(*pickerModel)
	if !ok || m.aborted {
		return nil, nil
	}
	ids := make(map[string]bool, len(m.entries))
	for i, entry := range m.entries {
		if m.selected[i] {
			ids[entry.ID] = true
		}
	}
	return ids, nil
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
