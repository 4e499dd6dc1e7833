package console

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ListSelectOptions allows customization of the list select behavior
type ListSelectOptions struct {
	Title string
}

// DefaultListSelectOptions returns the default options
func DefaultListSelectOptions() ListSelectOptions {
	return ListSelectOptions{
		Title: "Select an option:",
	}
}

// ListSelect shows items and returns the index of the chosen one.
func ListSelect(items []string, opts ...ListSelectOptions) (int, error) {
	if len(items) == 0 {
		return -1, errors.New("no items provided")
	}

	options := DefaultListSelectOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	m, err := tea.NewProgram(newListModel(items, options)).Run()
	if err != nil {
		return -1, err
	}

	final := m.(listModel)
	if final.quitted {
		return -1, ErrCancelled
	}
	return final.selected(), nil
}

type listModel struct {
	items    []string
	cursor   int
	offset   int
	maxItems int
	options  ListSelectOptions
	quitted  bool
}

func newListModel(items []string, options ListSelectOptions) listModel {
	return listModel{
		items:    items,
		options:  options,
		maxItems: len(items),
	}
}

func (m listModel) selected() int {
	return m.cursor + m.offset
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.maxItems = max(msg.Height-4, 1)
		if m.cursor >= m.maxItems {
			m.offset += m.cursor - m.maxItems + 1
			m.cursor = m.maxItems - 1
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitted = true
			return m, tea.Quit
		case "enter":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.selected() >= len(m.items)-1 {
				break
			}
			if m.cursor < m.maxItems-1 {
				m.cursor++
			} else {
				m.offset++
			}
		}
	}
	return m, nil
}

func (m listModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render(m.options.Title))
	b.WriteString("\n\n")

	end := min(m.offset+m.maxItems, len(m.items))
	for i, item := range m.items[m.offset:end] {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + item))
		} else {
			b.WriteString(itemStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ to move • enter to select • esc to cancel"))
	return b.String()
}
