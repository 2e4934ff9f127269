package interactive

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// multiSelectModel is the bubbletea model for selecting records
type multiSelectModel struct {
	records  []models.Record
	cursor   int
	selected map[int]bool
	title    string
	done     bool
	quit     bool
}

func initialMultiSelectModel(records []models.Record, title string) multiSelectModel {
	return multiSelectModel{
		records:  records,
		selected: make(map[int]bool),
		title:    title,
	}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.chosen()) < len(m.records)
		for i := range m.records {
			m.selected[i] = all
		}
	case "enter":
		if len(m.chosen()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// chosen returns the selected record names in display order
func (m multiSelectModel) chosen() []string {
	var names []string
	for i, rec := range m.records {
		if m.selected[i] {
			names = append(names, rec.Header().Name)
		}
	}
	return names
}

func (m multiSelectModel) View() string {
	if m.done || m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, rec := range m.records {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		header := rec.Header()
		name := color.New(color.FgWhite, color.Bold).Sprint(header.Name)
		address := color.New(color.FgWhite).Sprint(header.Address.Hex())
		kind := color.New(color.FgYellow).Sprintf("(%s)", rec.Type())

		fmt.Fprintf(&b, "%s %s %s %s %s\n", cursor, checkbox, name, address, kind)
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))
	return b.String()
}

// SelectRecords shows a multi-select interface and returns the selected record names
func SelectRecords(records []models.Record, title string) ([]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to select")
	}

	p := tea.NewProgram(initialMultiSelectModel(records, title))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}
	return m.chosen(), nil
}
