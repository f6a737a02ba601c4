package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gliffydb/pkg/schema"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TablePickerModel - Interactive table selection
// =============================================================================

// TablePickerModel is the bubbletea model for choosing the tables to draw.
type TablePickerModel struct {
	Tables    []schema.Table
	Cursor    int
	Marked    map[int]bool
	Height    int
	Offset    int
	Confirmed bool
}

// NewTablePickerModel creates a picker with nothing marked.
func NewTablePickerModel(tables []schema.Table) TablePickerModel {
	return TablePickerModel{
		Tables: tables,
		Marked: make(map[int]bool),
		Height: 15,
	}
}

// Chosen returns the marked table names in listing order. It is empty
// unless the user confirmed.
func (m TablePickerModel) Chosen() []string {
	if !m.Confirmed {
		return nil
	}
	return m.markedNames()
}

func (m TablePickerModel) Init() tea.Cmd {
	return nil
}

func (m TablePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tables)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Marked[m.Cursor] = !m.Marked[m.Cursor]
		case "a":
			all := len(m.markedNames()) < len(m.Tables)
			for i := range m.Tables {
				m.Marked[i] = all
			}
		case "enter":
			if len(m.Tables) == 0 {
				return m, tea.Quit
			}
			if len(m.markedNames()) == 0 {
				m.Marked[m.Cursor] = true
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TablePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Tables"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  a all  ⏎ draw  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Tables))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Tables[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Marked[i] {
			mark = "[x]"
		}
		rows = append(rows, []string{
			cursor + mark,
			t.Name,
			strconv.Itoa(len(t.Columns)),
			strings.Join(t.PrimaryKeys(), ", "),
			references(t),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Table", "Columns", "Key", "References").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Marked[idx]:
				return lipgloss.NewStyle().Foreground(colorGreen)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})

	b.WriteString(tbl.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Tables), len(m.markedNames()))))
	return b.String()
}

func (m TablePickerModel) markedNames() []string {
	var names []string
	for i, t := range m.Tables {
		if m.Marked[i] {
			names = append(names, t.Name)
		}
	}
	return names
}

// references lists the distinct tables t points to.
func references(t schema.Table) string {
	seen := make(map[string]bool)
	var refs []string
	for _, fk := range t.ForeignKeys {
		if !seen[fk.RefTable] {
			seen[fk.RefTable] = true
			refs = append(refs, fk.RefTable)
		}
	}
	if len(refs) == 0 {
		return "—"
	}
	return strings.Join(refs, ", ")
}
