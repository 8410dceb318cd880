// Package ui renders received one-click deliveries.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rbright/divamm/internal/dispatch"
)

// DeliveryMsg carries one delivery into the Bubble Tea update loop.
type DeliveryMsg struct {
	Delivery dispatch.Delivery
}

// Model is the Bubble Tea model for the download inbox.
type Model struct {
	title     string
	endpoint  string
	rows      []Row
	selection int // -1 when empty

	width  int
	height int
}

// NewModel creates an empty inbox listening on endpoint.
func NewModel(title, endpoint string) Model {
	return Model{
		title:     title,
		endpoint:  endpoint,
		selection: -1,
	}
}

// Rows returns the current inbox rows, oldest first.
func (m Model) Rows() []Row {
	return append([]Row(nil), m.rows...)
}

// Selection returns the selected row index, or -1.
func (m Model) Selection() int {
	return m.selection
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case DeliveryMsg:
		m.rows = append(m.rows, RowFromDelivery(msg.Delivery))
		// Follow the newest row unless the user moved away from the tail.
		if m.selection == len(m.rows)-2 || m.selection < 0 {
			m.selection = len(m.rows) - 1
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyUp:
		m.moveSelection(-1)
		return m, nil

	case tea.KeyDown:
		m.moveSelection(1)
		return m, nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "k":
			m.moveSelection(-1)
		case "j":
			m.moveSelection(1)
		case "c":
			m.clearRejected()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) moveSelection(delta int) {
	if len(m.rows) == 0 {
		m.selection = -1
		return
	}
	next := m.selection + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.rows)-1 {
		next = len(m.rows) - 1
	}
	m.selection = next
}

func (m *Model) clearRejected() {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.Accepted {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	if m.selection > len(m.rows)-1 {
		m.selection = len(m.rows) - 1
	}
}

func (m Model) listHeight() int {
	h := m.height - 4 // header, status, blank, help
	if h < 1 {
		h = 20
	}
	return h
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" " + m.title + " "))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render(m.viewStatus()))
	b.WriteString("\n\n")
	b.WriteString(m.viewList())
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("up/down select  c clear rejected  q quit"))

	return b.String()
}

func (m Model) viewStatus() string {
	queued := 0
	for _, row := range m.rows {
		if row.Accepted {
			queued++
		}
	}
	return fmt.Sprintf("listening on %s  queued %d  rejected %d", m.endpoint, queued, len(m.rows)-queued)
}

func (m Model) viewList() string {
	if len(m.rows) == 0 {
		return dimStyle.Render("Waiting for one-click downloads...")
	}

	// Keep the selection visible by scrolling the window to it.
	maxItems := m.listHeight()
	start := 0
	if m.selection >= maxItems {
		start = m.selection - maxItems + 1
	}

	var lines []string
	for i := start; i < len(m.rows) && i < start+maxItems; i++ {
		row := m.rows[i]
		display := fmt.Sprintf("%s  %s  %s", row.ReceivedAt.Format("15:04:05"), row.Title, row.Detail)
		if m.width > 4 {
			display = fitWidth(display, m.width-4)
		}

		switch {
		case i == m.selection:
			lines = append(lines, selectedStyle.Render("> "+display))
		case !row.Accepted:
			lines = append(lines, rejectedStyle.Render("  "+display))
		default:
			lines = append(lines, normalStyle.Render("  "+display))
		}
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates s to at most cells terminal columns without splitting
// a multi-byte character.
func fitWidth(s string, cells int) string {
	if lipgloss.Width(s) <= cells {
		return s
	}
	return ansi.Truncate(s, cells, "")
}
