package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvrach/event-assistant/internal/event"
	"github.com/lvrach/event-assistant/internal/store"
)

// InspectCmd opens an interactive browser over the saved events.
type InspectCmd struct {
	Upcoming bool `help:"Only show events that have not ended yet." short:"u"`
}

func (cmd *InspectCmd) Run(globals *Globals) error {
	// A TUI is useless to scripts; print the list instead.
	if globals.JSON {
		return (&ListCmd{Upcoming: cmd.Upcoming}).Run(globals)
	}

	events, err := loadEvents(globals.User, cmd.Upcoming, time.Now())
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No events.")
		return nil
	}

	m := newInspectModel(globals.User, events)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("inspect TUI: %w", err)
	}

	if fm := finalModel.(inspectModel); fm.deleted > 0 {
		fmt.Fprintf(os.Stdout, "Removed %d event(s).\n", fm.deleted)
	}
	return nil
}

const (
	inspectLeftPaneWidth = 30
	inspectSepWidth      = 3 // " │ "
	minSplitWidth        = 64
)

type inspectModel struct {
	user           string
	events         []event.Event
	rendered       []string // glamour output per event, built on resize
	cursor         int
	deleted        int
	width, height  int
	message        string
	detailViewport viewport.Model
	focusDetail    bool
	confirmDelete  bool
	listOffset     int

	// remove is store.Remove outside tests.
	remove func(user, id string) (bool, error)
}

func newInspectModel(user string, events []event.Event) inspectModel {
	vp := viewport.New(80, 10)
	// "d" deletes; keep half-page-down on ctrl+d only.
	vp.KeyMap.HalfPageDown = key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "½ page down"),
	)
	vp.KeyMap.Left.SetEnabled(false)
	vp.KeyMap.Right.SetEnabled(false)

	return inspectModel{
		user:           user,
		events:         events,
		detailViewport: vp,
		remove:         store.Remove,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDelete {
			m.confirmDelete = false
			if msg.String() == "y" {
				return m.doDelete()
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.width >= minSplitWidth {
				m.focusDetail = !m.focusDetail
			}
			return m, nil
		case "d", "backspace", "delete":
			if !m.focusDetail {
				m.confirmDelete = true
			}
			return m, nil
		}

		if m.focusDetail {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.moveTo(m.cursor - 1)
			}
		case "down", "j":
			if m.cursor < len(m.events)-1 {
				m.moveTo(m.cursor + 1)
			}
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.events) - 1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderAll()
		m.updateViewportSize()
		m.syncDetail()
		m.syncListScroll()
	}

	return m, nil
}

func (m *inspectModel) moveTo(i int) {
	m.cursor = i
	m.message = ""
	m.syncDetail()
	m.syncListScroll()
}

// doDelete removes the selected event from disk and from the model.
func (m inspectModel) doDelete() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.events) {
		return m, nil
	}

	ev := m.events[m.cursor]
	found, err := m.remove(m.user, ev.ID)
	if err != nil {
		m.message = "Delete failed: " + err.Error()
		return m, nil
	}
	if !found {
		m.message = "Already removed."
	}

	m.events = append(m.events[:m.cursor], m.events[m.cursor+1:]...)
	if m.rendered != nil {
		m.rendered = append(m.rendered[:m.cursor], m.rendered[m.cursor+1:]...)
	}
	if found {
		m.deleted++
		m.message = "Deleted: " + truncate(ev.Name, 40)
	}

	if len(m.events) == 0 {
		return m, tea.Quit
	}
	if m.cursor >= len(m.events) {
		m.cursor = len(m.events) - 1
	}
	m.syncDetail()
	m.syncListScroll()
	return m, nil
}

func (m inspectModel) contentRows() int {
	overhead := 2 // title + help
	if m.width >= minSplitWidth {
		overhead += 2 // borders
	}
	if m.message != "" {
		overhead++
	}
	return max(m.height-overhead, 1)
}

func (m inspectModel) rightPaneWidth() int {
	return max(m.width-inspectLeftPaneWidth-inspectSepWidth, 1)
}

func (m *inspectModel) renderAll() {
	if m.width < minSplitWidth {
		m.rendered = nil
		return
	}
	w := max(m.rightPaneWidth()-2, 20)
	m.rendered = make([]string, len(m.events))
	for i, ev := range m.events {
		m.rendered[i] = renderMarkdown(eventMarkdown(ev), w)
	}
}

func (m *inspectModel) updateViewportSize() {
	if m.width < minSplitWidth {
		return
	}
	m.detailViewport.Width = m.rightPaneWidth()
	m.detailViewport.Height = max(m.contentRows()-2, 1) // header + divider
}

func (m *inspectModel) syncDetail() {
	if m.cursor >= len(m.rendered) {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.rendered[m.cursor])
	m.detailViewport.GotoTop()
}

func (m *inspectModel) syncListScroll() {
	rows := m.contentRows()
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+rows {
		m.listOffset = m.cursor - rows + 1
	}
}

var (
	inspectTitleStyle = lipgloss.NewStyle().Bold(true)
	inspectDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	inspectHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inspectMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	inspectSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	inspectWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(inspectTitleStyle.Render(fmt.Sprintf("Events (%d)", len(m.events))))
	b.WriteString("\n")

	if len(m.events) == 0 {
		b.WriteString(inspectHelpStyle.Render("q: quit"))
		return b.String()
	}

	if m.width < minSplitWidth {
		m.viewNarrow(&b)
	} else {
		m.viewSplit(&b)
	}

	if m.message != "" {
		b.WriteString(inspectMsgStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(inspectHelpStyle.Render(m.helpText()))
	return b.String()
}

func (m inspectModel) selectedStyle() lipgloss.Style {
	if m.confirmDelete {
		return inspectWarnStyle
	}
	return inspectSelStyle
}

func (m inspectModel) viewNarrow(b *strings.Builder) {
	rows := m.contentRows()
	end := min(m.listOffset+rows, len(m.events))
	for i := m.listOffset; i < end; i++ {
		ev := m.events[i]
		line := fmt.Sprintf("  %s  %s", ev.Start.Format("01/02 15:04"), truncate(ev.Name, max(m.width-16, 10)))
		if i == m.cursor {
			b.WriteString(m.selectedStyle().Render("> " + line[2:]))
		} else {
			b.WriteString(inspectDimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	for i := end - m.listOffset; i < rows; i++ {
		b.WriteString("\n")
	}
}

func (m inspectModel) viewSplit(b *strings.Builder) {
	rows := m.contentRows()
	rightW := m.rightPaneWidth()

	b.WriteString(inspectDimStyle.Render(
		strings.Repeat("─", inspectLeftPaneWidth) + "─┬─" + strings.Repeat("─", rightW)))
	b.WriteString("\n")

	leftStyle := lipgloss.NewStyle().Width(inspectLeftPaneWidth)
	left := make([]string, rows)
	for i := range rows {
		idx := m.listOffset + i
		if idx < len(m.events) {
			left[i] = m.renderListItem(idx, leftStyle)
		} else {
			left[i] = leftStyle.Render("")
		}
	}

	sepColor := lipgloss.Color("240")
	if m.focusDetail {
		sepColor = lipgloss.Color("212")
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render(" │ ")

	ev := m.events[m.cursor]
	header := inspectDimStyle.Render(fmt.Sprintf("%s · %s", shortID(ev.ID), ev.Period()))
	divider := inspectDimStyle.Render(strings.Repeat("─", rightW))
	vpLines := strings.Split(m.detailViewport.View(), "\n")

	for i := range rows {
		b.WriteString(left[i])
		b.WriteString(sep)
		switch i {
		case 0:
			b.WriteString(header)
		case 1:
			b.WriteString(divider)
		default:
			if j := i - 2; j < len(vpLines) {
				b.WriteString(vpLines[j])
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(inspectDimStyle.Render(
		strings.Repeat("─", inspectLeftPaneWidth) + "─┴─" + strings.Repeat("─", rightW)))
	b.WriteString("\n")
}

func (m inspectModel) renderListItem(idx int, base lipgloss.Style) string {
	ev := m.events[idx]
	content := fmt.Sprintf("%s %s", ev.Start.Format("01/02 15:04"), truncate(ev.Name, inspectLeftPaneWidth-15))
	if idx == m.cursor {
		return base.Inherit(m.selectedStyle()).Render("> " + content)
	}
	return base.Foreground(lipgloss.Color("240")).Render("  " + content)
}

func (m inspectModel) helpText() string {
	switch {
	case m.confirmDelete:
		return "y: confirm   n: cancel"
	case m.width < minSplitWidth:
		return "↑↓: navigate   d: delete   q: quit"
	case m.focusDetail:
		return "↑↓: scroll   tab: list   d: delete   q: quit"
	default:
		return "↑↓: navigate   tab: detail   d: delete   q: quit"
	}
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
