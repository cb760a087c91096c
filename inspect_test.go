package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvrach/event-assistant/internal/event"
)

func keyRune(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func testEvents() []event.Event {
	start := time.Date(2021, 9, 29, 9, 0, 0, 0, time.UTC)
	return []event.Event{
		{ID: "aaaaaaaa-1", Name: "Standup", Start: start, End: start.Add(15 * time.Minute)},
		{ID: "bbbbbbbb-2", Name: "Lunch", Start: start.Add(3 * time.Hour), End: start.Add(4 * time.Hour)},
		{ID: "cccccccc-3", Name: "Review", Start: start.Add(6 * time.Hour), End: start.Add(7 * time.Hour)},
	}
}

func update(t *testing.T, m inspectModel, msg tea.Msg) inspectModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(inspectModel)
}

func TestInspectModel_Navigate(t *testing.T) {
	m := newInspectModel("alice", testEvents())
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, keyRune("j"))
	m = update(t, m, keyRune("j"))
	assert.Equal(t, 2, m.cursor, "cursor stops at the last event")
	m = update(t, m, keyRune("g"))
	assert.Equal(t, 0, m.cursor)

	assert.Contains(t, m.View(), "Events (3)")
	assert.Contains(t, m.View(), "Standup")
}

func TestInspectModel_DeleteConfirmed(t *testing.T) {
	var removed []string
	m := newInspectModel("alice", testEvents())
	m.remove = func(user, id string) (bool, error) {
		assert.Equal(t, "alice", user)
		removed = append(removed, id)
		return true, nil
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m = update(t, m, keyRune("d"))
	require.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), "y: confirm")

	m = update(t, m, keyRune("y"))
	assert.False(t, m.confirmDelete)
	assert.Equal(t, []string{"bbbbbbbb-2"}, removed)
	assert.Equal(t, 1, m.deleted)
	require.Len(t, m.events, 2)
	assert.Equal(t, "Review", m.events[1].Name)
	assert.Equal(t, "Deleted: Lunch", m.message)
}

func TestInspectModel_DeleteCancelled(t *testing.T) {
	m := newInspectModel("alice", testEvents())
	m.remove = func(string, string) (bool, error) {
		t.Fatal("remove must not be called")
		return false, nil
	}
	m = update(t, m, keyRune("d"))
	m = update(t, m, keyRune("n"))
	assert.False(t, m.confirmDelete)
	assert.Len(t, m.events, 3)
}

func TestInspectModel_DeleteLastQuits(t *testing.T) {
	m := newInspectModel("alice", testEvents()[:1])
	m.remove = func(string, string) (bool, error) { return true, nil }

	m = update(t, m, keyRune("d"))
	next, cmd := m.Update(keyRune("y"))
	assert.Empty(t, next.(inspectModel).events)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestInspectModel_SplitView(t *testing.T) {
	m := newInspectModel("alice", testEvents())
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	require.Len(t, m.rendered, 3)

	view := m.View()
	assert.Contains(t, view, "aaaaaaaa · 09/29/2021 09:00 09/29/2021 09:15")
	assert.Contains(t, view, "tab: detail")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.focusDetail)
	assert.Contains(t, m.View(), "tab: list")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "é", truncate("éé", 1))
}
