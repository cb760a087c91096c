package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/lvrach/event-assistant/internal/event"
)

// eventMarkdown describes ev as a Markdown document for the detail pane.
func eventMarkdown(ev event.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ev.Name)
	fmt.Fprintf(&b, "- **When:** %s to %s\n", ev.Start.Format("Mon Jan 2 2006 15:04"), ev.End.Format("Mon Jan 2 2006 15:04"))
	fmt.Fprintf(&b, "- **Duration:** %s\n", ev.Duration())
	if ev.Priority > 0 {
		fmt.Fprintf(&b, "- **Priority:** %d\n", ev.Priority)
	}
	if ev.Type != "" {
		fmt.Fprintf(&b, "- **Type:** %s\n", ev.Type)
	}
	if ev.Location != "" {
		fmt.Fprintf(&b, "- **Location:** %s\n", ev.Location)
	}
	if len(ev.Collaborators) > 0 {
		fmt.Fprintf(&b, "- **Collaborators:** %s\n", strings.Join(ev.Collaborators, ", "))
	}
	if ev.CalendarLink != "" {
		fmt.Fprintf(&b, "- **Calendar:** %s\n", ev.CalendarLink)
	}
	if ev.MeetLink != "" {
		fmt.Fprintf(&b, "- **Meet:** %s\n", ev.MeetLink)
	}
	if ev.Description != "" {
		b.WriteString("\n")
		b.WriteString(ev.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// The renderer is cached because WithAutoStyle probes the terminal on
// creation, which is too slow to repeat on every resize.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
)

// renderMarkdown renders md for the terminal at width columns. If rendering
// fails, md is returned unchanged.
func renderMarkdown(md string, width int) string {
	if cachedRenderer == nil || cachedRendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return md
		}
		cachedRenderer = r
		cachedRendererWidth = width
	}

	rendered, err := cachedRenderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
