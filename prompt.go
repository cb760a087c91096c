package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// runField wraps a single huh field in a form that supports
// Ctrl+C and Ctrl+D for quitting, with bottom margin styling.
func runField(field huh.Field) error {
	return runFieldContext(context.Background(), os.Stdout, field)
}

// runFieldContext draws the prompt on out, so --json can keep stdout clean.
func runFieldContext(ctx context.Context, out io.Writer, field huh.Field) error {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"))

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.MarginBottom(1)
	t.Blurred.Base = t.Blurred.Base.MarginBottom(1)

	return huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithKeyMap(km).
		WithTheme(t).
		WithOutput(out).
		RunWithContext(ctx)
}

var replyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("12")).
	PaddingLeft(2).
	MarginBottom(1)

// terminalConversation runs the assistant's questions as huh prompts.
type terminalConversation struct {
	out io.Writer
}

func (c terminalConversation) Say(_ context.Context, msg string) error {
	_, err := fmt.Fprintln(c.out, replyStyle.Render(msg))
	return err
}

func (c terminalConversation) Ask(ctx context.Context, prompt string) (string, error) {
	var answer string
	err := runFieldContext(ctx, c.out, huh.NewInput().
		Title(prompt).
		Value(&answer),
	)
	return answer, err
}
