package main

import (
	"errors"
	"log/slog"
	"os"
	"os/user"
	"strings"
	_ "time/tzdata" // config zones must resolve on hosts without zoneinfo

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
)

// Globals holds flags shared across all commands.
type Globals struct {
	JSON    bool   `help:"Output JSON for script consumption." short:"j"`
	User    string `help:"Whose events to read and write." default:"${user}" env:"EVENT_ASSISTANT_USER"`
	Verbose bool   `help:"Log debug output to stderr." short:"v"`
}

// Logger returns the stderr logger for this invocation.
func (g *Globals) Logger() *slog.Logger {
	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// CLI is the root command structure for event-assistant.
type CLI struct {
	Globals

	Add     AddCmd     `cmd:"" help:"Create an event by answering a few questions."`
	Parse   ParseCmd   `cmd:"" help:"Parse a start/end period without creating anything."`
	List    ListCmd    `cmd:"" help:"List saved events."`
	Remove  RemoveCmd  `cmd:"" help:"Remove a saved event by ID or ID prefix."`
	Inspect InspectCmd `cmd:"" help:"Browse saved events interactively."`
	Export  ExportCmd  `cmd:"" help:"Export saved events as iCalendar."`
	Types   TypesCmd   `cmd:"" help:"Show or add event types."`
	Auth    AuthCmd    `cmd:"" help:"Manage Google, Maps and Slack credentials."`
	Guide   GuideCmd   `cmd:"" help:"Print the date input guide."`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("event-assistant"),
		kong.Description("Create calendar events from the terminal."),
		kong.UsageOnError(),
		kong.Vars{"user": currentUser()},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		// Ctrl+C or Ctrl+D: exit silently.
		if isUserAbort(err) {
			os.Exit(0)
		}

		var cliErr *CLIError
		if ok := asCLIError(err, &cliErr); ok {
			if cli.JSON {
				printErrorJSON(cliErr.Message, cliErr.Code)
			} else {
				printErrorHuman(cliErr.Message)
			}
			os.Exit(cliErr.ExitCode)
		}
		if cli.JSON {
			printErrorJSON(err.Error(), "runtime_error")
		} else {
			printErrorHuman(err.Error())
		}
		os.Exit(ExitRuntimeError)
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "default"
}

// isUserAbort returns true for errors caused by the user
// quitting an interactive prompt (Ctrl+C, Ctrl+D).
// It does not match io.EOF because EOF can also come from a
// failed HTTP call, which must surface as an error.
func isUserAbort(err error) bool {
	if errors.Is(err, huh.ErrUserAborted) {
		return true
	}
	// huh wraps bubbletea errors as "huh: <err>"
	return strings.Contains(err.Error(), "user aborted")
}
