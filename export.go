package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lvrach/event-assistant/internal/ics"
)

// ExportCmd writes saved events as an iCalendar file.
type ExportCmd struct {
	Output   string `help:"File to write (default stdout)." short:"o" type:"path"`
	Upcoming bool   `help:"Only export events that have not ended yet." short:"u"`
}

func (cmd *ExportCmd) Run(globals *Globals) error {
	events, err := loadEvents(globals.User, cmd.Upcoming, time.Now())
	if err != nil {
		return err
	}

	if cmd.Output == "" {
		return ics.Write(os.Stdout, events)
	}

	f, err := os.OpenFile(cmd.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // path chosen by the user
	if err != nil {
		return newCLIError(ExitInvalidInput, "export_failed",
			fmt.Sprintf("Cannot write %s: %s", cmd.Output, err))
	}
	if err := ics.Write(f, events); err != nil {
		_ = f.Close()
		return fmt.Errorf("write calendar: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}

	msg := fmt.Sprintf("Exported %d event(s) to %s.", len(events), cmd.Output)
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}
