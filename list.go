package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lvrach/event-assistant/internal/event"
	"github.com/lvrach/event-assistant/internal/store"
)

// ListCmd shows the saved events.
type ListCmd struct {
	Upcoming bool `help:"Only show events that have not ended yet." short:"u"`
}

func (cmd *ListCmd) Run(globals *Globals) error {
	events, err := loadEvents(globals.User, cmd.Upcoming, time.Now())
	if err != nil {
		return err
	}

	if globals.JSON {
		if events == nil {
			events = []event.Event{}
		}
		return printJSON(events)
	}

	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}
	fmt.Println(eventTable(events))
	return nil
}

// loadEvents returns user's events sorted by start. With upcoming set,
// events that ended before now are dropped.
func loadEvents(user string, upcoming bool, now time.Time) ([]event.Event, error) {
	events, err := store.Load(user)
	if err != nil {
		return nil, newCLIError(ExitRuntimeError, "load_events",
			fmt.Sprintf("Failed to load events: %s", err))
	}
	if !upcoming {
		return events, nil
	}
	var out []event.Event
	for _, ev := range events {
		if !ev.End.Before(now) {
			out = append(out, ev)
		}
	}
	return out, nil
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var tableCellStyle = lipgloss.NewStyle().Padding(0, 1)

func eventTable(events []event.Event) string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			shortID(ev.ID),
			ev.Name,
			ev.Start.Format("01/02/06 15:04"),
			ev.End.Format("01/02/06 15:04"),
			fmt.Sprint(ev.Priority),
			ev.Type,
			ev.Location,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("ID", "NAME", "START", "END", "PRI", "TYPE", "LOCATION").
		Rows(rows...).
		String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RemoveCmd deletes one saved event.
type RemoveCmd struct {
	ID  string `arg:"" optional:"" help:"Event ID or a unique prefix of it."`
	All bool   `help:"Remove every saved event."`
}

func (cmd *RemoveCmd) Run(globals *Globals) error {
	if cmd.All {
		if err := store.Clear(globals.User); err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		msg := "All events removed."
		if globals.JSON {
			printSuccessJSON(msg)
		} else {
			printSuccessHuman(msg)
		}
		return nil
	}
	if cmd.ID == "" {
		return newCLIError(ExitInvalidInput, "missing_id", "Pass an event ID or --all.")
	}

	found, err := store.Remove(globals.User, cmd.ID)
	if err != nil {
		return newCLIError(ExitInvalidInput, "remove_failed", err.Error())
	}
	if !found {
		return newCLIError(ExitInvalidInput, "not_found",
			fmt.Sprintf("No event matches %q.", cmd.ID))
	}

	msg := fmt.Sprintf("Removed event %s.", cmd.ID)
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// TypesCmd lists the user's event types or registers a new one.
type TypesCmd struct {
	Add string `help:"Register a new event type." short:"a"`
}

func (cmd *TypesCmd) Run(globals *Globals) error {
	if cmd.Add != "" {
		added, err := store.AddType(globals.User, cmd.Add)
		if err != nil {
			return fmt.Errorf("add type: %w", err)
		}
		msg := fmt.Sprintf("Added event type %q.", cmd.Add)
		if !added {
			msg = fmt.Sprintf("Event type %q already exists.", cmd.Add)
		}
		if globals.JSON {
			printSuccessJSON(msg)
		} else {
			printSuccessHuman(msg)
		}
		return nil
	}

	types, err := store.Types(globals.User)
	if err != nil {
		return fmt.Errorf("load types: %w", err)
	}
	if globals.JSON {
		if types == nil {
			types = []string{}
		}
		return printJSON(types)
	}
	if len(types) == 0 {
		fmt.Fprintln(os.Stdout, "No event types yet.")
		return nil
	}
	for _, t := range types {
		fmt.Fprintln(os.Stdout, t)
	}
	return nil
}
