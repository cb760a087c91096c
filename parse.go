package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/lvrach/event-assistant/internal/config"
	"github.com/lvrach/event-assistant/internal/period"
)

// ParseCmd parses start/end periods the way the add command does.
type ParseCmd struct {
	PeriodInput
	Format string `help:"Input format." enum:"auto,12h,24h" default:"auto" short:"f"`
	Zone   string `help:"IANA time zone for the parsed times (defaults to the configured zone)." short:"z"`
}

type parseResult struct {
	Status   string `json:"status"`
	Input    string `json:"input,omitempty"`
	Format   string `json:"format,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (cmd *ParseCmd) Run(globals *Globals) error {
	lines, err := cmd.Resolve()
	if err != nil {
		return err
	}
	loc, err := cmd.location()
	if err != nil {
		return err
	}
	parser := period.Parser{Location: loc}

	if len(lines) == 1 {
		res, err := cmd.parseLine(parser, lines[0])
		if err != nil {
			return err
		}
		if globals.JSON {
			return printJSON(res)
		}
		printParseHuman(res)
		return nil
	}

	// Several periods: report each one, fail if any was rejected.
	failed := 0
	for i, line := range lines {
		res, err := cmd.parseLine(parser, line)
		if err != nil {
			var cliErr *CLIError
			if !asCLIError(err, &cliErr) {
				return err
			}
			failed++
			res = parseResult{Status: "error", Error: cliErr.Code, Message: cliErr.Message}
		}
		res.Input = line

		switch {
		case globals.JSON:
			if err := printJSON(res); err != nil {
				return err
			}
		case res.Status == "ok":
			fmt.Printf("%d: %s -> %s (%s)\n", i+1, res.Start, res.End, res.Duration)
		default:
			fmt.Printf("%d: %s\n", i+1, res.Message)
		}
	}
	if failed > 0 {
		return newCLIError(ExitInvalidInput, "invalid_periods",
			fmt.Sprintf("%d of %d period(s) could not be parsed.", failed, len(lines)))
	}
	return nil
}

func (cmd *ParseCmd) parseLine(parser period.Parser, text string) (parseResult, error) {
	format := cmd.Format
	if format == "auto" {
		format = "24h"
		if period.HasMeridiem(text) {
			format = "12h"
		}
	}

	p, err := parsePeriod(parser, text, format)
	if err != nil {
		return parseResult{}, err
	}
	return parseResult{
		Status:   "ok",
		Format:   format,
		Start:    p.Start.Format(time.RFC3339),
		End:      p.End.Format(time.RFC3339),
		Duration: p.Duration().String(),
	}, nil
}

func printParseHuman(res parseResult) {
	start, _ := time.Parse(time.RFC3339, res.Start)
	end, _ := time.Parse(time.RFC3339, res.End)
	fmt.Printf("Start:    %s\n", start.Format("Mon Jan 2 2006 15:04 -0700"))
	fmt.Printf("End:      %s\n", end.Format("Mon Jan 2 2006 15:04 -0700"))
	fmt.Printf("Duration: %s\n", res.Duration)
	fmt.Printf("As typed: %s\n", normalized(res.Format, start, end))
}

// normalized writes the period back in the notation it was given in.
func normalized(format string, start, end time.Time) string {
	if format == "12h" {
		return period.Format12h(start) + " " + period.Format12h(end)
	}
	return period.Format24h(start) + " " + period.Format24h(end)
}

func (cmd *ParseCmd) location() (*time.Location, error) {
	if cmd.Zone != "" {
		loc, err := time.LoadLocation(cmd.Zone)
		if err != nil {
			return nil, newCLIError(ExitInvalidInput, "invalid_zone",
				fmt.Sprintf("Unknown time zone %q.", cmd.Zone))
		}
		return loc, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, newCLIError(ExitRuntimeError, "config_error",
			fmt.Sprintf("Failed to load config: %s", err))
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, newCLIError(ExitInvalidInput, "invalid_config", err.Error())
	}
	return loc, nil
}

// parsePeriod runs the parser for format and turns parse failures into
// invalid-input CLI errors coded by kind.
func parsePeriod(parser period.Parser, text, format string) (period.Period, error) {
	var (
		p   period.Period
		err error
	)
	if format == "12h" {
		p, err = parser.Parse12h(text)
	} else {
		p, err = parser.Parse24h(text)
	}
	if err == nil {
		return p, nil
	}

	var perr *period.Error
	if !errors.As(err, &perr) {
		return period.Period{}, err
	}
	msg := "Looks like " + perr.Message + "."
	if perr.Detail != "" {
		msg += " (" + perr.Detail + ")"
	}
	return period.Period{}, newCLIError(ExitInvalidInput, perr.Kind.String()+"_error", msg)
}
