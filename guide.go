package main

import (
	_ "embed"
	"fmt"
)

//go:embed event-assistant.guide.md
var guideContent string

// GuideCmd prints the date input guide to stdout.
type GuideCmd struct{}

func (cmd *GuideCmd) Run(globals *Globals) error {
	if globals.JSON {
		return printJSON(map[string]string{"status": "ok", "guide": guideContent})
	}
	fmt.Print(guideContent)
	return nil
}
