// Package ics exports stored events as an iCalendar feed.
package ics

import (
	"io"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/lvrach/event-assistant/internal/event"
)

const (
	productID = "-//event-assistant//Events//EN"
	uidSuffix = "@event-assistant"
)

// Build converts events into a calendar. DTSTAMP is set to now.
func Build(events []event.Event, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID + uidSuffix)
		ve.SetDtStampTime(now)
		if !ev.CreatedAt.IsZero() {
			ve.SetCreatedTime(ev.CreatedAt)
		}
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetSummary(ev.Name)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Type != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, ev.Type)
		}
		if p := icalPriority(ev.Priority); p > 0 {
			ve.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(p))
		}
		if ev.CalendarLink != "" {
			ve.SetURL(ev.CalendarLink)
		}
		for _, email := range ev.Collaborators {
			ve.AddAttendee(email)
		}
	}
	return cal
}

// Write serializes events to w.
func Write(w io.Writer, events []event.Event) error {
	_, err := io.WriteString(w, Build(events, time.Now()).Serialize())
	return err
}

// icalPriority maps 5 (highest) .. 1 (lowest) onto RFC 5545's 1 .. 9.
// Out-of-range values map to 0, which means undefined.
func icalPriority(p int) int {
	if p < event.MinPriority || p > event.MaxPriority {
		return 0
	}
	return 11 - 2*p
}
