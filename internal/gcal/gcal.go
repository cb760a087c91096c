// Package gcal inserts events into Google Calendar.
package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/lvrach/event-assistant/internal/event"
)

// wallClock is how start/end are sent. The zone travels in TimeZone.
const wallClock = "2006-01-02T15:04:05"

// Options controls how events are written.
type Options struct {
	CalendarID   string // defaults to "primary"
	TimeZone     string // IANA name sent alongside wall-clock times
	EmailMinutes int64  // 0 disables the email reminder
	PopupMinutes int64  // 0 disables the popup reminder
}

// Result describes the created remote event.
type Result struct {
	ID       string
	HTMLLink string
	MeetLink string
}

// Client wraps the Calendar API service.
type Client struct {
	svc  *calendar.Service
	opts Options
}

// New creates a Client authenticated with ts. Extra client options are
// appended after the token source (tests pass an endpoint here).
func New(ctx context.Context, ts oauth2.TokenSource, opts Options, extra ...option.ClientOption) (*Client, error) {
	clientOpts := append([]option.ClientOption{option.WithTokenSource(ts)}, extra...)
	svc, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if opts.CalendarID == "" {
		opts.CalendarID = "primary"
	}
	return &Client{svc: svc, opts: opts}, nil
}

// Insert creates ev on the configured calendar. When ev.WantsMeet is set a
// Google Meet conference is requested along with the event.
func (c *Client) Insert(ctx context.Context, ev event.Event) (Result, error) {
	call := c.svc.Events.Insert(c.opts.CalendarID, BuildEvent(ev, c.opts)).Context(ctx)
	if ev.WantsMeet {
		call = call.ConferenceDataVersion(1)
	}
	if len(ev.Collaborators) > 0 {
		call = call.SendUpdates("all")
	}

	created, err := call.Do()
	if err != nil {
		return Result{}, fmt.Errorf("insert event: %w", err)
	}

	return Result{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: meetLink(created),
	}, nil
}

// BuildEvent maps ev onto the Calendar API representation.
func BuildEvent(ev event.Event, opts Options) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Name,
		Location:    ev.Location,
		Description: ev.Description,
		Start:       eventTime(ev.Start, opts.TimeZone),
		End:         eventTime(ev.End, opts.TimeZone),
		Reminders:   reminders(opts),
	}

	for _, email := range ev.Collaborators {
		out.Attendees = append(out.Attendees, &calendar.EventAttendee{Email: email})
	}

	if ev.WantsMeet {
		out.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
	}

	return out
}

func eventTime(t time.Time, zone string) *calendar.EventDateTime {
	if zone == "" {
		return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)}
	}
	return &calendar.EventDateTime{DateTime: t.Format(wallClock), TimeZone: zone}
}

func reminders(opts Options) *calendar.EventReminders {
	r := &calendar.EventReminders{
		UseDefault: false,
		// UseDefault=false is the zero value and would be dropped otherwise.
		ForceSendFields: []string{"UseDefault"},
	}
	if opts.EmailMinutes > 0 {
		r.Overrides = append(r.Overrides, &calendar.EventReminder{Method: "email", Minutes: opts.EmailMinutes})
	}
	if opts.PopupMinutes > 0 {
		r.Overrides = append(r.Overrides, &calendar.EventReminder{Method: "popup", Minutes: opts.PopupMinutes})
	}
	return r
}

// meetLink prefers the hangoutLink field and falls back to the video entry point.
func meetLink(e *calendar.Event) string {
	if e.HangoutLink != "" {
		return e.HangoutLink
	}
	if e.ConferenceData == nil {
		return ""
	}
	for _, ep := range e.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return ""
}
