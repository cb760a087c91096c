package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lvrach/event-assistant/internal/period"
)

// Priority bounds.
const (
	MinPriority = 1
	MaxPriority = 5
)

// Event is a single calendar entry owned by one user.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Priority      int       `json:"priority"`
	Type          string    `json:"type"`
	Location      string    `json:"location,omitempty"`
	Description   string    `json:"description,omitempty"`
	Collaborators []string  `json:"collaborators,omitempty"`
	WantsMeet     bool      `json:"wants_meet,omitempty"`
	MeetLink      string    `json:"meet_link,omitempty"`
	CalendarLink  string    `json:"calendar_link,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// New returns an event with a fresh ID covering p.
func New(name string, p period.Period) Event {
	return Event{
		ID:        uuid.NewString(),
		Name:      name,
		Start:     p.Start,
		End:       p.End,
		CreatedAt: time.Now().UTC(),
	}
}

// Period returns the event's start and end.
func (e Event) Period() period.Period {
	return period.Period{Start: e.Start, End: e.End}
}

// Duration returns how long the event lasts.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Compare orders events by start, then by end.
func (e Event) Compare(other Event) int {
	if c := e.Start.Compare(other.Start); c != 0 {
		return c
	}
	return e.End.Compare(other.End)
}

// Intersects reports whether the two events share any instant,
// including touching endpoints.
func (e Event) Intersects(other Event) bool {
	return inRange(other.Start, e.Start, e.End) || inRange(e.Start, other.Start, other.End)
}

func inRange(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// Row flattens the event for tabular output.
func (e Event) Row() []string {
	return []string{
		e.Name,
		period.Format24h(e.Start),
		period.Format24h(e.End),
		strconv.Itoa(e.Priority),
		e.Type,
		e.MeetLink,
		strings.Join(e.Collaborators, ","),
		e.Location,
		e.Description,
	}
}

func (e Event) String() string {
	return strings.Join(e.Row(), " ")
}

// ParsePriority reads a priority between MinPriority and MaxPriority.
func ParsePriority(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < MinPriority || n > MaxPriority {
		return 0, fmt.Errorf("priority %q must be a number between %d-%d", s, MinPriority, MaxPriority)
	}
	return n, nil
}

// ParseCollaborators splits a comma or space separated list of emails.
// An empty answer or "none" means no collaborators.
func ParseCollaborators(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		at := strings.Index(f, "@")
		if at <= 0 || at == len(f)-1 {
			return nil, fmt.Errorf("%q is not an email address", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// IsNone reports whether a free-text answer means "nothing".
func IsNone(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "none")
}
