// Package assistant walks a user through creating an event one question at
// a time and hands the result to the calendar, the local store, and an
// optional notifier.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lvrach/event-assistant/internal/distance"
	"github.com/lvrach/event-assistant/internal/event"
	"github.com/lvrach/event-assistant/internal/gcal"
	"github.com/lvrach/event-assistant/internal/period"
)

// DefaultMaxAttempts is used when Assistant.MaxAttempts is not positive.
const DefaultMaxAttempts = 3

var (
	ErrTooManyAttempts = errors.New("too many invalid answers")
	ErrNotLoggedIn     = errors.New("not logged into Google")
)

// Conversation is the chat transport. Say shows a message, Ask shows a
// prompt and returns the user's reply.
type Conversation interface {
	Say(ctx context.Context, msg string) error
	Ask(ctx context.Context, prompt string) (string, error)
}

// Calendar receives the finished event.
type Calendar interface {
	Insert(ctx context.Context, ev event.Event) (gcal.Result, error)
}

// Store persists events and event types per user.
type Store interface {
	Append(user string, ev event.Event) error
	Types(user string) ([]string, error)
	AddType(user, name string) (bool, error)
	Conflicts(user string, ev event.Event) ([]event.Event, error)
}

// Travel estimates how long it takes to get somewhere.
type Travel interface {
	Estimate(ctx context.Context, origin, destination, mode string) (distance.Estimate, error)
}

// Notifier is told about every created event.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// Assistant holds the collaborators for the add-event flow. Calendar, Travel
// and Notifier may be nil.
type Assistant struct {
	Calendar    Calendar
	Store       Store
	Travel      Travel
	Notifier    Notifier
	Parser      period.Parser
	MaxAttempts int
	Logger      *slog.Logger
}

func (a *Assistant) maxAttempts() int {
	if a.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return a.MaxAttempts
}

func (a *Assistant) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// AddEvent runs the full conversation for user and returns the stored event.
func (a *Assistant) AddEvent(ctx context.Context, conv Conversation, user string) (*event.Event, error) {
	log := a.logger().With("user", user)

	name, err := a.askName(ctx, conv)
	if err != nil {
		return nil, err
	}

	p, err := a.askPeriod(ctx, conv)
	if err != nil {
		return nil, err
	}
	ev := event.New(name, p)
	log.Debug("period accepted", "start", p.Start, "end", p.End)

	if err := a.warnConflicts(ctx, conv, user, ev); err != nil {
		return nil, err
	}

	if ev.Priority, err = a.askPriority(ctx, conv); err != nil {
		return nil, err
	}
	if ev.Type, err = a.askType(ctx, conv, user); err != nil {
		return nil, err
	}

	location, err := conv.Ask(ctx, "What is the location of the event? (Type 'None' for no location)")
	if err != nil {
		return nil, err
	}
	if !event.IsNone(location) {
		ev.Location = strings.TrimSpace(location)
		if a.Travel != nil {
			if err := a.blockTravel(ctx, conv, user, ev); err != nil {
				return nil, err
			}
		}
	}

	meet, err := conv.Ask(ctx, "Do you want a Google Meet link for this event? (Yes/No)")
	if err != nil {
		return nil, err
	}
	ev.WantsMeet = isYes(meet)

	if ev.Collaborators, err = a.askCollaborators(ctx, conv); err != nil {
		return nil, err
	}

	desc, err := conv.Ask(ctx, "Any additional description you want me to add about the event? If not, enter 'done'")
	if err != nil {
		return nil, err
	}
	if desc = strings.TrimSpace(desc); !strings.EqualFold(desc, "done") {
		ev.Description = desc
	}

	if a.Calendar == nil {
		if err := conv.Say(ctx, "You are not logged into Google. Please login using `event-assistant auth google`."); err != nil {
			return nil, err
		}
		return nil, ErrNotLoggedIn
	}

	res, err := a.Calendar.Insert(ctx, ev)
	if err != nil {
		_ = conv.Say(ctx, fmt.Sprintf("There was an error in creating your event: %v", err))
		return nil, err
	}
	ev.CalendarLink = res.HTMLLink
	ev.MeetLink = res.MeetLink
	log.Info("calendar event created", "id", res.ID)

	if err := conv.Say(ctx, "Event created: "+res.HTMLLink); err != nil {
		return nil, err
	}
	if res.MeetLink != "" {
		if err := conv.Say(ctx, "Google Meet link: "+res.MeetLink); err != nil {
			return nil, err
		}
	}

	if err := a.Store.Append(user, ev); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	if err := conv.Say(ctx, "Your event was successfully created!"); err != nil {
		return nil, err
	}

	if a.Notifier != nil {
		if err := a.Notifier.Notify(ctx, summary(ev)); err != nil {
			log.Warn("notification failed", "error", err)
		}
	}
	return &ev, nil
}

func (a *Assistant) askName(ctx context.Context, conv Conversation) (string, error) {
	prompt := "Let's add an event!\nWhat is the name of your event?"
	for range a.maxAttempts() {
		name, err := conv.Ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
		prompt = "The event needs a name. What is the name of your event?"
	}
	return "", a.giveUp(ctx, conv, "Unable to create event without a name.")
}

func (a *Assistant) askPeriod(ctx context.Context, conv Conversation) (period.Period, error) {
	prompt := periodInstructions
	for range a.maxAttempts() {
		text, err := conv.Ask(ctx, prompt)
		if err != nil {
			return period.Period{}, err
		}

		hint := hint24h
		if period.HasMeridiem(text) {
			hint = hint12h
		}
		p, err := a.Parser.Parse(text)
		if err == nil {
			return p, nil
		}
		var perr *period.Error
		if !errors.As(err, &perr) {
			return period.Period{}, err
		}

		a.logger().Debug("period rejected", "kind", perr.Kind, "detail", perr.Detail)
		if err := conv.Say(ctx, fmt.Sprintf("Looks like %s. Please re-enter your dates.\n%s", perr.Message, hint)); err != nil {
			return period.Period{}, err
		}
		prompt = "Start and end dates:"
	}
	return period.Period{}, a.giveUp(ctx, conv, "Unable to create event due to incorrect time format.")
}

func (a *Assistant) warnConflicts(ctx context.Context, conv Conversation, user string, ev event.Event) error {
	conflicts, err := a.Store.Conflicts(user, ev)
	if err != nil {
		a.logger().Warn("conflict check failed", "error", err)
		return nil
	}
	if len(conflicts) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("Heads up, this overlaps with:")
	for _, c := range conflicts {
		fmt.Fprintf(&b, "\n- %s (%s)", c.Name, c.Period())
	}
	return conv.Say(ctx, b.String())
}

func (a *Assistant) askPriority(ctx context.Context, conv Conversation) (int, error) {
	for range a.maxAttempts() {
		answer, err := conv.Ask(ctx, priorityPrompt)
		if err != nil {
			return 0, err
		}
		p, err := event.ParsePriority(answer)
		if err == nil {
			return p, nil
		}
		if err := conv.Say(ctx, fmt.Sprintf("Please enter a number between %d-%d.", event.MinPriority, event.MaxPriority)); err != nil {
			return 0, err
		}
	}
	return 0, a.giveUp(ctx, conv, "Unable to create event due to invalid priority.")
}

func (a *Assistant) askType(ctx context.Context, conv Conversation, user string) (string, error) {
	types, err := a.Store.Types(user)
	if err != nil {
		return "", fmt.Errorf("load event types: %w", err)
	}
	known := "(none yet)"
	if len(types) > 0 {
		known = strings.Join(types, ", ")
	}

	answer, err := conv.Ask(ctx, "Tell me what type of event this is. Here is a list of event types I currently know:\n"+known)
	if err != nil {
		return "", err
	}
	eventType := strings.TrimSpace(answer)
	if eventType == "" || event.IsNone(eventType) {
		return "", nil
	}

	added, err := a.Store.AddType(user, eventType)
	if err != nil {
		return "", fmt.Errorf("save event type: %w", err)
	}
	if added {
		if err := conv.Say(ctx, fmt.Sprintf("Added %q to your event types.", eventType)); err != nil {
			return "", err
		}
	}
	return eventType, nil
}

// blockTravel stores a "Travel" event that ends when ev starts. Estimator
// failures are reported to the user and do not stop the flow.
func (a *Assistant) blockTravel(ctx context.Context, conv Conversation, user string, ev event.Event) error {
	answer, err := conv.Ask(ctx, "Do you want to block travel time for this event? (Yes/No)")
	if err != nil || !isYes(answer) {
		return err
	}

	mode, err := conv.Ask(ctx, fmt.Sprintf("Enter exact string out of the following modes: [%s]", strings.Join(distance.Modes, ", ")))
	if err != nil {
		return err
	}
	if !distance.ValidMode(mode) {
		return conv.Say(ctx, "Invalid mode entered. Please try adding travel time again.")
	}

	origin, err := conv.Ask(ctx, "Enter source address:")
	if err != nil {
		return err
	}

	est, err := a.Travel.Estimate(ctx, strings.TrimSpace(origin), ev.Location, mode)
	if err != nil {
		a.logger().Warn("travel estimate failed", "error", err)
		return conv.Say(ctx, fmt.Sprintf("Failed to add travel time: %v", err))
	}

	travel := event.New("Travel", period.Period{Start: ev.Start.Add(-est.Duration), End: ev.Start})
	travel.Priority = event.MinPriority
	travel.Location = ev.Location
	if err := a.Store.Append(user, travel); err != nil {
		return conv.Say(ctx, fmt.Sprintf("Failed to add travel time: %v", err))
	}

	if err := conv.Say(ctx, "Your Travel event was successfully created!"); err != nil {
		return err
	}
	return conv.Say(ctx, "Here is your Google Maps link for navigation: "+est.MapsURL)
}

func (a *Assistant) askCollaborators(ctx context.Context, conv Conversation) ([]string, error) {
	for range a.maxAttempts() {
		answer, err := conv.Ask(ctx, "Who should be invited? Enter email addresses separated by commas, or 'None'.")
		if err != nil {
			return nil, err
		}
		emails, err := event.ParseCollaborators(answer)
		if err != nil {
			if err := conv.Say(ctx, fmt.Sprintf("Looks like %v. Please try again.", err)); err != nil {
				return nil, err
			}
			continue
		}

		msg := "No collaborators added."
		if len(emails) > 0 {
			msg = "Collaborators added: " + strings.Join(emails, ", ")
		}
		return emails, conv.Say(ctx, msg)
	}
	return nil, a.giveUp(ctx, conv, "Unable to create event due to invalid collaborator emails.")
}

func (a *Assistant) giveUp(ctx context.Context, conv Conversation, msg string) error {
	if err := conv.Say(ctx, msg); err != nil {
		return err
	}
	return ErrTooManyAttempts
}

func summary(ev event.Event) string {
	s := fmt.Sprintf("New event: %s (%s)", ev.Name, ev.Period())
	if ev.CalendarLink != "" {
		s += " " + ev.CalendarLink
	}
	return s
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
