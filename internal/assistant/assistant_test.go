package assistant

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvrach/event-assistant/internal/distance"
	"github.com/lvrach/event-assistant/internal/event"
	"github.com/lvrach/event-assistant/internal/gcal"
	"github.com/lvrach/event-assistant/internal/period"
)

var errScriptDone = errors.New("script exhausted")

// script answers prompts from a fixed list and records everything said.
type script struct {
	answers []string
	asked   []string
	said    []string
}

func (s *script) Ask(_ context.Context, prompt string) (string, error) {
	s.asked = append(s.asked, prompt)
	if len(s.answers) == 0 {
		return "", errScriptDone
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *script) Say(_ context.Context, msg string) error {
	s.said = append(s.said, msg)
	return nil
}

func (s *script) saidContaining(sub string) bool {
	return slices.ContainsFunc(s.said, func(m string) bool { return strings.Contains(m, sub) })
}

type memStore struct {
	events []event.Event
	types  []string
}

func (m *memStore) Append(_ string, ev event.Event) error {
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) Types(string) ([]string, error) { return m.types, nil }

func (m *memStore) AddType(_ string, name string) (bool, error) {
	for _, t := range m.types {
		if strings.EqualFold(t, name) {
			return false, nil
		}
	}
	m.types = append(m.types, name)
	return true, nil
}

func (m *memStore) Conflicts(_ string, ev event.Event) ([]event.Event, error) {
	var out []event.Event
	for _, e := range m.events {
		if e.Intersects(ev) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCalendar struct {
	result gcal.Result
	err    error
	got    []event.Event
}

func (f *fakeCalendar) Insert(_ context.Context, ev event.Event) (gcal.Result, error) {
	f.got = append(f.got, ev)
	return f.result, f.err
}

type fakeTravel struct {
	est                 distance.Estimate
	err                 error
	origin, destination string
	mode                string
}

func (f *fakeTravel) Estimate(_ context.Context, origin, destination, mode string) (distance.Estimate, error) {
	f.origin, f.destination, f.mode = origin, destination, mode
	return f.est, f.err
}

type fakeNotifier struct {
	msgs []string
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, msg string) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func newAssistant() (*Assistant, *memStore, *fakeCalendar) {
	st := &memStore{}
	cal := &fakeCalendar{result: gcal.Result{
		ID:       "g1",
		HTMLLink: "http://example.com/event",
		MeetLink: "http://example.com/meet",
	}}
	return &Assistant{Calendar: cal, Store: st}, st, cal
}

func run(t *testing.T, a *Assistant, answers ...string) (*event.Event, *script, error) {
	t.Helper()
	conv := &script{answers: answers}
	ev, err := a.AddEvent(context.Background(), conv, "alice")
	return ev, conv, err
}

func TestAddEvent_Success(t *testing.T) {
	a, st, cal := newAssistant()
	notifier := &fakeNotifier{}
	a.Notifier = notifier

	ev, conv, err := run(t, a,
		"Dinner",
		"09/29/21 21:30 09/29/21 23:30",
		"5",
		"Social",
		"None",
		"yes",
		"a@example.com, b@example.com",
		"done",
	)
	require.NoError(t, err)
	require.NotNil(t, ev)

	assert.Equal(t, "Dinner", ev.Name)
	assert.Equal(t, time.Date(2021, 9, 29, 21, 30, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2021, 9, 29, 23, 30, 0, 0, time.UTC), ev.End)
	assert.Equal(t, 5, ev.Priority)
	assert.Equal(t, "Social", ev.Type)
	assert.Empty(t, ev.Location)
	assert.Empty(t, ev.Description)
	assert.True(t, ev.WantsMeet)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, ev.Collaborators)
	assert.Equal(t, "http://example.com/event", ev.CalendarLink)
	assert.Equal(t, "http://example.com/meet", ev.MeetLink)

	require.Len(t, cal.got, 1)
	assert.True(t, cal.got[0].WantsMeet)
	require.Len(t, st.events, 1)
	assert.Equal(t, ev.ID, st.events[0].ID)
	assert.Equal(t, []string{"Social"}, st.types)

	assert.Contains(t, conv.said, "Collaborators added: a@example.com, b@example.com")
	assert.Contains(t, conv.said, "Event created: http://example.com/event")
	assert.Contains(t, conv.said, "Google Meet link: http://example.com/meet")
	assert.Equal(t, "Your event was successfully created!", conv.said[len(conv.said)-1])

	require.Len(t, notifier.msgs, 1)
	assert.Contains(t, notifier.msgs[0], "Dinner")
	assert.Contains(t, notifier.msgs[0], "http://example.com/event")
}

func TestAddEvent_TwelveHour(t *testing.T) {
	a, _, _ := newAssistant()
	ev, _, err := run(t, a,
		"Lunch", "09/29/21 12:00 pm 09/29/21 1:15 PM", "3", "", "None", "no", "None", "Sandwiches",
	)
	require.NoError(t, err)
	assert.Equal(t, 12, ev.Start.Hour())
	assert.Equal(t, 13, ev.End.Hour())
	assert.Equal(t, 15, ev.End.Minute())
	assert.Empty(t, ev.Type)
	assert.False(t, ev.WantsMeet)
	assert.Equal(t, "Sandwiches", ev.Description)
}

func TestAddEvent_NoCollaborators(t *testing.T) {
	a, _, _ := newAssistant()
	ev, conv, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "Social", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Nil(t, ev.Collaborators)
	assert.Contains(t, conv.said, "No collaborators added.")
}

func TestAddEvent_PeriodRetry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "24h format error",
			input: "tomorrow at noon",
			want:  "Looks like unable to parse date format. Please re-enter your dates.\n" + hint24h,
		},
		{
			name:  "12h validity error",
			input: "02/30/21 9:00 am 02/30/21 10:00 am",
			want:  "Looks like your entered date is not possible. Please re-enter your dates.\n" + hint12h,
		},
		{
			name:  "24h ordering error",
			input: "09/29/21 23:30 09/29/21 21:30",
			want:  "Looks like your starting date is after your ending date. Please re-enter your dates.\n" + hint24h,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, st, _ := newAssistant()
			ev, conv, err := run(t, a,
				"Dinner", tt.input, "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
			)
			require.NoError(t, err)
			require.NotNil(t, ev)
			assert.Equal(t, tt.want, conv.said[0])
			assert.Len(t, st.events, 1)
		})
	}
}

func TestAddEvent_TooManyPeriodAttempts(t *testing.T) {
	for _, input := range []string{"garbage", "13/01/21 1:00 pm 13/01/21 2:00 pm"} {
		t.Run(input, func(t *testing.T) {
			a, st, cal := newAssistant()
			ev, conv, err := run(t, a, "Dinner", input, input, input, "09/29/21 21:30 09/29/21 23:30")
			require.ErrorIs(t, err, ErrTooManyAttempts)
			assert.Nil(t, ev)
			assert.Equal(t, "Unable to create event due to incorrect time format.", conv.said[len(conv.said)-1])
			assert.Len(t, conv.answers, 1, "the fourth answer must not be read")
			assert.Empty(t, st.events)
			assert.Empty(t, cal.got)
		})
	}
}

func TestAddEvent_MaxAttemptsConfigurable(t *testing.T) {
	a, _, _ := newAssistant()
	a.MaxAttempts = 1
	_, conv, err := run(t, a, "Dinner", "nope")
	require.ErrorIs(t, err, ErrTooManyAttempts)
	assert.True(t, conv.saidContaining("incorrect time format"))
}

func TestAddEvent_ParserLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	a, _, _ := newAssistant()
	a.Parser = period.Parser{Location: ny}
	ev, _, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Equal(t, ny, ev.Start.Location())
	assert.Equal(t, time.Date(2021, 9, 30, 1, 30, 0, 0, time.UTC), ev.Start.UTC())
}

func TestAddEvent_PriorityRetry(t *testing.T) {
	a, _, _ := newAssistant()
	ev, conv, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "9", "high", "2", "", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Priority)
	assert.Contains(t, conv.said, "Please enter a number between 1-5.")
}

func TestAddEvent_PriorityGivesUp(t *testing.T) {
	a, _, _ := newAssistant()
	_, conv, err := run(t, a, "Dinner", "09/29/21 21:30 09/29/21 23:30", "0", "6", "x")
	require.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, "Unable to create event due to invalid priority.", conv.said[len(conv.said)-1])
}

func TestAddEvent_EmptyNameReasked(t *testing.T) {
	a, _, _ := newAssistant()
	ev, conv, err := run(t, a,
		"  ", "Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", ev.Name)
	assert.Contains(t, conv.asked[1], "needs a name")
}

func TestAddEvent_KnownTypeNotAddedTwice(t *testing.T) {
	a, st, _ := newAssistant()
	st.types = []string{"Work"}
	ev, conv, err := run(t, a,
		"Standup", "09/29/21 09:00 09/29/21 09:15", "4", "work", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Equal(t, "work", ev.Type)
	assert.Equal(t, []string{"Work"}, st.types)
	assert.Contains(t, conv.asked[3], "Work")
	assert.False(t, conv.saidContaining("to your event types"))
}

func TestAddEvent_InvalidCollaboratorsReasked(t *testing.T) {
	a, _, _ := newAssistant()
	ev, conv, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "bob", "bob@example.com", "done",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, ev.Collaborators)
	assert.True(t, conv.saidContaining(`"bob" is not an email address`))
}

func TestAddEvent_ConflictWarning(t *testing.T) {
	a, st, _ := newAssistant()
	existing := event.New("Gym", period.Period{
		Start: time.Date(2021, 9, 29, 22, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 9, 29, 23, 0, 0, 0, time.UTC),
	})
	st.events = []event.Event{existing}

	_, conv, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.True(t, conv.saidContaining("overlaps with:\n- Gym (09/29/2021 22:00 09/29/2021 23:00)"))
	assert.Len(t, st.events, 2)
}

func TestAddEvent_Travel(t *testing.T) {
	a, st, _ := newAssistant()
	travel := &fakeTravel{est: distance.Estimate{
		Duration: 30 * time.Minute,
		MapsURL:  "https://www.google.com/maps/dir/?api=1&destination=Office&origin=Home&travelmode=driving",
	}}
	a.Travel = travel

	ev, conv, err := run(t, a,
		"Review", "10/04/21 14:00 10/04/21 15:00", "4", "Work",
		"Office", "yes", "driving", "Home",
		"no", "None", "Quarterly review",
	)
	require.NoError(t, err)
	assert.Equal(t, "Office", ev.Location)
	assert.Equal(t, "Quarterly review", ev.Description)

	assert.Equal(t, "Home", travel.origin)
	assert.Equal(t, "Office", travel.destination)
	assert.Equal(t, "driving", travel.mode)

	require.Len(t, st.events, 2)
	tr := st.events[0]
	assert.Equal(t, "Travel", tr.Name)
	assert.Equal(t, ev.Start, tr.End)
	assert.Equal(t, ev.Start.Add(-30*time.Minute), tr.Start)
	assert.Equal(t, event.MinPriority, tr.Priority)

	assert.Contains(t, conv.said, "Your Travel event was successfully created!")
	assert.Contains(t, conv.said, "Here is your Google Maps link for navigation: "+travel.est.MapsURL)
}

func TestAddEvent_TravelDeclined(t *testing.T) {
	a, st, _ := newAssistant()
	travel := &fakeTravel{}
	a.Travel = travel

	_, _, err := run(t, a,
		"Review", "10/04/21 14:00 10/04/21 15:00", "4", "", "Office", "no", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Empty(t, travel.origin)
	assert.Len(t, st.events, 1)
}

func TestAddEvent_TravelInvalidMode(t *testing.T) {
	a, st, _ := newAssistant()
	a.Travel = &fakeTravel{}

	_, conv, err := run(t, a,
		"Review", "10/04/21 14:00 10/04/21 15:00", "4", "", "Office", "yes", "rocket", "no", "None", "done",
	)
	require.NoError(t, err)
	assert.Contains(t, conv.said, "Invalid mode entered. Please try adding travel time again.")
	assert.Len(t, st.events, 1)
}

func TestAddEvent_TravelEstimateFails(t *testing.T) {
	a, st, _ := newAssistant()
	a.Travel = &fakeTravel{err: errors.New("quota exceeded")}

	ev, conv, err := run(t, a,
		"Review", "10/04/21 14:00 10/04/21 15:00", "4", "", "Office", "yes", "WALKING", "Home", "no", "None", "done",
	)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Contains(t, conv.said, "Failed to add travel time: quota exceeded")
	assert.Len(t, st.events, 1)
}

func TestAddEvent_NotLoggedIn(t *testing.T) {
	a, st, _ := newAssistant()
	a.Calendar = nil

	ev, conv, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
	)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Nil(t, ev)
	assert.True(t, conv.saidContaining("You are not logged into Google"))
	assert.Empty(t, st.events)
}

func TestAddEvent_CalendarError(t *testing.T) {
	a, st, cal := newAssistant()
	cal.err = errors.New("API Error")

	_, conv, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
	)
	require.Error(t, err)
	assert.True(t, conv.saidContaining("There was an error in creating your event: API Error"))
	assert.Empty(t, st.events)
}

func TestAddEvent_NotifierFailureIgnored(t *testing.T) {
	a, st, _ := newAssistant()
	a.Notifier = &fakeNotifier{err: errors.New("webhook down")}

	ev, _, err := run(t, a,
		"Dinner", "09/29/21 21:30 09/29/21 23:30", "5", "", "None", "no", "None", "done",
	)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Len(t, st.events, 1)
}

func TestAddEvent_ConversationError(t *testing.T) {
	a, st, _ := newAssistant()
	_, _, err := run(t, a, "Dinner")
	require.ErrorIs(t, err, errScriptDone)
	assert.Empty(t, st.events)
}
