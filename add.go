package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/lvrach/event-assistant/internal/assistant"
	"github.com/lvrach/event-assistant/internal/config"
	"github.com/lvrach/event-assistant/internal/distance"
	"github.com/lvrach/event-assistant/internal/gauth"
	"github.com/lvrach/event-assistant/internal/gcal"
	"github.com/lvrach/event-assistant/internal/keyring"
	"github.com/lvrach/event-assistant/internal/period"
	"github.com/lvrach/event-assistant/internal/slack"
)

// AddCmd walks the user through creating one event.
type AddCmd struct{}

func (cmd *AddCmd) Run(globals *Globals) error {
	log := globals.Logger()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return newCLIError(ExitRuntimeError, "config_error",
			fmt.Sprintf("Failed to load config: %s", err))
	}
	loc, err := cfg.Location()
	if err != nil {
		return newCLIError(ExitInvalidInput, "invalid_config", err.Error())
	}

	a := &assistant.Assistant{
		Store:       assistant.LocalStore{},
		Parser:      period.Parser{Location: loc},
		MaxAttempts: cfg.MaxAttempts,
		Logger:      log,
	}
	if cal := newCalendar(ctx, cfg, log); cal != nil {
		a.Calendar = cal
	}
	if travel := newTravel(cfg, log); travel != nil {
		a.Travel = travel
	}
	if notifier := newNotifier(log); notifier != nil {
		a.Notifier = notifier
	}

	var out io.Writer = os.Stdout
	if globals.JSON {
		out = os.Stderr
	}
	ev, err := a.AddEvent(ctx, terminalConversation{out: out}, globals.User)
	switch {
	case errors.Is(err, assistant.ErrTooManyAttempts):
		return newCLIError(ExitInvalidInput, "too_many_attempts", "Too many invalid answers; no event was created.")
	case errors.Is(err, assistant.ErrNotLoggedIn):
		return newCLIError(ExitNotConfigured, "not_configured",
			"Not logged into Google. Run `event-assistant auth google` first.")
	case err != nil:
		return err
	}

	if globals.JSON {
		return printJSON(ev)
	}
	return nil
}

// newCalendar returns nil when the user has not logged in yet.
func newCalendar(ctx context.Context, cfg config.Config, log *slog.Logger) *gcal.Client {
	oc, err := gauth.Config(cfg.CredentialsFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("google credentials unusable", "path", cfg.CredentialsFile, "error", err)
		}
		return nil
	}
	ts, err := gauth.TokenSource(ctx, oc, gauth.KeyringStore{}, log)
	if err != nil {
		if !errors.Is(err, gauth.ErrNoToken) {
			log.Warn("google token unusable", "error", err)
		}
		return nil
	}
	client, err := gcal.New(ctx, ts, gcal.Options{
		CalendarID:   cfg.CalendarID,
		TimeZone:     cfg.TimeZone,
		EmailMinutes: cfg.Reminders.EmailMinutes,
		PopupMinutes: cfg.Reminders.PopupMinutes,
	})
	if err != nil {
		log.Warn("calendar client", "error", err)
		return nil
	}
	return client
}

// newTravel returns nil when no Maps API key is stored.
func newTravel(cfg config.Config, log *slog.Logger) *distance.Client {
	key, ok, err := keyring.Lookup(keyring.MapsAPIKey)
	if err != nil {
		log.Warn("read maps key", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return distance.New(cfg.MapsBaseURL, key)
}

// newNotifier returns nil when no Slack webhook is stored.
func newNotifier(log *slog.Logger) *slack.Notifier {
	url, ok, err := keyring.Lookup(keyring.SlackWebhook)
	if err != nil {
		log.Warn("read slack webhook", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &slack.Notifier{WebhookURL: url}
}
