package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvrach/event-assistant/internal/config"
	"github.com/lvrach/event-assistant/internal/gauth"
	"github.com/lvrach/event-assistant/internal/keyring"
	"github.com/lvrach/event-assistant/internal/slack"
)

// AuthCmd manages the credentials of the external services.
type AuthCmd struct {
	Google AuthGoogleCmd `cmd:"" help:"Log into Google Calendar."`
	Maps   AuthMapsCmd   `cmd:"" help:"Store a Google Maps API key for travel time."`
	Slack  AuthSlackCmd  `cmd:"" help:"Store a Slack webhook that is told about new events."`
	Logout AuthLogoutCmd `cmd:"" help:"Remove all stored credentials from the keychain."`
	Status AuthStatusCmd `cmd:"" default:"withargs" help:"Show which services are configured."`
}

// AuthGoogleCmd runs the OAuth consent flow for the installed app.
type AuthGoogleCmd struct {
	Code string `arg:"" optional:"" help:"Authorization code from an earlier consent page (skips the interactive prompt)."`
}

func (cmd *AuthGoogleCmd) Run(globals *Globals) error {
	cfg, err := config.Load()
	if err != nil {
		return newCLIError(ExitRuntimeError, "config_error",
			fmt.Sprintf("Failed to load config: %s", err))
	}
	if !config.Exists() {
		// Give the user a file to edit next to the credentials.
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}

	oc, err := gauth.Config(cfg.CredentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newCLIError(ExitNotConfigured, "missing_credentials",
				fmt.Sprintf("No OAuth client found. Download the desktop-app credentials JSON from the Google Cloud console and save it as %s.", cfg.CredentialsFile))
		}
		return newCLIError(ExitInvalidInput, "invalid_credentials", err.Error())
	}

	state := gauth.NewState()
	pasted := strings.TrimSpace(cmd.Code)
	if pasted == "" {
		link := lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Underline(true).
			Render(gauth.AuthURL(oc, state))
		fmt.Fprintln(os.Stderr, "\n  Open this page, approve access, and paste the code or the page you were sent to:")
		fmt.Fprintln(os.Stderr, "  "+link)
		fmt.Fprintln(os.Stderr)

		err := runField(
			huh.NewInput().
				Title("Authorization code or redirect URL:").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("code cannot be empty")
					}
					return nil
				}).
				Value(&pasted),
		)
		if err != nil {
			return err
		}
	}

	code, err := authCode(pasted, state)
	if err != nil {
		return err
	}

	if err := gauth.Exchange(context.Background(), oc, gauth.KeyringStore{}, code); err != nil {
		return newCLIError(ExitRuntimeError, "google_auth_failed",
			fmt.Sprintf("Google login failed: %s", err))
	}

	msg := "Logged into Google Calendar."
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// authCode turns the pasted consent result into an authorization code.
func authCode(pasted, state string) (string, error) {
	code, err := gauth.CodeFromRedirect(pasted, state)
	switch {
	case errors.Is(err, gauth.ErrStateMismatch):
		return "", newCLIError(ExitInvalidInput, "state_mismatch",
			"That redirect belongs to a different login attempt. Run `event-assistant auth google` again and use the new link.")
	case err != nil:
		return "", newCLIError(ExitInvalidInput, "invalid_code", err.Error())
	}
	return code, nil
}

// AuthMapsCmd stores the Distance Matrix API key.
type AuthMapsCmd struct {
	Key string `arg:"" optional:"" help:"API key (skips the interactive prompt)."`
}

func (cmd *AuthMapsCmd) Run(globals *Globals) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		err := runField(
			huh.NewInput().
				Title("Google Maps API key:").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		)
		if err != nil {
			return err
		}
	}
	key, err := validateMapsKey(key)
	if err != nil {
		return err
	}

	if err := keyring.Set(keyring.MapsAPIKey, key); err != nil {
		return fmt.Errorf("store maps key in keychain: %w", err)
	}

	msg := "Maps API key stored. Travel time can now be blocked for new events."
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// validateMapsKey trims key and rejects values that cannot be an API key.
func validateMapsKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", newCLIError(ExitInvalidInput, "invalid_key", "API key cannot be empty.")
	}
	if strings.ContainsAny(key, " \t\n") {
		return "", newCLIError(ExitInvalidInput, "invalid_key", "API key cannot contain whitespace.")
	}
	return key, nil
}

// AuthSlackCmd stores the notification webhook.
type AuthSlackCmd struct {
	WebhookURL string `arg:"" optional:"" help:"Slack webhook URL (skips the interactive prompt)."`
}

func (cmd *AuthSlackCmd) Run(globals *Globals) error {
	webhookURL := strings.TrimSpace(cmd.WebhookURL)
	if webhookURL == "" {
		err := runField(
			huh.NewInput().
				Title("Paste your Slack webhook URL:").
				Placeholder("https://hooks.slack.com/services/T.../B.../xxx").
				Validate(validateWebhookURL).
				Value(&webhookURL),
		)
		if err != nil {
			return err
		}
		webhookURL = strings.TrimSpace(webhookURL)
	}
	if err := validateWebhookURL(webhookURL); err != nil {
		return newCLIError(ExitInvalidInput, "invalid_url", err.Error())
	}

	// The greeting doubles as verification, so a bad URL never persists.
	if !globals.JSON {
		fmt.Print("Verifying webhook... ")
	}
	if err := slack.SendWebhook(webhookURL, "event-assistant is connected! New events will be posted here."); err != nil {
		if !globals.JSON {
			fmt.Println("failed.")
		}
		return newCLIError(ExitRuntimeError, "webhook_failed",
			fmt.Sprintf("Webhook verification failed: %s", err))
	}
	if !globals.JSON {
		fmt.Println("ok!")
	}

	if err := keyring.Set(keyring.SlackWebhook, webhookURL); err != nil {
		return fmt.Errorf("store webhook in keychain: %w", err)
	}

	msg := "Slack webhook configured. New events will be posted there."
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// AuthLogoutCmd removes every stored secret.
type AuthLogoutCmd struct{}

func (cmd *AuthLogoutCmd) Run(globals *Globals) error {
	removed := 0
	for _, k := range []string{keyring.GoogleToken, keyring.MapsAPIKey, keyring.SlackWebhook} {
		err := keyring.Delete(k)
		switch {
		case err == nil:
			removed++
		case keyring.IsNotFound(err):
		default:
			return newCLIError(ExitRuntimeError, "keyring_error",
				fmt.Sprintf("Failed to remove %s: %s", k, err))
		}
	}

	msg := "No stored credentials found."
	if removed > 0 {
		msg = fmt.Sprintf("Removed %d credential(s) from the keychain.", removed)
	}
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// AuthStatusCmd reports which services are configured.
type AuthStatusCmd struct {
	Verify bool `help:"Check that the Slack webhook still works (no message is sent)."`
}

type authStatus struct {
	Google       bool   `json:"google"`
	Credentials  bool   `json:"credentials_file"`
	Maps         bool   `json:"maps"`
	Slack        bool   `json:"slack"`
	SlackPrefix  string `json:"slack_webhook_prefix,omitempty"`
	SlackWorking *bool  `json:"slack_verified,omitempty"`
}

func (cmd *AuthStatusCmd) Run(globals *Globals) error {
	cfg, err := config.Load()
	if err != nil {
		return newCLIError(ExitRuntimeError, "config_error",
			fmt.Sprintf("Failed to load config: %s", err))
	}

	var st authStatus
	_, statErr := os.Stat(cfg.CredentialsFile)
	st.Credentials = statErr == nil

	if _, st.Google, err = keyring.Lookup(keyring.GoogleToken); err != nil {
		return keyringError(err)
	}
	if _, st.Maps, err = keyring.Lookup(keyring.MapsAPIKey); err != nil {
		return keyringError(err)
	}
	webhookURL, ok, err := keyring.Lookup(keyring.SlackWebhook)
	if err != nil {
		return keyringError(err)
	}
	if ok {
		st.Slack = true
		st.SlackPrefix = maskWebhookURL(webhookURL)
		if cmd.Verify {
			v := slack.VerifyWebhook(webhookURL) == nil
			st.SlackWorking = &v
		}
	}

	if globals.JSON {
		return printJSON(st)
	}
	printStatusHuman(st, cfg.CredentialsFile)
	return nil
}

func printStatusHuman(st authStatus, credentialsFile string) {
	switch {
	case st.Google:
		fmt.Println("Google:  logged in")
	case st.Credentials:
		fmt.Println("Google:  not logged in (run `event-assistant auth google`)")
	default:
		fmt.Printf("Google:  no OAuth client at %s\n", credentialsFile)
	}

	if st.Maps {
		fmt.Println("Maps:    configured")
	} else {
		fmt.Println("Maps:    not configured (travel time disabled)")
	}

	if !st.Slack {
		fmt.Println("Slack:   not configured")
		return
	}
	fmt.Printf("Slack:   configured (%s)\n", st.SlackPrefix)
	if st.SlackWorking != nil {
		if *st.SlackWorking {
			fmt.Println("         verification ok (no message sent)")
		} else {
			fmt.Println("         verification failed, the webhook may be revoked")
		}
	}
}

func keyringError(err error) error {
	return newCLIError(ExitRuntimeError, "keyring_error",
		fmt.Sprintf("Failed to read keychain: %s", err))
}

func validateWebhookURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("webhook URL cannot be empty")
	}
	if !strings.HasPrefix(s, "https://hooks.slack.com/") {
		return fmt.Errorf("URL must start with https://hooks.slack.com/")
	}
	return nil
}

// maskWebhookURL keeps the host and the team segment of a webhook URL.
func maskWebhookURL(url string) string {
	// "https://hooks.slack.com/services/T.../B.../xxx" -> "https://hooks.slack.com/services/T.../..."
	parts := strings.SplitN(url, "/services/", 2)
	if len(parts) == 2 {
		service := parts[1]
		if idx := strings.Index(service, "/"); idx > 0 {
			return parts[0] + "/services/" + service[:idx] + "/..."
		}
	}
	return "https://hooks.slack.com/..."
}
