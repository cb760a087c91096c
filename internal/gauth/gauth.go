// Package gauth handles the Google OAuth installed-app flow and keeps the
// resulting token in the system keychain.
package gauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/lvrach/event-assistant/internal/keyring"
)

// ErrNoToken means the user has not completed the login flow.
var ErrNoToken = errors.New("not logged into Google")

// ErrStateMismatch means a pasted redirect belongs to another login attempt.
var ErrStateMismatch = errors.New("redirect state does not match this login")

// TokenStore persists a serialized token.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
}

// KeyringStore keeps the token as JSON under keyring.GoogleToken.
type KeyringStore struct{}

func (KeyringStore) Load() (*oauth2.Token, error) {
	raw, err := keyring.Get(keyring.GoogleToken)
	if err != nil {
		if keyring.IsNotFound(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("read token from keychain: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal([]byte(raw), tok); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	return tok, nil
}

func (KeyringStore) Save(tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return keyring.Set(keyring.GoogleToken, string(b))
}

// Config loads the OAuth client from the credentials JSON downloaded from
// the Google Cloud console.
func Config(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath) //nolint:gosec // path comes from user config
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return cfg, nil
}

// NewState returns a fresh value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthURL returns the consent page the user must visit.
func AuthURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// CodeFromRedirect extracts the authorization code from what the user pasted:
// either the bare code or the whole redirect URL. A redirect URL must carry
// the state that was put into AuthURL.
func CodeFromRedirect(pasted, state string) (string, error) {
	pasted = strings.TrimSpace(pasted)
	if !strings.Contains(pasted, "://") {
		if pasted == "" {
			return "", errors.New("empty authorization code")
		}
		return pasted, nil
	}

	u, err := url.Parse(pasted)
	if err != nil {
		return "", fmt.Errorf("parse redirect URL: %w", err)
	}
	q := u.Query()
	if msg := q.Get("error"); msg != "" {
		return "", fmt.Errorf("consent denied: %s", msg)
	}
	if q.Get("state") != state {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("redirect URL has no code")
	}
	return code, nil
}

// Exchange trades an authorization code for a token and stores it.
func Exchange(ctx context.Context, cfg *oauth2.Config, store TokenStore, code string) error {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return store.Save(tok)
}

// TokenSource returns a source backed by the stored token. Refreshed
// tokens are written back to store; failed writes are logged to log.
func TokenSource(ctx context.Context, cfg *oauth2.Config, store TokenStore, log *slog.Logger) (oauth2.TokenSource, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &persistingSource{
		base:  cfg.TokenSource(ctx, tok),
		store: store,
		log:   log,
		last:  tok.AccessToken,
	}, nil
}

type persistingSource struct {
	base  oauth2.TokenSource
	store TokenStore
	log   *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		// The token in hand is still good; only the next run pays for this.
		if err := s.store.Save(tok); err != nil {
			s.log.Warn("persist refreshed google token", "error", err)
		}
	}
	return tok, nil
}
