package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofrs/flock"

	"github.com/lvrach/event-assistant/internal/event"
)

// dataDir returns the root data directory. Overridable in tests.
var dataDir = defaultDataDir

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "event-assistant")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "event-assistant")
}

// userDir returns the per-user directory. The user name is reduced to a
// single safe path segment.
func userDir(user string) string {
	return filepath.Join(dataDir(), sanitize(user))
}

func sanitize(user string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.', r == '@':
			return r
		default:
			return '_'
		}
	}, user)
	clean = strings.Trim(clean, ".")
	if clean == "" {
		return "default"
	}
	return clean
}

func eventsPath(user string) string {
	return filepath.Join(userDir(user), "events.json")
}

// withLock runs fn under an exclusive file lock for user.
// The lock serializes writers across goroutines and processes.
func withLock(user string, fn func() error) error {
	dir := userDir(user)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	fl := flock.New(filepath.Join(dir, ".lock"))
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}

// Load returns all events of user sorted by start time.
// Returns nil slice and nil error if the user has no events yet.
func Load(user string) ([]event.Event, error) {
	var events []event.Event
	if err := readJSON(eventsPath(user), &events); err != nil {
		return nil, err
	}
	sortByStart(events)
	return events, nil
}

// Append stores ev for user.
func Append(user string, ev event.Event) error {
	return withLock(user, func() error {
		events, err := Load(user)
		if err != nil {
			return err
		}
		events = append(events, ev)
		sortByStart(events)
		return atomicWrite(eventsPath(user), events)
	})
}

// Remove deletes the event whose ID equals id or starts with it.
// An ambiguous prefix removes nothing and returns an error.
func Remove(user, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	found := false
	err := withLock(user, func() error {
		events, err := Load(user)
		if err != nil {
			return err
		}

		idx := -1
		for i, e := range events {
			if e.ID == id {
				idx = i
				break
			}
			if strings.HasPrefix(e.ID, id) {
				if idx != -1 {
					return fmt.Errorf("id prefix %q matches more than one event", id)
				}
				idx = i
			}
		}
		if idx == -1 {
			return nil
		}

		found = true
		events = slices.Delete(events, idx, idx+1)
		return atomicWrite(eventsPath(user), events)
	})
	return found, err
}

// Clear removes all events of user.
func Clear(user string) error {
	return withLock(user, func() error {
		err := os.Remove(eventsPath(user))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}

// Conflicts returns the stored events that intersect ev.
func Conflicts(user string, ev event.Event) ([]event.Event, error) {
	events, err := Load(user)
	if err != nil {
		return nil, err
	}
	var out []event.Event
	for _, e := range events {
		if e.ID != ev.ID && e.Intersects(ev) {
			out = append(out, e)
		}
	}
	return out, nil
}

func sortByStart(events []event.Event) {
	slices.SortStableFunc(events, event.Event.Compare)
}

// readJSON decodes path into v. A missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func atomicWrite(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
