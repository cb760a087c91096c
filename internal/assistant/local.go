package assistant

import (
	"github.com/lvrach/event-assistant/internal/event"
	"github.com/lvrach/event-assistant/internal/store"
)

// LocalStore is the Store backed by the on-disk event files.
type LocalStore struct{}

func (LocalStore) Append(user string, ev event.Event) error { return store.Append(user, ev) }

func (LocalStore) Types(user string) ([]string, error) { return store.Types(user) }

func (LocalStore) AddType(user, name string) (bool, error) { return store.AddType(user, name) }

func (LocalStore) Conflicts(user string, ev event.Event) ([]event.Event, error) {
	return store.Conflicts(user, ev)
}
