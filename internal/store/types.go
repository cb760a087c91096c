package store

import (
	"path/filepath"
	"slices"
	"strings"
)

func typesPath(user string) string {
	return filepath.Join(userDir(user), "types.json")
}

// Types returns the event types user has created, in creation order.
func Types(user string) ([]string, error) {
	var types []string
	if err := readJSON(typesPath(user), &types); err != nil {
		return nil, err
	}
	return types, nil
}

// AddType registers name for user. Names are unique ignoring case;
// added is false when an equivalent name already exists.
func AddType(user, name string) (added bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	err = withLock(user, func() error {
		types, err := Types(user)
		if err != nil {
			return err
		}
		if HasType(types, name) {
			return nil
		}
		added = true
		return atomicWrite(typesPath(user), append(types, name))
	})
	return added, err
}

// HasType reports whether types contains name, ignoring case.
func HasType(types []string, name string) bool {
	return slices.ContainsFunc(types, func(t string) bool {
		return strings.EqualFold(t, name)
	})
}
