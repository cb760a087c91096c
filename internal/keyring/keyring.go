package keyring

import (
	"errors"

	gokeyring "github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no secret is stored under a key.
var ErrNotFound = gokeyring.ErrNotFound

const serviceName = "event-assistant"

// Keys of the stored secrets.
const (
	GoogleToken  = "google-token"
	MapsAPIKey   = "maps-api-key"
	SlackWebhook = "slack-webhook-url"
)

// IsNotFound reports whether err indicates a missing keyring entry.
func IsNotFound(err error) bool {
	return errors.Is(err, gokeyring.ErrNotFound)
}

// Get retrieves the secret stored under key from the system keychain.
func Get(key string) (string, error) {
	return gokeyring.Get(serviceName, key)
}

// Set stores a secret under key in the system keychain.
func Set(key, value string) error {
	return gokeyring.Set(serviceName, key, value)
}

// Delete removes the secret stored under key.
func Delete(key string) error {
	return gokeyring.Delete(serviceName, key)
}

// Lookup is Get with a missing entry reported as ok == false instead of an error.
func Lookup(key string) (value string, ok bool, err error) {
	value, err = Get(key)
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
