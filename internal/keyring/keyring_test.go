package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	gokeyring.MockInit()

	_, err := Get(MapsAPIKey)
	assert.True(t, IsNotFound(err))

	require.NoError(t, Set(MapsAPIKey, "secret"))
	got, err := Get(MapsAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	require.NoError(t, Delete(MapsAPIKey))
	_, err = Get(MapsAPIKey)
	assert.True(t, IsNotFound(err))
}

func TestLookup(t *testing.T) {
	gokeyring.MockInit()

	v, ok, err := Lookup(SlackWebhook)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, Set(SlackWebhook, "https://hooks.slack.com/services/x"))
	v, ok, err = Lookup(SlackWebhook)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://hooks.slack.com/services/x", v)
}
