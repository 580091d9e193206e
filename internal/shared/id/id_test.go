package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientID(t *testing.T) {
	a := NewClientID()
	b := NewClientID()

	assert.True(t, strings.HasPrefix(a.String(), ClientPrefix+"_"))
	assert.NotEqual(t, a, b)
	assert.Less(t, a.String(), b.String(), "monotonic ids sort by creation")
}

func TestNewSessionID(t *testing.T) {
	s := NewSessionID()
	assert.True(t, strings.HasPrefix(s.String(), SessionPrefix+"_"))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewClientID().String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("ws_not-a-ulid")
	assert.Error(t, err)
}
