package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncher_ConfiguredCommand(t *testing.T) {
	l := NewLauncher("firefox", []string{"--new-tab"}, NullLogger())

	var gotName string
	var gotArgs []string
	l.start = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	require.NoError(t, l.Open("https://rebrickable.com/sets/75192-1/"))
	assert.Equal(t, "firefox", gotName)
	assert.Equal(t, []string{"--new-tab", "https://rebrickable.com/sets/75192-1/"}, gotArgs)

	// Configured args are not mutated across calls
	require.NoError(t, l.Open("https://www.bricklink.com/"))
	assert.Equal(t, []string{"--new-tab", "https://www.bricklink.com/"}, gotArgs)
}

func TestLauncher_RejectsNonWebURLs(t *testing.T) {
	l := NewLauncher("", nil, NullLogger())
	l.start = func(string, ...string) error {
		t.Fatal("must not launch")
		return nil
	}

	assert.Error(t, l.Open("file:///etc/passwd"))
	assert.Error(t, l.Open("javascript:alert(1)"))
	assert.Error(t, l.Open(""))
}

func TestLauncher_StartFailure(t *testing.T) {
	l := NewLauncher("", nil, NullLogger())
	l.start = func(string, ...string) error { return errors.New("not found") }

	assert.Error(t, l.Open("https://rebrickable.com/"))
}
