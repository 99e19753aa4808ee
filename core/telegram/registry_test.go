package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func nopHandler(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/search", Command{Handler: nopHandler, Description: "Find a partner"}))
	assert.Error(t, reg.RegisterCommand("/search", Command{Handler: nopHandler, Description: "again"}))
	assert.Error(t, reg.RegisterCommand("next", Command{Handler: nopHandler, Description: "no slash"}))
	assert.Error(t, reg.RegisterCommand("/stop", Command{Description: "no handler"}))
}

func TestListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/stop", Command{Handler: nopHandler, Description: "Stop"}))
	require.NoError(t, reg.RegisterCommand("/search", Command{Handler: nopHandler, Description: "Search"}))
	require.NoError(t, reg.RegisterCommand("/stats", Command{Handler: nopHandler, Description: "Stats", AdminOnly: true}))
	require.NoError(t, reg.RegisterCommand("/debug", Command{Handler: nopHandler, Description: "Debug", Hidden: true}))

	assert.Equal(t, []tele.Command{
		{Text: "search", Description: "Search"},
		{Text: "stop", Description: "Stop"},
	}, reg.ListCommands(true))
	assert.Len(t, reg.ListCommands(false), 4)
}

func TestLookupCommand(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/search", Command{
		Handler:     nopHandler,
		Description: "Search",
		Aliases:     []string{"🔍 Search"},
	}))

	key, _, ok := reg.LookupCommand("/search")
	assert.True(t, ok)
	assert.Equal(t, "/search", key)

	key, _, ok = reg.LookupCommand(" 🔍 Search ")
	assert.True(t, ok)
	assert.Equal(t, "/search", key)

	_, _, ok = reg.LookupCommand("search")
	assert.False(t, ok, "plain words are chat text")
	_, _, ok = reg.LookupCommand("")
	assert.False(t, ok)
}

func TestRegisterCallback(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("mood", nopHandler))
	require.NoError(t, reg.RegisterCallback("gender", nopHandler))
	assert.Error(t, reg.RegisterCallback("mood", nopHandler))
	assert.Error(t, reg.RegisterCallback("", nopHandler))

	_, ok := reg.GetCallback("mood")
	assert.True(t, ok)
	assert.Equal(t, []string{"gender", "mood"}, reg.ListCallbacks())
}

type fakeSetter struct {
	got []tele.Command
	err error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	if len(opts) > 0 {
		f.got, _ = opts[0].([]tele.Command)
	}
	return f.err
}

func TestInitBotCommands(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/help", Command{Handler: nopHandler, Description: "Help"}))

	setter := &fakeSetter{}
	InitBotCommands(setter, reg)
	assert.Equal(t, []tele.Command{{Text: "help", Description: "Help"}}, setter.got)

	InitBotCommands(&fakeSetter{err: errors.New("unauthorized")}, reg)
}
