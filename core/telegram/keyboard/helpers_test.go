package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/telegram/callbacks"
)

func TestGridClampsWidth(t *testing.T) {
	markup := Grid([]InlineBtn{{Text: "a", Unique: "x"}, {Text: "b", Unique: "x"}}, 0)
	assert.Len(t, markup.InlineKeyboard, 2)
	assert.Empty(t, Grid(nil, 3).InlineKeyboard)
}

func TestGridLaysOutButtons(t *testing.T) {
	markup := Grid([]InlineBtn{
		{Text: "Male", Unique: "gender", Data: "male"},
		{Text: "Female", Unique: "gender", Data: "female"},
		{Text: "Other", Unique: "gender", Data: "other"},
	}, 2)

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 1)
	assert.Equal(t, "Female", markup.InlineKeyboard[0][1].Text)
	btn := markup.InlineKeyboard[0][1]
	assert.Equal(t, "gender", btn.Unique)
	assert.Equal(t, "female", btn.Data)
}

func TestRowsSkipsEmptyRows(t *testing.T) {
	markup := Rows([]InlineBtn{{Text: "Search", Unique: "menu", Data: "search"}}, nil)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "menu", markup.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "search", markup.InlineKeyboard[0][0].Data)
}

func TestButtonDataRoundTripsThroughParse(t *testing.T) {
	btn := Rows([]InlineBtn{{Text: "Calm", Unique: "mood", Data: "calm"}}).InlineKeyboard[0][0]

	// telebot sends unique buttons as "\f<unique>|<data>"
	wire := &tele.Callback{Data: "\f" + btn.Unique + "|" + btn.Data}
	unique, payload := callbacks.Parse(wire)
	assert.Equal(t, "mood", unique)
	assert.Equal(t, "calm", payload)
}
