// Package keyboard builds inline keyboards for telebot.
package keyboard

import (
	"github.com/samber/lo"
	tele "gopkg.in/telebot.v4"
)

// InlineBtn is one inline button: a label plus the callback unique and payload.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// Rows builds an inline keyboard from explicit rows.
func Rows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for i, b := range row {
			r[i] = *markup.Data(b.Text, b.Unique, b.Data).Inline()
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}

// Grid lays buttons out n per row. n <= 1 puts each button on its own row.
func Grid(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	return Rows(lo.Chunk(buttons, max(n, 1))...)
}
