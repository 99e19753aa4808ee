package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		cb          *tele.Callback
		wantUnique  string
		wantPayload string
	}{
		{name: "nil", cb: nil},
		{name: "raw telebot data", cb: &tele.Callback{Data: "\fgender|female"}, wantUnique: "gender", wantPayload: "female"},
		{name: "no payload", cb: &tele.Callback{Data: "\fmenu"}, wantUnique: "menu"},
		{name: "payload keeps separators", cb: &tele.Callback{Data: "\fmood|a|b"}, wantUnique: "mood", wantPayload: "a|b"},
		{name: "already routed", cb: &tele.Callback{Unique: "pref", Data: "any"}, wantUnique: "pref", wantPayload: "any"},
		{name: "foreign data", cb: &tele.Callback{Data: "legacy_button"}, wantUnique: "legacy_button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, payload := Parse(tt.cb)
			assert.Equal(t, tt.wantUnique, unique)
			assert.Equal(t, tt.wantPayload, payload)
		})
	}
}
