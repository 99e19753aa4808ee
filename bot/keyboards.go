package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/pairing"
	"github.com/aura650/anon-go-bot/core/telegram/keyboard"
)

// Callback uniques; the payload carries the choice.
const (
	cbMenu   = "menu"
	cbGender = "gender"
	cbMood   = "mood"
	cbPref   = "pref"
)

// Menu payloads.
const (
	menuSearch       = "search"
	menuChangeGender = "change_gender"
	menuHow          = "how"
	menuSupport      = "support"
	menuSetPref      = "set_pref"
)

var (
	genderLabels = map[pairing.Gender]string{
		pairing.GenderMale:   "Male ♂️",
		pairing.GenderFemale: "Female ♀️",
		pairing.GenderOther:  "Other ⚧️",
	}
	prefLabels = map[pairing.Preference]string{
		pairing.PreferAny:    "Any",
		pairing.PreferMale:   "Male ♂️",
		pairing.PreferFemale: "Female ♀️",
		pairing.PreferOther:  "Other ⚧️",
	}
	moodLabels = map[pairing.Mood]string{
		pairing.MoodHappy:     "😊 Happy",
		pairing.MoodSad:       "😢 Sad",
		pairing.MoodChill:     "😎 Chill",
		pairing.MoodFlirty:    "😉 Flirty",
		pairing.MoodAngry:     "😡 Angry",
		pairing.MoodEmotional: "🫶 Emotional",
		pairing.MoodCalm:      "😌 Calm",
		pairing.MoodTired:     "😴 Tired",
	}
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.Rows(
		[]keyboard.InlineBtn{
			{Text: "🔍 Search", Unique: cbMenu, Data: menuSearch},
			{Text: "⚙️ Change Gender", Unique: cbMenu, Data: menuChangeGender},
		},
		[]keyboard.InlineBtn{
			{Text: "❓ How it works", Unique: cbMenu, Data: menuHow},
			{Text: "🧑‍💼 Support", Unique: cbMenu, Data: menuSupport},
		},
	)
}

func genderMenu() *tele.ReplyMarkup {
	row := make([]keyboard.InlineBtn, 0, len(pairing.Genders))
	for _, g := range pairing.Genders {
		row = append(row, keyboard.InlineBtn{Text: genderLabels[g], Unique: cbGender, Data: string(g)})
	}
	return keyboard.Rows(row, []keyboard.InlineBtn{
		{Text: "Set partner preference", Unique: cbMenu, Data: menuSetPref},
	})
}

func moodMenu() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(pairing.Moods))
	for _, m := range pairing.Moods {
		btns = append(btns, keyboard.InlineBtn{Text: moodLabels[m], Unique: cbMood, Data: string(m)})
	}
	return keyboard.Grid(btns, 3)
}

func preferenceMenu() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(pairing.Preferences))
	for _, p := range pairing.Preferences {
		btns = append(btns, keyboard.InlineBtn{Text: prefLabels[p], Unique: cbPref, Data: string(p)})
	}
	return keyboard.Grid(btns, 2)
}
