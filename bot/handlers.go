package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/pairing"
	"github.com/aura650/anon-go-bot/core/telegram/callbacks"
	tghelpers "github.com/aura650/anon-go-bot/core/telegram/helpers"
)

func (a *App) onStart(c tele.Context) error {
	u := c.Sender()
	if err := a.engine.Register(tghelpers.BuildContext(c), u.ID, u.Username); err != nil {
		return a.fail(c, "register", err)
	}
	return tghelpers.SendMD(c, textWelcome, mainMenu())
}

func (a *App) onSearch(c tele.Context) error {
	u := c.Sender()
	events, err := a.engine.Search(tghelpers.BuildContext(c), u.ID, u.Username)
	if err != nil {
		return a.fail(c, "search", errors.Join(err, a.notify(c, events)))
	}
	return a.notify(c, events)
}

func (a *App) onNext(c tele.Context) error {
	events, err := a.engine.Next(tghelpers.BuildContext(c), c.Sender().ID)
	// teardown already happened even when matchmaking failed
	notifyErr := a.notify(c, events)
	if err != nil {
		return a.fail(c, "next", err)
	}
	return notifyErr
}

func (a *App) onStop(c tele.Context) error {
	return a.notify(c, a.engine.Stop(tghelpers.BuildContext(c), c.Sender().ID))
}

func (a *App) onCancel(c tele.Context) error {
	return a.notify(c, a.engine.CancelSearch(tghelpers.BuildContext(c), c.Sender().ID))
}

func (a *App) onStatus(c tele.Context) error {
	return tghelpers.SendMD(c, statusText(a.engine.Status(c.Sender().ID)))
}

func (a *App) onHelp(c tele.Context) error {
	return tghelpers.SendMD(c, textHowItWorks)
}

func (a *App) onGenderMenu(c tele.Context) error {
	return tghelpers.SendMD(c, textChangeGender, genderMenu())
}

func (a *App) onMoodMenu(c tele.Context) error {
	return tghelpers.SendMD(c, textPromptMood, moodMenu())
}

func (a *App) onPreferenceMenu(c tele.Context) error {
	return tghelpers.SendMD(c, textPromptPref, preferenceMenu())
}

func (a *App) onStats(c tele.Context) error {
	v := statsView{Stats: a.engine.Stats()}
	if a.disp != nil {
		v.Sent, v.Failed = a.disp.Sent(), a.disp.Failed()
	}
	return tghelpers.SendMD(c, statsText(v))
}

func (a *App) onUnknownCommand(c tele.Context) error {
	return tghelpers.SendMD(c, textUnknownCommand)
}

func (a *App) onLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Too fast"})
	}
	return tghelpers.SendMD(c, textTooFast)
}

func (a *App) onMenu(c tele.Context) error {
	switch callbacks.Payload(c) {
	case menuSearch:
		return a.onSearch(c)
	case menuChangeGender:
		return a.onGenderMenu(c)
	case menuHow:
		return a.onHelp(c)
	case menuSupport:
		return tghelpers.SendMD(c, textSupport)
	case menuSetPref:
		return a.onPreferenceMenu(c)
	}
	return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
}

func (a *App) onGender(c tele.Context) error {
	events, err := a.engine.SelectGender(tghelpers.BuildContext(c), c.Sender().ID, pairing.Gender(callbacks.Payload(c)))
	return a.afterSelect(c, "select gender", events, err)
}

func (a *App) onMood(c tele.Context) error {
	events, err := a.engine.SelectMood(tghelpers.BuildContext(c), c.Sender().ID, pairing.Mood(callbacks.Payload(c)))
	return a.afterSelect(c, "select mood", events, err)
}

func (a *App) onPreference(c tele.Context) error {
	events, err := a.engine.SelectPreference(tghelpers.BuildContext(c), c.Sender().ID, pairing.Preference(callbacks.Payload(c)))
	return a.afterSelect(c, "select preference", events, err)
}

// afterSelect delivers whatever the engine produced, including the saved
// confirmation when a later step failed.
func (a *App) afterSelect(c tele.Context, op string, events []pairing.Event, err error) error {
	switch {
	case errors.Is(err, pairing.ErrInvalidGender),
		errors.Is(err, pairing.ErrInvalidMood),
		errors.Is(err, pairing.ErrInvalidPreference):
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	case err != nil:
		return a.fail(c, op, errors.Join(err, a.notify(c, events)))
	}
	return a.notify(c, events)
}

// onMessage relays any non-command message from a private chat to the
// sender's partner.
func (a *App) onMessage(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	if partner, ok := a.engine.PartnerOf(u.ID); ok {
		ctx = tghelpers.WithPeer(c, partner)
	}
	res := a.engine.Relay(ctx, u.ID, contentOf(c.Message()), pairing.DelivererFunc(a.deliver))
	return a.notify(c, res.Events)
}

// fail tells the user something went wrong and hands err to the router for logging.
func (a *App) fail(c tele.Context, op string, err error) error {
	_ = tghelpers.SendMD(c, textInternalError)
	return fmt.Errorf("%s: %w", op, err)
}
