package bot

import (
	"context"
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/pairing"
	tghelpers "github.com/aura650/anon-go-bot/core/telegram/helpers"
	"github.com/aura650/anon-go-bot/core/telegram/middleware"
	"github.com/aura650/anon-go-bot/core/telegram/sender"
)

var errNoMessenger = errors.New("bot: messenger not installed")

// notice is one rendered system message.
type notice struct {
	text   string
	markup *tele.ReplyMarkup
	// edit replaces the message behind the pressed button when possible.
	edit bool
}

func (n notice) options() *tele.SendOptions {
	return &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: n.markup}
}

// render turns an event into the message recipient `to` should see.
// Relay events are delivered by the deliverer, not here.
func render(ev pairing.Event, to int64) (notice, bool) {
	switch ev.Kind {
	case pairing.EventPromptGender:
		return notice{text: textPromptGender, markup: genderMenu()}, true
	case pairing.EventPromptMood:
		return notice{text: textPromptMood, markup: moodMenu()}, true
	case pairing.EventSearching:
		return notice{text: textSearching}, true
	case pairing.EventAlreadyInChat:
		return notice{text: textAlreadyInChat}, true
	case pairing.EventAlreadySearching:
		return notice{text: textAlreadySearching}, true
	case pairing.EventPairingFound:
		mood := ev.PartnerMood
		if to == ev.Partner {
			mood = ev.UserMood
		}
		return notice{text: partnerFoundText(mood)}, true
	case pairing.EventPartnerLeft:
		return notice{text: textPartnerLeft}, true
	case pairing.EventYouStopped:
		return notice{text: textYouStopped}, true
	case pairing.EventNotInChat:
		return notice{text: textNotInChat}, true
	case pairing.EventSearchCancelled:
		return notice{text: textSearchCancelled}, true
	case pairing.EventNotSearching:
		return notice{text: textNotSearching}, true
	case pairing.EventRelayFailed:
		switch ev.Reason {
		case pairing.ReasonNotInSession:
			return notice{text: textSearchHint, markup: mainMenu()}, true
		case pairing.ReasonPartnerMissing:
			return notice{text: textPartnerMissing}, true
		default:
			return notice{text: textForwardFailed}, true
		}
	case pairing.EventGenderSaved:
		return notice{text: genderSavedText(ev.Gender), edit: true}, true
	case pairing.EventMoodSaved:
		return notice{text: moodSavedText(ev.Mood), edit: true}, true
	case pairing.EventPreferenceSaved:
		return notice{text: preferenceSavedText(ev.Preference), edit: true}, true
	}
	return notice{}, false
}

// notify delivers events in order and synchronously, so a confirmation is
// never overtaken by the prompt that follows it.
func (a *App) notify(c tele.Context, events []pairing.Event) error {
	ctx := tghelpers.BuildContext(c)
	var self int64
	if u := c.Sender(); u != nil {
		self = u.ID
	}
	var errs []error
	for _, ev := range events {
		for _, to := range ev.Recipients() {
			n, ok := render(ev, to)
			if !ok {
				continue
			}
			if n.edit && to == self && c.Callback() != nil {
				err := c.Edit(n.text, n.options())
				if err == nil {
					continue
				}
				logger.Debug(ctx, component, "notify.edit.fallback", slog.String("err", err.Error()))
			}
			if err := a.sendNotice(ctx, to, n); err != nil {
				errs = append(errs, err)
				continue
			}
			middleware.AddMessages(c, 1)
		}
	}
	return errors.Join(errs...)
}

func (a *App) sendNotice(ctx context.Context, to int64, n notice) error {
	return a.send(ctx, to, "send.notice", "sendMessage", n.text, n.options())
}

func (a *App) send(ctx context.Context, to int64, action, endpoint string, what interface{}, opts ...interface{}) error {
	if a.msgr == nil {
		return errNoMessenger
	}
	err := tghelpers.Do(ctx, action, endpoint, func() error {
		_, err := a.msgr.Send(tele.ChatID(to), what, opts...)
		return err
	})
	if err != nil {
		logger.Warn(ctx, component, "send.fail",
			slog.String("op", action),
			slog.Int64("to", to),
			slog.String("err_code", sender.ErrorKind(err)),
		)
	}
	return err
}
