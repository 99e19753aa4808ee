package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/aura650/anon-go-bot/core/telegram"
	"github.com/aura650/anon-go-bot/core/telegram/callbacks"
	"github.com/aura650/anon-go-bot/core/telegram/middleware"
)

// CallbackRoute routes every inline button press through the registry by
// button unique. Unknown uniques go to the registry's not-found handler.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key, payload := callbacks.Parse(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key), slog.String("payload", payload)}

		h, ok := reg.GetCallback(key)
		if !ok {
			h = reg.CallbackNotFound()
			extras = append(extras, slog.String("reason", "not_found"))
		}
		// stop the client spinner even when the handler fails
		defer func() { _ = c.Respond() }()
		if h == nil {
			logHandlerSummary(c, name, start, "skip", nil, extras...)
			return nil
		}
		return handleWithSummary(c, name, start, func() error { return h(c) }, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
