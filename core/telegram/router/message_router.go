package router

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/aura650/anon-go-bot/core/telegram"
	"github.com/aura650/anon-go-bot/core/telegram/middleware"
)

// MessageOptions controls routing of plain messages.
type MessageOptions struct {
	Commands CommandRouteOptions
	// Relay receives every message that is not a command: text and media.
	// The registry's text fallback takes precedence for text when set.
	Relay tele.HandlerFunc
	// UnknownCommand handles "/..." text that matches no registered command.
	UnknownCommand tele.HandlerFunc
}

// MediaEndpoints lists the message kinds forwarded to the relay handler.
// Kinds outside the supported set still reach it so the sender can be told.
var MediaEndpoints = []string{
	tele.OnPhoto,
	tele.OnVideo,
	tele.OnSticker,
	tele.OnAnimation,
	tele.OnDocument,
	tele.OnVoice,
	tele.OnAudio,
	tele.OnVideoNote,
	tele.OnLocation,
	tele.OnContact,
	tele.OnVenue,
	tele.OnPoll,
	tele.OnDice,
}

// MessageRoutes builds the text route (registered commands and their
// aliases, then relay) and one route per media endpoint.
func MessageRoutes(reg *tg.Registry, opts MessageOptions) []tg.Route {
	text := func(c tele.Context) error {
		start := time.Now()
		body := strings.TrimSpace(c.Text())

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(body); ok && cmd.Handler != nil {
				return wrapCommand(key, cmd, opts.Commands)(c)
			}
		}
		if strings.HasPrefix(body, "/") && opts.UnknownCommand != nil {
			return handleWithSummary(c, "unknown_command", start, func() error { return opts.UnknownCommand(c) })
		}
		relay := opts.Relay
		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				relay = fb
			}
		}
		if relay == nil {
			logHandlerSummary(c, "relay", start, "skip", nil)
			return nil
		}
		return handleWithSummary(c, "relay", start, func() error { return relay(c) })
	}

	media := func(c tele.Context) error {
		start := time.Now()
		if opts.Relay == nil {
			logHandlerSummary(c, "relay", start, "skip", nil)
			return nil
		}
		return handleWithSummary(c, "relay", start, func() error { return opts.Relay(c) })
	}

	routes := []tg.Route{{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(text)),
	}}
	wrapped := middleware.RecoverMiddleware(middleware.LoggerMiddleware(media))
	for _, ep := range MediaEndpoints {
		routes = append(routes, tg.Route{Endpoint: ep, Handler: wrapped})
	}
	return routes
}
