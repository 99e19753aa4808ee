package helpers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher installs the queue used by the Send helpers; nil sends inline.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// Dispatch runs fn on the dispatcher, or inline when none is installed or
// the queue cannot take it.
func Dispatch(ctx context.Context, action, endpoint string, fn func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return fn()
	}
	err := disp.Enqueue(ctx, action, endpoint, fn)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("op", action),
			slog.String("err", err.Error()),
		)
		return fn()
	}
	return err
}

// Do runs fn synchronously with the dispatcher's retries, or plainly when
// none is installed.
func Do(ctx context.Context, action, endpoint string, fn func() error) error {
	if disp := globalDispatcher.Load(); disp != nil {
		return disp.Do(ctx, action, endpoint, fn)
	}
	return fn()
}

// SendMD sends Markdown text to the current chat with an optional keyboard.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return Dispatch(BuildContext(c), "send.text", "sendMessage", func() error {
		return c.Send(text, opts)
	})
}
