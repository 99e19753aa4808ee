package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/logger"
)

const ctxKey = "logger_ctx"

// StoreContext caches ctx on the update for downstream handlers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(ctxKey, ctx)
	}
}

// ContextFrom returns the context cached by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxKey).(context.Context)
	return ctx, ok
}

// BuildContext returns the request context for the update, creating and
// caching it on first use. It carries the rid and update, user and chat ids.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	if c == nil {
		return context.Background()
	}
	var userID, chatID int64
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	updateID := c.Update().ID

	ctx := logger.WithRID(context.Background(), logger.BuildRID(updateID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the cached context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := logger.WithHandler(BuildContext(c), handler)
	StoreContext(c, ctx)
	return ctx
}

// WithPeer tags the cached context with the user's chat partner.
func WithPeer(c tele.Context, partnerID int64) context.Context {
	ctx := logger.WithPeer(BuildContext(c), partnerID)
	StoreContext(c, ctx)
	return ctx
}
