package router

import (
	"context"
	"log/slog"
	"slices"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/logger"
	tg "github.com/aura650/anon-go-bot/core/telegram"
	"github.com/aura650/anon-go-bot/core/telegram/middleware"
)

// CommandRouteOptions configures how commands are wrapped.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes returns one route per registered command, in name order.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	cmds := reg.Commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)

	routes := make([]tg.Route, 0, len(names))
	for _, name := range names {
		routes = append(routes, tg.Route{Endpoint: name, Handler: wrapCommand(name, cmds[name], opts)})
	}

	logger.Info(context.Background(), "tg.wire", "complete",
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}

func wrapCommand(name string, def tg.Command, opts CommandRouteOptions) tele.HandlerFunc {
	handlerName := normalizeHandlerName(name)
	inner := def.Handler
	if def.AdminOnly {
		inner = middleware.AdminOnlyMiddleware(middleware.AdminOptions{
			AdminID:  opts.AdminID,
			OnReject: opts.OnAdminReject,
		})(inner)
	}
	h := func(c tele.Context) error {
		return handleWithSummary(c, handlerName, time.Now(), func() error { return inner(c) })
	}
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}
