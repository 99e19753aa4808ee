// Package bot is the Anon-Go Telegram application: it maps commands,
// menu buttons and chat messages onto the pairing engine and renders the
// engine's events as Telegram messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/bootstrap"
	corecmd "github.com/aura650/anon-go-bot/core/cmd"
	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/pairing"
	tg "github.com/aura650/anon-go-bot/core/telegram"
	"github.com/aura650/anon-go-bot/core/telegram/router"
	"github.com/aura650/anon-go-bot/core/telegram/sender"
)

const component = "bot"

// Messenger is the part of *tele.Bot the app sends through.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// App owns the engine and the Telegram wiring around it.
type App struct {
	cfg    *Config
	engine *pairing.Engine
	infra  *bootstrap.Result

	// set in OnStart, before updates are consumed
	msgr Messenger
	disp *sender.Dispatcher
}

// New builds the app over a profile store.
func New(cfg *Config, store pairing.ProfileStore) *App {
	return &App{cfg: cfg, engine: pairing.NewEngine(store, cfg.EngineOptions())}
}

// Bootstrap satisfies core/cmd: it brings up logger, database and store,
// then builds the app.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Store:    cfg.Store,
	})
	if err != nil {
		return nil, err
	}
	app := New(cfg, res.Store)
	app.infra = res
	return app, nil
}

// LoadConfig adapts Load to core/cmd.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return Load(path)
}

// Engine exposes the pairing engine, mainly for tests and diagnostics.
func (a *App) Engine() *pairing.Engine { return a.engine }

// SetMessenger replaces the outbound client; OnStart installs the live bot.
func (a *App) SetMessenger(m Messenger) { a.msgr = m }

// Close releases the store and database opened by Bootstrap.
func (a *App) Close() error {
	return a.infra.Close()
}

// TelegramRunOptions registers handlers and returns the runtime options.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	if err := a.register(reg); err != nil {
		return tg.RunOptions{}, err
	}
	core := a.cfg.CoreConfig()
	cmdOpts := router.CommandRouteOptions{
		AdminID:       core.Telegram.AdminID,
		OnAdminReject: a.onUnknownCommand,
	}

	routes := router.CommandRoutes(reg, cmdOpts)
	routes = append(routes, router.CallbackRoute(reg))
	routes = append(routes, router.MessageRoutes(reg, router.MessageOptions{
		Commands:       cmdOpts,
		Relay:          a.onMessage,
		UnknownCommand: a.onUnknownCommand,
	})...)

	return tg.RunOptions{
		Config:            core,
		Registry:          reg,
		DispatcherOptions: a.cfg.SenderOptions(),
		Middlewares:       tg.DefaultMiddlewares(core, a.onLimited),
		Routes:            routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.msgr = rt.Bot
			a.disp = rt.Dispatcher
			logger.Info(ctx, component, "engine.ready",
				slog.Int("mood_ttl_seconds", a.cfg.Matching.MoodTTLSeconds),
				slog.String("backend", a.cfg.Store.Backend),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			// queue and sessions are in memory only; report what is dropped
			s := a.engine.Stats()
			logger.Info(ctx, component, "engine.stop",
				slog.Int("waiting", s.Waiting),
				slog.Int("pairs", s.Pairs),
			)
			return nil
		},
	}, nil
}

func (a *App) register(reg *tg.Registry) error {
	commands := []struct {
		name string
		cmd  tg.Command
	}{
		{"/start", tg.Command{Handler: a.onStart, Description: "Welcome and main menu"}},
		{"/search", tg.Command{Handler: a.onSearch, Description: "Find a partner"}},
		{"/next", tg.Command{Handler: a.onNext, Description: "End this chat and find a new partner"}},
		{"/stop", tg.Command{Handler: a.onStop, Description: "Stop the current chat"}},
		{"/cancel", tg.Command{Handler: a.onCancel, Description: "Stop searching"}},
		{"/status", tg.Command{Handler: a.onStatus, Description: "Show whether you are chatting or searching"}},
		{"/gender", tg.Command{Handler: a.onGenderMenu, Description: "Change your gender"}},
		{"/mood", tg.Command{Handler: a.onMoodMenu, Description: "Change your mood"}},
		{"/preference", tg.Command{Handler: a.onPreferenceMenu, Description: "Choose who you match with"}},
		{"/help", tg.Command{Handler: a.onHelp, Description: "How it works"}},
		{"/stats", tg.Command{Handler: a.onStats, Description: "Queue and session counters", AdminOnly: true}},
	}
	var errs []error
	for _, c := range commands {
		errs = append(errs, reg.RegisterCommand(c.name, c.cmd))
	}
	errs = append(errs,
		reg.RegisterCallback(cbMenu, a.onMenu),
		reg.RegisterCallback(cbGender, a.onGender),
		reg.RegisterCallback(cbMood, a.onMood),
		reg.RegisterCallback(cbPref, a.onPreference),
	)
	return errors.Join(errs...)
}
