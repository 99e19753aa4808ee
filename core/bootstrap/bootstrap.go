// Package bootstrap brings up shared infrastructure before the bot starts:
// logger, database with migrations, and the profile store.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/aura650/anon-go-bot/core/config"
	coredatabase "github.com/aura650/anon-go-bot/core/database"
	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/profilestore"
)

const pingTimeout = 3 * time.Second

// Options control the bootstrap pipeline. Nil hooks use the package defaults.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config
	Store    profilestore.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(*sqlx.DB, coredatabase.Config) (coredatabase.MigrationReport, error)
	OpenStore  func(profilestore.Config, *sqlx.DB) (profilestore.Store, error)
}

// Result exposes infrastructure initialized by Run. DB is nil for the redis backend.
type Result struct {
	DB         *sqlx.DB
	Store      profilestore.Store
	Migrations coredatabase.MigrationReport
}

// Close releases the store and the database.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	if r.DB != nil {
		errs = append(errs, r.DB.Close())
	}
	return errors.Join(errs...)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Run initializes the logger, then the SQL database (connect and migrate)
// when the store backend needs it, then opens and checks the profile store.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}
	if err := opts.Store.Normalize(); err != nil {
		return nil, fmt.Errorf("bootstrap: store config: %w", err)
	}

	res := &Result{}
	if opts.Store.Backend == profilestore.BackendSQL {
		if err := res.openDatabase(opts); err != nil {
			return nil, err
		}
	}

	open := opts.OpenStore
	if open == nil {
		open = profilestore.Open
	}
	store, err := open(opts.Store, res.DB)
	if err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("bootstrap: profile store: %w", err)
	}
	res.Store = store

	if p, ok := store.(pinger); ok {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			_ = res.Close()
			return nil, fmt.Errorf("bootstrap: profile store unreachable: %w", err)
		}
	}
	logger.Info(context.Background(), "app", "store.ready", slog.String("backend", opts.Store.Backend))
	return res, nil
}

func (r *Result) openDatabase(opts Options) error {
	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(opts.Database)
	if err != nil {
		return fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	report, err := migrate(db, opts.Database)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("bootstrap: migrations failed: %w", err)
	}
	r.DB = db
	r.Migrations = report
	return nil
}
