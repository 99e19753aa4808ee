package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"

	"github.com/aura650/anon-go-bot/core/logger"
)

const migrateComponent = "db.migrate"

// MigrationReport summarises one RunMigrations call.
type MigrationReport struct {
	FromVersion uint
	ToVersion   uint
	Applied     []string
}

// RunMigrations applies all up migrations from cfg.MigrationsDir.
// PostgreSQL is migrated over its own connection; sqlite reuses db so that
// in-memory databases see the schema.
func RunMigrations(db *sqlx.DB, cfg Config) (MigrationReport, error) {
	var report MigrationReport
	if err := cfg.Normalize(); err != nil {
		return report, err
	}
	ctx := context.Background()

	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return report, fmt.Errorf("resolve migrations dir: %w", err)
	}
	files := listMigrationFiles(dir)
	preview, truncated := logger.SummarizeStrings(files, 6)
	attrs := []slog.Attr{
		slog.String("path", dir),
		slog.Int("files_total", len(files)),
	}
	if preview != "" {
		attrs = append(attrs, slog.String("files_preview", preview))
	}
	if truncated {
		attrs = append(attrs, slog.Bool("files_truncated", true))
	}
	logger.Debug(ctx, migrateComponent, "resolve", attrs...)

	m, err := newMigrator(db, cfg, "file://"+filepath.ToSlash(dir))
	if err != nil {
		logger.Error(ctx, migrateComponent, "db.migrate", slog.String("err", err.Error()))
		return report, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() {
		if cerr := releaseMigrator(m, cfg.Driver); cerr != nil {
			logger.Warn(ctx, migrateComponent, "close", slog.String("err", cerr.Error()))
		}
	}()

	fromVer, _, _ := m.Version()
	report.FromVersion = fromVer

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	switch {
	case upErr == nil:
	case errors.Is(upErr, migrate.ErrNoChange):
		report.ToVersion = fromVer
		logSummary(ctx, report, took)
		return report, nil
	default:
		logger.Error(ctx, migrateComponent, "apply",
			slog.String("status", "fail"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return report, fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	report.ToVersion = toVer
	report.Applied = selectApplied(files, uint64(fromVer), uint64(toVer))
	if len(report.Applied) > 0 {
		p, more := logger.SummarizeStrings(report.Applied, 6)
		logger.Debug(ctx, migrateComponent, "apply",
			slog.Int("files_total", len(report.Applied)),
			slog.String("files_preview", p),
			slog.Bool("files_truncated", more),
		)
	}
	logSummary(ctx, report, took)
	return report, nil
}

func newMigrator(db *sqlx.DB, cfg Config, sourceURL string) (*migrate.Migrate, error) {
	switch cfg.Driver {
	case DriverPostgres:
		url := postgresURL(cfg)
		if err := WaitForPostgres(url, 30*time.Second); err != nil {
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		return migrate.New(sourceURL, url)
	case DriverSQLite:
		if db == nil {
			return nil, errors.New("sqlite migrations need an open connection")
		}
		driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if err != nil {
			return nil, err
		}
		return migrate.NewWithDatabaseInstance(sourceURL, DriverSQLite, driver)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
}

type migratorCloser interface {
	Close() (source error, database error)
}

// releaseMigrator closes the connection migrate opened for postgres. The
// sqlite migrator runs on the caller's db and is left open.
func releaseMigrator(m migratorCloser, driver string) error {
	if m == nil || driver != DriverPostgres {
		return nil
	}
	srcErr, dbErr := m.Close()
	return errors.Join(srcErr, dbErr)
}

func logSummary(ctx context.Context, r MigrationReport, took time.Duration) {
	logger.Info(ctx, migrateComponent, "summary",
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(r.FromVersion)),
		slog.Uint64("to_ver", uint64(r.ToVersion)),
		slog.Int("files", len(r.Applied)),
		slog.Duration("duration", logger.RoundMS(took)),
	)
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	head, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(head, 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	if to <= from {
		return nil
	}
	var out []string
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
