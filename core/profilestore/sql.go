package profilestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/pairing"
)

const (
	selectUserSQL = `SELECT user_id, username, gender, mood, last_mood_ts, gender_pref
FROM users WHERE user_id = ?`
	insertUserSQL = `INSERT INTO users (user_id, username, last_mood_ts, gender_pref)
VALUES (?, ?, 0, 'any') ON CONFLICT (user_id) DO NOTHING`
	updateGenderSQL = `UPDATE users SET gender = ? WHERE user_id = ?`
	updateMoodSQL   = `UPDATE users SET mood = ?, last_mood_ts = ? WHERE user_id = ?`
	updatePrefSQL   = `UPDATE users SET gender_pref = ? WHERE user_id = ?`
)

type userRow struct {
	UserID     int64          `db:"user_id"`
	Username   sql.NullString `db:"username"`
	Gender     sql.NullString `db:"gender"`
	Mood       sql.NullString `db:"mood"`
	LastMoodTS sql.NullInt64  `db:"last_mood_ts"`
	GenderPref sql.NullString `db:"gender_pref"`
}

func (r userRow) profile() *pairing.UserProfile {
	pref := pairing.Preference(r.GenderPref.String)
	if pref == "" {
		pref = pairing.PreferAny
	}
	return &pairing.UserProfile{
		ID:          r.UserID,
		DisplayName: r.Username.String,
		Gender:      pairing.Gender(r.Gender.String),
		Mood:        pairing.Mood(r.Mood.String),
		Preference:  pref,
		LastMoodAt:  r.LastMoodTS.Int64,
	}
}

// SQLStore keeps profiles in the users table. Queries are written with '?'
// placeholders and rebound for the connected driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQL wraps an open connection; the schema comes from the migrations directory.
func NewSQL(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetProfile(ctx context.Context, userID int64) (*pairing.UserProfile, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectUserSQL), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "get_profile", userID, err)
	}
	return row.profile(), nil
}

func (s *SQLStore) UpsertUser(ctx context.Context, userID int64, displayName string) error {
	name := sql.NullString{String: displayName, Valid: displayName != ""}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(insertUserSQL), userID, name); err != nil {
		return s.fail(ctx, "upsert_user", userID, err)
	}
	return nil
}

func (s *SQLStore) SetGender(ctx context.Context, userID int64, gender pairing.Gender) error {
	return s.update(ctx, "set_gender", userID, updateGenderSQL, string(gender), userID)
}

func (s *SQLStore) SetMood(ctx context.Context, userID int64, mood pairing.Mood, at time.Time) error {
	return s.update(ctx, "set_mood", userID, updateMoodSQL, string(mood), at.Unix(), userID)
}

func (s *SQLStore) SetGenderPreference(ctx context.Context, userID int64, pref pairing.Preference) error {
	return s.update(ctx, "set_gender_pref", userID, updatePrefSQL, string(pref), userID)
}

// Close is a no-op; the connection belongs to the caller.
func (s *SQLStore) Close() error { return nil }

func (s *SQLStore) update(ctx context.Context, op string, userID int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return s.fail(ctx, op, userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail(ctx, op, userID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, userID, ErrUserNotFound)
	}
	return nil
}

func (s *SQLStore) fail(ctx context.Context, op string, userID int64, err error) error {
	logger.Warn(ctx, component, "store.query",
		slog.String("status", "fail"),
		slog.String("backend", BackendSQL),
		slog.String("op", op),
		slog.Int64("user_id", userID),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("profilestore: %s: %w", op, err)
}
