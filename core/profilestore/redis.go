package profilestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/pairing"
)

const defaultKeyPrefix = "anongo:user:"

const (
	fieldUsername   = "username"
	fieldGender     = "gender"
	fieldMood       = "mood"
	fieldLastMoodTS = "last_mood_ts"
	fieldGenderPref = "gender_pref"
)

// hsetIfExists writes fields only on an existing hash so setters never
// create partial profiles.
var hsetIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// RedisStore keeps each profile in a hash keyed by prefix+user id.
type RedisStore struct {
	Client *redis.Client
	prefix string
}

// NewRedis initializes the Redis client from config. Only Addr is mandatory.
func NewRedis(cfg RedisConfig) *RedisStore {
	opts := &redis.Options{Addr: cfg.Addr}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{Client: redis.NewClient(opts), prefix: prefix}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}

func (s *RedisStore) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) GetProfile(ctx context.Context, userID int64) (*pairing.UserProfile, error) {
	vals, err := s.Client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, s.fail(ctx, "get_profile", userID, err)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	p := &pairing.UserProfile{
		ID:          userID,
		DisplayName: vals[fieldUsername],
		Gender:      pairing.Gender(vals[fieldGender]),
		Mood:        pairing.Mood(vals[fieldMood]),
		Preference:  pairing.Preference(vals[fieldGenderPref]),
	}
	if p.Preference == "" {
		p.Preference = pairing.PreferAny
	}
	if raw := vals[fieldLastMoodTS]; raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, s.fail(ctx, "get_profile", userID, fmt.Errorf("bad %s %q: %w", fieldLastMoodTS, raw, err))
		}
		p.LastMoodAt = ts
	}
	return p, nil
}

// UpsertUser sets every field with HSETNX so a second call changes nothing.
func (s *RedisStore) UpsertUser(ctx context.Context, userID int64, displayName string) error {
	key := s.key(userID)
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldUsername, displayName)
		pipe.HSetNX(ctx, key, fieldGender, "")
		pipe.HSetNX(ctx, key, fieldMood, "")
		pipe.HSetNX(ctx, key, fieldLastMoodTS, 0)
		pipe.HSetNX(ctx, key, fieldGenderPref, string(pairing.PreferAny))
		return nil
	})
	if err != nil {
		return s.fail(ctx, "upsert_user", userID, err)
	}
	return nil
}

func (s *RedisStore) SetGender(ctx context.Context, userID int64, gender pairing.Gender) error {
	return s.set(ctx, "set_gender", userID, fieldGender, string(gender))
}

func (s *RedisStore) SetMood(ctx context.Context, userID int64, mood pairing.Mood, at time.Time) error {
	return s.set(ctx, "set_mood", userID, fieldMood, string(mood), fieldLastMoodTS, at.Unix())
}

func (s *RedisStore) SetGenderPreference(ctx context.Context, userID int64, pref pairing.Preference) error {
	return s.set(ctx, "set_gender_pref", userID, fieldGenderPref, string(pref))
}

func (s *RedisStore) set(ctx context.Context, op string, userID int64, fieldValues ...any) error {
	n, err := hsetIfExists.Run(ctx, s.Client, []string{s.key(userID)}, fieldValues...).Int()
	if err != nil {
		return s.fail(ctx, op, userID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, userID, ErrUserNotFound)
	}
	return nil
}

func (s *RedisStore) fail(ctx context.Context, op string, userID int64, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("profilestore: %s: %w", op, err)
	}
	logger.Warn(ctx, component, "store.query",
		slog.String("status", "fail"),
		slog.String("backend", BackendRedis),
		slog.String("op", op),
		slog.Int64("user_id", userID),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("profilestore: %s: %w", op, err)
}
