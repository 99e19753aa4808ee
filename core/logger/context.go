package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type ctxKey int

const (
	keyLogger ctxKey = iota
	keyRID
	keyUpdate
	keyHandler
	keyPeer
)

// UpdateMeta identifies the Telegram update being handled.
type UpdateMeta struct {
	UpdateID int
	UserID   int64
	ChatID   int64
}

func withValue(ctx context.Context, key ctxKey, val any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, val)
}

func value[T any](ctx context.Context, key ctxKey) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// WithLogger stores lg in ctx; Event prefers it over the root logger.
func WithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	if lg == nil {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withValue(ctx, keyLogger, lg)
}

// FromContext returns the logger stored in ctx or the root logger.
func FromContext(ctx context.Context) *slog.Logger {
	if lg, ok := value[*slog.Logger](ctx, keyLogger); ok {
		return lg
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return withValue(ctx, keyRID, rid)
}

func RIDFrom(ctx context.Context) string {
	rid, _ := value[string](ctx, keyRID)
	return rid
}

// WithUpdateMeta attaches the update, user and chat identifiers.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return withValue(ctx, keyUpdate, UpdateMeta{UpdateID: updateID, UserID: userID, ChatID: chatID})
}

func UpdateMetaFrom(ctx context.Context) UpdateMeta {
	meta, _ := value[UpdateMeta](ctx, keyUpdate)
	return meta
}

func HandlerFrom(ctx context.Context) string { s, _ := value[string](ctx, keyHandler); return s }

// WithHandler names the handler serving the update.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withValue(ctx, keyHandler, handler)
}

// WithPeer attaches the chat partner of the current user.
func WithPeer(ctx context.Context, partnerID int64) context.Context {
	return withValue(ctx, keyPeer, partnerID)
}

func PeerFrom(ctx context.Context) int64 {
	id, _ := value[int64](ctx, keyPeer)
	return id
}

// contextFields copies correlation values from ctx into fields without
// overriding keys the record already set.
func contextFields(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	setIfAbsent := func(key string, val any, present bool) {
		if !present {
			return
		}
		if _, ok := fields[key]; !ok {
			fields[key] = val
		}
	}
	rid := RIDFrom(ctx)
	setIfAbsent("rid", rid, rid != "")
	meta := UpdateMetaFrom(ctx)
	setIfAbsent("update_id", meta.UpdateID, meta.UpdateID != 0)
	setIfAbsent("user_id", meta.UserID, meta.UserID != 0)
	setIfAbsent("chat_id", meta.ChatID, meta.ChatID != 0)
	handler := HandlerFrom(ctx)
	setIfAbsent("handler", handler, handler != "")
	peer := PeerFrom(ctx)
	setIfAbsent("partner_id", peer, peer != 0)
}

// BuildRID formats updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID rewrites a BuildRID value as dot-separated base36 segments.
// Anything else is returned trimmed but otherwise unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return rid
		}
		parts[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(parts, ".")
}
