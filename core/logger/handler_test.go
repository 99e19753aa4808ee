package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	buf    *bytes.Buffer
	errBuf *bytes.Buffer
	main   *asyncWriter
	errs   *asyncWriter
	log    *slog.Logger
}

func newCapture(t *testing.T, format logFormat) *capture {
	t.Helper()
	c := &capture{buf: &bytes.Buffer{}, errBuf: &bytes.Buffer{}}
	c.main = newAsyncWriter([]io.Writer{c.buf}, 1024)
	c.errs = newAsyncWriter([]io.Writer{c.errBuf}, 1024)
	c.log = slog.New(newStructuredHandler(handlerConfig{
		level:     slog.LevelDebug,
		writer:    c.main,
		errWriter: c.errs,
		format:    format,
	}))
	return c
}

func (c *capture) lines(t *testing.T) []string {
	t.Helper()
	require.NoError(t, c.main.Close())
	require.NoError(t, c.errs.Close())
	out := strings.TrimSpace(c.buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestKVLineOrder(t *testing.T) {
	c := newCapture(t, formatKV)
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-123"), 42, 7, 9)
	ctx = WithPeer(ctx, 8)

	Event(WithLogger(ctx, c.log), "pairing", slog.LevelInfo, "pairing.matched",
		slog.String("status", "OK"),
		slog.Int("waiting", 3),
	)

	lines := c.lines(t)
	require.Len(t, lines, 1)
	tokens := strings.Split(lines[0], " ")
	want := []string{"ts=", "level=INFO", "component=pairing", "event=pairing.matched", "status=ok",
		"rid=rid-123", "update_id=42", "user_id=7", "partner_id=8", "chat_id=9"}
	require.GreaterOrEqual(t, len(tokens), len(want))
	for i, prefix := range want {
		assert.True(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want prefix %s", i, tokens[i], prefix)
	}
	assert.Contains(t, lines[0], "waiting=3")
}

func TestJSONLineFields(t *testing.T) {
	c := newCapture(t, formatJSON)
	ctx := WithRID(context.Background(), BuildRID(12, 34, 56))

	Event(WithLogger(ctx, c.log), "store", slog.LevelError, "store.query",
		slog.String("err", "boom"),
		slog.Duration("duration", 1500*time.Microsecond),
		slog.String("outcome", "exploded"),
		slog.String("relay", "Partner_Missing"),
		slog.Any("cause", errors.New("disk")),
	)

	lines := c.lines(t)
	require.Len(t, lines, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "ERROR", got["level"])
	assert.Equal(t, "store", got["component"])
	assert.Equal(t, "c.y.1k", got["rid"])
	assert.Equal(t, "12:34:56", got["rid_full"])
	assert.EqualValues(t, 2, got["duration_ms"])
	assert.Equal(t, "partner_missing", got["relay"])
	assert.Equal(t, "disk", got["cause"])
	assert.NotContains(t, got, "outcome", "unknown outcome values are dropped")
	assert.Contains(t, got, "ts_unix_nano")
	assert.True(t, strings.HasPrefix(lines[0], `{"ts":`))
}

func TestCompactRIDOmitsFullInKV(t *testing.T) {
	c := newCapture(t, formatKV)
	ctx := WithRID(context.Background(), "123:456:789")
	Event(WithLogger(ctx, c.log), "app", slog.LevelInfo, "rid.test")

	lines := c.lines(t)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "rid="+CompactRID("123:456:789"))
	assert.NotContains(t, lines[0], "rid_full=")
}

func TestErrorsFileGetsWarnAndAbove(t *testing.T) {
	c := newCapture(t, formatKV)
	ctx := WithLogger(context.Background(), c.log)
	Info(ctx, "pairing", "pairing.enqueue")
	Warn(ctx, "pairing", "relay.fail")
	Error(ctx, "store", "store.query")

	assert.Len(t, c.lines(t), 3)
	errLines := strings.Split(strings.TrimSpace(c.errBuf.String()), "\n")
	require.Len(t, errLines, 2)
	assert.Contains(t, errLines[0], "event=relay.fail")
	assert.Contains(t, errLines[1], "event=store.query")
}

func TestGroupsAndDefaults(t *testing.T) {
	c := newCapture(t, formatKV)
	c.log.WithGroup("tg").Info("", slog.String("mode", "long poll"))

	lines := c.lines(t)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "component=app")
	assert.Contains(t, lines[0], "event=unknown")
	assert.Contains(t, lines[0], `tg.mode="long poll"`)
}

func TestHelpersWithoutLoggerAreNoops(t *testing.T) {
	assert.NotPanics(t, func() {
		Info(context.Background(), "pairing", "noop")
		Warn(context.TODO(), "store", "noop", slog.String("err", "x"))
	})
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(2, 5)
	var allowed int
	for range 10 {
		if s.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 4, allowed)

	s.Set(0, 0)
	assert.True(t, s.Allow())

	assert.Equal(t, [2]int{1, 50}, pair(parseRatioSpec("50")))
	assert.Equal(t, [2]int{3, 7}, pair(parseRatioSpec(" 3 / 7 ")))
	assert.Equal(t, [2]int{0, 0}, pair(parseRatioSpec("x/y")))
	assert.Equal(t, [2]int{0, 0}, pair(parseRatioSpec("0")))
}

func pair(a, b int) [2]int { return [2]int{a, b} }

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "a\tb\nc", Sanitize("a\tb\x00\nc\u200b\x7f"))
	assert.Equal(t, "héll", SanitizeLimit("héllo", 4))
	assert.Empty(t, SanitizeLimit("x", 0))
}

func TestCompactRID(t *testing.T) {
	assert.Equal(t, "z.10.-1", CompactRID("35:36:-1"))
	assert.Equal(t, "a:b", CompactRID(" a:b "))
	assert.Equal(t, "1:x:2", CompactRID("1:x:2"))
}
