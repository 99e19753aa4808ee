package logger

import "strings"

// Level names as they appear in output.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelNames = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// enumField restricts a field to a closed set. Unknown values are kept when
// keepUnknown is set and dropped otherwise.
type enumField struct {
	allowed     []string
	keepUnknown bool
}

var enumFields = map[string]enumField{
	"status":  {allowed: []string{"ok", "fail", "skip", "retry", "rate_limited", "cancelled"}, keepUnknown: true},
	"outcome": {allowed: []string{"ok", "fail", "cancelled", "rate_limited"}},
	// relay results
	"relay": {allowed: []string{"delivered", "not_in_session", "partner_missing", "delivery_failed"}},
}

func (e enumField) normalize(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", false
	}
	for _, a := range e.allowed {
		if a == v {
			return v, true
		}
	}
	return v, e.keepUnknown
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"partner_id",
	"chat_id",
	"chat_type",
	"handler",
	"operation",
	"op",
	"cb_key",
	"outcome",
	"relay",
	"kind",
	"stage",
	"reason",
	"duration_ms",
	"waiting",
	"pairs",
	"onboarding",
	"matched",
	"messages",
	"kb",
	"count",
	"payload",
	"username",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"backend",
	"driver",
	"db",
	"host",
	"port",
	"path",
	"from_version",
	"to_version",
	"err",
	"err_code",
	"cause",
	"retryable",
	"attempts",
	"backoff_ms",
	"rate_limited",
	"collapsed",
	"repeats",
}
