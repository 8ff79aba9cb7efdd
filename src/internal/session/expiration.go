package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"handyhub-session-svc/src/internal/models"

	"github.com/spf13/cast"
)

// expirationLayout matches the ISO form browsers produce with millisecond precision.
const expirationLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatExpiration encodes an expiration timestamp for storage.
func FormatExpiration(t time.Time) string {
	return t.UTC().Format(expirationLayout)
}

// ParseExpiration decodes a stored expiration timestamp. Anything that is not
// a recognizable date yields ErrSessionInvalid.
func ParseExpiration(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty expiration time", models.ErrSessionInvalid)
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}

	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", models.ErrSessionInvalid, err)
	}
	return t, nil
}

// Fingerprint identifies a token in logs and events without exposing it.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:12]
}
