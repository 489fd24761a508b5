package messages

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/namepage/namepage/models"
)

// CanonicalString is the exact text a sender signs. Signer and verifier must
// build it byte for byte the same way.
func CanonicalString(target, body string, timestamp int64, sender string) string {
	return fmt.Sprintf("Send message to %s:\n\n\"%s\"\n\nTimestamp: %d\nSender: %s", target, body, timestamp, sender)
}

func NormalizeTarget(target string) string {
	return strings.ToLower(strings.TrimSpace(target))
}

// Sanitize trims body and caps it to MessageBodyMaxSize characters.
func Sanitize(body string) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) > models.MessageBodyMaxSize {
		body = strings.TrimSpace(string([]rune(body)[:models.MessageBodyMaxSize]))
	}
	return body
}

// Fresh returns true if the millisecond timestamp is not in the future and
// at most maxAge old.
func Fresh(timestamp int64, now time.Time, maxAge time.Duration) bool {
	age := now.UnixNano()/int64(time.Millisecond) - timestamp
	return age >= 0 && age <= int64(maxAge/time.Millisecond)
}
