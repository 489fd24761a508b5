package messages

import (
	"errors"
	"strings"

	"github.com/namepage/namepage/models"
)

// wire visible error kinds
var (
	ErrMissingFields     = errors.New("MissingFields")
	ErrFieldTooLong      = errors.New("FieldTooLong")
	ErrRateLimitExceeded = errors.New("RateLimitExceeded")
	ErrStaleTimestamp    = errors.New("StaleTimestamp")
)

type Submission struct {
	Target    string `json:"target"`
	Body      string `json:"body"`
	Signature string `json:"signature"`
	Sender    string `json:"sender"`
	// milliseconds since epoch, as signed
	Timestamp int64 `json:"timestamp"`
	// the text the client signed, optional
	CanonicalString string `json:"canonicalString"`
}

func (sub Submission) Validate() error {
	for _, field := range []string{sub.Target, sub.Body, sub.Signature, sub.Sender} {
		if strings.TrimSpace(field) == "" {
			return ErrMissingFields
		}
	}

	if len(sub.Target) > models.MessageTargetMaxSize ||
		len(sub.Sender) > models.MessageSenderMaxSize ||
		len(sub.Signature) > models.MessageSignatureMaxSize {
		return ErrFieldTooLong
	}

	return nil
}

// Canonical rebuilds the signed text from the submitted fields.
func (sub Submission) Canonical() string {
	return CanonicalString(sub.Target, sub.Body, sub.Timestamp, sub.Sender)
}

type Receipt struct {
	ID       uint
	Verified bool
	Message  *models.Message
}
