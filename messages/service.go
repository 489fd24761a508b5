package messages

import (
	"sort"
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/pkg/errors"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/models"
)

const (
	DefaultMaxAge = 5 * time.Minute
	PageSize      = 25
)

// Store persists messages and the per target mute lists.
type Store interface {
	CreateMessage(msg *models.Message) error
	MessagesFor(target string, includeHidden bool) ([]models.Message, error)
	PagedMessages(target string, page, limit int) ([]models.Message, int, int, error)
	FindMessage(id uint) (*models.Message, error)
	SetMessageHidden(id uint, hidden bool) error
	Mute(target, address string) error
	Unmute(target, address string) error
	MutedSenders(target string) ([]string, error)
}

// VerifyFunc reports whether signature was produced by address over message.
type VerifyFunc func(address, message, signature string) (bool, error)

type Service struct {
	Store   Store
	Limiter *Limiter
	Verify  VerifyFunc
	MaxAge  time.Duration
	Clock   func() time.Time
}

func NewService(store Store, limiter *Limiter, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Service{
		Store:   store,
		Limiter: limiter,
		Verify:  crypto.VerifyMessage,
		MaxAge:  maxAge,
		Clock:   time.Now,
	}
}

// Submit validates, verifies and stores a signed message. A signature that
// does not verify is not an error, the message is stored as unverified.
func (s *Service) Submit(sub Submission) (*Receipt, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	sender := crypto.NormalizeAddress(sub.Sender)
	if allowed, err := s.Limiter.Check(sender); err != nil {
		return nil, errors.Wrapf(err, "checking rate limit of %s", sender)
	} else if !allowed {
		return nil, ErrRateLimitExceeded
	}

	now := s.Clock()
	if !Fresh(sub.Timestamp, now, s.MaxAge) {
		return nil, ErrStaleTimestamp
	}

	verified := s.verify(sub)

	msg := &models.Message{
		CreatedAt: now,
		Target:    NormalizeTarget(sub.Target),
		Sender:    sender,
		Body:      Sanitize(sub.Body),
		Signature: strings.TrimSpace(sub.Signature),
		Verified:  verified,
		Hidden:    false,
		Timestamp: sub.Timestamp,
	}

	if err := s.Store.CreateMessage(msg); err != nil {
		return nil, errors.Wrapf(err, "storing message from %s", sender)
	}

	log.Info("message %d from %s to %s stored (verified:%v)", msg.ID, msg.Sender, msg.Target, msg.Verified)

	return &Receipt{
		ID:       msg.ID,
		Verified: verified,
		Message:  msg,
	}, nil
}

// verify never fails: errors and panics of the verification primitive
// downgrade the message to unverified.
func (s *Service) verify(sub Submission) (verified bool) {
	canonical := sub.Canonical()
	if sub.CanonicalString != "" && sub.CanonicalString != canonical {
		log.Warning("signed text from %s does not match the submitted fields", sub.Sender)
		log.Debug("got %q expected %q", sub.CanonicalString, canonical)
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warning("signature verification for %s panicked: %v", sub.Sender, r)
			verified = false
		}
	}()

	ok, err := s.Verify(sub.Sender, canonical, sub.Signature)
	if err != nil {
		log.Warning("signature verification for %s failed: %v", sub.Sender, err)
		return false
	}
	return ok
}

// List returns the visible messages of target, most recent first.
func (s *Service) List(target string) ([]models.Message, error) {
	target = NormalizeTarget(target)

	all, err := s.Store.MessagesFor(target, false)
	if err != nil {
		return nil, err
	}

	muted, err := s.Store.MutedSenders(target)
	if err != nil {
		return nil, err
	}
	isMuted := make(map[string]bool, len(muted))
	for _, address := range muted {
		isMuted[address] = true
	}

	visible := make([]models.Message, 0, len(all))
	for _, msg := range all {
		if !msg.Hidden && msg.Target == target && !isMuted[msg.Sender] {
			visible = append(visible, msg)
		}
	}

	NewestFirst(visible)
	return visible, nil
}

// NewestFirst sorts messages by creation time, descending. Messages created
// at the same instant keep their insertion order.
func NewestFirst(list []models.Message) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
