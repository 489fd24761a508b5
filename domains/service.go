package domains

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/models"
)

const (
	PayoutMode = "onchain"
	Source     = "doma"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrUnknownDomain       = errors.New("domain not found")
	ErrNotOwner            = errors.New("signature does not belong to the domain owner")
	ErrInvalidAddress      = errors.New("invalid payout address")
	ErrPayoutNotConfigured = errors.New("payout not configured for this domain")
	ErrStaleTimestamp      = errors.New("signature timestamp is too old")
)

// Store is the name registry: owners, payout configuration and page settings.
type Store interface {
	Owner(name string) (string, error)
	SetOwner(name, owner string) error
	Payout(name string) (*models.Payout, error)
	SetPayout(payout *models.Payout) error
	Settings(name string) (*models.PageSettings, error)
	SetSettings(settings *models.PageSettings) error
}

type Ownership struct {
	Domain       string  `json:"domain"`
	OwnerAddress *string `json:"ownerAddress"`
	Verified     bool    `json:"verified"`
	IsOwner      bool    `json:"isOwner"`
	Source       string  `json:"source"`
}

type Service struct {
	Store  Store
	Verify messages.VerifyFunc
	MaxAge time.Duration
	Clock  func() time.Time
}

func NewService(store Store, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = messages.DefaultMaxAge
	}
	return &Service{
		Store:  store,
		Verify: crypto.VerifyMessage,
		MaxAge: maxAge,
		Clock:  time.Now,
	}
}

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PayoutString is the text an owner signs to change the payout address.
func PayoutString(name, payoutAddress string) string {
	return fmt.Sprintf("Set payout address for %s to %s", name, payoutAddress)
}

// LoginString is the text an owner signs to open the dashboard.
func LoginString(name string, timestamp int64, address string) string {
	return fmt.Sprintf("Sign in to the dashboard of %s\n\nTimestamp: %d\nSender: %s", name, timestamp, address)
}

func (s *Service) Ownership(name string) (*Ownership, error) {
	name = Normalize(name)
	owner, err := s.Store.Owner(name)
	if err != nil {
		return nil, err
	}

	own := &Ownership{
		Domain:   name,
		Verified: owner != "",
		Source:   Source,
	}
	if owner != "" {
		own.OwnerAddress = &owner
	}
	return own, nil
}

func (s *Service) Payout(name string) (*models.Payout, error) {
	payout, err := s.Store.Payout(Normalize(name))
	if err == models.ErrNotFound {
		return nil, ErrPayoutNotConfigured
	}
	return payout, err
}

// checkOwner fails unless signature over text was produced by the owner of name.
func (s *Service) checkOwner(name, text, signature string) (string, error) {
	owner, err := s.Store.Owner(name)
	if err != nil {
		return "", err
	} else if owner == "" {
		return "", ErrUnknownDomain
	}

	ok, err := s.Verify(owner, text, signature)
	if err != nil {
		log.Warning("signature check for %s failed: %v", name, err)
		return "", ErrNotOwner
	} else if !ok {
		return "", ErrNotOwner
	}

	return owner, nil
}

// SetPayout changes the payout address of name, if signed by its owner.
// The signed text uses the name and address exactly as submitted.
func (s *Service) SetPayout(name, payoutAddress, signature string) (*models.Payout, error) {
	if strings.TrimSpace(name) == "" || payoutAddress == "" || signature == "" {
		return nil, ErrMissingFields
	} else if !crypto.IsAddress(payoutAddress) {
		return nil, ErrInvalidAddress
	}

	normalized := Normalize(name)
	if _, err := s.checkOwner(normalized, PayoutString(name, payoutAddress), signature); err != nil {
		return nil, err
	}

	payout := &models.Payout{
		Domain:    normalized,
		Address:   crypto.NormalizeAddress(payoutAddress),
		Mode:      PayoutMode,
		UpdatedAt: s.Clock(),
	}
	if err := s.Store.SetPayout(payout); err != nil {
		return nil, err
	}

	log.Info("payout of %s set to %s", normalized, payout.Address)
	return payout, nil
}

// Login checks a dashboard sign in and returns the owner address.
func (s *Service) Login(name, address string, timestamp int64, signature string) (string, error) {
	if strings.TrimSpace(name) == "" || address == "" || signature == "" {
		return "", ErrMissingFields
	} else if !messages.Fresh(timestamp, s.Clock(), s.MaxAge) {
		return "", ErrStaleTimestamp
	}

	normalized := Normalize(name)
	owner, err := s.checkOwner(normalized, LoginString(name, timestamp, address), signature)
	if err != nil {
		return "", err
	} else if crypto.NormalizeAddress(address) != crypto.NormalizeAddress(owner) {
		return "", ErrNotOwner
	}

	log.Info("owner %s signed in to the dashboard of %s", owner, normalized)
	return crypto.NormalizeAddress(owner), nil
}
