package messages

import (
	"time"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/models"
)

type Stats struct {
	Total    int        `json:"total"`
	Verified int        `json:"verified"`
	Hidden   int        `json:"hidden"`
	LastAt   *time.Time `json:"last_at"`
}

func (s *Service) Message(id uint) (*models.Message, error) {
	return s.Store.FindMessage(id)
}

// Page returns every message of target, hidden ones included, newest first.
func (s *Service) Page(target string, page int) (messages []models.Message, total int, pages int, err error) {
	if page < 1 {
		page = 1
	}
	return s.Store.PagedMessages(NormalizeTarget(target), page, PageSize)
}

func (s *Service) Hide(id uint) error {
	log.Info("hiding message %d", id)
	return s.Store.SetMessageHidden(id, true)
}

func (s *Service) Show(id uint) error {
	log.Info("showing message %d", id)
	return s.Store.SetMessageHidden(id, false)
}

func (s *Service) Mute(target, address string) error {
	target, address = NormalizeTarget(target), crypto.NormalizeAddress(address)
	log.Info("muting %s on %s", address, target)
	return s.Store.Mute(target, address)
}

func (s *Service) Unmute(target, address string) error {
	target, address = NormalizeTarget(target), crypto.NormalizeAddress(address)
	log.Info("unmuting %s on %s", address, target)
	return s.Store.Unmute(target, address)
}

func (s *Service) Muted(target string) ([]string, error) {
	return s.Store.MutedSenders(NormalizeTarget(target))
}

// Stats counts every message of target, hidden ones included.
func (s *Service) Stats(target string) (stats Stats, err error) {
	all, err := s.Store.MessagesFor(NormalizeTarget(target), true)
	if err != nil {
		return stats, err
	}

	for i, msg := range all {
		stats.Total++
		if msg.Verified {
			stats.Verified++
		}
		if msg.Hidden {
			stats.Hidden++
		}
		if stats.LastAt == nil || msg.CreatedAt.After(*stats.LastAt) {
			stats.LastAt = &all[i].CreatedAt
		}
	}

	return stats, nil
}
