package models

import (
	"github.com/biezhi/gorm-paginator/pagination"
	"github.com/pkg/errors"
)

func (r *Repository) CreateMessage(msg *Message) error {
	return errors.Wrap(r.db.Create(msg).Error, "creating message")
}

// MessagesFor returns the messages of target in insertion order.
func (r *Repository) MessagesFor(target string, includeHidden bool) ([]Message, error) {
	messages := make([]Message, 0)
	query := r.db.Where("target = ?", target)
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}
	if err := query.Order("id asc").Find(&messages).Error; err != nil {
		return nil, errors.Wrapf(err, "listing messages of %s", target)
	}
	return messages, nil
}

func (r *Repository) PagedMessages(target string, page, limit int) (messages []Message, total int, pages int, err error) {
	messages = make([]Message, 0)
	paginator := pagination.Paging(&pagination.Param{
		DB:      r.db.Model(Message{}).Where("target = ?", target),
		Page:    page,
		Limit:   limit,
		OrderBy: []string{"id desc"},
	}, &messages)
	return messages, paginator.TotalRecord, paginator.TotalPage, nil
}

func (r *Repository) FindMessage(id uint) (*Message, error) {
	var msg Message
	if err := r.db.Where("id = ?", id).First(&msg).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "finding message %d", id)
	}
	return &msg, nil
}

func (r *Repository) SetMessageHidden(id uint, hidden bool) error {
	msg, err := r.FindMessage(id)
	if err != nil {
		return err
	}
	return errors.Wrapf(r.db.Model(msg).Update("hidden", hidden).Error, "updating message %d", id)
}

func (r *Repository) Mute(target, address string) error {
	var mute Mute
	err := r.db.Where(Mute{Target: target, Address: address}).FirstOrCreate(&mute).Error
	return errors.Wrapf(err, "muting %s on %s", address, target)
}

func (r *Repository) Unmute(target, address string) error {
	err := r.db.Where("target = ? AND address = ?", target, address).Delete(Mute{}).Error
	return errors.Wrapf(err, "unmuting %s on %s", address, target)
}

func (r *Repository) MutedSenders(target string) ([]string, error) {
	addresses := make([]string, 0)
	if err := r.db.Model(Mute{}).Where("target = ?", target).Order("id asc").Pluck("address", &addresses).Error; err != nil {
		return nil, errors.Wrapf(err, "listing muted senders of %s", target)
	}
	return addresses, nil
}
