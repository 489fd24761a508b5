package models

import (
	"github.com/pkg/errors"
)

// UpdateLimit loads the entry of address, lets update decide and mutate it and
// persists the result only when the attempt is allowed. The whole cycle runs
// in one transaction.
func (r *Repository) UpdateLimit(address string, update func(entry *RateLimit, found bool) bool) (allowed bool, err error) {
	r.Lock()
	defer r.Unlock()

	tx := r.db.Begin()
	if err = tx.Error; err != nil {
		return false, errors.Wrap(err, "starting rate limit transaction")
	}
	defer func() {
		if err != nil || !allowed {
			tx.Rollback()
		}
	}()

	query := tx
	if r.dialect == "mysql" {
		query = tx.Set("gorm:query_option", "FOR UPDATE")
	}

	found := true
	entry := RateLimit{}
	if err = query.Where("address = ?", address).First(&entry).Error; err != nil {
		if !notFound(err) {
			return false, errors.Wrapf(err, "loading rate limit of %s", address)
		}
		found = false
		err = nil
	}

	if allowed = update(&entry, found); !allowed {
		return false, nil
	}
	entry.Address = address

	if found {
		err = tx.Model(RateLimit{}).Where("address = ?", address).Updates(map[string]interface{}{
			"count":    entry.Count,
			"reset_at": entry.ResetAt,
		}).Error
	} else {
		err = tx.Create(&entry).Error
	}
	if err != nil {
		allowed = false
		return false, errors.Wrapf(err, "saving rate limit of %s", address)
	}

	if err = tx.Commit().Error; err != nil {
		allowed = false
		return false, errors.Wrap(err, "committing rate limit")
	}

	return true, nil
}
