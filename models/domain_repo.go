package models

import (
	"time"

	"github.com/pkg/errors"
)

// Owner returns the owner address of name, or an empty string for names
// missing from the registry.
func (r *Repository) Owner(name string) (string, error) {
	var domain Domain
	if err := r.db.Where("name = ?", name).First(&domain).Error; err != nil {
		if notFound(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "looking up owner of %s", name)
	}
	return domain.Owner, nil
}

func (r *Repository) SetOwner(name, owner string) error {
	var domain Domain
	err := r.db.Where("name = ?", name).First(&domain).Error
	if notFound(err) {
		err = r.db.Create(&Domain{Name: name, Owner: owner}).Error
	} else if err == nil {
		err = r.db.Model(&domain).Update("owner", owner).Error
	}
	return errors.Wrapf(err, "setting owner of %s", name)
}

func (r *Repository) Payout(name string) (*Payout, error) {
	var payout Payout
	if err := r.db.Where("domain = ?", name).First(&payout).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "looking up payout of %s", name)
	}
	return &payout, nil
}

func (r *Repository) SetPayout(payout *Payout) error {
	var existing Payout
	err := r.db.Where("domain = ?", payout.Domain).First(&existing).Error
	if notFound(err) {
		err = r.db.Create(payout).Error
	} else if err == nil {
		if payout.UpdatedAt.IsZero() {
			payout.UpdatedAt = time.Now()
		}
		err = r.db.Model(&existing).Updates(map[string]interface{}{
			"address":    payout.Address,
			"mode":       payout.Mode,
			"tx_hash":    payout.TxHash,
			"updated_at": payout.UpdatedAt,
		}).Error
	}
	return errors.Wrapf(err, "setting payout of %s", payout.Domain)
}

func (r *Repository) Settings(name string) (*PageSettings, error) {
	var settings PageSettings
	if err := r.db.Where("domain = ?", name).First(&settings).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "looking up page settings of %s", name)
	}
	return &settings, nil
}

func (r *Repository) SetSettings(settings *PageSettings) error {
	var existing PageSettings
	err := r.db.Where("domain = ?", settings.Domain).First(&existing).Error
	if notFound(err) {
		err = r.db.Create(settings).Error
	} else if err == nil {
		err = r.db.Model(&existing).Updates(map[string]interface{}{
			"title":            settings.Title,
			"description":      settings.Description,
			"primary_color":    settings.PrimaryColor,
			"background_color": settings.BackgroundColor,
			"text_color":       settings.TextColor,
			"og_image":         settings.OGImage,
		}).Error
	}
	return errors.Wrapf(err, "setting page settings of %s", settings.Domain)
}
