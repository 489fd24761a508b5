package domains

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/models"
)

const (
	DefaultPrimaryColor    = "#3b82f6"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#1f2937"
)

var (
	ErrInvalidSettings = errors.New("invalid page settings")

	colorParser = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type Theme struct {
	PrimaryColor    string `json:"primaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

// Settings is the customization of the public page of a domain.
type Settings struct {
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Theme       Theme  `json:"theme"`
	OGImage     string `json:"ogImage,omitempty"`
}

func DefaultSettings(name string) *Settings {
	return &Settings{
		Domain:      name,
		Title:       name,
		Description: fmt.Sprintf("Send payments and messages to %s", name),
		Theme: Theme{
			PrimaryColor:    DefaultPrimaryColor,
			BackgroundColor: DefaultBackgroundColor,
			TextColor:       DefaultTextColor,
		},
	}
}

func (set *Settings) Validate() error {
	set.Title = strings.TrimSpace(set.Title)
	set.Description = strings.TrimSpace(set.Description)
	set.OGImage = strings.TrimSpace(set.OGImage)

	if set.Title == "" || utf8.RuneCountInString(set.Title) > models.SettingsTitleMaxSize {
		return fmt.Errorf("%w: title must be 1 to %d characters", ErrInvalidSettings, models.SettingsTitleMaxSize)
	} else if utf8.RuneCountInString(set.Description) > models.SettingsDescriptionMaxSize {
		return fmt.Errorf("%w: description can't exceed %d characters", ErrInvalidSettings, models.SettingsDescriptionMaxSize)
	}

	for _, color := range []string{set.Theme.PrimaryColor, set.Theme.BackgroundColor, set.Theme.TextColor} {
		if !colorParser.MatchString(color) {
			return fmt.Errorf("%w: '%s' is not a #rrggbb color", ErrInvalidSettings, color)
		}
	}

	if set.OGImage != "" {
		if len(set.OGImage) > models.SettingsImageMaxSize {
			return fmt.Errorf("%w: image url too long", ErrInvalidSettings)
		} else if u, err := url.Parse(set.OGImage); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: image must be an http(s) url", ErrInvalidSettings)
		}
	}

	return nil
}

// Settings returns the page settings of name, or the defaults if the owner
// never customized it.
func (s *Service) Settings(name string) (*Settings, error) {
	name = Normalize(name)
	record, err := s.Store.Settings(name)
	if err == models.ErrNotFound {
		return DefaultSettings(name), nil
	} else if err != nil {
		return nil, err
	}

	return &Settings{
		Domain:      record.Domain,
		Title:       record.Title,
		Description: record.Description,
		Theme: Theme{
			PrimaryColor:    record.PrimaryColor,
			BackgroundColor: record.BackgroundColor,
			TextColor:       record.TextColor,
		},
		OGImage: record.OGImage,
	}, nil
}

// SetSettings validates and stores the page settings of name. Callers are
// expected to have authenticated the owner.
func (s *Service) SetSettings(name string, settings Settings) (*Settings, error) {
	name = Normalize(name)
	if name == "" {
		return nil, ErrMissingFields
	} else if err := settings.Validate(); err != nil {
		return nil, err
	}
	settings.Domain = name

	err := s.Store.SetSettings(&models.PageSettings{
		Domain:          name,
		Title:           settings.Title,
		Description:     settings.Description,
		PrimaryColor:    strings.ToLower(settings.Theme.PrimaryColor),
		BackgroundColor: strings.ToLower(settings.Theme.BackgroundColor),
		TextColor:       strings.ToLower(settings.Theme.TextColor),
		OGImage:         settings.OGImage,
	})
	if err != nil {
		return nil, err
	}

	log.Info("page settings of %s updated", name)
	return s.Settings(name)
}
