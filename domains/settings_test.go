package domains

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	service, _, _ := setupService(t)

	settings, err := service.Settings("Alice.ETH")
	require.NoError(t, err)
	require.Equal(t, "alice.eth", settings.Domain)
	require.Equal(t, "alice.eth", settings.Title)
	require.Equal(t, "Send payments and messages to alice.eth", settings.Description)
	require.Equal(t, DefaultPrimaryColor, settings.Theme.PrimaryColor)
	require.Equal(t, DefaultBackgroundColor, settings.Theme.BackgroundColor)
	require.Equal(t, DefaultTextColor, settings.Theme.TextColor)
	require.Empty(t, settings.OGImage)
}

func TestSetSettings(t *testing.T) {
	service, _, _ := setupService(t)

	custom := *DefaultSettings("alice.eth")
	custom.Title = "  Alice's page "
	custom.Theme.PrimaryColor = "#FF0000"
	custom.OGImage = "https://example.com/alice.png"

	saved, err := service.SetSettings("ALICE.eth", custom)
	require.NoError(t, err)
	require.Equal(t, "Alice's page", saved.Title)
	require.Equal(t, "#ff0000", saved.Theme.PrimaryColor)

	loaded, err := service.Settings("alice.eth")
	require.NoError(t, err)
	require.Equal(t, saved, loaded)

	// other domains keep their defaults
	other, err := service.Settings("bob.crypto")
	require.NoError(t, err)
	require.Equal(t, "bob.crypto", other.Title)
}

func TestSetSettingsValidation(t *testing.T) {
	service, _, _ := setupService(t)

	for name, mutate := range map[string]func(*Settings){
		"empty title":      func(s *Settings) { s.Title = "  " },
		"long title":       func(s *Settings) { s.Title = strings.Repeat("a", 101) },
		"long description": func(s *Settings) { s.Description = strings.Repeat("a", 501) },
		"named color":      func(s *Settings) { s.Theme.TextColor = "red" },
		"short color":      func(s *Settings) { s.Theme.BackgroundColor = "#fff" },
		"image scheme":     func(s *Settings) { s.OGImage = "javascript:alert(1)" },
		"image host":       func(s *Settings) { s.OGImage = "https://" },
	} {
		settings := *DefaultSettings("alice.eth")
		mutate(&settings)
		_, err := service.SetSettings("alice.eth", settings)
		require.True(t, errors.Is(err, ErrInvalidSettings), "%s: %v", name, err)
	}

	_, err := service.SetSettings(" ", *DefaultSettings("alice.eth"))
	require.Equal(t, ErrMissingFields, err)

	settings, err := service.Settings("alice.eth")
	require.NoError(t, err)
	require.Equal(t, DefaultSettings("alice.eth"), settings)
}
