package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestMySQLURL(t *testing.T) {
	require.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=True&loc=UTC", MySQLURL("u", "p", "h", "3306", "n"))
}

func TestOpenUnknownDialect(t *testing.T) {
	_, err := Open("nope", "")
	require.Error(t, err)
}

func TestMessages(t *testing.T) {
	repo := setupRepository(t)

	for i, target := range []string{"alice.eth", "bob.crypto", "alice.eth"} {
		msg := &Message{
			Target:    target,
			Sender:    "0xabc",
			Body:      "hello",
			Signature: "0xsig",
			Verified:  i == 0,
			Timestamp: 1000,
		}
		require.NoError(t, repo.CreateMessage(msg))
		require.Equal(t, uint(i+1), msg.ID)
		require.False(t, msg.CreatedAt.IsZero())
	}

	list, err := repo.MessagesFor("alice.eth", false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, uint(1), list[0].ID)
	require.True(t, list[0].Verified)
	require.Equal(t, int64(1000), list[0].Timestamp)

	require.NoError(t, repo.SetMessageHidden(3, true))
	list, err = repo.MessagesFor("alice.eth", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = repo.MessagesFor("alice.eth", true)
	require.NoError(t, err)
	require.Len(t, list, 2)

	msg, err := repo.FindMessage(3)
	require.NoError(t, err)
	require.True(t, msg.Hidden)

	_, err = repo.FindMessage(42)
	require.Equal(t, ErrNotFound, err)
	require.Equal(t, ErrNotFound, repo.SetMessageHidden(42, true))

	list, err = repo.MessagesFor("nobody.eth", true)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestPagedMessages(t *testing.T) {
	repo := setupRepository(t)

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.CreateMessage(&Message{Target: "alice.eth", Sender: "0xabc", Body: "hi", Signature: "0xsig"}))
	}

	page, total, pages, err := repo.PagedMessages("alice.eth", 1, 3)
	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.Equal(t, 3, pages)
	require.Len(t, page, 3)
	require.Equal(t, uint(7), page[0].ID)

	page, _, _, err = repo.PagedMessages("alice.eth", 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, uint(1), page[0].ID)
}

func TestMutes(t *testing.T) {
	repo := setupRepository(t)

	require.NoError(t, repo.Mute("alice.eth", "0xabc"))
	require.NoError(t, repo.Mute("alice.eth", "0xabc"))
	require.NoError(t, repo.Mute("alice.eth", "0xdef"))
	require.NoError(t, repo.Mute("bob.crypto", "0xabc"))

	muted, err := repo.MutedSenders("alice.eth")
	require.NoError(t, err)
	require.Equal(t, []string{"0xabc", "0xdef"}, muted)

	require.NoError(t, repo.Unmute("alice.eth", "0xabc"))
	muted, err = repo.MutedSenders("alice.eth")
	require.NoError(t, err)
	require.Equal(t, []string{"0xdef"}, muted)

	muted, err = repo.MutedSenders("nobody.eth")
	require.NoError(t, err)
	require.Empty(t, muted)
}

func TestUpdateLimit(t *testing.T) {
	repo := setupRepository(t)
	resetAt := time.Date(2026, 10, 18, 12, 1, 0, 0, time.UTC)

	allowed, err := repo.UpdateLimit("0xabc", func(entry *RateLimit, found bool) bool {
		require.False(t, found)
		entry.Count = 1
		entry.ResetAt = resetAt
		return true
	})
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = repo.UpdateLimit("0xabc", func(entry *RateLimit, found bool) bool {
		require.True(t, found)
		require.Equal(t, 1, entry.Count)
		require.True(t, resetAt.Equal(entry.ResetAt))
		entry.Count = 99
		return false
	})
	require.NoError(t, err)
	require.False(t, allowed)

	// a denied attempt leaves the entry untouched
	_, err = repo.UpdateLimit("0xabc", func(entry *RateLimit, found bool) bool {
		require.Equal(t, 1, entry.Count)
		entry.Count++
		return true
	})
	require.NoError(t, err)

	_, err = repo.UpdateLimit("0xabc", func(entry *RateLimit, found bool) bool {
		require.Equal(t, 2, entry.Count)
		return false
	})
	require.NoError(t, err)
}

func TestDomainsAndPayouts(t *testing.T) {
	repo := setupRepository(t)

	owner, err := repo.Owner("alice.eth")
	require.NoError(t, err)
	require.Equal(t, "", owner)

	require.NoError(t, repo.SetOwner("alice.eth", "0xabc"))
	require.NoError(t, repo.SetOwner("alice.eth", "0xdef"))
	owner, err = repo.Owner("alice.eth")
	require.NoError(t, err)
	require.Equal(t, "0xdef", owner)

	_, err = repo.Payout("alice.eth")
	require.Equal(t, ErrNotFound, err)

	require.NoError(t, repo.SetPayout(&Payout{Domain: "alice.eth", Address: "0x111", Mode: "onchain"}))
	hash := "0xhash"
	require.NoError(t, repo.SetPayout(&Payout{Domain: "alice.eth", Address: "0x222", Mode: "onchain", TxHash: &hash}))

	payout, err := repo.Payout("alice.eth")
	require.NoError(t, err)
	require.Equal(t, "0x222", payout.Address)
	require.NotNil(t, payout.TxHash)
	require.Equal(t, hash, *payout.TxHash)
}

func TestPageSettings(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.Settings("alice.eth")
	require.Equal(t, ErrNotFound, err)

	require.NoError(t, repo.SetSettings(&PageSettings{
		Domain:          "alice.eth",
		Title:           "Alice",
		Description:     "hi",
		PrimaryColor:    "#3b82f6",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2937",
		OGImage:         "https://example.com/og.png",
	}))
	require.NoError(t, repo.SetSettings(&PageSettings{
		Domain:          "alice.eth",
		Title:           "Alice's page",
		PrimaryColor:    "#000000",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2937",
	}))

	settings, err := repo.Settings("alice.eth")
	require.NoError(t, err)
	require.Equal(t, "Alice's page", settings.Title)
	require.Equal(t, "", settings.Description)
	require.Equal(t, "#000000", settings.PrimaryColor)
	require.Equal(t, "", settings.OGImage)

	_, err = repo.Settings("bob.crypto")
	require.Equal(t, ErrNotFound, err)
}

func TestOffers(t *testing.T) {
	repo := setupRepository(t)
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for i, offer := range []Offer{
		{ID: "offer_1", Domain: "alice.eth", Amount: 1, Bidder: "0xabc"},
		{ID: "offer_2", Domain: "alice.eth", Amount: 2, Bidder: "0xdef"},
		{ID: "offer_3", Domain: "bob.crypto", Amount: 3, Bidder: "0xabc"},
	} {
		offer.Status = OfferActive
		offer.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.CreateOffer(&offer))
	}

	offers, err := repo.Offers("alice.eth", "")
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.Equal(t, "offer_1", offers[0].ID)

	offers, err = repo.Offers("", "0xabc")
	require.NoError(t, err)
	require.Len(t, offers, 2)

	offers, err = repo.Offers("alice.eth", "0xabc")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, 1.0, offers[0].Amount)

	offers, err = repo.Offers("", "")
	require.NoError(t, err)
	require.Len(t, offers, 3)
}
