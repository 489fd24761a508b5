package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/domains"
	"github.com/namepage/namepage/memory"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/models"
	"github.com/namepage/namepage/orderbook"
)

type testEnv struct {
	api   *API
	store *memory.Store
	owner *crypto.KeyPair
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()

	owner, err := crypto.Generate()
	require.NoError(t, err)

	store := memory.New()
	require.NoError(t, store.SetOwner("alice.eth", owner.Address))

	limiter := messages.NewLimiter(store, time.Minute, 5)
	err, api := Setup(
		messages.NewService(store, limiter, 0),
		domains.NewService(store, 0),
		orderbook.NewService(store),
		"test-secret",
		0)
	require.NoError(t, err)

	return &testEnv{api: api, store: store, owner: owner}
}

func (env *testEnv) do(t *testing.T, method, path string, payload interface{}, token string) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if raw, ok := payload.(string); ok {
		body.WriteString(raw)
	} else if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.api.Router.ServeHTTP(rec, req)

	var obj map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &obj)
	}
	return rec.Code, obj
}

func now() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func signedSubmission(t *testing.T, keys *crypto.KeyPair, target, body string) messages.Submission {
	t.Helper()

	ts := now()
	canonical := messages.CanonicalString(target, body, ts, keys.Address)
	signature, err := keys.SignMessage(canonical)
	require.NoError(t, err)

	return messages.Submission{
		Target:          target,
		Body:            body,
		Signature:       signature,
		Sender:          keys.Address,
		Timestamp:       ts,
		CanonicalString: canonical,
	}
}

func TestPostMessage(t *testing.T) {
	env := setupAPI(t)
	visitor, err := crypto.Generate()
	require.NoError(t, err)

	status, obj := env.do(t, "POST", "/api/messages", signedSubmission(t, visitor, "alice.eth", "hello"), "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, obj["success"])
	require.Equal(t, true, obj["verified"])
	require.Equal(t, float64(1), obj["messageId"])
	require.Equal(t, MessageVerified, obj["message"])

	tampered := signedSubmission(t, visitor, "alice.eth", "hello")
	tampered.Body = "hell0"
	tampered.CanonicalString = ""
	status, obj = env.do(t, "POST", "/api/messages", tampered, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, obj["verified"])
	require.Equal(t, MessageUnverified, obj["message"])

	status, obj = env.do(t, "GET", "/api/messages?target=ALICE.ETH", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(2), obj["total"])
	bodies := make([]interface{}, 0)
	for _, msg := range obj["messages"].([]interface{}) {
		bodies = append(bodies, msg.(map[string]interface{})["body"])
	}
	require.ElementsMatch(t, []interface{}{"hello", "hell0"}, bodies)

	status, obj = env.do(t, "GET", "/api/messages?domain=alice.eth", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(2), obj["total"])
}

func TestPostMessageErrors(t *testing.T) {
	env := setupAPI(t)
	visitor, err := crypto.Generate()
	require.NoError(t, err)

	status, obj := env.do(t, "GET", "/api/messages", nil, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "MissingFields", obj["error"])

	status, _ = env.do(t, "POST", "/api/messages", "{not json", "")
	require.Equal(t, http.StatusUnprocessableEntity, status)

	missing := signedSubmission(t, visitor, "alice.eth", "hello")
	missing.Signature = ""
	status, obj = env.do(t, "POST", "/api/messages", missing, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "MissingFields", obj["error"])

	stale := signedSubmission(t, visitor, "alice.eth", "hello")
	stale.Timestamp -= int64(10 * time.Minute / time.Millisecond)
	status, obj = env.do(t, "POST", "/api/messages", stale, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "StaleTimestamp", obj["error"])

	// the stale attempt above consumed one slot of the window
	for i := 0; i < 4; i++ {
		status, _ = env.do(t, "POST", "/api/messages", signedSubmission(t, visitor, "alice.eth", "hello"), "")
		require.Equal(t, http.StatusOK, status)
	}
	status, obj = env.do(t, "POST", "/api/messages", signedSubmission(t, visitor, "alice.eth", "hello"), "")
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, "RateLimitExceeded", obj["error"])
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) CreateMessage(*models.Message) error {
	return errors.New("disk on fire")
}

func TestPostMessageStoreFailure(t *testing.T) {
	env := setupAPI(t)
	env.api.Messages.Store = brokenStore{env.store}
	visitor, err := crypto.Generate()
	require.NoError(t, err)

	status, obj := env.do(t, "POST", "/api/messages", signedSubmission(t, visitor, "alice.eth", "hello"), "")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, ErrInternal.Error(), obj["error"])

	list, err := env.store.MessagesFor("alice.eth", true)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDomainRoutes(t *testing.T) {
	env := setupAPI(t)
	payTo, err := crypto.Generate()
	require.NoError(t, err)

	status, obj := env.do(t, "GET", "/api/domain/Alice.eth/ownership", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice.eth", obj["domain"])
	require.Equal(t, env.owner.Address, obj["ownerAddress"])
	require.Equal(t, true, obj["verified"])
	require.Equal(t, false, obj["isOwner"])
	require.Equal(t, "doma", obj["source"])

	status, obj = env.do(t, "GET", "/api/domain/nobody.eth/ownership", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, obj["ownerAddress"])

	status, obj = env.do(t, "GET", "/api/domain/alice.eth/payout", nil, "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "payout not configured for this domain", obj["error"])

	signature, err := env.owner.SignMessage(domains.PayoutString("alice.eth", payTo.Address))
	require.NoError(t, err)

	status, _ = env.do(t, "POST", "/api/domain/alice.eth/payout", PayoutRequest{PayoutAddress: "0x12", Signature: signature}, "")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, "POST", "/api/domain/nobody.eth/payout", PayoutRequest{PayoutAddress: payTo.Address, Signature: signature}, "")
	require.Equal(t, http.StatusNotFound, status)

	forged, err := payTo.SignMessage(domains.PayoutString("alice.eth", payTo.Address))
	require.NoError(t, err)
	status, _ = env.do(t, "POST", "/api/domain/alice.eth/payout", PayoutRequest{PayoutAddress: payTo.Address, Signature: forged}, "")
	require.Equal(t, http.StatusForbidden, status)

	status, obj = env.do(t, "POST", "/api/domain/alice.eth/payout", PayoutRequest{PayoutAddress: payTo.Address, Signature: signature}, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, obj["success"])
	require.Equal(t, crypto.NormalizeAddress(payTo.Address), obj["payoutAddress"])

	status, obj = env.do(t, "GET", "/api/domain/alice.eth/payout", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, crypto.NormalizeAddress(payTo.Address), obj["to"])
	require.Equal(t, domains.PayoutMode, obj["mode"])
	require.Nil(t, obj["txHash"])
}

func TestOrderbookRoutes(t *testing.T) {
	env := setupAPI(t)
	bidder, err := crypto.Generate()
	require.NoError(t, err)

	env.api.Orderbook.SetBook(orderbook.Book{
		Domain: "alice.eth",
		Asks:   []orderbook.Level{{Price: 3, Amount: 1}},
	})

	status, obj := env.do(t, "GET", "/api/orderbook/alice.eth", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(3), obj["bestAsk"])

	req := httptest.NewRequest("GET", "/api/orderbook/nobody.eth", nil)
	rec := httptest.NewRecorder()
	env.api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "null\n", rec.Body.String())
	require.Equal(t, "public, max-age=30", rec.Header().Get("Cache-Control"))

	status, obj = env.do(t, "POST", "/api/orderbook/offer", OfferRequest{Domain: "alice.eth", Amount: 0, Bidder: bidder.Address}, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid offer parameters", obj["error"])

	status, obj = env.do(t, "POST", "/api/orderbook/offer", OfferRequest{Domain: "alice.eth", Amount: 2.5, Bidder: bidder.Address}, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, obj["success"])
	require.Regexp(t, "^offer_", obj["offerId"])

	status, obj = env.do(t, "GET", "/api/orderbook/alice.eth", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2.5, obj["bestBid"])

	status, obj = env.do(t, "GET", "/api/orderbook/offer?domain=ALICE.eth", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(1), obj["total"])

	status, obj = env.do(t, "GET", "/api/orderbook/offer?domain=bob.crypto", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(0), obj["total"])
}

func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	ts := now()
	signature, err := env.owner.SignMessage(domains.LoginString("alice.eth", ts, env.owner.Address))
	require.NoError(t, err)

	status, obj := env.do(t, "POST", "/api/dashboard/auth", LoginRequest{
		Domain:    "alice.eth",
		Address:   env.owner.Address,
		Timestamp: ts,
		Signature: signature,
	}, "")
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, obj["expiresAt"])
	return obj["token"].(string)
}

func TestDashboardAuth(t *testing.T) {
	env := setupAPI(t)
	stranger, err := crypto.Generate()
	require.NoError(t, err)

	ts := now()
	forged, err := stranger.SignMessage(domains.LoginString("alice.eth", ts, stranger.Address))
	require.NoError(t, err)
	status, _ := env.do(t, "POST", "/api/dashboard/auth", LoginRequest{
		Domain:    "alice.eth",
		Address:   stranger.Address,
		Timestamp: ts,
		Signature: forged,
	}, "")
	require.Equal(t, http.StatusForbidden, status)

	token := env.login(t)
	session, err := env.api.ValidateToken(httptest.NewRequest("GET", "/?token="+token, nil))
	require.NoError(t, err)
	require.Equal(t, "alice.eth", session.Domain)
	require.Equal(t, crypto.NormalizeAddress(env.owner.Address), session.Owner)

	status, _ = env.do(t, "GET", "/api/dashboard/alice.eth/overview", nil, "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, "GET", "/api/dashboard/alice.eth/overview", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, "GET", "/api/dashboard/bob.crypto/overview", nil, token)
	require.Equal(t, http.StatusForbidden, status)

	env.api.TokenTTL = -time.Minute
	expired, _, err := env.api.NewToken("alice.eth", env.owner.Address)
	require.NoError(t, err)
	status, _ = env.do(t, "GET", "/api/dashboard/alice.eth/overview", nil, expired)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestDashboardModeration(t *testing.T) {
	env := setupAPI(t)
	visitor, err := crypto.Generate()
	require.NoError(t, err)
	token := env.login(t)

	for _, body := range []string{"first", "second", "third"} {
		status, _ := env.do(t, "POST", "/api/messages", signedSubmission(t, visitor, "alice.eth", body), "")
		require.Equal(t, http.StatusOK, status)
	}
	_, err = env.api.Orderbook.PlaceOffer("alice.eth", 1.5, visitor.Address)
	require.NoError(t, err)

	status, obj := env.do(t, "GET", "/api/dashboard/alice.eth/overview", nil, token)
	require.Equal(t, http.StatusOK, status)
	stats := obj["messages"].(map[string]interface{})
	require.Equal(t, float64(3), stats["total"])
	require.Equal(t, float64(3), stats["verified"])
	offers := obj["offers"].(map[string]interface{})
	require.Equal(t, float64(1), offers["active"])
	require.Equal(t, 1.5, offers["bestOffer"])
	require.Len(t, obj["recentActivity"], 4)

	status, obj = env.do(t, "POST", "/api/dashboard/message/2/hide", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, obj["hidden"])

	_, obj = env.do(t, "GET", "/api/messages?target=alice.eth", nil, "")
	require.Equal(t, float64(2), obj["total"])

	status, obj = env.do(t, "GET", "/api/dashboard/alice.eth/messages?p=1", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(3), obj["records"])
	require.Equal(t, float64(1), obj["pages"])
	first := obj["messages"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, float64(3), first["id"])

	status, _ = env.do(t, "POST", "/api/dashboard/message/2/show", nil, token)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, "POST", "/api/dashboard/message/99/hide", nil, token)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, "POST", "/api/dashboard/alice.eth/mute", MuteRequest{}, token)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, "POST", "/api/dashboard/alice.eth/mute", MuteRequest{Address: visitor.Address}, token)
	require.Equal(t, http.StatusOK, status)

	status, obj = env.do(t, "GET", "/api/dashboard/alice.eth/muted", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []interface{}{crypto.NormalizeAddress(visitor.Address)}, obj["addresses"])

	_, obj = env.do(t, "GET", "/api/messages?target=alice.eth", nil, "")
	require.Equal(t, float64(0), obj["total"])

	status, _ = env.do(t, "POST", "/api/dashboard/alice.eth/unmute", MuteRequest{Address: visitor.Address}, token)
	require.Equal(t, http.StatusOK, status)
	_, obj = env.do(t, "GET", "/api/messages?target=alice.eth", nil, "")
	require.Equal(t, float64(3), obj["total"])
}

func TestModerationOfOtherDomains(t *testing.T) {
	env := setupAPI(t)
	visitor, err := crypto.Generate()
	require.NoError(t, err)
	token := env.login(t)

	status, _ := env.do(t, "POST", "/api/messages", signedSubmission(t, visitor, "bob.crypto", "hi"), "")
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, "POST", "/api/dashboard/message/1/hide", nil, token)
	require.Equal(t, http.StatusForbidden, status)

	msg, err := env.store.FindMessage(1)
	require.NoError(t, err)
	require.False(t, msg.Hidden)
}

func TestCORS(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest("OPTIONS", "/api/messages", nil)
	rec := httptest.NewRecorder()
	env.api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutesDoc(t *testing.T) {
	env := setupAPI(t)
	doc := env.api.RoutesDoc()
	require.Contains(t, doc, "/api/*/messages/*")
	require.Contains(t, doc, "/dashboard/*")
	require.Contains(t, doc, "PostMessage")
	require.Contains(t, doc, "SetSettings")
}

func TestDashboardSettings(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t)

	status, _ := env.do(t, "GET", "/api/dashboard/alice.eth/settings", nil, "")
	require.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, "GET", "/api/dashboard/bob.crypto/settings", nil, token)
	require.Equal(t, http.StatusForbidden, status)

	status, obj := env.do(t, "GET", "/api/dashboard/alice.eth/settings", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice.eth", obj["title"])
	require.Equal(t, "Send payments and messages to alice.eth", obj["description"])
	theme := obj["theme"].(map[string]interface{})
	require.Equal(t, domains.DefaultPrimaryColor, theme["primaryColor"])
	require.Equal(t, domains.DefaultBackgroundColor, theme["backgroundColor"])
	require.Equal(t, domains.DefaultTextColor, theme["textColor"])

	status, obj = env.do(t, "POST", "/api/dashboard/alice.eth/settings", `{"theme":{"textColor":"tomato"}}`, token)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, obj["error"], "invalid page settings")

	status, _ = env.do(t, "POST", "/api/dashboard/alice.eth/settings", "{nope", token)
	require.Equal(t, http.StatusUnprocessableEntity, status)

	status, obj = env.do(t, "POST", "/api/dashboard/alice.eth/settings", `{"title":"Alice","theme":{"primaryColor":"#000000"}}`, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, obj["success"])

	status, obj = env.do(t, "GET", "/api/dashboard/alice.eth/settings", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Alice", obj["title"])
	require.Equal(t, "Send payments and messages to alice.eth", obj["description"])
	theme = obj["theme"].(map[string]interface{})
	require.Equal(t, "#000000", theme["primaryColor"])
	require.Equal(t, domains.DefaultTextColor, theme["textColor"])
}

func TestDashboardDomainNamedMessages(t *testing.T) {
	env := setupAPI(t)
	owner, err := crypto.Generate()
	require.NoError(t, err)
	require.NoError(t, env.store.SetOwner("messages", owner.Address))

	ts := now()
	signature, err := owner.SignMessage(domains.LoginString("messages", ts, owner.Address))
	require.NoError(t, err)
	status, obj := env.do(t, "POST", "/api/dashboard/auth", LoginRequest{
		Domain:    "messages",
		Address:   owner.Address,
		Timestamp: ts,
		Signature: signature,
	}, "")
	require.Equal(t, http.StatusOK, status)
	token := obj["token"].(string)

	status, obj = env.do(t, "GET", "/api/dashboard/messages/overview", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "messages", obj["domain"])

	status, obj = env.do(t, "GET", "/api/dashboard/messages/muted", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, obj["addresses"])
}
