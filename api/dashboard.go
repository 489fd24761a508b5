package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/go-chi/chi"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/models"
)

const RecentActivitySize = 10

type LoginRequest struct {
	Domain    string `json:"domain"`
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

type MuteRequest struct {
	Address string `json:"address"`
}

type Activity struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

type OfferStats struct {
	Total     int      `json:"total"`
	Active    int      `json:"active"`
	BestOffer *float64 `json:"bestOffer"`
}

func (api *API) DashboardAuth(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	owner, err := api.Domains.Login(req.Domain, req.Address, req.Timestamp, req.Signature)
	if err != nil {
		log.Warning("dashboard login for %s from %s rejected: %v", req.Domain, clientIP(r), err)
		domainError(w, req.Domain, err)
		return
	}

	token, expiresAt, err := api.NewToken(req.Domain, owner)
	if err != nil {
		log.Error("error creating token for %s: %v", req.Domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresAt": expiresAt,
	})
}

func (api *API) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if api.authorize(w, r, domain) == nil {
		return
	}

	stats, err := api.Messages.Stats(domain)
	if err != nil {
		log.Error("error computing stats of %s: %v", domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	recent, _, _, err := api.Messages.Page(domain, 1)
	if err != nil {
		log.Error("error loading messages of %s: %v", domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	offers, err := api.Orderbook.Offers(domain, "")
	if err != nil {
		log.Error("error loading offers of %s: %v", domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	offerStats := OfferStats{Total: len(offers)}
	activity := make([]Activity, 0, len(recent)+len(offers))
	for _, msg := range recent {
		activity = append(activity, Activity{
			Type:      "message",
			ID:        strconv.FormatUint(uint64(msg.ID), 10),
			Actor:     msg.Sender,
			Summary:   msg.Body,
			Timestamp: msg.CreatedAt,
		})
	}
	for i, offer := range offers {
		if offer.Status == models.OfferActive {
			offerStats.Active++
			if offerStats.BestOffer == nil || offer.Amount > *offerStats.BestOffer {
				offerStats.BestOffer = &offers[i].Amount
			}
		}
		activity = append(activity, Activity{
			Type:      "offer",
			ID:        offer.ID,
			Actor:     offer.Bidder,
			Summary:   fmt.Sprintf("%s offer of %g", offer.Status, offer.Amount),
			Timestamp: offer.CreatedAt,
		})
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	if len(activity) > RecentActivitySize {
		activity = activity[:RecentActivitySize]
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"domain":         messages.NormalizeTarget(domain),
		"messages":       stats,
		"offers":         offerStats,
		"recentActivity": activity,
	})
}

func (api *API) DashboardMessages(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if api.authorize(w, r, domain) == nil {
		return
	}

	page, err := pageNum(r)
	if err != nil {
		ERROR(w, http.StatusUnprocessableEntity, err)
		return
	}

	list, total, pages, err := api.Messages.Page(domain, page)
	if err != nil {
		log.Error("error loading page %d of %s: %v", page, domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"records":  total,
		"pages":    pages,
		"messages": list,
	})
}

func (api *API) markMessage(w http.ResponseWriter, r *http.Request, hidden bool) {
	session := api.Authenticate(w, r)
	if session == nil {
		return
	}

	msgID, err := strconv.ParseUint(chi.URLParam(r, "msg_id"), 10, 32)
	if err != nil {
		ERROR(w, http.StatusUnprocessableEntity, err)
		return
	}

	msg, err := api.Messages.Message(uint(msgID))
	if err == models.ErrNotFound {
		ERROR(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		log.Error("error loading message %d: %v", msgID, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	} else if !session.Can(msg.Target) {
		log.Warning("%s tried to moderate message %d of %s", session.Owner, msg.ID, msg.Target)
		ERROR(w, http.StatusForbidden, ErrTokenDomain)
		return
	}

	if hidden {
		err = api.Messages.Hide(msg.ID)
	} else {
		err = api.Messages.Show(msg.ID)
	}
	if err != nil {
		log.Error("error updating message %d: %v", msg.ID, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      msg.ID,
		"hidden":  hidden,
	})
}

func (api *API) HideMessage(w http.ResponseWriter, r *http.Request) {
	api.markMessage(w, r, true)
}

func (api *API) ShowMessage(w http.ResponseWriter, r *http.Request) {
	api.markMessage(w, r, false)
}

func (api *API) ListMuted(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if api.authorize(w, r, domain) == nil {
		return
	}

	addresses, err := api.Messages.Muted(domain)
	if err != nil {
		log.Error("error loading muted senders of %s: %v", domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"addresses": addresses,
	})
}

func (api *API) setMuted(w http.ResponseWriter, r *http.Request, muted bool) {
	domain := chi.URLParam(r, "domain")
	if api.authorize(w, r, domain) == nil {
		return
	}

	var req MuteRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	} else if strings.TrimSpace(req.Address) == "" {
		ERROR(w, http.StatusBadRequest, messages.ErrMissingFields)
		return
	}

	var err error
	if muted {
		err = api.Messages.Mute(domain, req.Address)
	} else {
		err = api.Messages.Unmute(domain, req.Address)
	}
	if err != nil {
		log.Error("error updating muted senders of %s: %v", domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"domain":  messages.NormalizeTarget(domain),
		"address": crypto.NormalizeAddress(req.Address),
		"muted":   muted,
	})
}

func (api *API) MuteSender(w http.ResponseWriter, r *http.Request) {
	api.setMuted(w, r, true)
}

func (api *API) UnmuteSender(w http.ResponseWriter, r *http.Request) {
	api.setMuted(w, r, false)
}

func (api *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if api.authorize(w, r, domain) == nil {
		return
	}

	settings, err := api.Domains.Settings(domain)
	if err != nil {
		domainError(w, domain, err)
		return
	}
	JSON(w, http.StatusOK, settings)
}

// SetSettings applies the request on top of the current settings, so
// clients can send only the fields they change.
func (api *API) SetSettings(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if api.authorize(w, r, domain) == nil {
		return
	}

	settings, err := api.Domains.Settings(domain)
	if err != nil {
		domainError(w, domain, err)
		return
	} else if err = readJSON(w, r, settings); err != nil {
		return
	}

	saved, err := api.Domains.SetSettings(domain, *settings)
	if err != nil {
		log.Debug("page settings of %s rejected: %v", domain, err)
		domainError(w, domain, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Page settings saved",
		"settings": saved,
	})
}
