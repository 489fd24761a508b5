package api

import (
	"errors"
	"net/http"

	"github.com/evilsocket/islazy/log"
	"github.com/go-chi/chi"

	"github.com/namepage/namepage/domains"
)

type PayoutRequest struct {
	PayoutAddress string `json:"payoutAddress"`
	Signature     string `json:"signature"`
}

func domainStatus(err error) int {
	if errors.Is(err, domains.ErrInvalidSettings) {
		return http.StatusBadRequest
	}

	switch err {
	case domains.ErrMissingFields, domains.ErrInvalidAddress, domains.ErrStaleTimestamp:
		return http.StatusBadRequest
	case domains.ErrUnknownDomain, domains.ErrPayoutNotConfigured:
		return http.StatusNotFound
	case domains.ErrNotOwner:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func domainError(w http.ResponseWriter, name string, err error) {
	status := domainStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("error handling domain %s: %v", name, err)
		err = ErrInternal
	}
	ERROR(w, status, err)
}

func (api *API) GetOwnership(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ownership, err := api.Domains.Ownership(name)
	if err != nil {
		domainError(w, name, err)
		return
	}
	JSON(w, http.StatusOK, ownership)
}

func (api *API) GetPayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	payout, err := api.Domains.Payout(name)
	if err != nil {
		domainError(w, name, err)
		return
	}
	JSON(w, http.StatusOK, payout)
}

func (api *API) SetPayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req PayoutRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	payout, err := api.Domains.SetPayout(name, req.PayoutAddress, req.Signature)
	if err != nil {
		log.Debug("payout change for %s from %s rejected: %v", name, clientIP(r), err)
		domainError(w, name, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"domain":        payout.Domain,
		"payoutAddress": payout.Address,
		"message":       "Payout address updated",
	})
}
