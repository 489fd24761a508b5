package api

import (
	"net/http"

	"github.com/evilsocket/islazy/log"
	"github.com/go-chi/chi"

	"github.com/namepage/namepage/orderbook"
)

type OfferRequest struct {
	Domain string  `json:"domain"`
	Amount float64 `json:"amount"`
	Bidder string  `json:"bidder"`
}

func (api *API) GetOrderbook(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	book, err := api.Orderbook.Book(domain)
	if err != nil {
		log.Error("error loading orderbook of %s: %v", domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}
	JSON(w, http.StatusOK, book)
}

func (api *API) PlaceOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	offer, err := api.Orderbook.PlaceOffer(req.Domain, req.Amount, req.Bidder)
	if err == orderbook.ErrInvalidOffer {
		ERROR(w, http.StatusBadRequest, err)
		return
	} else if err != nil {
		log.Error("error storing offer on %s: %v", req.Domain, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"offerId": offer.ID,
		"message": "Offer placed successfully",
		"offer":   offer,
	})
}

func (api *API) ListOffers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offers, err := api.Orderbook.Offers(query.Get("domain"), query.Get("bidder"))
	if err != nil {
		log.Error("error listing offers: %v", err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"offers": offers,
		"total":  len(offers),
	})
}
