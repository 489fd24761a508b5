package api

import (
	"fmt"
	"net/http"

	"github.com/evilsocket/islazy/log"
	"github.com/go-chi/chi"
	"github.com/go-chi/docgen"
)

func cached(seconds int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
		w.Header().Add("Expires", fmt.Sprintf("%d", seconds))
		next.ServeHTTP(w, r)
	}
}

func (api *API) setupRoutes() {
	log.Debug("registering api routes ...")

	api.Router.Route("/api", func(r chi.Router) {
		r.Route("/messages", func(r chi.Router) {
			// GET /api/messages?target=<name>
			r.Get("/", api.GetMessages)
			// POST /api/messages
			r.Post("/", api.PostMessage)
		})

		r.Route("/domain/{name}", func(r chi.Router) {
			// GET /api/domain/<name>/ownership
			r.Get("/ownership", api.GetOwnership)
			// GET /api/domain/<name>/payout
			r.Get("/payout", api.GetPayout)
			// POST /api/domain/<name>/payout
			r.Post("/payout", api.SetPayout)
		})

		r.Route("/orderbook", func(r chi.Router) {
			r.Route("/offer", func(r chi.Router) {
				// GET /api/orderbook/offer?domain=<name>&bidder=<address>
				r.Get("/", api.ListOffers)
				// POST /api/orderbook/offer
				r.Post("/", api.PlaceOffer)
			})
			// GET /api/orderbook/<domain>
			r.Get("/{domain}", cached(30, api.GetOrderbook))
		})

		r.Route("/dashboard", func(r chi.Router) {
			// POST /api/dashboard/auth
			r.Post("/auth", api.DashboardAuth)
			r.Route("/message/{msg_id:[0-9]+}", func(r chi.Router) {
				// POST /api/dashboard/message/<msg_id>/hide
				r.Post("/hide", api.HideMessage)
				// POST /api/dashboard/message/<msg_id>/show
				r.Post("/show", api.ShowMessage)
			})
			r.Route("/{domain}", func(r chi.Router) {
				// GET /api/dashboard/<domain>/overview
				r.Get("/overview", api.DashboardOverview)
				// GET /api/dashboard/<domain>/messages?p=<page>
				r.Get("/messages", api.DashboardMessages)
				// GET /api/dashboard/<domain>/muted
				r.Get("/muted", api.ListMuted)
				// POST /api/dashboard/<domain>/mute
				r.Post("/mute", api.MuteSender)
				// POST /api/dashboard/<domain>/unmute
				r.Post("/unmute", api.UnmuteSender)
				// GET /api/dashboard/<domain>/settings
				r.Get("/settings", api.GetSettings)
				// POST /api/dashboard/<domain>/settings
				r.Post("/settings", api.SetSettings)
			})
		})
	})
}

// RoutesDoc renders the registered routes as markdown.
func (api *API) RoutesDoc() string {
	return docgen.MarkdownRoutesDoc(api.Router, docgen.MarkdownOpts{
		ProjectPath: "github.com/namepage/namepage",
		Intro:       "namepage REST API.",
	})
}
