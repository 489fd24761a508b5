package api

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/namepage/namepage/domains"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/orderbook"
)

const DefaultTokenTTL = time.Minute * 30

type API struct {
	Router    *chi.Mux
	Messages  *messages.Service
	Domains   *domains.Service
	Orderbook *orderbook.Service
	Secret    []byte
	TokenTTL  time.Duration
}

func Setup(msgs *messages.Service, names *domains.Service, book *orderbook.Service, secret string, tokenTTL time.Duration) (err error, api *API) {
	api = &API{
		Router:    chi.NewRouter(),
		Messages:  msgs,
		Domains:   names,
		Orderbook: book,
		Secret:    []byte(secret),
		TokenTTL:  tokenTTL,
	}

	if api.TokenTTL <= 0 {
		api.TokenTTL = DefaultTokenTTL
	}

	if len(api.Secret) == 0 {
		log.Warning("API_SECRET not set, dashboard tokens will not survive a restart")
		api.Secret = make([]byte, 32)
		if _, err = rand.Read(api.Secret); err != nil {
			return
		}
	}

	api.Router.Use(CORS)
	api.Router.Use(middleware.DefaultCompress)
	api.setupRoutes()

	return
}

func (api *API) Run(addr string) {
	log.Info("namepage api starting on %s ...", addr)
	log.Fatal("%v", http.ListenAndServe(addr, api.Router))
}
