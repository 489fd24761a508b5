package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/api"
	"github.com/namepage/namepage/config"
	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/domains"
	"github.com/namepage/namepage/fixtures"
	"github.com/namepage/namepage/memory"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/models"
	"github.com/namepage/namepage/orderbook"
	"github.com/namepage/namepage/version"
)

// backend is what the services need from storage.
type backend interface {
	messages.Store
	messages.LimitStore
	domains.Store
	orderbook.Store
}

func cleanup() {
	if repository != nil {
		log.Info("closing database ...")
		if err := repository.Close(); err != nil {
			log.Error("%v", err)
		}
	}
}

func setupCore() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for sig := range c {
			log.Warning("received signal %v", sig)
			cleanup()
			os.Exit(0)
		}
	}()

	if debug {
		log.Level = log.DEBUG
	} else {
		log.Level = log.INFO
	}
	log.OnFatal = log.ExitOnFatal
}

func setupStore() backend {
	if conf.Database.Dialect == config.DialectMemory {
		log.Warning("using the in-memory store, data will not survive a restart")
		return memory.New()
	}

	log.Info("connecting to %s database ...", conf.Database.Dialect)
	repo, err := models.Open(conf.Database.Dialect, conf.Database.URL())
	if err != nil {
		log.Fatal("%v", err)
	}
	repository = repo
	return repo
}

func setupServer(store backend) {
	var err error

	limiter := messages.NewLimiter(store, conf.RateLimitWindow, conf.RateLimitQuota)
	msgs := messages.NewService(store, limiter, conf.MessageMaxAge)
	names := domains.NewService(store, conf.MessageMaxAge)
	book := orderbook.NewService(store)

	seed, err := fixtures.Load(conf.SeedFile)
	if err != nil {
		log.Fatal("%v", err)
	} else if err = seed.Apply(store, book, time.Now()); err != nil {
		log.Fatal("error applying seed data: %v", err)
	}
	log.Debug("seeded %d domains and %d orderbooks", len(seed.Domains), len(seed.Orderbooks))

	if err, server = api.Setup(msgs, names, book, conf.Secret, conf.TokenTTL); err != nil {
		log.Fatal("%v", err)
	}
}

func setupKeys() {
	var err error

	if generate {
		if keysPath == "" {
			log.Fatal("no -keys path specified")
		} else if crypto.KeysExist(keysPath) {
			log.Fatal("key already exists in %s", keysPath)
		}

		if keys, err = crypto.LoadOrCreate(keysPath); err != nil {
			log.Fatal("error generating secp256k1 key: %v", err)
		}
		log.Info("key for %s saved to %s", keys.Address, keysPath)
		os.Exit(0)
	}

	if keysPath != "" {
		if keys, err = crypto.Load(keysPath); err != nil {
			log.Fatal("error while loading keys from %s: %v", keysPath, err)
		}
	}

	if whoami {
		if keys == nil {
			log.Fatal("no -keys path specified")
		}
		log.Info("%s", keys.Address)
		os.Exit(0)
	}
}

func setupMode() string {
	var err error

	mode := "server"
	if keysPath != "" || generate || receiver != "" || inboxOf != "" || ownerOf != "" {
		mode = "client"
	}

	log.Info("namepage v%s starting in %s mode ...", version.Version, mode)

	if mode == "client" {
		setupKeys()
		client = api.NewClient(endpoint, keys)
		return mode
	}

	if conf, err = config.Load(env); err != nil {
		log.Fatal("%v", err)
	}
	if address != "" {
		conf.Address = address
	}

	setupServer(setupStore())
	return mode
}
