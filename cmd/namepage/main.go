package main

import (
	"flag"
	"fmt"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/api"
	"github.com/namepage/namepage/domains"
	"github.com/namepage/namepage/memory"
	"github.com/namepage/namepage/messages"
	"github.com/namepage/namepage/orderbook"
	"github.com/namepage/namepage/version"
)

func printRoutes() {
	store := memory.New()
	err, doc := api.Setup(
		messages.NewService(store, messages.NewLimiter(store, 0, 0), 0),
		domains.NewService(store, 0),
		orderbook.NewService(store),
		"routes",
		0)
	if err != nil {
		log.Fatal("%v", err)
	}
	fmt.Println(doc.RoutesDoc())
}

func main() {
	flag.Parse()

	if ver {
		fmt.Println(version.Version)
		return
	}

	setupCore()

	if err := log.Open(); err != nil {
		panic(err)
	}
	defer log.Close()

	if routes {
		printRoutes()
		return
	}

	if mode := setupMode(); mode == "server" {
		defer cleanup()
		server.Run(conf.Address)
	} else {
		clientMain()
	}
}
