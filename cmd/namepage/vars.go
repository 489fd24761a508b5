package main

import (
	"flag"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/api"
	"github.com/namepage/namepage/config"
	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/models"
)

var (
	debug      = false
	ver        = false
	routes     = false
	generate   = false
	whoami     = false
	receiver   = ""
	message    = ""
	inboxOf    = ""
	ownerOf    = ""
	address    = ""
	env        = ".env"
	endpoint   = api.Endpoint
	keysPath   = ""
	keys       = (*crypto.KeyPair)(nil)
	conf       = (*config.Config)(nil)
	repository = (*models.Repository)(nil)
	server     = (*api.API)(nil)
	client     = (*api.Client)(nil)
)

func init() {
	flag.BoolVar(&ver, "version", ver, "Print version and exit.")
	flag.BoolVar(&debug, "debug", debug, "Enable debug logs.")
	flag.BoolVar(&routes, "routes", routes, "Print the API routes documentation and exit.")
	flag.StringVar(&log.Output, "log", log.Output, "Log file path or empty for standard output.")
	flag.StringVar(&address, "address", address, "API address, overrides ADDRESS.")
	flag.StringVar(&env, "env", env, "Load .env from.")

	flag.StringVar(&keysPath, "keys", keysPath, "If set, will load the secp256k1 key from this folder and start in client mode.")
	flag.BoolVar(&generate, "generate", generate, "Generate a secp256k1 key if it doesn't exist yet.")
	flag.BoolVar(&whoami, "whoami", whoami, "Print the address of the key and exit.")
	flag.StringVar(&endpoint, "endpoint", endpoint, "API endpoint to use in client mode.")
	flag.IntVar(&api.ClientTimeout, "client-timeout", api.ClientTimeout, "Timeout in seconds for requests to the server when in client mode.")
	flag.IntVar(&api.ClientRate, "client-rate", api.ClientRate, "Maximum requests per second to the server when in client mode.")

	flag.StringVar(&receiver, "send", receiver, "Name to send a signed message to.")
	flag.StringVar(&message, "message", message, "Message body or file path if prefixed by @.")
	flag.StringVar(&inboxOf, "inbox", inboxOf, "Show the public messages of this name.")
	flag.StringVar(&ownerOf, "ownership", ownerOf, "Show the ownership of this name.")
}
