/*
Morayd starts a moray parse server and begins listening for new connections.

Once started, the server will listen for HTTP requests and respond to them
using REST protocol. By default, it will listen on localhost:8080. This can be
changed with the --listen/-l flag (or config via environment var or config
file). The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

Usage:

	morayd [flags]
	morayd [flags] -l [[ADDRESS]:PORT]

The flags are:

	-v, --version
		Give the current version of the moray server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable MORAY_LISTEN_ADDRESS, and if that is not given, to the config
		file, and finally to localhost:8080.

	-c, --conf FILE
		Read server configuration from the given TOML file. Flags and
		environment variables override values from the file.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dekarrin/moray/internal/version"
	"github.com/dekarrin/moray/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "MORAY_LISTEN_ADDRESS"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the moray server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagConf    = pflag.StringP("conf", "c", "", "Read server configuration from the given TOML file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (moray v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	var cfg server.Config
	if *flagConf != "" {
		var err error
		cfg, err = server.LoadConfig(*flagConf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(1)
		}
	}

	if envListen := os.Getenv(EnvListen); envListen != "" {
		cfg.ListenAddress = envListen
	}
	if *flagListen != "" {
		cfg.ListenAddress = *flagListen
	}

	srv, err := server.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}

	log.Printf("INFO: moray server v%s listening on %s", version.ServerCurrent, srv.Config().ListenAddress)
	err = srv.ServeForever()
	log.Printf("FATAL: %v", err)
	os.Exit(1)
}
