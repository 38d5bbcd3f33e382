// Command weft-casd serves a content-addressable store over gRPC.
//
// The backend is chosen by name from the registry, or composed from a JSON
// config file describing a fallback chain of backends.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/weftnet/weft/logging"
	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/casconfig"
	"github.com/weftnet/weft/storage/casregistry"
	"github.com/weftnet/weft/storage/grpcas"

	_ "github.com/weftnet/weft/storage/badgercas"
	_ "github.com/weftnet/weft/storage/fscas"
	_ "github.com/weftnet/weft/storage/memcas"
)

func main() {
	fs := flag.NewFlagSet("weft-casd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	backend := fs.String("backend", "fs", "CAS backend name")
	configPath := fs.String("config", "", "JSON backend config file (overrides -backend)")
	logLevel := fs.String("log-level", "info", "log level: debug|info|warn|error")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	log := logging.New(logging.Config{Service: "weft-casd", Level: *logLevel, JSON: true})

	cas, closeFn, err := openBackend(*backend, *configPath)
	if err != nil {
		log.Error("open backend", "err", err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Error("listen", "addr", *listen, "err", err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcas.RegisterCASServer(s, &grpcas.Server{CAS: cas})

	log.Info("listening", "addr", lis.Addr().String(), "backend", *backend)
	if err := s.Serve(lis); err != nil {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}

func openBackend(name, configPath string) (storage.ContentAddressableStorage, func() error, error) {
	if configPath == "" {
		return casregistry.Open(name, casregistry.UsageDaemon)
	}
	cfg, err := casconfig.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg.Open(casregistry.UsageDaemon)
}
