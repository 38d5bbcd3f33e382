package grpcas

import (
	"flag"
	"fmt"
	"time"

	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/casregistry"
)

var (
	flagTarget  string
	flagTimeout time.Duration
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "grpc",
		Description: "Remote CAS over gRPC (weft-casd)",
		Usage:       casregistry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagTarget, "grpc-target", "", "Remote CAS address (for --backend=grpc)")
			fs.DurationVar(&flagTimeout, "grpc-timeout", 5*time.Second, "Per-RPC timeout for the grpc backend")
		},
		Open: func() (storage.ContentAddressableStorage, func() error, error) {
			return open(flagTarget, flagTimeout)
		},
		OpenWithConfig: func(cfg map[string]string) (storage.ContentAddressableStorage, func() error, error) {
			timeout := 5 * time.Second
			if v := cfg["grpc-timeout"]; v != "" {
				d, err := time.ParseDuration(v)
				if err != nil {
					return nil, nil, fmt.Errorf("invalid grpc-timeout %q: %w", v, err)
				}
				timeout = d
			}
			return open(cfg["grpc-target"], timeout)
		},
	})
}

func open(target string, timeout time.Duration) (storage.ContentAddressableStorage, func() error, error) {
	if target == "" {
		return nil, nil, fmt.Errorf("missing --grpc-target")
	}
	client, err := Dial(target, DialOptions{Timeout: timeout})
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}
