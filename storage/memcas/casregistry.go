package memcas

import (
	"flag"

	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/casregistry"
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "mem",
		Description: "In-memory CAS (no persistence)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			// No backend-specific flags.
		},
		Open: func() (storage.ContentAddressableStorage, func() error, error) {
			return New(), nil, nil
		},
		OpenWithConfig: func(cfg map[string]string) (storage.ContentAddressableStorage, func() error, error) {
			return New(), nil, nil
		},
	})
}
