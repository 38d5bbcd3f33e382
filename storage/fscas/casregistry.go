package fscas

import (
	"flag"
	"fmt"

	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/casregistry"
)

var flagRoot string

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "fs",
		Description: "Filesystem CAS (one <address>.json file per object)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagRoot, "fs-root", "", "Filesystem CAS root directory (for --backend=fs)")
		},
		Open: func() (storage.ContentAddressableStorage, func() error, error) {
			if flagRoot == "" {
				return nil, nil, fmt.Errorf("missing --fs-root")
			}
			cas, err := New(flagRoot)
			return cas, nil, err
		},
		OpenWithConfig: func(cfg map[string]string) (storage.ContentAddressableStorage, func() error, error) {
			root := cfg["fs-root"]
			if root == "" {
				return nil, nil, fmt.Errorf("missing fs-root config value")
			}
			cas, err := New(root)
			return cas, nil, err
		},
	})
}
