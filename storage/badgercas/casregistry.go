package badgercas

import (
	"flag"
	"fmt"

	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/casregistry"
)

var (
	flagDir      string
	flagInMemory bool
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "badger",
		Description: "BadgerDB CAS (embedded key-value store)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagDir, "badger-dir", "", "Badger CAS directory (for --backend=badger)")
			fs.BoolVar(&flagInMemory, "badger-inmemory", false, "Run Badger without persistence")
		},
		Open: func() (storage.ContentAddressableStorage, func() error, error) {
			return open(flagDir, flagInMemory)
		},
		OpenWithConfig: func(cfg map[string]string) (storage.ContentAddressableStorage, func() error, error) {
			return open(cfg["badger-dir"], cfg["badger-inmemory"] == "true")
		},
	})
}

func open(dir string, inMemory bool) (storage.ContentAddressableStorage, func() error, error) {
	if dir == "" && !inMemory {
		return nil, nil, fmt.Errorf("missing --badger-dir")
	}
	cas, err := Open(Config{Path: dir, InMemory: inMemory, SyncWrites: !inMemory})
	if err != nil {
		return nil, nil, err
	}
	return cas, cas.Close, nil
}
