// Package casconfig opens one or more CAS backends from a JSON config file.
//
// This provides config-driven runtime backend selection. Callers still need
// to link desired backend plugins via blank imports.
package casconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/casregistry"
)

// Config describes an ordered list of backends. The first backend receives
// writes; reads fall back in order (see storage.MultiCAS).
//
// Example:
//
//	{
//	  "backends": [
//	    {"name":"mem"},
//	    {"name":"fs", "config":{"fs-root":"/var/lib/weft/cas"}}
//	  ]
//	}
//
// Config values are backend-specific and mirror the backend's CLI flag names.
type Config struct {
	Backends []BackendConfig `json:"backends"`
}

type BackendConfig struct {
	// Name is the casregistry backend name to open (e.g. "fs", "badger", "grpc").
	Name   string            `json:"name"`
	Config map[string]string `json:"config,omitempty"`
}

func LoadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("casconfig: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("casconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("casconfig: backend name is required")
		}
		if _, ok := seen[b.Name]; ok {
			return fmt.Errorf("casconfig: duplicate backend %q", b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// Open opens every configured backend and composes them into a single store.
func (c Config) Open(usage casregistry.Usage) (storage.ContentAddressableStorage, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	stores := make([]storage.ContentAddressableStorage, 0, len(c.Backends))
	closers := make([]func() error, 0, len(c.Backends))
	for _, b := range c.Backends {
		cas, closeFn, err := casregistry.OpenWithConfig(b.Name, usage, b.Config)
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i]()
			}
			return nil, nil, err
		}
		stores = append(stores, cas)
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if len(stores) == 1 {
		return stores[0], closeAll, nil
	}
	return storage.MultiCAS{Stores: stores}, closeAll, nil
}
