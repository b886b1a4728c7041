package compute

import (
	"fmt"
	"sort"
	"sync"

	"github.com/LynnColeArt/gemmcheck"
)

var (
	mu        sync.RWMutex
	providers = map[string]func() *gemmcheck.Kernels{}
)

// Register makes a kernel provider available under name. It panics if
// name is already taken.
func Register(name string, provider func() *gemmcheck.Kernels) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := providers[name]; dup {
		panic(fmt.Sprintf("compute: provider %q registered twice", name))
	}
	providers[name] = provider
}

// Lookup returns a fresh kernel table from the provider registered as
// name.
func Lookup(name string) (*gemmcheck.Kernels, error) {
	mu.RLock()
	provider, ok := providers[name]
	mu.RUnlock()
	if !ok {
		return nil, gemmcheck.NewConfigError("compute.Lookup",
			fmt.Sprintf("unknown kernel %q (have %v)", name, Names()), nil)
	}
	return provider(), nil
}

// Names lists the registered providers, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
