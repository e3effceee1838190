// core/handlers.go
package core

import (
	"sort"
	"sync"

	"github.com/joeydtaylor/steeze-scorefn/pkg/scorefn"
)

var (
	mu      sync.RWMutex
	parsers = scorefn.Builtins()
)

// Register makes a parser available under a kind referenced in manifest.toml.
// Registering an existing kind replaces it.
func Register(kind string, p scorefn.Parser) {
	mu.Lock()
	parsers[kind] = p
	mu.Unlock()
}

// Lookup retrieves a registered parser by kind.
func Lookup(kind string) (scorefn.Parser, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := parsers[kind]
	return p, ok
}

func KnownKind(kind string) bool {
	_, ok := Lookup(kind)
	return ok
}

// Kinds lists the registered parser kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(parsers))
	for k := range parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func snapshot() map[string]scorefn.Parser {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]scorefn.Parser, len(parsers))
	for k, p := range parsers {
		out[k] = p
	}
	return out
}
