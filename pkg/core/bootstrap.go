// pkg/core/bootstrap.go
package core

import (
	"fmt"

	manifest "github.com/joeydtaylor/steeze-scorefn/pkg/manifest"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
	"github.com/joeydtaylor/steeze-scorefn/pkg/scorefn"
)

// Definitions merges the built-in functions with the manifest's. A manifest
// function named like a built-in replaces it.
func Definitions(cfg manifest.Config) []scorefn.Definition {
	declared := make(map[string]bool, len(cfg.Functions))
	for _, fn := range cfg.Functions {
		declared[fn.Name] = true
	}

	var defs []scorefn.Definition
	if cfg.Registry.UseDefaults() {
		for _, d := range scorefn.Defaults() {
			if !declared[d.Field.Name()] {
				defs = append(defs, d)
			}
		}
	}
	for _, fn := range cfg.Functions {
		defs = append(defs, scorefn.Definition{Field: fn.Field(), Kind: fn.Kind})
	}
	return defs
}

// BuildRegistry seals the function registry described by cfg. Every
// replaced_with must name another function's canonical name.
func BuildRegistry(cfg manifest.Config, opts ...registry.Option) (*scorefn.Registry, error) {
	defs := Definitions(cfg)
	canonical := make(map[string]bool, len(defs))
	for _, d := range defs {
		canonical[d.Field.Name()] = true
	}
	for _, fn := range cfg.Functions {
		if fn.ReplacedWith == "" {
			continue
		}
		if fn.ReplacedWith == fn.Name || !canonical[fn.ReplacedWith] {
			return nil, fmt.Errorf("function %q: replaced_with %q is not a registered function", fn.Name, fn.ReplacedWith)
		}
	}
	return scorefn.NewRegistry(defs, snapshot(), opts...)
}
