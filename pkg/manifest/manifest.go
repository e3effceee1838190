// manifest/manifest.go
package manifest

import (
	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
)

/* ===========================
   Top-level config
   =========================== */

type Config struct {
	Registry  RegistrySpec   `toml:"registry" yaml:"registry"`
	Functions []FunctionSpec `toml:"function" yaml:"functions"`
}

/* ===========================
   Registry behaviour
   =========================== */

type RegistrySpec struct {
	Policy   string `toml:"policy" yaml:"policy"`     // "strict" | "lenient" (default) | "silent"
	Defaults *bool  `toml:"defaults" yaml:"defaults"` // register built-in functions; default true
	Guard    Guard  `toml:"guard" yaml:"guard"`       // applies to /functions and /_parse
}

type Guard struct {
	Roles       []string `toml:"roles" yaml:"roles"`
	Users       []string `toml:"users" yaml:"users"`
	RequireAuth bool     `toml:"require_auth" yaml:"require_auth"`
}

// MatchPolicy returns the parsed default policy. Call after Validate.
func (r RegistrySpec) MatchPolicy() parsefield.Policy {
	p, _ := parsefield.ParsePolicy(r.Policy)
	return p
}

func (r RegistrySpec) UseDefaults() bool {
	return r.Defaults == nil || *r.Defaults
}

/* ===========================
   Function declarations
   =========================== */

type FunctionSpec struct {
	Name         string   `toml:"name" yaml:"name"`                   // canonical name
	Kind         string   `toml:"kind" yaml:"kind"`                   // parser kind; defaults to name
	Deprecated   []string `toml:"deprecated" yaml:"deprecated"`       // accepted but deprecated spellings
	ReplacedWith string   `toml:"replaced_with" yaml:"replaced_with"` // whole function deprecated in favour of this
}

// Field builds the parse field this declaration describes.
func (f FunctionSpec) Field() parsefield.Field {
	fld := parsefield.New(f.Name, f.Deprecated...)
	if f.ReplacedWith != "" {
		fld = fld.WithAllDeprecated(f.ReplacedWith)
	}
	return fld
}
