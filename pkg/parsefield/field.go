// pkg/parsefield/field.go
package parsefield

import (
	"fmt"
	"strings"
)

// Field is a canonical name plus the deprecated spellings it may also be
// matched by. A Field is a value; the With* helpers return copies.
type Field struct {
	name         string
	deprecated   []string
	replacedWith string
}

// New builds a field. Duplicate or canonical entries in deprecated are dropped.
func New(name string, deprecated ...string) Field {
	f := Field{name: name}
	return f.WithDeprecation(deprecated...)
}

func (f Field) Name() string         { return f.name }
func (f Field) ReplacedWith() string { return f.replacedWith }

// DeprecatedNames returns a copy of the deprecated spellings.
func (f Field) DeprecatedNames() []string {
	return append([]string(nil), f.deprecated...)
}

// AllNames returns the canonical name followed by every deprecated spelling.
func (f Field) AllNames() []string {
	out := make([]string, 0, 1+len(f.deprecated))
	out = append(out, f.name)
	for _, d := range f.deprecated {
		if d != f.name {
			out = append(out, d)
		}
	}
	return out
}

// WithDeprecation returns a copy of f with additional deprecated spellings.
func (f Field) WithDeprecation(names ...string) Field {
	out := Field{
		name:         f.name,
		deprecated:   make([]string, 0, len(f.deprecated)+len(names)),
		replacedWith: f.replacedWith,
	}
	seen := make(map[string]struct{}, len(f.deprecated)+len(names))
	for _, n := range append(append([]string(nil), f.deprecated...), names...) {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if n == f.name && f.replacedWith == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out.deprecated = append(out.deprecated, n)
	}
	return out
}

// WithAllDeprecated marks the whole field as deprecated in favour of
// replacement. The canonical name stops being a clean match.
func (f Field) WithAllDeprecated(replacement string) Field {
	out := Field{name: f.name, replacedWith: replacement}
	out.deprecated = append([]string{f.name}, f.deprecated...)
	return out.WithDeprecation()
}

// Classify is the policy-free three-outcome match of name against f.
func (f Field) Classify(name string) Result {
	if f.replacedWith == "" && name == f.name {
		return Result{Outcome: Match}
	}
	for _, d := range f.deprecated {
		if name != d {
			continue
		}
		notice := fmt.Sprintf("Deprecated field [%s] used, expected [%s] instead", d, f.name)
		if f.replacedWith != "" {
			notice = fmt.Sprintf("Deprecated field [%s] used, replaced by [%s]", d, f.replacedWith)
		}
		return Result{Outcome: MatchDeprecated, Notice: notice}
	}
	return Result{Outcome: NoMatch}
}

func (f Field) String() string {
	if len(f.deprecated) == 0 {
		return f.name
	}
	return f.name + " (deprecated: " + strings.Join(f.deprecated, ", ") + ")"
}
