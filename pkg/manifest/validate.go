package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
)

// Validate normalizes the config in place and checks it. known reports
// whether a parser kind exists; nil skips the kind check.
func (c *Config) Validate(known func(kind string) bool) error {
	if _, err := parsefield.ParsePolicy(c.Registry.Policy); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	c.Registry.Policy = strings.ToLower(strings.TrimSpace(c.Registry.Policy))

	if !c.Registry.UseDefaults() && len(c.Functions) == 0 {
		return errors.New("no functions defined and defaults disabled")
	}

	owner := map[string]string{} // spelling -> canonical name
	for i := range c.Functions {
		fn := &c.Functions[i]
		fn.Name = strings.TrimSpace(fn.Name)
		fn.Kind = strings.TrimSpace(fn.Kind)
		fn.ReplacedWith = strings.TrimSpace(fn.ReplacedWith)

		if fn.Name == "" {
			return fmt.Errorf("function %d: name is required", i)
		}
		if fn.Kind == "" {
			fn.Kind = fn.Name
		}
		if known != nil && !known(fn.Kind) {
			return fmt.Errorf("function %q: unknown kind %q", fn.Name, fn.Kind)
		}

		for _, n := range fn.Field().AllNames() {
			if prev, dup := owner[n]; dup {
				if prev == fn.Name {
					return fmt.Errorf("function %q declared twice", fn.Name)
				}
				return fmt.Errorf("function %q: name %q already used by function %q", fn.Name, n, prev)
			}
			owner[n] = fn.Name
		}
	}
	return nil
}
