// pkg/registry/builder.go
package registry

import (
	"fmt"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
)

// Builder collects entries before a Registry is sealed. It is meant for a
// single bootstrap goroutine and is not safe for concurrent use.
type Builder[H any] struct {
	opts    []Option
	entries map[string]Entry[H]
	sealed  bool
}

func NewBuilder[H any](opts ...Option) *Builder[H] {
	return &Builder[H]{
		opts:    opts,
		entries: make(map[string]Entry[H]),
	}
}

// Register stores h under the canonical name and every deprecated spelling
// of f. Nothing is stored if any of those keys is already taken.
func (b *Builder[H]) Register(f parsefield.Field, h H) error {
	if b.sealed {
		return ErrSealed
	}
	names := f.AllNames()
	for _, n := range names {
		if _, dup := b.entries[n]; dup {
			return fmt.Errorf("%w: %q (field %s)", ErrDuplicate, n, f.Name())
		}
	}
	for _, n := range names {
		b.entries[n] = Entry[H]{Field: f, Handler: h}
	}
	return nil
}

// RegisterAs stores h under exactly key. The key is validated against f when
// the registry is built.
func (b *Builder[H]) RegisterAs(key string, f parsefield.Field, h H) error {
	if b.sealed {
		return ErrSealed
	}
	if _, dup := b.entries[key]; dup {
		return fmt.Errorf("%w: %q (field %s)", ErrDuplicate, key, f.Name())
	}
	b.entries[key] = Entry[H]{Field: f, Handler: h}
	return nil
}

func (b *Builder[H]) MustRegister(f parsefield.Field, h H) {
	if err := b.Register(f, h); err != nil {
		panic(err)
	}
}

// Len reports how many keys are pending.
func (b *Builder[H]) Len() int { return len(b.entries) }

// Build seals the builder. On error the builder stays open so the caller can
// inspect or fix it; on success further calls return ErrSealed.
func (b *Builder[H]) Build() (*Registry[H], error) {
	if b.sealed {
		return nil, ErrSealed
	}
	r, err := New(b.entries, b.opts...)
	if err != nil {
		return nil, err
	}
	b.sealed = true
	b.entries = nil
	return r, nil
}
