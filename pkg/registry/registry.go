// pkg/registry/registry.go
package registry

import (
	"sort"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
	"go.uber.org/zap"
)

// Entry pairs a field with the handler registered for it.
type Entry[H any] struct {
	Field   parsefield.Field
	Handler H
}

// KeyedEntry is an Entry together with the key it is stored under.
type KeyedEntry[H any] struct {
	Key string
	Entry[H]
}

// Resolution is the full answer to a lookup: which entry, and how the
// queried name matched it.
type Resolution[H any] struct {
	Key    string
	Entry  Entry[H]
	Result parsefield.Result
}

// Registry is a sealed name -> handler table. It is never modified after
// construction, so any number of goroutines may call Resolve without locking.
type Registry[H any] struct {
	kind        string
	entries     map[string]Entry[H]
	log         *zap.Logger
	deprecation *zap.Logger
	observer    Observer
}

// New snapshots entries and seals them. Every key is checked against its
// own field with the construction matcher; a mismatch is a ConsistencyError.
func New[H any](entries map[string]Entry[H], opts ...Option) (*Registry[H], error) {
	o := newOptions(opts)

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snap := make(map[string]Entry[H], len(entries))
	for _, k := range keys {
		e := entries[k]
		if err := checkKey(o.construction, k, e.Field); err != nil {
			return nil, err
		}
		snap[k] = e
	}

	dep := o.deprecation
	if dep == nil {
		dep = o.log.Named("deprecation")
	}
	return &Registry[H]{
		kind:        o.kind,
		entries:     snap,
		log:         o.log,
		deprecation: dep,
		observer:    o.observer,
	}, nil
}

// MustNew is New for bootstrap code where a bad table is a programming error.
func MustNew[H any](entries map[string]Entry[H], opts ...Option) *Registry[H] {
	r, err := New(entries, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func checkKey(m parsefield.Matcher, key string, f parsefield.Field) error {
	if key == "" {
		return &ConsistencyError{Key: key, Field: f}
	}
	res, err := m.Match(key, f)
	if err != nil {
		return &ConsistencyError{Key: key, Field: f, Err: err}
	}
	if !res.Matched() {
		return &ConsistencyError{Key: key, Field: f}
	}
	return nil
}

// Resolve returns the handler registered under name.
//
// Unknown names fail with *NotRegisteredError. Known names are re-checked with
// m so deprecated spellings are reported (lenient) or refused (strict, as
// *RejectedError). A nil m behaves like parsefield.Lenient.
func (r *Registry[H]) Resolve(name string, m parsefield.Matcher, loc Location) (H, error) {
	res, err := r.Explain(name, m, loc)
	if err != nil {
		var zero H
		return zero, err
	}
	return res.Entry.Handler, nil
}

// Explain is Resolve returning the matched entry and match result as well.
func (r *Registry[H]) Explain(name string, m parsefield.Matcher, loc Location) (Resolution[H], error) {
	e, ok := r.entries[name]
	if !ok {
		r.observe(name, OutcomeNotRegistered)
		return Resolution[H]{}, &NotRegisteredError{Kind: r.kind, Name: name, Location: loc}
	}
	if m == nil {
		m = parsefield.Lenient
	}

	res, err := m.Match(name, e.Field)
	if err != nil {
		r.observe(name, OutcomeRejected)
		return Resolution[H]{}, &RejectedError{Name: name, Location: loc, Err: err}
	}

	switch res.Outcome {
	case parsefield.NoMatch:
		// The key found the entry by exact string equality, so the handler is
		// still the right one. Report loudly and carry on.
		r.observe(name, OutcomeInconsistent)
		r.log.DPanic("registered field did not match the name it was registered for",
			zap.String("kind", r.kind),
			zap.String("name", name),
			zap.Stringer("field", e.Field),
		)
	case parsefield.MatchDeprecated:
		r.observe(name, OutcomeDeprecated)
		if res.Notice != "" {
			r.deprecation.Warn(res.Notice,
				zap.String("kind", r.kind),
				zap.String("name", name),
				zap.String("expected", e.Field.Name()),
				zap.String("location", loc.String()),
			)
		}
	default:
		r.observe(name, OutcomeResolved)
	}

	return Resolution[H]{Key: name, Entry: e, Result: res}, nil
}

func (r *Registry[H]) observe(key string, o Outcome) {
	if r.observer != nil {
		r.observer.Observe(r.kind, key, o)
	}
}

// Lookup returns the entry stored under key without any name matching.
func (r *Registry[H]) Lookup(key string) (Entry[H], bool) {
	e, ok := r.entries[key]
	return e, ok
}

func (r *Registry[H]) Kind() string { return r.kind }
func (r *Registry[H]) Len() int     { return len(r.entries) }

// Keys returns every stored key, sorted.
func (r *Registry[H]) Keys() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entries returns a sorted snapshot of the table.
func (r *Registry[H]) Entries() []KeyedEntry[H] {
	out := make([]KeyedEntry[H], 0, len(r.entries))
	for _, k := range r.Keys() {
		out = append(out, KeyedEntry[H]{Key: k, Entry: r.entries[k]})
	}
	return out
}
