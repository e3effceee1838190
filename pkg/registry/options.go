package registry

import (
	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
	"go.uber.org/zap"
)

// Outcome labels a single Resolve call for an Observer.
type Outcome string

const (
	OutcomeResolved      Outcome = "resolved"
	OutcomeDeprecated    Outcome = "deprecated"
	OutcomeRejected      Outcome = "rejected"
	OutcomeNotRegistered Outcome = "not_registered"
	OutcomeInconsistent  Outcome = "inconsistent"
)

// Observer is told about every Resolve. Implementations must be safe for
// concurrent use.
type Observer interface {
	Observe(kind, key string, outcome Outcome)
}

type ObserverFunc func(kind, key string, outcome Outcome)

func (fn ObserverFunc) Observe(kind, key string, outcome Outcome) { fn(kind, key, outcome) }

type options struct {
	kind         string
	log          *zap.Logger
	deprecation  *zap.Logger
	observer     Observer
	construction parsefield.Matcher
}

type Option func(*options)

// WithKind sets the noun used in user-facing messages ("function" by default).
func WithKind(kind string) Option {
	return func(o *options) {
		if kind != "" {
			o.kind = kind
		}
	}
}

// WithLogger sets the logger for deprecation notices and consistency faults.
// A development logger turns a resolve-time consistency fault into a panic.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDeprecationLogger routes deprecation notices to l instead of the
// "deprecation" child of the main logger.
func WithDeprecationLogger(l *zap.Logger) Option {
	return func(o *options) { o.deprecation = l }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithConstructionMatcher sets the matcher every stored key is validated
// against when the registry is sealed. Defaults to parsefield.Silent.
func WithConstructionMatcher(m parsefield.Matcher) Option {
	return func(o *options) {
		if m != nil {
			o.construction = m
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		kind:         "function",
		log:          zap.NewNop(),
		construction: parsefield.Silent,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
