// pkg/scorefn/scorefn.go
package scorefn

import (
	"fmt"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
)

// Function is a parsed, validated score function definition.
type Function interface {
	Kind() string
}

// Parser turns the body found under a function name into a Function.
// name is the spelling the caller used, which may be a deprecated alias.
type Parser interface {
	Parse(name string, body []byte, loc registry.Location) (Function, error)
}

type ParserFunc func(name string, body []byte, loc registry.Location) (Function, error)

func (fn ParserFunc) Parse(name string, body []byte, loc registry.Location) (Function, error) {
	return fn(name, body, loc)
}

// Registry is the sealed function-name -> Parser table.
type Registry = registry.Registry[Parser]

// Definition binds a field to the parser kind that handles it.
type Definition struct {
	Field parsefield.Field
	Kind  string
}

// NewRegistry registers every name of every definition. parsers maps a kind
// to its Parser; Builtins() is the usual source.
func NewRegistry(defs []Definition, parsers map[string]Parser, opts ...registry.Option) (*Registry, error) {
	b := registry.NewBuilder[Parser](append([]registry.Option{registry.WithKind("function")}, opts...)...)
	for _, d := range defs {
		p, ok := parsers[d.Kind]
		if !ok || p == nil {
			return nil, fmt.Errorf("scorefn: no parser for kind %q (function %s)", d.Kind, d.Field.Name())
		}
		if err := b.Register(d.Field, p); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// ParsingError is a user-facing failure inside a function body.
type ParsingError struct {
	Location registry.Location
	Reason   string
	Err      error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ParsingError) Unwrap() error { return e.Err }

func parsingErrorf(loc registry.Location, err error, format string, args ...any) *ParsingError {
	return &ParsingError{Location: loc, Reason: fmt.Sprintf(format, args...), Err: err}
}
