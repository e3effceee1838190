// pkg/registry/errors.go
package registry

import (
	"errors"
	"fmt"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
)

var (
	ErrNotRegistered = errors.New("registry: name not registered")
	ErrInconsistent  = errors.New("registry: entry does not match the key it is stored under")
	ErrDuplicate     = errors.New("registry: duplicate key")
	ErrSealed        = errors.New("registry: builder already sealed")
)

// NotRegisteredError is the user-facing failure for an unknown name.
type NotRegisteredError struct {
	Kind     string
	Name     string
	Location Location
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("No %s with the name [%s] is registered.", e.Kind, e.Name)
}

func (e *NotRegisteredError) Unwrap() error { return ErrNotRegistered }

// RejectedError wraps a Matcher refusal (e.g. a strict policy and a
// deprecated spelling) with the location of the offending name.
type RejectedError struct {
	Name     string
	Location Location
	Err      error
}

func (e *RejectedError) Error() string { return e.Err.Error() }
func (e *RejectedError) Unwrap() error { return e.Err }

// ConsistencyError reports a key whose entry's field does not accept it.
// It is a registration bug, never the result of user input.
type ConsistencyError struct {
	Key   string
	Field parsefield.Field
	Err   error
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("registered field [%s] did not match the name it was registered for [%s]", e.Field.Name(), e.Key)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConsistencyError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInconsistent}
	}
	return []error{ErrInconsistent, e.Err}
}
