// pkg/parsefield/matcher.go
package parsefield

import (
	"errors"
	"fmt"
	"strings"
)

type Outcome int

const (
	NoMatch Outcome = iota
	Match
	MatchDeprecated
)

func (o Outcome) String() string {
	switch o {
	case Match:
		return "match"
	case MatchDeprecated:
		return "deprecated"
	default:
		return "no_match"
	}
}

// Result is what a Matcher decided. Notice is empty when nothing should be
// reported to the caller's diagnostic channel.
type Result struct {
	Outcome Outcome
	Notice  string
}

func (r Result) Matched() bool { return r.Outcome != NoMatch }

// Matcher decides whether a queried name legitimately matches a Field.
// A non-nil error means the name matched but the spelling is not accepted.
type Matcher interface {
	Match(name string, f Field) (Result, error)
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(name string, f Field) (Result, error)

func (fn MatcherFunc) Match(name string, f Field) (Result, error) { return fn(name, f) }

// Policy is the built-in Matcher family.
type Policy int

const (
	// Lenient accepts deprecated spellings and reports a notice.
	Lenient Policy = iota
	// Strict rejects deprecated spellings.
	Strict
	// Silent accepts deprecated spellings without a notice.
	Silent
)

var ErrDeprecated = errors.New("deprecated name")

// DeprecatedError is returned by Strict when a deprecated spelling is used.
type DeprecatedError struct {
	Name   string
	Field  Field
	Notice string
}

func (e *DeprecatedError) Error() string { return e.Notice }
func (e *DeprecatedError) Unwrap() error { return ErrDeprecated }

func (p Policy) Match(name string, f Field) (Result, error) {
	res := f.Classify(name)
	if res.Outcome != MatchDeprecated {
		return res, nil
	}
	switch p {
	case Strict:
		return res, &DeprecatedError{Name: name, Field: f, Notice: res.Notice}
	case Silent:
		res.Notice = ""
	}
	return res, nil
}

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Silent:
		return "silent"
	default:
		return "lenient"
	}
}

// ParsePolicy maps a config string to a Policy. Empty means Lenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	case "silent":
		return Silent, nil
	}
	return Lenient, fmt.Errorf("parsefield: unknown policy %q (want strict|lenient|silent)", s)
}

func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
