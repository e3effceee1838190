// pkg/scorefn/parse.go
package scorefn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/joeydtaylor/steeze-scorefn/pkg/codec"
	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
)

// SyntaxError is malformed JSON around a function.
type SyntaxError struct {
	Location registry.Location
	Msg      string
}

func (e *SyntaxError) Error() string { return e.Msg }

// ParseFunction reads a single-key object {"<function name>": <body>},
// resolves the name against reg with m, and hands the body to the parser.
func ParseFunction(reg *Registry, m parsefield.Matcher, data []byte) (Function, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(data, dec, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &SyntaxError{Location: locationAt(data, 0), Msg: "expected an object holding one score function"}
	}

	keyOffset := skipSpace(data, dec.InputOffset())
	tok, err = dec.Token()
	if err != nil {
		return nil, syntaxError(data, dec, err)
	}
	name, ok := tok.(string)
	if !ok {
		return nil, &SyntaxError{Location: locationAt(data, keyOffset), Msg: "expected a score function name"}
	}
	loc := locationAt(data, keyOffset)

	var body json.RawMessage
	if err := dec.Decode(&body); err != nil {
		return nil, syntaxError(data, dec, err)
	}

	end := skipSpace(data, dec.InputOffset())
	tok, err = dec.Token()
	if err != nil {
		return nil, syntaxError(data, dec, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return nil, &SyntaxError{Location: locationAt(data, end), Msg: fmt.Sprintf("[%s] expected a single score function per object", name)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SyntaxError{Location: locationAt(data, dec.InputOffset()), Msg: "trailing content after score function"}
	}

	p, err := reg.Resolve(name, m, loc)
	if err != nil {
		return nil, err
	}
	return p.Parse(name, body, loc)
}

func syntaxError(data []byte, dec *json.Decoder, err error) *SyntaxError {
	off := dec.InputOffset()
	var se *json.SyntaxError
	if errors.As(err, &se) {
		off = se.Offset
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Location: locationAt(data, int64(len(data))), Msg: "unexpected end of input"}
	}
	return &SyntaxError{Location: locationAt(data, off), Msg: err.Error()}
}

func skipSpace(data []byte, off int64) int64 {
	for off < int64(len(data)) {
		switch data[off] {
		case ' ', '\t', '\r', '\n', ':', ',':
			off++
		default:
			return off
		}
	}
	return off
}

func locationAt(data []byte, off int64) registry.Location {
	line, col := codec.Position(data, off)
	return registry.Location{Line: line, Column: col}
}
