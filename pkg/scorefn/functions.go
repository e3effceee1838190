// pkg/scorefn/functions.go
package scorefn

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/joeydtaylor/steeze-scorefn/pkg/codec"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
)

const (
	KindScriptScore      = "script_score"
	KindRandomScore      = "random_score"
	KindFieldValueFactor = "field_value_factor"
	KindWeight           = "weight"
	KindGauss            = "gauss"
	KindLinear           = "linear"
	KindExp              = "exp"
)

/* ===========================
   script_score
   =========================== */

type Script struct {
	Source string         `json:"source"`
	Lang   string         `json:"lang,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// UnmarshalJSON accepts the short string form as well as the object form.
func (s *Script) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.Source)
	}
	type plain Script
	var p plain
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*s = Script(p)
	return nil
}

type ScriptScore struct {
	Script Script `json:"script"`
}

func (ScriptScore) Kind() string { return KindScriptScore }

func parseScriptScore(name string, body []byte, loc registry.Location) (Function, error) {
	var f ScriptScore
	if err := codec.JSONStrict.Unmarshal(body, &f); err != nil {
		return nil, parsingErrorf(loc, err, "[%s] malformed score function", name)
	}
	if strings.TrimSpace(f.Script.Source) == "" {
		return nil, parsingErrorf(loc, nil, "[%s] requires 'script' field", name)
	}
	return f, nil
}

/* ===========================
   random_score
   =========================== */

type RandomScore struct {
	Seed  *int64 `json:"seed,omitempty"`
	Field string `json:"field,omitempty"`
}

func (RandomScore) Kind() string { return KindRandomScore }

func parseRandomScore(name string, body []byte, loc registry.Location) (Function, error) {
	var f RandomScore
	if err := codec.JSONStrict.Unmarshal(body, &f); err != nil {
		return nil, parsingErrorf(loc, err, "[%s] malformed score function", name)
	}
	return f, nil
}

/* ===========================
   field_value_factor
   =========================== */

type Modifier string

var modifiers = map[Modifier]struct{}{
	"none": {}, "log": {}, "log1p": {}, "log2p": {}, "ln": {}, "ln1p": {}, "ln2p": {},
	"square": {}, "sqrt": {}, "reciprocal": {},
}

func modifierNames() []string {
	out := make([]string, 0, len(modifiers))
	for m := range modifiers {
		out = append(out, string(m))
	}
	sort.Strings(out)
	return out
}

type FieldValueFactor struct {
	Field    string   `json:"field"`
	Factor   float64  `json:"factor"`
	Modifier Modifier `json:"modifier"`
	Missing  *float64 `json:"missing,omitempty"`
}

func (FieldValueFactor) Kind() string { return KindFieldValueFactor }

func parseFieldValueFactor(name string, body []byte, loc registry.Location) (Function, error) {
	f := FieldValueFactor{Factor: 1, Modifier: "none"}
	if err := codec.JSONStrict.Unmarshal(body, &f); err != nil {
		return nil, parsingErrorf(loc, err, "[%s] malformed score function", name)
	}
	if strings.TrimSpace(f.Field) == "" {
		return nil, parsingErrorf(loc, nil, "[%s] required field 'field' missing", name)
	}
	f.Modifier = Modifier(strings.ToLower(string(f.Modifier)))
	if _, ok := modifiers[f.Modifier]; !ok {
		return nil, parsingErrorf(loc, nil, "[%s] illegal modifier [%s], expected one of %v", name, f.Modifier, modifierNames())
	}
	return f, nil
}

/* ===========================
   weight
   =========================== */

type Weight struct {
	Value float64 `json:"weight"`
}

func (Weight) Kind() string { return KindWeight }

func parseWeight(name string, body []byte, loc registry.Location) (Function, error) {
	var v float64
	if err := codec.JSONStrict.Unmarshal(body, &v); err != nil {
		return nil, parsingErrorf(loc, err, "[%s] expects a number", name)
	}
	if v <= 0 || math.IsInf(v, 0) {
		return nil, parsingErrorf(loc, nil, "[%s] must be a positive number, got [%v]", name, v)
	}
	return Weight{Value: v}, nil
}

/* ===========================
   decay: gauss / linear / exp
   =========================== */

// Value is a number or a string (dates and distances are strings).
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("expected a number or a string")
	}
	*v = Value(n.String())
	return nil
}

type DecayParams struct {
	Origin Value   `json:"origin"`
	Scale  Value   `json:"scale"`
	Offset Value   `json:"offset,omitempty"`
	Decay  float64 `json:"decay"`
}

type Decay struct {
	Function       string      `json:"function"`
	Field          string      `json:"field"`
	Params         DecayParams `json:"params"`
	MultiValueMode string      `json:"multi_value_mode"`
}

func (d Decay) Kind() string { return d.Function }

var multiValueModes = map[string]struct{}{"min": {}, "max": {}, "avg": {}, "sum": {}}

func decayParser(kind string) ParserFunc {
	return func(name string, body []byte, loc registry.Location) (Function, error) {
		var raw map[string]json.RawMessage
		if err := codec.JSONStrict.Unmarshal(body, &raw); err != nil {
			return nil, parsingErrorf(loc, err, "[%s] malformed score function", name)
		}

		d := Decay{Function: kind, MultiValueMode: "min"}
		if mv, ok := raw["multi_value_mode"]; ok {
			if err := json.Unmarshal(mv, &d.MultiValueMode); err != nil {
				return nil, parsingErrorf(loc, err, "[%s] malformed multi_value_mode", name)
			}
			d.MultiValueMode = strings.ToLower(d.MultiValueMode)
			if _, ok := multiValueModes[d.MultiValueMode]; !ok {
				return nil, parsingErrorf(loc, nil, "[%s] illegal multi_value_mode [%s]", name, d.MultiValueMode)
			}
			delete(raw, "multi_value_mode")
		}

		if len(raw) != 1 {
			return nil, parsingErrorf(loc, nil, "[%s] expects exactly one field, got %d", name, len(raw))
		}
		for field, params := range raw {
			d.Field = field
			p := DecayParams{Decay: 0.5}
			if err := codec.JSONStrict.Unmarshal(params, &p); err != nil {
				return nil, parsingErrorf(loc, err, "[%s] malformed parameters for field [%s]", name, field)
			}
			if p.Origin == "" {
				return nil, parsingErrorf(loc, nil, "[%s] missing required parameter [origin] for field [%s]", name, field)
			}
			if p.Scale == "" {
				return nil, parsingErrorf(loc, nil, "[%s] missing required parameter [scale] for field [%s]", name, field)
			}
			if p.Decay <= 0 || p.Decay >= 1 {
				return nil, parsingErrorf(loc, nil, "[%s] decay must be in the range (0..1), got [%v]", name, p.Decay)
			}
			d.Params = p
		}
		return d, nil
	}
}

// Builtins returns a fresh kind -> Parser map with every built-in function.
func Builtins() map[string]Parser {
	return map[string]Parser{
		KindScriptScore:      ParserFunc(parseScriptScore),
		KindRandomScore:      ParserFunc(parseRandomScore),
		KindFieldValueFactor: ParserFunc(parseFieldValueFactor),
		KindWeight:           ParserFunc(parseWeight),
		KindGauss:            decayParser(KindGauss),
		KindLinear:           decayParser(KindLinear),
		KindExp:              decayParser(KindExp),
	}
}
