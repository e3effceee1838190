package scorefn

import "github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"

// Defaults returns the built-in function definitions. The camelCase spellings
// accepted by older clients remain as deprecated aliases.
func Defaults() []Definition {
	return []Definition{
		{Field: parsefield.New(KindScriptScore, "scriptScore"), Kind: KindScriptScore},
		{Field: parsefield.New(KindRandomScore, "randomScore"), Kind: KindRandomScore},
		{Field: parsefield.New(KindFieldValueFactor, "fieldValueFactor"), Kind: KindFieldValueFactor},
		{Field: parsefield.New(KindWeight), Kind: KindWeight},
		{Field: parsefield.New(KindGauss, "gaussian"), Kind: KindGauss},
		{Field: parsefield.New(KindLinear), Kind: KindLinear},
		{Field: parsefield.New(KindExp), Kind: KindExp},
	}
}
