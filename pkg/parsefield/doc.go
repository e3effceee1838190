// Package parsefield models names that may be spelled more than one way.
//
// A Field carries a canonical name and any deprecated spellings. Field.Classify
// is a pure function returning NoMatch, Match or MatchDeprecated; a Matcher
// layers a policy on top of it so the same registry can be strict for one API
// version and lenient for another.
package parsefield
