// Package registry maps string identifiers to handlers while tolerating
// deprecated spellings of those identifiers.
//
// A Registry has two states. Entries are collected by a Builder (or passed as
// a map to New) and then sealed; the sealed Registry is an immutable snapshot
// and is safe for unsynchronized concurrent reads. Every stored key must be
// accepted by its own entry's parsefield.Field, which New checks once so the
// check does not depend on build flags.
//
// Resolve looks a name up by exact key, then re-runs the caller's
// parsefield.Matcher so that deprecated spellings are reported or refused
// according to the caller's policy.
package registry
