// Package ccl implements the Categorical Configuration Language: a tiny,
// indentation-sensitive key/value grammar where hierarchy is built purely
// from duplicate keys and indentation, never from explicit braces or
// brackets.
//
// A CCL document is a flat sequence of (key, value) entries (Parse). The
// hierarchy builder (Build) folds that sequence into a tree of Models,
// recursively re-parsing any value that itself looks like a nested CCL
// document. Typed accessors (Model.Get, Model.AsList, Model.AsInt, ...)
// then navigate that tree.
//
// The package ships as a standalone library: it has no dependency on the
// rest of this module and its semantics are meant to be stable across
// independent reimplementations in other languages.
package ccl
