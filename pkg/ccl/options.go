package ccl

// Spacing controls how strictly the lexer enforces whitespace around the
// '=' separator.
type Spacing int

const (
	// StrictSpacing removes a single space, if present, on each side of
	// '='; any further whitespace stays part of the key or value. Other
	// spacing is not rejected.
	StrictSpacing Spacing = iota
	// LooseSpacing accepts any run of spaces or tabs around '='.
	LooseSpacing
)

// TabPolicy controls how tab characters in keys and values are handled.
type TabPolicy int

const (
	// PreserveTabs keeps tab characters verbatim.
	PreserveTabs TabPolicy = iota
	// NormalizeTabs rewrites each tab to a single space before further processing.
	NormalizeTabs
)

// LineEndingPolicy controls CRLF handling.
type LineEndingPolicy int

const (
	// NormalizeLineEndings rewrites CRLF and lone CR to LF before parsing.
	NormalizeLineEndings LineEndingPolicy = iota
	// PreserveLiteralLineEndings leaves line endings exactly as given.
	PreserveLiteralLineEndings
)

// DuplicateKeyPolicy controls the order in which duplicate-key children are
// emitted when folding entries into a Model.
type DuplicateKeyPolicy int

const (
	// InsertionOrderKeys preserves the order in which duplicate values were
	// encountered in the source text. This is the default.
	InsertionOrderKeys DuplicateKeyPolicy = iota
	// LexicalOrderKeys sorts duplicate-key children by a stable lexical
	// ordering of their scalar contents before emission.
	LexicalOrderKeys
)

// ListCoercionPolicy controls what AsList does with a model that is not a
// multi-element list.
type ListCoercionPolicy int

const (
	// ListCoercionDisabled makes AsList return an empty list rather than
	// synthesizing a one-element list from a lone scalar.
	ListCoercionDisabled ListCoercionPolicy = iota
	// ListCoercionEnabled makes AsList wrap a lone scalar into a
	// one-element list instead of failing or returning empty.
	ListCoercionEnabled
)

// Options configures both the lexer (Parse) and the hierarchy builder
// (Build). The zero value is the same as DefaultOptions().
type Options struct {
	Spacing       Spacing
	Tabs          TabPolicy
	LineEndings   LineEndingPolicy
	DuplicateKeys DuplicateKeyPolicy
	ListCoercion  ListCoercionPolicy

	// TypedListFiltering, when true, excludes elements that parse as a
	// number or boolean from AsList's result. This implementation defaults
	// it to false — AsList returns every element as given, and callers
	// that want numeric-only or string-only lists filter explicitly with
	// AsInt/AsFloat/AsBool per element. Tests that want the alternative
	// behavior set this field explicitly.
	TypedListFiltering bool

	// LenientBool accepts {yes, no, on, off, 1, 0} in addition to
	// {true, false} for AsBool.
	LenientBool bool
}

// DefaultOptions returns the default parser and builder behavior: strict
// spacing, tabs preserved, line endings normalized to LF, insertion order
// for duplicate keys, list coercion disabled, strict booleans.
func DefaultOptions() Options {
	return Options{
		Spacing:       StrictSpacing,
		Tabs:          PreserveTabs,
		LineEndings:   NormalizeLineEndings,
		DuplicateKeys: InsertionOrderKeys,
		ListCoercion:  ListCoercionDisabled,
	}
}
