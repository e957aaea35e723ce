package ccl

import (
	"sort"
	"strings"
)

// Build folds a flat entry sequence into a hierarchical Model.
//
// For each entry, Build first decides whether the entry's value is itself a
// nested CCL document: if the value's inline part is empty and its
// continuation lines, once dedented, parse into at least one entry with no
// lexer error, and every one of those entries has a lexically valid key
// (see allKeysLexicallyValid), the value becomes a recursively built child
// Map; otherwise it
// stays a Singleton holding the joined raw value exactly as Parse produced
// it. This is what keeps a multiline prose value (no '=' in its
// continuation) a literal string while a continuation block that reads as
// "= a\n= b" becomes a bare list.
//
// A repeated key at the same level is folded: the first occurrence is
// stored directly; the second occurrence replaces it with a synthetic
// two-entry map keyed "" holding the prior and new values in order; further
// occurrences append another ""-keyed entry to that same map. A map whose
// entries are all keyed "" is the hierarchy's list representation and is
// what AsList recognizes.
func Build(entries []Entry, opts Options) (*Model, error) {
	return buildLevel(FilterComments(entries), opts)
}

func buildLevel(entries []Entry, opts Options) (*Model, error) {
	m := NewMap()
	for _, e := range entries {
		child, err := buildValue(e.Value, opts)
		if err != nil {
			return nil, err
		}
		insertAtLevel(m, e.Key, child)
	}
	if opts.DuplicateKeys == LexicalOrderKeys {
		orderFoldChainsLexically(m)
	}
	return m, nil
}

// buildValue decides whether value should become a nested Map or remain a
// Singleton, per the rule documented on Build.
func buildValue(value string, opts Options) (*Model, error) {
	inline, rest, hasContinuation := splitContinuation(value)
	if inline != "" || !hasContinuation {
		return Singleton(value), nil
	}

	dedented := dedent(rest)
	subEntries, err := Parse(dedented, opts)
	if err != nil || len(subEntries) == 0 {
		return Singleton(value), nil
	}
	if !allKeysLexicallyValid(subEntries) {
		return Singleton(value), nil
	}
	return buildLevel(subEntries, opts)
}

// splitContinuation separates a joined entry value (as produced by Parse)
// into its inline part (before the first '\n') and its continuation body
// (after it).
func splitContinuation(value string) (inline, rest string, hasContinuation bool) {
	nl := strings.IndexByte(value, '\n')
	if nl < 0 {
		return value, "", false
	}
	return value[:nl], value[nl+1:], true
}

// dedent strips the minimal common leading-space indentation from every
// non-blank line of block.
func dedent(block string) string {
	lines := strings.Split(block, "\n")
	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " "))
		if minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent <= 0 {
		return block
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= minIndent {
			out[i] = l[minIndent:]
		} else {
			out[i] = strings.TrimLeft(l, " ")
		}
	}
	return strings.Join(out, "\n")
}

// allKeysLexicallyValid guards against recursively parsing a continuation
// block that merely happens to contain a literal '=' (a shell command
// string, a "--flag value" command-line fragment, an environment-variable
// assignment quoted inside a value) as if it were structured CCL. A key is
// valid if it is the bare-list marker "" or a non-empty string free of
// control characters, not starting with '-', and containing no space —
// this grammar has no key-escaping syntax, so any space is unescaped.
func allKeysLexicallyValid(entries []Entry) bool {
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		if strings.HasPrefix(e.Key, "-") {
			return false
		}
		for _, r := range e.Key {
			if r < 0x20 || r == ' ' {
				return false
			}
		}
	}
	return true
}

// insertAtLevel inserts (key, child) into m, folding a repeated key into a
// ""-keyed chain as described on Build.
func insertAtLevel(m *Model, key string, child *Model) {
	for i := range m.pairs {
		if m.pairs[i].key != key {
			continue
		}
		existing := m.pairs[i].value
		if existing.isFoldChain() {
			existing.append("", child)
			return
		}
		chain := NewMap()
		chain.append("", existing)
		chain.append("", child)
		m.pairs[i].value = chain
		return
	}
	m.append(key, child)
}

// orderFoldChainsLexically rewrites every ""-keyed fold chain in m (and,
// recursively, in its children) to present its entries sorted by a stable
// lexical ordering of their scalar contents, per LexicalOrderKeys.
func orderFoldChainsLexically(m *Model) {
	if !m.IsMap() {
		return
	}
	for _, p := range m.pairs {
		orderFoldChainsLexically(p.value)
	}
	if m.isFoldChain() && len(m.pairs) >= 2 {
		sort.SliceStable(m.pairs, func(i, j int) bool {
			return foldSortKey(m.pairs[i].value) < foldSortKey(m.pairs[j].value)
		})
	}
}

func foldSortKey(m *Model) string {
	if m.IsSingleton() {
		return m.sctxt
	}
	return ""
}
