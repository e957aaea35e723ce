package ccl

import "strconv"

// Get returns the first (and, after folding, only) child of m keyed key.
func (m *Model) Get(key string) (*Model, error) {
	if !m.IsMap() {
		return nil, newAccessorError(ErrNotAMap, key)
	}
	for _, p := range m.pairs {
		if p.key == key {
			return p.value, nil
		}
	}
	return nil, newAccessorError(ErrMissingKey, key)
}

// At walks a sequence of keys through nested maps, returning the final
// child or the first error encountered.
func (m *Model) At(path ...string) (*Model, error) {
	cur := m
	for _, k := range path {
		next, err := cur.Get(k)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// AsStr returns m's scalar contents. m must be a Singleton.
func (m *Model) AsStr() (string, error) {
	if !m.IsSingleton() {
		return "", newAccessorError(ErrNotASingleton, "")
	}
	return m.sctxt, nil
}

// AsList resolves m into an ordered list of scalar strings.
//
// Four cases, tried in order:
//
//  1. m is itself a fold chain (a map of two or more ""-keyed entries):
//     each entry's value, taken via AsStr, is one list element.
//  2. m is a map with exactly one ""-keyed entry: the list is that
//     entry's value's AsList (this is the shape Build produces for a bare
//     list, where the list lives one level down inside its own fold
//     chain).
//  3. m is a Singleton: under ListCoercionEnabled it becomes a one-element
//     list; under ListCoercionDisabled (the default) AsList returns an
//     empty list rather than an error.
//  4. Anything else (a map with non-"" keys, or a mix) is not a list.
func (m *Model) AsList(opts Options) ([]string, error) {
	if m == nil {
		return nil, newAccessorError(ErrNotAList, "")
	}

	if m.isFoldChain() && len(m.pairs) >= 2 {
		out := make([]string, 0, len(m.pairs))
		for _, p := range m.pairs {
			s, err := p.value.AsStr()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return filterTyped(out, opts), nil
	}

	if m.IsMap() && len(m.pairs) == 1 && m.pairs[0].key == "" {
		return m.pairs[0].value.AsList(opts)
	}

	if m.IsSingleton() {
		if opts.ListCoercion == ListCoercionEnabled {
			return filterTyped([]string{m.sctxt}, opts), nil
		}
		return nil, nil
	}

	return nil, newAccessorError(ErrNotAList, "")
}

// filterTyped drops elements that parse as a number or boolean when
// TypedListFiltering is enabled; otherwise it returns elements unchanged.
func filterTyped(elems []string, opts Options) []string {
	if !opts.TypedListFiltering {
		return elems
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if _, err := strconv.ParseFloat(e, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseBool(e); err == nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AsInt parses m's scalar contents as a base-10 integer.
func (m *Model) AsInt() (int64, error) {
	s, err := m.AsStr()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, newAccessorError(ErrNotASingleton, s)
	}
	return v, nil
}

// AsFloat parses m's scalar contents as a floating-point number.
func (m *Model) AsFloat() (float64, error) {
	s, err := m.AsStr()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, newAccessorError(ErrNotASingleton, s)
	}
	return v, nil
}

// AsBool parses m's scalar contents as a boolean. Under LenientBool it also
// accepts yes/no, on/off, and 1/0. Matching is exact and case-sensitive.
func (m *Model) AsBool(opts Options) (bool, error) {
	s, err := m.AsStr()
	if err != nil {
		return false, err
	}
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if opts.LenientBool {
		switch s {
		case "yes", "on", "1":
			return true, nil
		case "no", "off", "0":
			return false, nil
		}
	}
	return false, newAccessorError(ErrNotASingleton, s)
}
