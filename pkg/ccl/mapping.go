package ccl

import (
	"fmt"
	"reflect"
	"strconv"
)

// Unmarshal binds a map Model onto target, which must be a pointer to a
// struct. Fields are matched by a `ccl:"name"` tag; a field without a tag
// is skipped. This is the explicit schema declaration this package expects
// of callers: there is no reflection-based field-name guessing, because CCL
// has no notion of a reserved or canonical casing for keys.
//
// Supported field kinds: string, bool, all signed integer kinds, float32,
// float64, []string, and nested structs (bound against a child map).
// A field tagged with the suffix ",omitempty" is left at its zero value
// when the key is absent instead of returning ErrMissingField.
func Unmarshal(m *Model, target interface{}, opts Options) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("ccl: Unmarshal target must be a pointer to a struct")
	}
	return unmarshalStruct(m, rv.Elem(), opts)
}

func unmarshalStruct(m *Model, sv reflect.Value, opts Options) error {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		name, optional := parseTag(field.Tag.Get("ccl"))
		if name == "" {
			continue
		}

		child, err := m.Get(name)
		if err != nil {
			if optional {
				continue
			}
			return newAccessorError(ErrMissingField, name)
		}

		fv := sv.Field(i)
		if err := unmarshalField(child, fv, opts); err != nil {
			return fmt.Errorf("ccl: field %q: %w", name, err)
		}
	}
	return nil
}

func unmarshalField(child *Model, fv reflect.Value, opts Options) error {
	switch fv.Kind() {
	case reflect.String:
		s, err := child.AsStr()
		if err != nil {
			return err
		}
		fv.SetString(s)
	case reflect.Bool:
		b, err := child.AsBool(opts)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := child.AsInt()
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := child.AsFloat()
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Slice:
		elem := fv.Type().Elem()
		if elem.Kind() == reflect.Struct {
			return unmarshalRecordSlice(child, fv, elem, opts)
		}
		if elem.Kind() != reflect.String {
			return fmt.Errorf("ccl: unsupported slice element kind %s", elem.Kind())
		}
		list, err := child.AsList(opts)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(list))
	case reflect.Struct:
		return unmarshalStruct(child, fv, opts)
	default:
		return fmt.Errorf("ccl: unsupported field kind %s", fv.Kind())
	}
	return nil
}

// unmarshalRecordSlice binds a []T field, T a struct, against a sub-map
// whose values are themselves records: each pair's value becomes one
// element of the slice, in the map's stored order, and the pair's key is
// discarded (the record's own fields carry its identity, per the adapter's
// list-of-records rule).
func unmarshalRecordSlice(child *Model, fv reflect.Value, elem reflect.Type, opts Options) error {
	if !child.IsMap() {
		return fmt.Errorf("ccl: expected a map of records for a list of %s", elem)
	}
	pairs := child.Pairs()
	out := reflect.MakeSlice(fv.Type(), 0, len(pairs))
	for _, p := range pairs {
		item := reflect.New(elem).Elem()
		if err := unmarshalStruct(p.Value, item, opts); err != nil {
			return err
		}
		out = reflect.Append(out, item)
	}
	fv.Set(out)
	return nil
}

// Marshal builds a map Model from a struct, the inverse of Unmarshal for
// scalar fields and for []string fields of two or more elements. A []string
// field with zero or one element is emitted in a shape that Unmarshal does
// not read back as the same list. Zero value fields are still emitted;
// callers who need sparse output should filter the source struct first.
func Marshal(source interface{}) (*Model, error) {
	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("ccl: Marshal source must be a struct or pointer to struct")
	}
	return marshalStruct(rv)
}

func marshalStruct(sv reflect.Value) (*Model, error) {
	m := NewMap()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		name, _ := parseTag(field.Tag.Get("ccl"))
		if name == "" {
			continue
		}
		child, err := marshalField(sv.Field(i))
		if err != nil {
			return nil, fmt.Errorf("ccl: field %q: %w", name, err)
		}
		m.append(name, child)
	}
	return m, nil
}

func marshalField(fv reflect.Value) (*Model, error) {
	switch fv.Kind() {
	case reflect.String:
		return Singleton(fv.String()), nil
	case reflect.Bool:
		return Singleton(strconv.FormatBool(fv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Singleton(strconv.FormatInt(fv.Int(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return Singleton(strconv.FormatFloat(fv.Float(), 'g', -1, 64)), nil
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return nil, fmt.Errorf("ccl: unsupported slice element kind %s", fv.Type().Elem().Kind())
		}
		chain := NewMap()
		for i := 0; i < fv.Len(); i++ {
			chain.append("", Singleton(fv.Index(i).String()))
		}
		if chain.Len() == 0 {
			return chain, nil
		}
		wrapper := NewMap()
		wrapper.append("", chain)
		return wrapper, nil
	case reflect.Struct:
		return marshalStruct(fv)
	default:
		return nil, fmt.Errorf("ccl: unsupported field kind %s", fv.Kind())
	}
}

// parseTag splits a `ccl:"name,omitempty"` tag into its name and optional
// flag. A bare "-" disables the field, same as encoding/json.
func parseTag(tag string) (name string, optional bool) {
	if tag == "" || tag == "-" {
		return "", false
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i], tag[i+1:] == "omitempty"
		}
	}
	return tag, false
}
