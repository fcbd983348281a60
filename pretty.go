package peek

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-runewidth"
)

const (
	// prettyWidth is the widest compact literal before switching to the
	// indented form.
	prettyWidth  = 80
	maxWalkDepth = 32
)

// spewConfig renders values repr cannot: cycles, very deep graphs, and
// values whose GoString methods panic.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                6,
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// pretty returns the literal representation of v split into lines.
func pretty(v any) []string {
	return strings.Split(prettyString(v), "\n")
}

func prettyString(v any) (s string) {
	if v == nil {
		return "nil"
	}
	if cyclic(reflect.ValueOf(v)) {
		return dumpString(v)
	}
	defer func() {
		if recover() != nil {
			s = dumpString(v)
		}
	}()
	s = repr.String(v, repr.Indent(""))
	if runewidth.StringWidth(s) > prettyWidth {
		s = repr.String(v, repr.Indent("  "))
	}
	return s
}

func dumpString(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = placeholder(fmt.Errorf("%w: %v", ErrInspect, r))
		}
	}()
	return strings.TrimRight(spewConfig.Sdump(v), "\n")
}

// placeholder is the inline text for a failed introspection step.
func placeholder(err error) string {
	return "*** " + err.Error() + " ***"
}

type visit struct {
	typ reflect.Type
	ptr uintptr
}

// cyclic reports whether v refers back to itself or nests deeper than
// maxWalkDepth.
func cyclic(v reflect.Value) bool {
	return walk(v, map[visit]bool{}, 0)
}

func walk(v reflect.Value, path map[visit]bool, depth int) bool {
	if depth > maxWalkDepth {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return false
		}
		key := visit{v.Type(), v.Pointer()}
		if path[key] {
			return true
		}
		path[key] = true
		defer delete(path, key)
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return walk(v.Elem(), path, depth+1)
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if walk(iter.Key(), path, depth+1) || walk(iter.Value(), path, depth+1) {
				return true
			}
		}
	case reflect.Slice, reflect.Array:
		if leaf(v.Type().Elem().Kind()) {
			return false
		}
		for i := range v.Len() {
			if walk(v.Index(i), path, depth+1) {
				return true
			}
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if walk(v.Field(i), path, depth+1) {
				return true
			}
		}
	}
	return false
}

func leaf(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return false
	default:
		return true
	}
}
