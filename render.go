package peek

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// category selects the rendering strategy for a value.
type category int

const (
	categoryNil category = iota
	categoryMapping
	categoryScalar
	categoryFunc
	categoryMethod
	categoryType
	categoryObject
)

var categoryNames = [...]string{
	categoryNil:     "nil",
	categoryMapping: "mapping",
	categoryScalar:  "scalar",
	categoryFunc:    "function",
	categoryMethod:  "method",
	categoryType:    "type",
	categoryObject:  "object",
}

// String returns the category name.
func (c category) String() string { return categoryNames[c] }

// renderer turns a value into lines or reports why it could not.
type renderer func(v reflect.Value, cfg Config) ([]string, error)

var renderers = map[category]renderer{
	categoryNil:     renderNil,
	categoryMapping: renderMapping,
	categoryScalar:  renderScalar,
	categoryFunc:    renderFunc,
	categoryMethod:  renderMethod,
	categoryType:    renderType,
	categoryObject:  renderObject,
}

var reflectType = reflect.TypeFor[reflect.Type]()

// Well-known interfaces reported for type values.
var knownInterfaces = []reflect.Type{
	reflect.TypeFor[error](),
	reflect.TypeFor[fmt.Stringer](),
	reflect.TypeFor[fmt.GoStringer](),
	reflect.TypeFor[encoding.TextMarshaler](),
	reflect.TypeFor[json.Marshaler](),
	reflect.TypeFor[yaml.Marshaler](),
	reflect.TypeFor[io.Reader](),
	reflect.TypeFor[io.Writer](),
	reflect.TypeFor[io.Closer](),
}

func classify(v reflect.Value) category {
	if !v.IsValid() {
		return categoryNil
	}
	if v.Type().Implements(reflectType) {
		return categoryType
	}
	switch v.Kind() {
	case reflect.Map:
		return categoryMapping
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Slice, reflect.Array:
		return categoryScalar
	case reflect.Func:
		if v.IsNil() {
			return categoryScalar
		}
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil && strings.HasSuffix(fn.Name(), "-fm") {
			return categoryMethod
		}
		return categoryFunc
	default:
		return categoryObject
	}
}

// render produces the body lines for value. It never panics: renderer
// failures become a placeholder line, and an empty result falls back to the
// literal representation.
func render(value any, cfg Config) []string {
	v := reflect.ValueOf(value)
	lines, err := safely(func() ([]string, error) {
		return renderers[classify(v)](v, cfg)
	})
	if err != nil {
		lines = append(lines, placeholder(err))
	}
	if len(lines) == 0 {
		lines = pretty(value)
	}
	return lines
}

func safely(fn func() ([]string, error)) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInspect, r)
		}
	}()
	return fn()
}

func renderNil(reflect.Value, Config) ([]string, error) {
	return []string{"nil"}, nil
}

func renderScalar(v reflect.Value, _ Config) ([]string, error) {
	return pretty(v.Interface()), nil
}

// renderMapping prints the map literal without its leading type.
func renderMapping(v reflect.Value, _ Config) ([]string, error) {
	s := stripTypePrefix(prettyString(v.Interface()), v.Type())
	return strings.Split(s, "\n"), nil
}

// stripTypePrefix removes the leading map type from a literal. repr prints
// named maps with their underlying type, so both spellings are tried.
func stripTypePrefix(s string, t reflect.Type) string {
	names := []string{t.String()}
	if t.Kind() == reflect.Map {
		names = append(names, reflect.MapOf(t.Key(), t.Elem()).String())
	}
	for _, name := range names {
		for _, form := range []string{name, strings.ReplaceAll(name, "interface {}", "any")} {
			if rest, ok := strings.CutPrefix(s, form); ok && strings.HasPrefix(rest, "{") {
				return rest
			}
		}
	}
	return s
}

func renderFunc(v reflect.Value, _ Config) ([]string, error) {
	return describeFunc(v)
}

// renderMethod renders a method value as Recv.Method(params). A failed
// lookup still yields a body line.
func renderMethod(v reflect.Value, _ Config) ([]string, error) {
	lines, err := describeFunc(v)
	if err != nil {
		return []string{placeholder(err)}, nil
	}
	return lines, nil
}

// describeFunc lists the doc comment, signature, and provenance of v.
func describeFunc(v reflect.Value) ([]string, error) {
	info, err := lookupFunc(v.Pointer(), v.Type())
	if err != nil {
		return nil, err
	}
	lines := docLines(info.doc)
	return append(lines, info.signature(), info.provenance()), nil
}

func renderType(v reflect.Value, _ Config) ([]string, error) {
	t, ok := v.Interface().(reflect.Type)
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: not a type", ErrInspect)
	}
	lines := docLines(typeDoc(t))
	lines = append(lines, fmt.Sprintf("type %s from %s", typeLabel(t), pkgPath(t)))
	if impl := implements(t); len(impl) > 0 {
		lines = append(lines, "implements "+strings.Join(impl, ", "))
	}
	return lines, nil
}

func typeLabel(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func pkgPath(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return "builtin"
	}
	return t.PkgPath()
}

func implements(t reflect.Type) []string {
	var out []string
	for _, it := range knownInterfaces {
		if t.Implements(it) || (t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(it)) {
			out = append(out, it.String())
		}
	}
	return out
}

// resolveTypeName picks the header type name: override, then TypeNamer,
// then the runtime type.
func resolveTypeName(value any, override string) string {
	if override != "" {
		return override
	}
	if value == nil {
		return "nil"
	}
	if _, ok := value.(reflect.Type); ok {
		return "reflect.Type"
	}
	if n, ok := value.(TypeNamer); ok {
		if name, err := callTypeName(n); err == nil && name != "" {
			return name
		}
	}
	return reflect.TypeOf(value).String()
}

func callTypeName(n TypeNamer) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: TypeName: %v", ErrInspect, r)
		}
	}()
	return n.TypeName(), nil
}

// lengthSuffix returns "[n]" for sized containers and strings.
func lengthSuffix(value any) string {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return fmt.Sprintf("[%d]", v.Len())
	}
	return ""
}

// record is the per-call inspection state.
type record struct {
	stack    Stack
	value    any
	expr     string
	typeName string
	lines    []string
}

func newRecord(s Stack, value any, override string, cfg Config) *record {
	r := &record{stack: s, value: value}
	r.expr = callExpression(shortName(s.entry().Function), s.caller().Source)
	r.typeName = resolveTypeName(value, override)
	r.lines = render(value, cfg)
	r.typeName += lengthSuffix(value)
	return r
}

// String returns the framed block.
func (r *record) String() string {
	caller := r.stack.caller()
	return drawBox(r.lines, boxHeader(r.expr, r.typeName, caller.File, caller.Line))
}
