package peek

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

const yamlLabel = "yaml.Marshal()"

// attribute is one field or method of an inspected object. err is set when
// the attribute could not be read.
type attribute struct {
	name   string
	value  reflect.Value
	method *reflect.Method
	err    error
}

func (a attribute) callable() bool {
	if a.method != nil {
		return true
	}
	return a.err == nil && a.value.IsValid() && a.value.Kind() == reflect.Func && !a.value.IsNil()
}

// invocable reports whether a is a bound method taking no arguments.
func (a attribute) invocable() bool {
	if a.method == nil || a.err != nil || !a.value.IsValid() {
		return false
	}
	t := a.value.Type()
	return t.NumIn() == 0 && t.NumOut() > 0
}

func (a attribute) pretty() string {
	if a.err != nil {
		return placeholder(a.err)
	}
	if !a.value.IsValid() {
		return "nil"
	}
	return prettyString(a.value.Interface())
}

// summary is the one-line description of a callable attribute: the first
// doc line, else its source location, else its literal value.
func (a attribute) summary() string {
	if a.err != nil {
		return placeholder(a.err)
	}
	var pc uintptr
	var typ reflect.Type
	if a.method != nil {
		pc, typ = a.method.Func.Pointer(), a.method.Type
	} else {
		pc, typ = a.value.Pointer(), a.value.Type()
	}
	info, err := lookupFunc(pc, typ)
	if err != nil {
		return a.pretty()
	}
	if line, ok := firstDocLine(info.doc); ok {
		return "// " + line
	}
	if info.file != "" && info.file != autogenerated {
		return info.provenance()
	}
	return a.pretty()
}

// invoke calls a and returns its labelled output. Panics yield no lines.
func invoke(a attribute) (lines []string) {
	defer func() {
		if recover() != nil {
			lines = nil
		}
	}()
	out := a.value.Call(nil)
	lines = []string{"." + a.name + "():"}
	return append(lines, strings.Split(fmt.Sprint(out[0].Interface()), "\n")...)
}

// attributes lists the fields of v, if it is a struct or points to one,
// followed by its methods.
func attributes(v reflect.Value) []attribute {
	var out []attribute
	if s, ok := structValue(v); ok {
		t := s.Type()
		for i := range t.NumField() {
			fv, err := exposeField(s, i)
			out = append(out, attribute{name: t.Field(i).Name, value: fv, err: err})
		}
	}
	t := v.Type()
	for i := range t.NumMethod() {
		m := t.Method(i)
		if t.Kind() == reflect.Pointer {
			if vm, ok := t.Elem().MethodByName(m.Name); ok {
				m = vm
			}
		}
		a := attribute{name: m.Name, method: &m}
		a.value, a.err = boundMethod(v, i)
		out = append(out, a)
	}
	return out
}

// structValue returns an addressable struct for v so unexported fields can
// be read.
func structValue(v reflect.Value) (reflect.Value, bool) {
	switch {
	case v.Kind() == reflect.Struct:
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		return cp, true
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Struct:
		return v.Elem(), true
	}
	return reflect.Value{}, false
}

func exposeField(s reflect.Value, i int) (fv reflect.Value, err error) {
	name := s.Type().Field(i).Name
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: field %s: %v", ErrInspect, name, r)
		}
	}()
	f := s.Field(i)
	if f.CanInterface() {
		return f, nil
	}
	if !f.CanAddr() {
		return reflect.Value{}, fmt.Errorf("%w: field %s is not addressable", ErrInspect, name)
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem(), nil
}

func boundMethod(v reflect.Value, i int) (m reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: method %d: %v", ErrInspect, i, r)
		}
	}()
	return v.Method(i), nil
}

// renderObject lists doc comment, fields, and methods of v, with names
// aligned to the longest one.
func renderObject(v reflect.Value, cfg Config) ([]string, error) {
	lines := docLines(typeDoc(v.Type()))
	var fields, methods []attribute
	width := 0
	for _, a := range attributes(v) {
		if a.callable() {
			if cfg.InvokeMethods && a.invocable() && slices.Contains(cfg.Invokers, a.name) {
				lines = append(lines, invoke(a)...)
				continue
			}
			methods = append(methods, a)
		} else {
			fields = append(fields, a)
		}
		width = max(width, runewidth.StringWidth(a.name))
	}
	node, isNode := yamlNode(v)
	if isNode {
		width = max(width, len(yamlLabel)+2)
	}
	for _, a := range fields {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(a.name)+3)
		lines = append(lines, strings.Split("."+a.name+":"+pad+a.pretty(), "\n")...)
	}
	for _, a := range methods {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(a.name))
		lines = append(lines, "."+a.name+"(): "+pad+a.summary())
	}
	if isNode {
		pad := strings.Repeat(" ", width-len(yamlLabel)+2)
		lines = append(lines, strings.Split(yamlLabel+":"+pad+marshalNode(node), "\n")...)
	}
	return lines, nil
}

func yamlNode(v reflect.Value) (*yaml.Node, bool) {
	switch n := v.Interface().(type) {
	case *yaml.Node:
		return n, n != nil
	case yaml.Node:
		return &n, true
	}
	return nil, false
}

func marshalNode(n *yaml.Node) string {
	out, err := yaml.Marshal(n)
	if err != nil {
		return placeholder(fmt.Errorf("%w: %v", ErrInspect, err))
	}
	return strings.TrimRight(string(out), "\n")
}
