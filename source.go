package peek

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"runtime"
	"strings"
)

const autogenerated = "<autogenerated>"

// funcInfo describes a function or method resolved from its code pointer.
type funcInfo struct {
	full   string // runtime name, e.g. "example.com/pkg.(*T).M-fm"
	recv   string // receiver type name without pointer, empty for functions
	name   string // function or method name
	bound  bool   // method value closed over its receiver
	file   string
	line   int
	doc    string
	params []string
}

// lookupFunc resolves the function at pc. typ supplies parameter types when
// the declaration cannot be parsed.
func lookupFunc(pc uintptr, typ reflect.Type) (funcInfo, error) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return funcInfo{}, fmt.Errorf("%w: function has no runtime metadata", ErrInspect)
	}
	info := parseFuncName(fn.Name())
	info.file, info.line = fn.FileLine(fn.Entry())
	if decl := findFuncDecl(info.file, info.recv, info.name); decl != nil {
		info.doc = decl.Doc.Text()
		info.params = paramNames(decl.Type.Params)
	} else if typ != nil {
		info.params = paramTypes(typ)
	}
	return info, nil
}

// parseFuncName splits a runtime function name into receiver and name.
func parseFuncName(full string) funcInfo {
	info := funcInfo{full: full}
	rest := full
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[i+1:]
	}
	rest = strings.ReplaceAll(rest, "[...]", "")
	rest, info.bound = strings.CutSuffix(rest, "-fm")
	if i := strings.LastIndexByte(rest, '.'); i >= 0 {
		info.recv = strings.TrimSuffix(strings.TrimPrefix(rest[:i], "(*"), ")")
		info.name = rest[i+1:]
	} else {
		info.name = rest
	}
	return info
}

// signature renders "name(a, b)" or "Recv.name(a, b)".
func (f funcInfo) signature() string {
	name := f.name
	if f.recv != "" {
		name = f.recv + "." + f.name
	}
	return name + "(" + strings.Join(f.params, ", ") + ")"
}

// provenance names the declaring file and line.
func (f funcInfo) provenance() string {
	if f.file == "" || f.file == autogenerated {
		return "this function has no source metadata; it was probably created by reflection or as a method value"
	}
	return fmt.Sprintf("from %s:%d", f.file, f.line)
}

func parseFile(file string) *ast.File {
	if file == "" || file == autogenerated {
		return nil
	}
	f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil
	}
	return f
}

func findFuncDecl(file, recv, name string) *ast.FuncDecl {
	f := parseFile(file)
	if f == nil {
		return nil
	}
	for _, d := range f.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Name.Name != name {
			continue
		}
		if receiverName(fd) == recv {
			return fd
		}
	}
	return nil
}

func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return types.ExprString(t.X)
	case *ast.IndexListExpr:
		return types.ExprString(t.X)
	}
	return types.ExprString(expr)
}

func paramNames(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}
	var out []string
	for _, field := range fields.List {
		if len(field.Names) == 0 {
			out = append(out, types.ExprString(field.Type))
			continue
		}
		for _, n := range field.Names {
			out = append(out, n.Name)
		}
	}
	return out
}

func paramTypes(t reflect.Type) []string {
	if t.Kind() != reflect.Func {
		return nil
	}
	out := make([]string, t.NumIn())
	for i := range t.NumIn() {
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			out[i] = "..." + in.Elem().String()
			continue
		}
		out[i] = in.String()
	}
	return out
}

// typeDoc returns the doc comment of a named type, located through the
// source file of one of its methods. Types without methods and interface
// types have no code pointer to follow, so their doc is empty.
func typeDoc(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.Kind() == reflect.Interface {
		return ""
	}
	for _, mt := range []reflect.Type{t, reflect.PointerTo(t)} {
		for i := range mt.NumMethod() {
			fn := runtime.FuncForPC(mt.Method(i).Func.Pointer())
			if fn == nil {
				continue
			}
			file, _ := fn.FileLine(fn.Entry())
			if doc, ok := findTypeDoc(file, t.Name()); ok {
				return doc
			}
		}
	}
	return ""
}

func findTypeDoc(file, name string) (string, bool) {
	f := parseFile(file)
	if f == nil {
		return "", false
	}
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Name.Name != name {
				continue
			}
			if ts.Doc != nil {
				return ts.Doc.Text(), true
			}
			return gd.Doc.Text(), true
		}
	}
	return "", false
}

// docLines prefixes each doc comment line with a comment marker.
func docLines(doc string) []string {
	doc = strings.TrimRight(doc, "\n")
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = "// " + l
	}
	return lines
}

// firstDocLine returns the first non-blank doc comment line.
func firstDocLine(doc string) (string, bool) {
	for l := range strings.SplitSeq(doc, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l, true
		}
	}
	return "", false
}
