// Package peek dumps runtime values for development debugging.
//
// Sprinkle [Log], [Dump], [Die], [Format], or [Trace] anywhere in a program
// to see a value's type, fields, methods, doc comment, and call site inside
// an ASCII box:
//
//	peek.Dump(map[string]int{"a": 1, "b": 2})
//
//	/== Dump(map[string]int{"a": 1, "b": 2}) :: map[string]int[2] @ main.go:12 ==========\
//	| {"a": 1, "b": 2}
//	\== Dump(map[string]int{"a": 1, "b": 2}) :: map[string]int[2] @ main.go:12 ==========/
//
// Zero arguments inspect nil, one argument inspects that value, and several
// arguments inspect the ordered []any of all of them.
//
// # Entry Points
//
//   - [Log] sends the block to the sink at error level
//   - [Dump] writes the block to standard output
//   - [Die] and [DieWith] log the block, then exit the process
//   - [Format] and [FormatAs] return the block
//   - [Trace] logs the current call stack
//   - [Console].Log is an alias for Log
//
// The package-level functions use [Default]. Build a separate [Inspector]
// with [New] to route output elsewhere:
//
//	ins := peek.New(peek.WithSink(logger), peek.WithOutput(os.Stderr))
//	ins.Log(user)
//
// # Rendering
//
// Values are classified and rendered by kind:
//
//   - maps print as literals without their type prefix
//   - scalars, strings, slices, and arrays print as Go literals
//   - functions print their doc comment, signature, and source location
//   - method values print as Recv.Method(params)
//   - [reflect.Type] values print their declaration and well-known
//     interfaces they implement
//   - everything else lists fields and methods, aligned by name
//
// Methods named in [Config].Invokers (String, GoString, and Dump by default)
// are called and their output appended. A *yaml.Node also gets its YAML
// serialization.
//
// Rendering never panics. A field or method that cannot be read is shown as
// a "*** ... ***" placeholder wrapping [ErrInspect]. Cyclic values are
// printed with a depth limit.
//
// # Configuration
//
// [LoadConfig] reads PEEK_PRODUCTION, PEEK_INVOKE_METHODS, PEEK_READ_SOURCE,
// and PEEK_LOG_PREFIX once at startup. With PEEK_PRODUCTION=true every entry
// point does nothing, except that Die still exits.
package peek
