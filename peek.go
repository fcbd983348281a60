package peek

import (
	"errors"
	"io"
	"os"
)

// ErrInspect is wrapped by every introspection failure. Such failures are
// rendered inline as placeholders and never returned to callers.
var ErrInspect = errors.New("inspection failed")

// TypeNamer overrides the type name shown in the box header.
type TypeNamer interface {
	TypeName() string
}

// Inspector renders values into framed dumps and routes them to a sink,
// an output writer, or the caller. An Inspector is safe for concurrent use.
type Inspector struct {
	config Config
	sink   Sink
	out    io.Writer
	exit   func(int)
}

// Option configures an [Inspector].
type Option func(*Inspector)

// WithConfig replaces the inspector configuration.
func WithConfig(cfg Config) Option {
	return func(i *Inspector) { i.config = cfg }
}

// WithSink sets the destination for Log, Die, and Trace.
func WithSink(s Sink) Option {
	return func(i *Inspector) { i.sink = s }
}

// WithOutput sets the destination for Dump. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Inspector) { i.out = w }
}

// WithExit replaces the function Die uses to end the process.
// Default: os.Exit.
func WithExit(fn func(int)) Option {
	return func(i *Inspector) { i.exit = fn }
}

// WithInvokers sets the zero-argument methods invoked on objects. Calling it
// with no names disables invocation.
func WithInvokers(names ...string) Option {
	return func(i *Inspector) {
		i.config.InvokeMethods = len(names) > 0
		i.config.Invokers = names
	}
}

// New returns an inspector built from [DefaultConfig] and opts.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		config: DefaultConfig(),
		out:    os.Stdout,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.sink == nil {
		i.sink = NewLogger(os.Stderr, i.config)
	}
	return i
}

// Default is the shared inspector behind the package-level functions. Its
// configuration is read from the environment at startup.
var Default = newDefault()

// Console mirrors the Log function under a familiar name.
var Console = Default.Console()

func newDefault() *Inspector {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}
	return New(WithConfig(cfg))
}

// Config returns a copy of the inspector configuration.
func (i *Inspector) Config() Config { return i.config }

// Log renders values and sends the block to the sink.
func (i *Inspector) Log(values ...any) {
	i.log(i.stack(0), values)
}

// Dump renders values and writes the block to the output writer.
func (i *Inspector) Dump(values ...any) {
	i.dump(i.stack(0), values)
}

// Die renders values, sends the block to the sink, and exits with status 1.
func (i *Inspector) Die(values ...any) {
	i.die(i.stack(0), 1, values)
}

// DieWith is Die with a caller-chosen exit code.
func (i *Inspector) DieWith(code int, values ...any) {
	i.die(i.stack(0), code, values)
}

// Format renders values and returns the block.
func (i *Inspector) Format(values ...any) string {
	return i.format(i.stack(0), reduce(values), "")
}

// FormatAs is Format with typeName shown in place of the resolved type.
func (i *Inspector) FormatAs(typeName string, values ...any) string {
	return i.format(i.stack(0), reduce(values), typeName)
}

// Trace renders the current call stack and sends it to the sink.
func (i *Inspector) Trace() {
	i.trace(i.stack(0))
}

// Console returns a Console bound to i.
func (i *Inspector) Console() Consoler {
	return Consoler{inspector: i}
}

// Consoler carries the Log alias. Use [Console] or [Inspector.Console].
type Consoler struct {
	inspector *Inspector
}

// Log is an alias for [Inspector.Log].
func (c Consoler) Log(values ...any) {
	c.inspector.log(c.inspector.stack(0), values)
}

// Log renders values with the Default inspector and sends them to its sink.
func Log(values ...any) { Default.log(Default.stack(0), values) }

// Dump renders values with the Default inspector and writes them to stdout.
func Dump(values ...any) { Default.dump(Default.stack(0), values) }

// Die renders values with the Default inspector, logs them, and exits 1.
func Die(values ...any) { Default.die(Default.stack(0), 1, values) }

// DieWith is Die with a caller-chosen exit code.
func DieWith(code int, values ...any) { Default.die(Default.stack(0), code, values) }

// Format renders values with the Default inspector and returns the block.
func Format(values ...any) string {
	return Default.format(Default.stack(0), reduce(values), "")
}

// FormatAs is Format with typeName shown in place of the resolved type.
func FormatAs(typeName string, values ...any) string {
	return Default.format(Default.stack(0), reduce(values), typeName)
}

// Trace logs the current call stack with the Default inspector.
func Trace() { Default.trace(Default.stack(0)) }

// stack captures frames starting at the function skip levels above the
// caller of stack. It returns nil in production mode.
func (i *Inspector) stack(skip int) Stack {
	if i.config.Production {
		return nil
	}
	return captureStack(skip+1, i.config.ReadSource)
}

func (i *Inspector) log(s Stack, values []any) {
	if i.config.Production {
		return
	}
	i.sink.Error(i.format(s, reduce(values), ""))
}

func (i *Inspector) dump(s Stack, values []any) {
	if i.config.Production {
		return
	}
	_, _ = io.WriteString(i.out, i.format(s, reduce(values), "")+"\n")
}

func (i *Inspector) die(s Stack, code int, values []any) {
	if !i.config.Production {
		i.sink.Error(i.format(s, reduce(values), ""))
	}
	i.exit(code)
}

func (i *Inspector) trace(s Stack) {
	if i.config.Production {
		return
	}
	var frames Stack
	if len(s) > 1 {
		frames = s[1:]
	}
	i.sink.Error(i.format(s, frames, ""))
}

func (i *Inspector) format(s Stack, value any, typeName string) string {
	if i.config.Production {
		return ""
	}
	rec := newRecord(s, value, typeName, i.config)
	return rec.String()
}

// reduce maps zero values to nil, one value to itself, and several values to
// the ordered slice of all of them.
func reduce(values []any) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		return values
	}
}
