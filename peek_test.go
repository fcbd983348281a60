package peek_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/bjaus/peek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// --- Test types ---

// widget is a sample object with fields and methods.
type widget struct {
	Name  string
	Count int
	notes []string
}

// Describe returns the widget name with a prefix.
func (w widget) Describe(prefix string) string { return prefix + w.Name + fmt.Sprint(len(w.notes)) }

func (w widget) String() string { return "widget " + w.Name }

// exploding panics from every method.
type exploding struct{ ID int }

func (exploding) String() string   { panic("boom") }
func (exploding) GoString() string { panic("boom") }
func (exploding) Explode() error   { panic("boom") }

type named struct{}

func (named) TypeName() string { return "CustomName" }

// labels is a named map type.
type labels map[string]string

type node struct {
	Next  *node
	Value int
}

// sampleAdd adds two numbers.
func sampleAdd(a, b int) int { return a + b }

// --- Helpers ---

type capture struct {
	msgs []string
}

func (c *capture) Error(msg any, _ ...any) {
	c.msgs = append(c.msgs, fmt.Sprint(msg))
}

func newInspector(opts ...peek.Option) (*peek.Inspector, *capture) {
	c := &capture{}
	return peek.New(append([]peek.Option{peek.WithSink(c)}, opts...)...), c
}

// body returns the content lines of a block without the "| " prefix.
func body(block string) []string {
	var out []string
	for _, l := range strings.Split(block, "\n") {
		if rest, ok := strings.CutPrefix(l, "| "); ok {
			out = append(out, rest)
		}
	}
	return out
}

func topBorder(block string) string {
	for _, l := range strings.Split(block, "\n") {
		if strings.HasPrefix(l, "/") {
			return l
		}
	}
	return ""
}

func traceOuter(ins *peek.Inspector)  { traceMiddle(ins) }
func traceMiddle(ins *peek.Inspector) { traceInner(ins) }
func traceInner(ins *peek.Inspector)  { ins.Trace() }

// ============================================================
// Tests
// ============================================================

func TestFormatInt(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(42)
	assert.Contains(t, topBorder(out), " Format(42) :: int @ peek_test.go:")
	assert.Equal(t, []string{"42"}, body(out))
	assert.True(t, strings.HasPrefix(out, "\n/=="))
	assert.True(t, strings.HasSuffix(out, "/\n"))
}

func TestDumpInt(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ins, c := newInspector(peek.WithOutput(&buf))
	ins.Dump(42)
	out := buf.String()
	assert.Contains(t, out, " Dump(42) :: int @ peek_test.go:")
	assert.Equal(t, []string{"42"}, body(out))
	assert.Empty(t, c.msgs)
}

func TestFormatMapping(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(map[string]int{"a": 1, "b": 2})
	assert.Contains(t, topBorder(out), ":: map[string]int[2] @")
	lines := body(out)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "{"), lines[0])
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, `"a": 1`)
	assert.Contains(t, joined, `"b": 2`)
	assert.NotContains(t, joined, "map[string]int")
}

func TestFormatNamedMapping(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(labels{"env": "dev", "app": "x"})
	assert.Contains(t, topBorder(out), ":: peek_test.labels[2] @")
	lines := body(out)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "{"), lines[0])
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, `"env": "dev"`)
	assert.NotContains(t, joined, "map[string]string")
	assert.NotContains(t, joined, "labels{")
}

func TestFormatExpressionInsideEnclosingCall(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := fmt.Sprint(ins.Format(sampleAdd))
	assert.Contains(t, topBorder(out), " Format(sampleAdd) :: ")
}

func TestFormatArgumentReduction(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		args []any
		want string
	}{
		"none": {args: nil, want: ":: nil @"},
		"one":  {args: []any{"x"}, want: ":: string[1] @"},
		"many": {args: []any{1, "two", 3.0}, want: ":: []interface {}[3] @"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ins, _ := newInspector()
			out := ins.Format(tt.args...)
			assert.Contains(t, topBorder(out), tt.want)
		})
	}
}

func TestFormatNoArgumentsIsNil(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format()
	assert.Equal(t, []string{"nil"}, body(out))
}

func TestFormatSingleSliceIsTheValue(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	s := []int{1, 2, 3}
	out := ins.Format(s)
	assert.Contains(t, topBorder(out), ":: []int[3] @")
	assert.Contains(t, strings.Join(body(out), "\n"), "1, 2, 3")
}

func TestFormatNeverPanics(t *testing.T) {
	t.Parallel()
	cyclicMap := map[string]any{}
	cyclicMap["self"] = cyclicMap
	loop := &node{Value: 1}
	loop.Next = loop

	tests := map[string]any{
		"nil":            nil,
		"cyclic map":     cyclicMap,
		"pointer cycle":  loop,
		"panicking":      exploding{ID: 7},
		"panicking ptr":  &exploding{},
		"type":           reflect.TypeOf(widget{}),
		"bound method":   widget{}.Describe,
		"function":       sampleAdd,
		"closure":        func(int) {},
		"empty map":      map[string]int{},
		"empty slice":    []int{},
		"nil pointer":    (*widget)(nil),
		"channel":        make(chan int),
		"empty struct":   struct{}{},
		"error":          fmt.Errorf("wrapped: %w", peek.ErrInspect),
		"nested any":     []any{map[string]any{"k": []any{nil}}},
		"pointer to int": new(int),
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ins, _ := newInspector()
			var out string
			require.NotPanics(t, func() { out = ins.Format(v) })
			assert.NotEmpty(t, body(out))
		})
	}
}

func TestFormatEmptyContainers(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()

	out := ins.Format(map[string]int{})
	assert.Contains(t, topBorder(out), ":: map[string]int[0] @")
	assert.Contains(t, strings.Join(body(out), ""), "{}")

	out = ins.Format([]int{})
	assert.Contains(t, topBorder(out), ":: []int[0] @")
}

func TestFormatObject(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(widget{Name: "gizmo", Count: 3})
	assert.Contains(t, topBorder(out), ":: peek_test.widget @")
	lines := body(out)
	assert.Contains(t, lines, "// widget is a sample object with fields and methods.")
	assert.Contains(t, lines, `.Name:       "gizmo"`)
	assert.Contains(t, lines, ".Count:      3")
	assert.Contains(t, lines, ".Describe(): // Describe returns the widget name with a prefix.")
	assert.Contains(t, lines, ".String():")
	assert.Contains(t, lines, "widget gizmo")

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, ".notes:")
}

func TestFormatObjectInvokersDisabled(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector(peek.WithInvokers())
	out := ins.Format(widget{Name: "gizmo"})
	lines := body(out)
	assert.NotContains(t, lines, ".String():")
	assert.NotContains(t, lines, "widget gizmo")
	assert.Contains(t, strings.Join(lines, "\n"), ".String(): ")
}

func TestFormatObjectPanickingMethods(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(exploding{ID: 7})
	lines := body(out)
	assert.Contains(t, lines, "// exploding panics from every method.")
	assert.Contains(t, strings.Join(lines, "\n"), ".ID:")
	assert.Contains(t, strings.Join(lines, "\n"), ".Explode(): ")
	assert.NotContains(t, lines, ".String():")
}

func TestFormatFunction(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(sampleAdd)
	assert.Contains(t, topBorder(out), ":: func(int, int) int @")
	lines := body(out)
	require.Len(t, lines, 3)
	assert.Equal(t, "// sampleAdd adds two numbers.", lines[0])
	assert.Equal(t, "sampleAdd(a, b)", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "from "), lines[2])
	assert.Contains(t, lines[2], "peek_test.go:")
}

func TestFormatBoundMethod(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	w := widget{Name: "x"}
	out := ins.Format(w.Describe)
	assert.Contains(t, strings.Join(body(out), "\n"), "widget.Describe(")
}

func TestFormatType(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(reflect.TypeOf(widget{}))
	assert.Contains(t, topBorder(out), ":: reflect.Type @")
	lines := body(out)
	assert.Contains(t, lines, "// widget is a sample object with fields and methods.")
	assert.Contains(t, lines, "type widget from github.com/bjaus/peek_test")
	assert.Contains(t, lines, "implements fmt.Stringer")
}

func TestFormatTypeNamer(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(named{})
	assert.Contains(t, topBorder(out), ":: CustomName @")
}

func TestFormatAs(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.FormatAs("Override", 1)
	assert.Contains(t, topBorder(out), ` FormatAs("Override", 1) :: Override @ peek_test.go:`)
}

func TestFormatYAMLNode(t *testing.T) {
	t.Parallel()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("a: 1\n"), &n))
	ins, _ := newInspector()
	out := ins.Format(&n)
	joined := strings.Join(body(out), "\n")
	assert.Contains(t, joined, "yaml.Marshal():")
	assert.Contains(t, joined, "a: 1")
	assert.Contains(t, joined, ".Kind:")
}

func TestFormatLongValueTruncatesBorder(t *testing.T) {
	t.Parallel()
	ins, _ := newInspector()
	out := ins.Format(strings.Repeat("x", 200))
	top := topBorder(out)
	assert.True(t, strings.HasSuffix(top, " ... \\"), top)
}

func TestLog(t *testing.T) {
	t.Parallel()
	ins, c := newInspector()
	ins.Log("x")
	require.Len(t, c.msgs, 1)
	assert.Contains(t, c.msgs[0], ` Log("x") :: string[1] @ peek_test.go:`)
	assert.Contains(t, body(c.msgs[0]), `"x"`)
}

func TestConsoleLog(t *testing.T) {
	t.Parallel()
	ins, c := newInspector()
	ins.Console().Log(7)
	require.Len(t, c.msgs, 1)
	assert.Contains(t, c.msgs[0], " Log(7) :: int @ peek_test.go:")
}

func TestDie(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		die  func(ins *peek.Inspector)
		code int
		want string
	}{
		"default code": {
			die:  func(ins *peek.Inspector) { ins.Die("boom") },
			code: 1,
			want: `Die("boom")`,
		},
		"custom code": {
			die:  func(ins *peek.Inspector) { ins.DieWith(3, "boom") },
			code: 3,
			want: `DieWith(3, "boom")`,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			code := -1
			ins, c := newInspector(peek.WithExit(func(n int) {
				code = n
			}))
			tt.die(ins)
			assert.Equal(t, tt.code, code)
			require.Len(t, c.msgs, 1)
			assert.Contains(t, c.msgs[0], tt.want)
			assert.Contains(t, body(c.msgs[0]), `"boom"`)
		})
	}
}

func TestTrace(t *testing.T) {
	t.Parallel()
	ins, c := newInspector()
	traceOuter(ins)
	require.Len(t, c.msgs, 1)
	msg := c.msgs[0]
	assert.Contains(t, topBorder(msg), " Trace() :: peek.Stack[")
	assert.Contains(t, msg, "peek_test.traceInner")
	assert.Contains(t, msg, "peek_test.traceMiddle")
	assert.Contains(t, msg, "peek_test.traceOuter")
	assert.NotContains(t, msg, "(*Inspector).Trace")
}

func TestProductionMode(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	code := -1
	ins, c := newInspector(
		peek.WithConfig(peek.Config{Production: true}),
		peek.WithOutput(&buf),
		peek.WithExit(func(n int) { code = n }),
	)
	ins.Log(1)
	ins.Dump(1)
	ins.Trace()
	ins.Console().Log(1)
	assert.Empty(t, ins.Format(1))
	assert.Empty(t, c.msgs)
	assert.Empty(t, buf.String())

	ins.DieWith(4, "x")
	assert.Equal(t, 4, code)
	assert.Empty(t, c.msgs)
}

func TestNewLoggerSink(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ins := peek.New(peek.WithSink(peek.NewLogger(&buf, peek.DefaultConfig())))
	ins.Log(7)
	assert.Contains(t, buf.String(), "Log(7)")
}

func TestSlogSink(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ins := peek.New(peek.WithSink(peek.SlogSink(slog.New(slog.NewTextHandler(&buf, nil)))))
	ins.Log(7)
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "Log(7)")
}

func TestSinkFunc(t *testing.T) {
	t.Parallel()
	var got []any
	ins := peek.New(peek.WithSink(peek.SinkFunc(func(msg any, _ ...any) {
		got = append(got, msg)
	})))
	ins.Log(7)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Log(7)")
}

func TestPackageFormat(t *testing.T) {
	t.Parallel()
	out := peek.Format(42)
	assert.Contains(t, topBorder(out), " Format(42) :: int @ peek_test.go:")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PEEK_PRODUCTION", "true")
	t.Setenv("PEEK_LOG_PREFIX", "dev")
	cfg, err := peek.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Production)
	assert.Equal(t, "dev", cfg.LogPrefix)
	assert.True(t, cfg.InvokeMethods)
	assert.Equal(t, []string{"String", "GoString", "Dump"}, cfg.Invokers)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("PEEK_PRODUCTION", "not-a-bool")
	cfg, err := peek.LoadConfig()
	require.Error(t, err)
	assert.Equal(t, peek.DefaultConfig(), cfg)
}
