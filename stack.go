package peek

import (
	"os"
	"runtime"
	"strings"
)

const maxFrames = 64

// Frame is one captured call site.
type Frame struct {
	File     string
	Line     int
	Function string
	// Source is the trimmed text of the line, empty when unavailable.
	Source string
}

// Stack is a captured call stack, most recent call first.
type Stack []Frame

// captureStack returns the frames above its caller, dropping the first skip
// of them and any trailing runtime frames. It never panics.
func captureStack(skip int, readSource bool) (s Stack) {
	defer func() {
		if recover() != nil {
			s = nil
		}
	}()
	pcs := make([]uintptr, maxFrames+skip+1)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	src := sourceCache{}
	dropped := 0
	for {
		f, more := frames.Next()
		switch {
		case dropped <= skip:
			dropped++
		case strings.HasPrefix(f.Function, "runtime."):
		default:
			frame := Frame{File: f.File, Line: f.Line, Function: f.Function}
			if readSource {
				frame.Source = src.line(f.File, f.Line)
			}
			s = append(s, frame)
		}
		if !more || len(s) == maxFrames {
			break
		}
	}
	return s
}

// entry returns the frame of the public entry point.
func (s Stack) entry() Frame {
	if len(s) == 0 {
		return Frame{}
	}
	return s[0]
}

// caller returns the frame that called the entry point.
func (s Stack) caller() Frame {
	if len(s) < 2 {
		return s.entry()
	}
	return s[1]
}

// shortName strips the package path and receiver from a runtime function
// name: "example.com/pkg.(*T).Log" becomes "Log".
func shortName(function string) string {
	if i := strings.LastIndexByte(function, '.'); i >= 0 {
		return function[i+1:]
	}
	return function
}

type sourceCache map[string][]string

func (c sourceCache) line(file string, line int) string {
	lines, ok := c[file]
	if !ok {
		data, err := os.ReadFile(file)
		if err == nil {
			lines = strings.Split(string(data), "\n")
		}
		c[file] = lines
	}
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
