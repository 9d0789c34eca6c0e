// Package stacktrace implements the stack-trace text format this tool
// reads and writes: parsing it into a small AST, and rewriting every name
// in it through a mapper.
package stacktrace

import (
	"fmt"
	"strings"

	"github.com/octylFractal/stacked-portrayals/types"
)

// Stacktrace is one parsed JVM stack trace: the exception type, its
// message, and the ordered frames beneath it. Nested "Caused by" chains are
// not modeled; see spec.md's Non-goals.
type Stacktrace struct {
	Type    types.Type
	Message string
	Frames  []Frame
}

// Frame is one "\tat [module/]class.method(file[:line])" line.
type Frame struct {
	Module *string
	Class  string
	Method string
	File   string
	Line   *uint32
}

// String renders the trace using the canonical JVM-printed layout:
// "<type>: <message>\n" followed by "\tat <frame>\n" per frame.
func (st Stacktrace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", st.Type, st.Message)
	for _, f := range st.Frames {
		fmt.Fprintf(&b, "\tat %s\n", f)
	}
	return b.String()
}

// String renders one frame in the canonical layout.
func (f Frame) String() string {
	var b strings.Builder
	if f.Module != nil {
		b.WriteString(*f.Module)
		b.WriteByte('/')
	}
	fmt.Fprintf(&b, "%s.%s(%s", f.Class, f.Method, f.File)
	if f.Line != nil {
		fmt.Fprintf(&b, ":%d", *f.Line)
	}
	b.WriteByte(')')
	return b.String()
}
