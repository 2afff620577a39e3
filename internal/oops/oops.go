// Package oops wraps errors with the call stack they were raised from, so the
// CLI can print where a decode failed and not only why.
package oops

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-stack/stack"
	"github.com/rs/zerolog"
)

type Error struct {
	Message string
	Wrapped error
	Stack   CallStack
}

// New wraps err, which may be nil, with a formatted message and the caller's
// stack.
func New(wrapped error, format string, args ...any) error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Wrapped: wrapped,
		Stack:   capture(),
	}
}

func (e *Error) Error() string {
	if e.Wrapped == nil {
		return e.Message
	}
	return e.Message + ": " + e.Wrapped.Error()
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Format prints the stack below the message for %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, e.Error())
	if verb == 'v' && s.Flag('+') {
		fmt.Fprint(s, "\n", e.Stack)
	}
}

// StackOf returns the stack of the outermost *Error in err's chain.
func StackOf(err error) CallStack {
	var e *Error
	if errors.As(err, &e) {
		return e.Stack
	}
	return nil
}

// ZerologStackMarshaler is meant for zerolog.ErrorStackMarshaler. Errors
// without a stack anywhere in their chain log no stack field.
func ZerologStackMarshaler(err error) interface{} {
	if s := StackOf(err); s != nil {
		return s
	}
	return nil
}

type CallStack []StackFrame

// Trace captures the caller's stack.
func Trace() CallStack { return capture() }

func (s CallStack) MarshalZerologArray(a *zerolog.Array) {
	for _, frame := range s {
		a.Object(frame)
	}
}

func (s CallStack) String() string {
	var b strings.Builder
	for _, frame := range s {
		b.WriteString("    ")
		b.WriteString(frame.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// String prints the function and the file's last directory, which is enough
// to find it inside this module.
func (f StackFrame) String() string {
	file := path.Join(path.Base(path.Dir(f.File)), path.Base(f.File))
	return fmt.Sprintf("%s (%s:%d)", f.Function, file, f.Line)
}

func (f StackFrame) MarshalZerologObject(e *zerolog.Event) {
	e.Str("function", f.Function).Str("file", f.File).Int("line", f.Line)
}

// capture records the stack of whoever called into this package: stack.Trace
// starts at capture, then comes New or Trace.
func capture() CallStack {
	calls := stack.Trace().TrimRuntime()
	if len(calls) > 2 {
		calls = calls[2:]
	}
	frames := make(CallStack, len(calls))
	for i, call := range calls {
		f := call.Frame()
		frames[i] = StackFrame{Function: f.Function, File: f.File, Line: f.Line}
	}
	return frames
}
