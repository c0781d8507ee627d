package prettytrace

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

const maxStackDepth = 64

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

var goFuncReplacer = strings.NewReplacer("(", "", ")", "", "*", "")

// fromPkgErrors synthesises a V8-style stack from the innermost pkg/errors
// stack found in err's chain.
func fromPkgErrors(err error) (*Error, bool) {
	var origin stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			origin = st
		}
	}
	if origin == nil {
		return nil, false
	}
	trace := origin.StackTrace()
	if len(trace) == 0 {
		return nil, false
	}
	pcs := make([]uintptr, len(trace))
	for i, f := range trace {
		pcs[i] = uintptr(f)
	}
	return synthesise(errorName(err), err.Error(), callerFrames(pcs)), true
}

// FromPanic builds an Error for a recovered panic value. It must be called
// from the deferred function that recovered, while the panicking stack is
// still in place.
func FromPanic(v any) *Error {
	if err, ok := v.(error); ok {
		if e, ferr := FromError(err); ferr == nil {
			return e
		}
	}

	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := callerFrames(pcs[:n])
	for i, f := range frames {
		if f.Function == "runtime.gopanic" || f.Function == "runtime.panicmem" {
			frames = frames[i+1:]
			break
		}
	}
	kept := frames[:0]
	for _, f := range frames {
		if strings.HasPrefix(f.Function, "runtime.") {
			continue
		}
		kept = append(kept, f)
	}

	name := "panic"
	var re runtime.Error
	if err, ok := v.(error); ok {
		name = errorName(err)
		if errors.As(err, &re) {
			name = "RuntimeError"
		}
	}
	return synthesise(name, fmt.Sprint(v), kept)
}

func callerFrames(pcs []uintptr) []runtime.Frame {
	var out []runtime.Frame
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.Function != "" && frame.File != "" {
			out = append(out, frame)
		}
		if !more {
			break
		}
	}
	return out
}

// synthesise renders Go frames in the V8 layout so they go through the same
// locator as JavaScript traces. Go reports no columns; the first non-blank
// column of the source line is used instead.
func synthesise(name, message string, frames []runtime.Frame) *Error {
	cache := newSourceCache(nil)
	var sb strings.Builder
	sb.WriteString(name)
	if message != "" {
		sb.WriteString(": ")
		sb.WriteString(message)
	}
	for _, f := range frames {
		col := 1
		if lines, err := cache.lines(f.File); err == nil {
			col = firstCodeColumn(lines, f.Line)
		}
		fmt.Fprintf(&sb, "\n    at %s (%s:%d:%d)", shortFuncName(f.Function), f.File, f.Line, col)
	}
	return &Error{Name: name, Message: message, Stack: sb.String()}
}

// shortFuncName drops the import path and the receiver punctuation so the
// name cannot be confused with the parenthesised location.
func shortFuncName(fn string) string {
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return goFuncReplacer.Replace(fn)
}
