package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// StackFrame represents a single frame in a stack trace.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
}

// ContextError wraps an error with a context message and optional stack trace.
type ContextError struct {
	Message string
	Cause   error
	Stack   []StackFrame
}

func (e *ContextError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContextf wraps an error with a formatted context message.
func WithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// WithStack wraps an error with context and captures the current stack.
// An error that already carries a stack is returned unchanged.
func WithStack(err error, message string) error {
	if err == nil {
		return nil
	}
	if len(GetStack(err)) > 0 {
		return err
	}
	return &ContextError{
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// captureStack captures the current stack trace, skipping the specified number of frames.
func captureStack(skip int) []StackFrame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip+1, pcs[:])

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)

	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") &&
			!strings.HasPrefix(frame.Function, "testing.") {
			stack = append(stack, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}

	return stack
}

// GetStack extracts the stack trace from an error if available.
func GetStack(err error) []StackFrame {
	var contextErr *ContextError
	if As(err, &contextErr) {
		return contextErr.Stack
	}
	return nil
}

// Chain returns the full error chain as a slice of error messages.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = Unwrap(err)
	}
	return chain
}

// RootCause returns the deepest wrapped error in the chain.
func RootCause(err error) error {
	for {
		unwrapped := Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
