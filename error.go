package prettytrace

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an error-like value with a name, a message and a V8-style stack:
//
//	TypeError: Cannot read properties of undefined (reading 'x')
//	    at render (/srv/app/view.js:14:22)
//	    at /srv/app/index.js:3:1
type Error struct {
	Name    string
	Message string
	Stack   string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// Format implements fmt.Formatter. %+v prints the pretty rendering while a
// default renderer is installed (see Install) and the raw stack otherwise.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if opts, ok := installedOptions(); ok {
				if out, err := Format(e, opts); err == nil {
					fmt.Fprint(s, out)
					return
				}
			}
			if e.Stack != "" {
				fmt.Fprint(s, e.Stack)
				return
			}
		}
		fmt.Fprint(s, e.Error())
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// frameLines returns the frame lines of the stack, innermost first.
func (e *Error) frameLines() []string {
	var lines []string
	for _, line := range strings.Split(e.Stack, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), frameMarker) {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseError splits captured V8 stack text into an Error. The name is the
// text before the first ": " of the first line; the message runs until the
// first frame line.
func ParseError(text string) (*Error, error) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	text = strings.TrimLeft(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoStack
	}
	lines := strings.Split(text, "\n")
	header := lines[0]
	var msg []string
	rest := lines[1:]
	for len(rest) > 0 && !strings.HasPrefix(strings.TrimSpace(rest[0]), frameMarker) {
		msg = append(msg, rest[0])
		rest = rest[1:]
	}

	e := &Error{Stack: text}
	if strings.HasPrefix(strings.TrimSpace(header), frameMarker) {
		// Stack without a header line.
		e.Name = "Error"
		return e, nil
	}
	name, message, found := strings.Cut(header, ": ")
	if !found {
		name = strings.TrimSuffix(header, ":")
	}
	e.Name = strings.TrimSpace(name)
	var parts []string
	if found {
		parts = append(parts, message)
	}
	e.Message = strings.Join(append(parts, msg...), "\n")
	return e, nil
}

// stacker is implemented by errors that expose their own V8-style stack text.
type stacker interface {
	Stack() string
}

// namer lets an error choose the name shown in the summary line.
type namer interface {
	Name() string
}

// FromError converts err into an Error. *Error values are returned as is,
// errors with a Stack() string method are wrapped, errors created with
// github.com/pkg/errors get a stack synthesised from their program counters.
// Anything else has no stack and yields ErrNoStack.
func FromError(err error) (*Error, error) {
	if err == nil {
		return nil, errors.New("prettytrace: nil error")
	}
	var pe *Error
	if errors.As(err, &pe) {
		if strings.TrimSpace(pe.Stack) == "" {
			return nil, ErrNoStack
		}
		return pe, nil
	}
	var st stacker
	if errors.As(err, &st) {
		stack := st.Stack()
		if strings.TrimSpace(stack) == "" {
			return nil, ErrNoStack
		}
		e, perr := ParseError(stack)
		if perr != nil {
			return nil, perr
		}
		e.Name = errorName(err)
		e.Message = err.Error()
		return e, nil
	}
	if e, ok := fromPkgErrors(err); ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNoStack, err)
}

func errorName(err error) string {
	var n namer
	if errors.As(err, &n) && n.Name() != "" {
		return n.Name()
	}
	return "Error"
}
