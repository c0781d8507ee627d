package prettytrace

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoStack is returned when an error carries no stack text to format.
var ErrNoStack = errors.New("prettytrace: error has no stack trace")

// ErrNotFrame is returned by ParseFrame for lines that are not "at ..." frames.
var ErrNotFrame = errors.New("prettytrace: not a stack frame line")

// ErrMalformedFrame is the sentinel wrapped by MalformedFrameError.
var ErrMalformedFrame = errors.New("prettytrace: malformed stack frame")

// MalformedFrameError reports a frame line whose location could not be parsed,
// such as "at Array.forEach (<anonymous>)". FunctionName and Location hold
// what the line does carry.
type MalformedFrameError struct {
	Line         string
	Reason       string
	FunctionName string
	Location     string
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("prettytrace: malformed stack frame %q: %s", strings.TrimSpace(e.Line), e.Reason)
}

func (e *MalformedFrameError) Unwrap() error { return ErrMalformedFrame }

// StackFrame is one call site extracted from a textual stack trace.
type StackFrame struct {
	Filename string `json:"filename"`
	// FunctionName is empty when the frame has no parenthesised call site.
	FunctionName string `json:"function,omitempty"`
	Line         int    `json:"line"`
	Column       int    `json:"column"`
}

const (
	frameMarker   = "at "
	fileURLPrefix = "file://"
)

// ParseFrame extracts the file, function, line and column from one stack
// trace line such as
//
//	at foo (/abs/path/file.js:12:5)
//	at /abs/path/file.js:12:5
//	at file:///abs/path/file.mjs:3:1
func ParseFrame(line string) (StackFrame, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, frameMarker) {
		return StackFrame{}, ErrNotFrame
	}

	var frame StackFrame
	var location string
	open := strings.IndexByte(trimmed, '(')
	if open >= 0 && strings.HasSuffix(trimmed, ")") {
		frame.FunctionName = strings.TrimSpace(trimmed[len(frameMarker):open])
		location = trimmed[open+1 : len(trimmed)-1]
	} else {
		location = strings.TrimSpace(trimmed[len(frameMarker):])
	}

	if strings.HasPrefix(location, fileURLPrefix) {
		location = fileURLToPath(location)
	}

	filename, lineNo, col, reason := scanLocation(location)
	if reason != "" {
		return StackFrame{}, &MalformedFrameError{
			Line:         line,
			Reason:       reason,
			FunctionName: frame.FunctionName,
			Location:     location,
		}
	}
	frame.Filename = filename
	frame.Line = lineNo
	frame.Column = col
	return frame, nil
}

// ParseStack parses every frame line of a V8-style stack text. Lines that are
// not frames (the error header, continuation lines of a multi-line message)
// are ignored. Frames are returned innermost first, as they appear in the
// text.
func ParseStack(stack string) ([]StackFrame, error) {
	if strings.TrimSpace(stack) == "" {
		return nil, ErrNoStack
	}
	var frames []StackFrame
	for _, line := range strings.Split(stack, "\n") {
		frame, err := ParseFrame(line)
		if errors.Is(err, ErrNotFrame) {
			continue
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// fileURLToPath turns a file:// URL (which still carries the :line:col
// suffix) into a plain path.
func fileURLToPath(location string) string {
	path := ""
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		path = u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = "//" + u.Host + path
		}
	} else {
		path = strings.TrimPrefix(location, fileURLPrefix)
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	}
	// file:///C:/dir/file.js -> C:/dir/file.js
	if len(path) >= 3 && path[0] == '/' && isDriveLetter(path[1]) && path[2] == ':' {
		path = path[1:]
	}
	return path
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

type scanState int

const (
	scanningColumn scanState = iota
	scanningLine
	remainderIsFilename
)

// scanLocation splits "path:line:col" from the right. Paths may contain
// colons themselves (C:\dir\file.js:4:2), so only the last two
// colon-delimited digit runs are taken as numbers.
func scanLocation(location string) (filename string, line, col int, reason string) {
	state := scanningColumn
	end := len(location)
	i := len(location) - 1
	for state != remainderIsFilename {
		start := i
		for i >= 0 && location[i] >= '0' && location[i] <= '9' {
			i--
		}
		digits := location[i+1 : end]
		if digits == "" {
			if state == scanningColumn {
				return "", 0, 0, "missing column number"
			}
			return "", 0, 0, "missing line number"
		}
		if i < 0 || location[i] != ':' {
			return "", 0, 0, fmt.Sprintf("expected ':' before %q", location[i+1:start+1])
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n <= 0 {
			return "", 0, 0, fmt.Sprintf("invalid number %q", digits)
		}
		switch state {
		case scanningColumn:
			col = n
			state = scanningLine
		case scanningLine:
			line = n
			state = remainderIsFilename
		}
		end = i
		i--
	}
	filename = location[:end]
	if filename == "" {
		return "", 0, 0, "missing file name"
	}
	return filename, line, col, ""
}
