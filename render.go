package prettytrace

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ryanuber/go-glob"
	"go.uber.org/zap"
)

const (
	nodeInternalPrefix = "node:"
	nodeModulesDir     = "node_modules"
	defaultUnderline   = "‾"
	unknownLocation    = "<unknown>"
)

// RenderedFrame is one frame ready for assembly.
type RenderedFrame struct {
	Frame StackFrame
	// HighlightedLine is the ANSI-coloured excerpt.
	HighlightedLine string
	// Source is the excerpt without styling.
	Source           string
	UnderlineLength  int
	HasSourceContent bool
}

type assembler struct {
	opts    *Options
	palette ColorPalette
	sources *sourceCache
	logger  *zap.Logger
	workDir string
}

// frames walks the stack from the outermost frame to the throw site (or only
// the throw site with NoTrace), applying the frame filters. Frames without a
// line and column (native code, eval, Promise internals) are kept header-only
// unless SkipMalformed drops them.
func (a *assembler) frames(e *Error) ([]RenderedFrame, error) {
	lines := e.frameLines()
	if a.opts.NoTrace && len(lines) > 1 {
		lines = lines[:1]
	}
	out := make([]RenderedFrame, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		frame, err := ParseFrame(lines[i])
		if err != nil {
			var mfe *MalformedFrameError
			if !errors.As(err, &mfe) {
				return nil, err
			}
			if a.opts.SkipMalformed {
				a.logger.Debug("skipping malformed frame", zap.String("line", strings.TrimSpace(lines[i])))
				continue
			}
			a.logger.Debug("frame has no location", zap.String("line", strings.TrimSpace(lines[i])), zap.String("reason", mfe.Reason))
			frame = StackFrame{Filename: mfe.Location, FunctionName: mfe.FunctionName}
		}
		if reason := a.skipReason(frame); reason != "" {
			a.logger.Debug("skipping frame", zap.String("file", frame.Filename), zap.String("reason", reason))
			continue
		}
		out = append(out, a.render(frame))
	}
	return out, nil
}

func (a *assembler) skipReason(frame StackFrame) string {
	if a.opts.SkipNodeFiles && strings.HasPrefix(frame.Filename, nodeInternalPrefix) {
		return "node internal"
	}
	for _, module := range a.opts.SkipModules {
		if module == "" {
			continue
		}
		if strings.Contains(frame.Filename, nodeModulesDir+"/"+module) ||
			strings.Contains(frame.Filename, nodeModulesDir+`\`+module) {
			return "module " + module
		}
	}
	for _, pattern := range a.opts.SkipPaths {
		if pattern != "" && glob.Glob(pattern, frame.Filename) {
			return "path " + pattern
		}
	}
	return ""
}

// render reads and highlights the frame's source line. A missing file or line
// leaves the frame without content rather than failing the trace.
func (a *assembler) render(frame StackFrame) RenderedFrame {
	rf := RenderedFrame{Frame: frame, UnderlineLength: 1}
	if frame.Line < 1 {
		return rf
	}
	line, ok := a.sources.line(frame.Filename, frame.Line)
	if !ok {
		return rf
	}
	stream, err := Tokenize(line, resolveLexer(a.opts.Language, frame.Filename))
	if err != nil {
		a.logger.Debug("tokenize failed", zap.String("file", frame.Filename), zap.Error(err))
		stream = TokenStream{Text(line)}
	}
	rf.HasSourceContent = true
	rf.Source = line
	rf.HighlightedLine = a.palette.Highlight(stream)
	rf.UnderlineLength = UnderlineLength(stream, frame.Column, !a.opts.PlainUnderline)
	return rf
}

// gutterWidth is the width of the widest line number among the frames.
func gutterWidth(frames []RenderedFrame) int {
	width := 0
	for _, f := range frames {
		if f.Frame.Line < 1 {
			continue
		}
		width = max(width, len(strconv.Itoa(f.Frame.Line)))
	}
	return width
}

func (a *assembler) write(buf *bytes.Buffer, e *Error, frames []RenderedFrame) {
	p := a.palette
	width := gutterWidth(frames)
	pad := strings.Repeat(" ", width)
	delim := p.Comment.Render("│")
	gutter := pad + " " + delim

	for i, f := range frames {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(a.header(f.Frame))
		if !f.HasSourceContent {
			continue
		}
		buf.WriteByte('\n')
		buf.WriteString(gutter)
		buf.WriteByte('\n')
		buf.WriteString(p.Number.Render(fmt.Sprintf("%*d", width, f.Frame.Line)))
		buf.WriteString(" " + delim + " ")
		buf.WriteString(f.HighlightedLine)
		buf.WriteByte('\n')
		buf.WriteString(gutter + " ")
		buf.WriteString(strings.Repeat(" ", f.Frame.Column-1))
		buf.WriteString(p.Underline.Render(strings.Repeat(a.underline(), f.UnderlineLength)))
	}
	if len(frames) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString(pad + " " + p.Comment.Render("╰──") + " ")
	buf.WriteString(p.ErrorName.Render(e.Name))
	buf.WriteString(p.Comment.Render(":") + " ")
	msg := strings.Split(e.Message, "\n")
	for i, line := range msg {
		msg[i] = p.Symbol.Render(line)
	}
	buf.WriteString(strings.Join(msg, "\n"))
}

func (a *assembler) header(frame StackFrame) string {
	p := a.palette
	location := a.relative(frame.Filename)
	switch {
	case frame.Line > 0:
		location = fmt.Sprintf("%s:%d:%d", location, frame.Line, frame.Column)
	case location == "":
		location = unknownLocation
	}
	h := p.Comment.Render("at") + " " + p.Symbol.Render(location)
	if frame.FunctionName != "" {
		h += " " + p.Comment.Render("in") + " " + p.Keyword.Render("function") + " " + p.Function.Render(frame.FunctionName)
	}
	return h
}

func (a *assembler) relative(filename string) string {
	if a.workDir == "" || !filepath.IsAbs(filename) {
		return filename
	}
	rel, err := filepath.Rel(a.workDir, filename)
	if err != nil {
		return filename
	}
	return rel
}

func (a *assembler) underline() string {
	if a.opts.Underline == "" {
		return defaultUnderline
	}
	return a.opts.Underline
}
