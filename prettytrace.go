package prettytrace

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Options controls how a trace is rendered.
type Options struct {
	// Underline is the string repeated under the failing token. Default "‾".
	Underline string
	// NoTrace renders only the frame that threw.
	NoTrace bool
	// PlainUnderline underlines a single character instead of sizing the
	// underline to the token at the error column.
	PlainUnderline bool
	// SkipNodeFiles drops frames from Node.js internals ("node:" paths).
	SkipNodeFiles bool
	// SkipModules drops frames under node_modules/<name> for each name.
	SkipModules []string
	// SkipPaths drops frames whose file name matches one of the glob
	// patterns ("*" is the only wildcard).
	SkipPaths []string
	// SkipMalformed drops frame lines that carry no file:line:column, such
	// as "at new Promise (<anonymous>)", instead of rendering them header-only.
	SkipMalformed bool
	// Theme names the colour theme (see ThemeNames). "none" disables colour.
	Theme string
	// Language names the lexer used for excerpts. Default "javascript";
	// "auto" picks one from the frame's file name.
	Language string
	// WorkDir is the directory frame paths are shown relative to. Defaults to
	// the process working directory.
	WorkDir string
	// Logger receives debug entries about skipped frames and unreadable
	// sources. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions holds the fallback render configuration.
var DefaultOptions = &Options{Underline: defaultUnderline}

// Format renders err as a colourised, annotated trace. The renderer adapts
// to the detected colour capabilities of os.Stdout.
func Format(err error, opts *Options) (string, error) {
	return FormatWithRenderer(err, opts, lipgloss.NewRenderer(os.Stdout))
}

// FormatWithRenderer mirrors Format but lets callers choose the lipgloss
// renderer, and with it the colour profile.
func FormatWithRenderer(err error, opts *Options, renderer *lipgloss.Renderer) (string, error) {
	e, ferr := FromError(err)
	if ferr != nil {
		return "", ferr
	}
	if opts == nil {
		opts = DefaultOptions
	}
	if renderer == nil {
		renderer = lipgloss.NewRenderer(os.Stdout)
	}
	palette, perr := resolvePalette(opts, renderer)
	if perr != nil {
		return "", perr
	}
	a := newAssembler(opts, palette)
	frames, rerr := a.frames(e)
	if rerr != nil {
		return "", rerr
	}

	buf := acquireBuffer()
	defer releaseBuffer(buf)
	a.write(buf, e, frames)
	return buf.String(), nil
}

// FormatTo writes the rendering of err, followed by a newline, to w using a
// renderer bound to w. Colours degrade automatically when w is not a TTY.
func FormatTo(w io.Writer, err error, opts *Options) error {
	out, ferr := FormatWithRenderer(err, opts, lipgloss.NewRenderer(w))
	if ferr != nil {
		return ferr
	}
	_, werr := io.WriteString(w, out+"\n")
	return werr
}

func newAssembler(opts *Options, palette ColorPalette) *assembler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workDir := opts.WorkDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}
	return &assembler{
		opts:    opts,
		palette: palette,
		sources: newSourceCache(logger),
		logger:  logger,
		workDir: workDir,
	}
}
