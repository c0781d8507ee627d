package prettytrace

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const viewSource = `function render(props) {
  return props.user.name;
}
render({});
`

func asciiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// writeSource writes content to name inside a fresh temp dir and returns the
// directory and the absolute file path.
func writeSource(t testing.TB, name, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return dir, path
}

// viewError is the TypeError a Node process throws for viewSource.
func viewError(path string) *Error {
	stack := strings.Join([]string{
		"TypeError: Cannot read properties of undefined (reading 'name')",
		"    at render (" + path + ":2:21)",
		"    at Object.<anonymous> (" + path + ":4:1)",
	}, "\n")
	return &Error{
		Name:    "TypeError",
		Message: "Cannot read properties of undefined (reading 'name')",
		Stack:   stack,
	}
}

func plainOptions(workDir string) *Options {
	opts := *DefaultOptions
	opts.Theme = "none"
	opts.WorkDir = workDir
	return &opts
}

type errWriter struct{}

func (errWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("write err")
}

type stackError struct {
	msg   string
	stack string
}

func (e *stackError) Error() string { return e.msg }
func (e *stackError) Stack() string { return e.stack }
func (e *stackError) Name() string  { return "ValidationError" }
