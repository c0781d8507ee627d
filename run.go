package prettytrace

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-colorable"
)

var (
	stderr io.Writer = colorable.NewColorableStderr()
	exit             = os.Exit
)

// Run calls fn. If fn returns an error or panics, the pretty rendering is
// printed to stderr and the process exits with status 1; control never
// returns to the caller after a failure.
//
//	func main() {
//		prettytrace.Run(run, &prettytrace.Options{SkipNodeFiles: true})
//	}
func Run(fn func() error, opts *Options) {
	if err := guard(fn); err != nil {
		report(stderr, err, opts)
		exit(1)
	}
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = FromPanic(r)
		}
	}()
	return fn()
}

// report prints the rendering of err, or err itself when it cannot be
// rendered (no stack, malformed frame).
func report(w io.Writer, err error, opts *Options) {
	out, ferr := FormatWithRenderer(err, opts, lipgloss.NewRenderer(w))
	if ferr != nil {
		fmt.Fprintf(w, "%v\n(prettytrace: %v)\n", err, ferr)
		return
	}
	fmt.Fprintln(w, out)
}
