package prettytrace

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
	"pkt.systems/jpact"
)

// Report is the machine-readable counterpart of Format: the same frames,
// after the same filters, without styling.
type Report struct {
	Name    string        `json:"name"`
	Message string        `json:"message"`
	Frames  []ReportFrame `json:"frames"`
}

// ReportFrame describes one kept frame.
type ReportFrame struct {
	StackFrame
	// Path is Filename relative to the working directory.
	Path      string `json:"path"`
	Excerpt   string `json:"excerpt,omitempty"`
	Underline int    `json:"underline"`
	HasSource bool   `json:"has_source"`
}

// NewReport parses and filters err's stack like Format does and returns the
// result as a Report. Excerpts carry no escape sequences.
func NewReport(err error, opts *Options) (*Report, error) {
	e, ferr := FromError(err)
	if ferr != nil {
		return nil, ferr
	}
	if opts == nil {
		opts = DefaultOptions
	}
	a := newAssembler(opts, NoColorPalette(lipgloss.NewRenderer(io.Discard)))
	frames, rerr := a.frames(e)
	if rerr != nil {
		return nil, rerr
	}
	r := &Report{Name: e.Name, Message: e.Message, Frames: make([]ReportFrame, 0, len(frames))}
	for _, f := range frames {
		r.Frames = append(r.Frames, ReportFrame{
			StackFrame: f.Frame,
			Path:       a.relative(f.Frame.Filename),
			Excerpt:    f.Source,
			Underline:  f.UnderlineLength,
			HasSource:  f.HasSourceContent,
		})
	}
	return r, nil
}

var newlineBytes = []byte{'\n'}

// WriteReport writes r as indented JSON, or compacted to a single line when
// compact is true, followed by a newline. Several reports written in compact
// mode form a JSON Lines stream.
func WriteReport(w io.Writer, r *Report, compact bool) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if compact {
		if err := jpact.CompactWriter(w, bytes.NewReader(data), 0); err != nil {
			return err
		}
	} else if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write(newlineBytes)
	return err
}
