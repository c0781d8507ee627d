package prettytrace

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"pkt.systems/prettytrace/internal/ansi"
)

// ColorPalette holds the lipgloss styles for each token class of the excerpt
// and for the trace chrome (gutter, header, underline, summary).
type ColorPalette struct {
	Plain       lipgloss.Style
	Keyword     lipgloss.Style
	Builtin     lipgloss.Style
	ClassName   lipgloss.Style
	Function    lipgloss.Style
	Boolean     lipgloss.Style
	Number      lipgloss.Style
	String      lipgloss.Style
	Char        lipgloss.Style
	Symbol      lipgloss.Style
	Regex       lipgloss.Style
	URL         lipgloss.Style
	Operator    lipgloss.Style
	Variable    lipgloss.Style
	Constant    lipgloss.Style
	Property    lipgloss.Style
	Punctuation lipgloss.Style
	Important   lipgloss.Style
	Comment     lipgloss.Style
	Underline   lipgloss.Style
	ErrorName   lipgloss.Style
}

// styleFor maps a token type to its style. Types without an entry render
// uncoloured.
func (p ColorPalette) styleFor(tokenType string) lipgloss.Style {
	switch tokenType {
	case "keyword":
		return p.Keyword
	case "builtin":
		return p.Builtin
	case "class-name":
		return p.ClassName
	case "function":
		return p.Function
	case "boolean":
		return p.Boolean
	case "number":
		return p.Number
	case "string":
		return p.String
	case "char":
		return p.Char
	case "symbol":
		return p.Symbol
	case "regex":
		return p.Regex
	case "url":
		return p.URL
	case "operator":
		return p.Operator
	case "variable":
		return p.Variable
	case "constant":
		return p.Constant
	case "property":
		return p.Property
	case "punctuation":
		return p.Punctuation
	case "important":
		return p.Important
	case "comment":
		return p.Comment
	default:
		return p.Plain
	}
}

// baseStyle keeps tabs intact so excerpt columns line up with the source.
func baseStyle(renderer *lipgloss.Renderer) lipgloss.Style {
	return renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

func colored(renderer *lipgloss.Renderer, spec string) lipgloss.Style {
	s := baseStyle(renderer)
	if spec == "" {
		return s
	}
	return s.Foreground(lipgloss.Color(spec))
}

func paletteFromAnsi(renderer *lipgloss.Renderer, ap ansi.Palette) ColorPalette {
	if renderer == nil {
		renderer = lipgloss.NewRenderer(os.Stdout)
	}
	return ColorPalette{
		Plain:       baseStyle(renderer),
		Keyword:     colored(renderer, ap.Keyword),
		Builtin:     colored(renderer, ap.Builtin),
		ClassName:   colored(renderer, ap.ClassName),
		Function:    colored(renderer, ap.Function),
		Boolean:     colored(renderer, ap.Boolean),
		Number:      colored(renderer, ap.Number),
		String:      colored(renderer, ap.String),
		Char:        colored(renderer, ap.Char),
		Symbol:      colored(renderer, ap.Symbol),
		Regex:       colored(renderer, ap.Regex),
		URL:         colored(renderer, ap.URL),
		Operator:    colored(renderer, ap.Operator),
		Variable:    colored(renderer, ap.Variable),
		Constant:    colored(renderer, ap.Constant),
		Property:    colored(renderer, ap.Property),
		Punctuation: colored(renderer, ap.Punctuation),
		Important:   colored(renderer, ap.Important).Bold(true),
		Comment:     colored(renderer, ap.Comment),
		Underline:   colored(renderer, ap.Underline),
		ErrorName:   colored(renderer, ap.ErrorName),
	}
}

// NoColorPalette disables all styling while keeping the render path shared.
func NoColorPalette(renderer *lipgloss.Renderer) ColorPalette {
	if renderer == nil {
		renderer = lipgloss.NewRenderer(os.Stdout)
	}
	base := baseStyle(renderer)
	return ColorPalette{
		Plain:       base,
		Keyword:     base,
		Builtin:     base,
		ClassName:   base,
		Function:    base,
		Boolean:     base,
		Number:      base,
		String:      base,
		Char:        base,
		Symbol:      base,
		Regex:       base,
		URL:         base,
		Operator:    base,
		Variable:    base,
		Constant:    base,
		Property:    base,
		Punctuation: base,
		Important:   base,
		Comment:     base,
		Underline:   base,
		ErrorName:   base,
	}
}
