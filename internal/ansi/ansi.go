// Package ansi provides the colour presets used for syntax themes.
// Values are colour specs understood by lipgloss: "#rrggbb" for true colour,
// a decimal string for the xterm 256 palette ("1" is red). An empty spec
// means "leave uncoloured". The 256-colour presets are derived from
// pkt.systems/pslog/ansi (MIT License).
package ansi

// Palette assigns a colour to every token class produced by the highlighter
// plus the two accents used by the trace chrome.
type Palette struct {
	Keyword     string
	Builtin     string
	ClassName   string
	Function    string
	Boolean     string
	Number      string
	String      string
	Char        string
	Symbol      string
	Regex       string
	URL         string
	Operator    string
	Variable    string
	Constant    string
	Property    string
	Punctuation string
	Important   string
	Comment     string
	// Underline colours the marker under the failing token.
	Underline string
	// ErrorName colours the error name in the summary line.
	ErrorName string
}

// PalettePrismTomorrow is the Prism "Tomorrow Night" theme.
var PalettePrismTomorrow = Palette{
	Keyword:   "#cc99cd",
	Builtin:   "#cc99cd",
	ClassName: "#f8c555",
	Function:  "#f08d49",
	Boolean:   "#f08d49",
	Number:    "#f08d49",
	String:    "#7ec699",
	Char:      "#7ec699",
	Symbol:    "#f8c555",
	Regex:     "#7ec699",
	URL:       "#67cdcc",
	Operator:  "#67cdcc",
	Variable:  "#7ec699",
	Constant:  "#f8c555",
	Property:  "#f8c555",
	Important: "#cc99cd",
	Comment:   "#999999",
	Underline: "1",
	ErrorName: "1",
}

// PaletteClassic sticks to the 16 base colours.
var PaletteClassic = Palette{
	Keyword:   "5",
	Builtin:   "5",
	ClassName: "3",
	Function:  "11",
	Boolean:   "11",
	Number:    "13",
	String:    "2",
	Char:      "2",
	Symbol:    "3",
	Regex:     "2",
	URL:       "6",
	Operator:  "6",
	Variable:  "2",
	Constant:  "3",
	Property:  "6",
	Important: "13",
	Comment:   "8",
	Underline: "9",
	ErrorName: "9",
}

// PaletteCatppuccinMocha recreates Catppuccin Mocha with soft pastels and rosewater highlights.
var PaletteCatppuccinMocha = Palette{
	Keyword:     "183",
	Builtin:     "183",
	ClassName:   "223",
	Function:    "217",
	Boolean:     "216",
	Number:      "147",
	String:      "150",
	Char:        "150",
	Symbol:      "223",
	Regex:       "152",
	URL:         "110",
	Operator:    "152",
	Variable:    "150",
	Constant:    "216",
	Property:    "182",
	Punctuation: "244",
	Important:   "211",
	Comment:     "240",
	Underline:   "211",
	ErrorName:   "205",
}

// PaletteDoomDracula mirrors doom-dracula with pink, purple, and cyan accents.
var PaletteDoomDracula = Palette{
	Keyword:     "219",
	Builtin:     "219",
	ClassName:   "117",
	Function:    "147",
	Boolean:     "141",
	Number:      "141",
	String:      "228",
	Char:        "228",
	Symbol:      "117",
	Regex:       "204",
	URL:         "81",
	Operator:    "219",
	Variable:    "228",
	Constant:    "141",
	Property:    "111",
	Punctuation: "95",
	Important:   "198",
	Comment:     "60",
	Underline:   "204",
	ErrorName:   "198",
}

// PaletteTokyoNight draws on Tokyo Night's neon blues, violets, and warm highlights.
var PaletteTokyoNight = Palette{
	Keyword:     "141",
	Builtin:     "117",
	ClassName:   "110",
	Function:    "111",
	Boolean:     "173",
	Number:      "173",
	String:      "150",
	Char:        "150",
	Symbol:      "176",
	Regex:       "74",
	URL:         "74",
	Operator:    "117",
	Variable:    "218",
	Constant:    "173",
	Property:    "69",
	Punctuation: "244",
	Important:   "210",
	Comment:     "239",
	Underline:   "210",
	ErrorName:   "205",
}

// PaletteGruvboxLight is a Gruvbox light variant with warm browns and turquoise hints.
var PaletteGruvboxLight = Palette{
	Keyword:     "124",
	Builtin:     "130",
	ClassName:   "136",
	Function:    "66",
	Boolean:     "132",
	Number:      "132",
	String:      "100",
	Char:        "100",
	Symbol:      "136",
	Regex:       "108",
	URL:         "73",
	Operator:    "166",
	Variable:    "100",
	Constant:    "132",
	Property:    "66",
	Punctuation: "180",
	Important:   "161",
	Comment:     "245",
	Underline:   "167",
	ErrorName:   "161",
}

// PaletteSynthwave84 channels synthwave aesthetics with glowing magentas, cyans, and gold accents.
var PaletteSynthwave84 = Palette{
	Keyword:     "220",
	Builtin:     "220",
	ClassName:   "207",
	Function:    "51",
	Boolean:     "207",
	Number:      "207",
	String:      "219",
	Char:        "219",
	Symbol:      "198",
	Regex:       "81",
	URL:         "45",
	Operator:    "45",
	Variable:    "219",
	Constant:    "207",
	Property:    "198",
	Punctuation: "102",
	Important:   "201",
	Comment:     "60",
	Underline:   "205",
	ErrorName:   "200",
}
