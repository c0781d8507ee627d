package prettytrace

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pkt.systems/prettytrace/internal/ansi"
)

const (
	themeDefaultName = "default"
	themeNoneName    = "none"
)

// ErrUnknownTheme is wrapped by the error returned for unregistered theme names.
var ErrUnknownTheme = errors.New("unknown theme")

var themeRegistry = map[string]ansi.Palette{
	themeDefaultName:   ansi.PalettePrismTomorrow,
	"prism-tomorrow":   ansi.PalettePrismTomorrow,
	"classic":          ansi.PaletteClassic,
	"default-16":       ansi.PaletteClassic,
	"catppuccin-mocha": ansi.PaletteCatppuccinMocha,
	"doom-dracula":     ansi.PaletteDoomDracula,
	"tokyo-night":      ansi.PaletteTokyoNight,
	"gruvbox-light":    ansi.PaletteGruvboxLight,
	"synthwave84":      ansi.PaletteSynthwave84,
}

// ThemeNames returns the sorted list of theme names, including "none".
func ThemeNames() []string {
	names := make([]string, 0, len(themeRegistry)+1)
	for name := range themeRegistry {
		names = append(names, name)
	}
	names = append(names, themeNoneName)
	sort.Strings(names)
	return names
}

// resolvePalette returns the ColorPalette for the given options, defaulting
// to themeDefaultName when opts.Theme is empty. The special theme name "none"
// disables colouring.
func resolvePalette(opts *Options, renderer *lipgloss.Renderer) (ColorPalette, error) {
	name := themeDefaultName
	if opts != nil && strings.TrimSpace(opts.Theme) != "" {
		name = strings.ToLower(strings.TrimSpace(opts.Theme))
	}

	if name == themeNoneName {
		return NoColorPalette(renderer), nil
	}

	p, ok := themeRegistry[name]
	if !ok {
		return ColorPalette{}, fmt.Errorf("%w %q (use one of: %s)", ErrUnknownTheme, name, strings.Join(ThemeNames(), ", "))
	}
	return paletteFromAnsi(renderer, p), nil
}
