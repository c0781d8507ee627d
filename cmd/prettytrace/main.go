package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pkt.systems/prettytrace"
	"pkt.systems/prettytrace/internal/config"
)

const progName = "prettytrace"

func main() {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	os.Exit(run(os.Args[1:], os.Stdin, colorable.NewColorableStdout(), colorable.NewColorableStderr(), tty))
}

type cliFlags struct {
	underline      string
	noTrace        bool
	plainUnderline bool
	skipNode       bool
	skipModules    []string
	skipPaths      []string
	lenient        bool
	theme          string
	listThemes     bool
	language       string
	noColor        bool
	jsonOut        bool
	compact        bool
	configPath     string
	verbose        bool
}

func newFlagSet(stderr io.Writer, f *cliFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.underline, "underline", "u", prettytrace.DefaultOptions.Underline, "underline character")
	fs.BoolVarP(&f.noTrace, "no-trace", "n", false, "only show the frame that threw")
	fs.BoolVar(&f.plainUnderline, "plain-underline", false, "underline one character instead of the whole token")
	fs.BoolVar(&f.skipNode, "skip-node", false, "skip node: internal frames")
	fs.StringSliceVarP(&f.skipModules, "skip-module", "m", nil, "node_modules package to skip (repeatable)")
	fs.StringSliceVar(&f.skipPaths, "skip-path", nil, "glob of frame paths to skip (repeatable)")
	fs.BoolVar(&f.lenient, "lenient", false, "drop frames without a file:line:column location")
	fs.StringVarP(&f.theme, "theme", "t", "default", "colour theme (see --list-themes)")
	fs.BoolVar(&f.listThemes, "list-themes", false, "print theme names and exit")
	fs.StringVar(&f.language, "language", "javascript", `lexer for source excerpts ("auto" picks by file name)`)
	fs.BoolVar(&f.noColor, "no-color", false, "disable colorized output, even when writing to a TTY")
	fs.BoolVar(&f.jsonOut, "json", false, "print a JSON report instead of the rendering")
	fs.BoolVar(&f.compact, "compact", false, "with --json, print one document per line")
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [file ...]\n\nReads stack traces from the files (or stdin when none or \"-\") and pretty-prints them.\n\n", progName)
		fs.PrintDefaults()
	}
	return fs
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, tty bool) int {
	var f cliFlags
	fs := newFlagSet(stderr, &f)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if f.listThemes {
		for _, name := range prettytrace.ThemeNames() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}
	if f.compact && !f.jsonOut {
		fmt.Fprintf(stderr, "%s: --compact requires --json\n", progName)
		return 2
	}

	logger := newLogger(f.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	wd, _ := os.Getwd()
	cfg := config.Default()
	if path := config.Discover(f.configPath, wd); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", progName, err)
			return 1
		}
		logger.Debug("loaded config", zap.String("path", path))
		cfg = loaded
	}
	applyFlags(fs, &f, cfg)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return 2
	}

	opts := cfg.Options()
	opts.Logger = logger

	renderer := lipgloss.NewRenderer(stdout)
	switch {
	case cfg.Color == config.ColorNever, cfg.Color == config.ColorAuto && (!tty || noColorEnv()):
		renderer.SetColorProfile(termenv.Ascii)
	case cfg.Color == config.ColorAlways && renderer.ColorProfile() == termenv.Ascii:
		renderer.SetColorProfile(termenv.ANSI256)
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	status := 0
	for _, path := range inputs {
		data, err := readInput(path, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", progName, err)
			status = 1
			continue
		}
		traces, err := parseInput(data, logger)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s: %v\n", progName, path, err)
			status = 1
			continue
		}
		if len(traces) == 0 {
			logger.Debug("no stack traces found", zap.String("input", path))
		}
		for _, trace := range traces {
			if err := emit(stdout, trace, &opts, renderer, f.jsonOut, f.compact); err != nil {
				fmt.Fprintf(stderr, "%s: %s: %v\n", progName, path, err)
				status = 1
			}
		}
	}
	return status
}

func emit(w io.Writer, trace *prettytrace.Error, opts *prettytrace.Options, renderer *lipgloss.Renderer, jsonOut, compact bool) error {
	if jsonOut {
		report, err := prettytrace.NewReport(trace, opts)
		if err != nil {
			return err
		}
		return prettytrace.WriteReport(w, report, compact)
	}
	out, err := prettytrace.FormatWithRenderer(trace, opts, renderer)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// applyFlags overrides config values with the flags given on the command line.
func applyFlags(fs *pflag.FlagSet, f *cliFlags, cfg *config.Config) {
	if fs.Changed("underline") {
		cfg.Underline = f.underline
	}
	if fs.Changed("no-trace") {
		cfg.NoTrace = f.noTrace
	}
	if fs.Changed("plain-underline") {
		cfg.PlainUnderline = f.plainUnderline
	}
	if fs.Changed("skip-node") {
		cfg.SkipNodeFiles = f.skipNode
	}
	if fs.Changed("skip-module") {
		cfg.SkipModules = append(cfg.SkipModules, f.skipModules...)
	}
	if fs.Changed("skip-path") {
		cfg.SkipPaths = append(cfg.SkipPaths, f.skipPaths...)
	}
	if fs.Changed("lenient") {
		cfg.SkipMalformed = f.lenient
	}
	if fs.Changed("theme") {
		cfg.Theme = f.theme
	}
	if fs.Changed("language") {
		cfg.Language = f.language
	}
	if fs.Changed("no-color") && f.noColor {
		cfg.Color = config.ColorNever
	}
}

func noColorEnv() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.DebugLevel)
	return zap.New(core).Named(progName)
}
