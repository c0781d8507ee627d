package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"pkt.systems/prettytrace"
)

const appSource = "function boot() {\n  throw new Error('no config');\n}\nboot();\n"

// chdirTemp moves into a fresh directory holding app.js so relative paths
// and config discovery are predictable.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte(appSource), 0o644); err != nil {
		t.Fatalf("write app.js: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("PRETTYTRACE_CONFIG", "")
	return dir
}

func appTrace(dir string) string {
	path := filepath.Join(dir, "app.js")
	return strings.Join([]string{
		"Error: no config",
		"    at boot (" + path + ":2:9)",
		"    at Object.<anonymous> (" + path + ":4:1)",
		"    at node:internal/main/run_main_module:23:47",
	}, "\n")
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr, false)
	return code, stdout.String(), stderr.String()
}

func TestRunFromStdin(t *testing.T) {
	dir := chdirTemp(t)

	code, out, errOut := runCLI(t, appTrace(dir), "--skip-node")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	expected := strings.Join([]string{
		"at app.js:4:1 in function Object.<anonymous>",
		"  │",
		"4 │ boot();",
		"  │ ‾‾‾‾",
		"",
		"at app.js:2:9 in function boot",
		"  │",
		"2 │   throw new Error('no config');",
		"  │         ‾‾‾",
		"  ╰── Error: no config",
		"",
	}, "\n")
	if out != expected {
		t.Fatalf("unexpected output\nexpected:\n%s\nactual:\n%s", expected, out)
	}
}

func TestRunFileArgumentAndNoTrace(t *testing.T) {
	dir := chdirTemp(t)
	input := filepath.Join(dir, "trace.txt")
	if err := os.WriteFile(input, []byte(appTrace(dir)), 0o644); err != nil {
		t.Fatalf("write trace: %v", err)
	}

	code, out, errOut := runCLI(t, "", "-n", input)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if strings.Count(out, "at app.js") != 1 {
		t.Fatalf("expected a single frame block:\n%s", out)
	}
	if !strings.HasPrefix(out, "at app.js:2:9 in function boot") {
		t.Fatalf("expected the throw site:\n%s", out)
	}
}

func TestRunJSONReport(t *testing.T) {
	dir := chdirTemp(t)

	code, out, errOut := runCLI(t, appTrace(dir), "--json", "--compact", "--skip-node")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	var report prettytrace.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if report.Name != "Error" || len(report.Frames) != 2 || report.Frames[1].Underline != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRunJSONLogInput(t *testing.T) {
	dir := chdirTemp(t)
	stack, _ := json.Marshal(appTrace(dir))
	logs := `{"level":50,"msg":"request failed","err":{"type":"Error","message":"no config","stack":` + string(stack) + `}}
{"level":30,"msg":"still alive"}
{"level":50,"error":{"name":"ConfigError","stack":` + string(stack) + `}}
`
	code, out, errOut := runCLI(t, logs, "--skip-node", "--no-trace")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "╰── Error: no config") || !strings.Contains(out, "╰── ConfigError: no config") {
		t.Fatalf("expected both records rendered:\n%s", out)
	}
}

func TestRunListThemes(t *testing.T) {
	code, out, _ := runCLI(t, "", "--list-themes")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if out != strings.Join(prettytrace.ThemeNames(), "\n")+"\n" {
		t.Fatalf("unexpected theme list:\n%s", out)
	}
}

func TestRunUsageErrors(t *testing.T) {
	chdirTemp(t)
	if code, _, _ := runCLI(t, "", "--no-such-flag"); code != 2 {
		t.Fatalf("unknown flag: expected exit 2, got %d", code)
	}
	if code, _, errOut := runCLI(t, "", "--compact"); code != 2 || !strings.Contains(errOut, "--compact requires --json") {
		t.Fatalf("--compact alone: expected exit 2, got %d (%s)", code, errOut)
	}
	if code, _, errOut := runCLI(t, "", "--theme", "neon"); code != 2 || !strings.Contains(errOut, "unknown theme") {
		t.Fatalf("unknown theme: expected exit 2, got %d (%s)", code, errOut)
	}
	if code, _, _ := runCLI(t, "", "--help"); code != 0 {
		t.Fatalf("--help: expected exit 0, got %d", code)
	}
}

func TestRunFailures(t *testing.T) {
	dir := chdirTemp(t)

	code, _, errOut := runCLI(t, "", filepath.Join(dir, "missing.txt"))
	if code != 1 || !strings.HasPrefix(errOut, "prettytrace: ") {
		t.Fatalf("missing input: expected exit 1, got %d (%s)", code, errOut)
	}

	native := "Error: x\n    at foo (native)\n"
	if code, out, errOut := runCLI(t, native, "--theme", "none"); code != 0 || !strings.HasPrefix(out, "at native in function foo\n") {
		t.Fatalf("native frame: expected a header-only block and exit 0, got %d:\n%s%s", code, out, errOut)
	}
	if code, out, errOut := runCLI(t, native, "--theme", "none", "--lenient"); code != 0 || strings.Contains(out, "native") {
		t.Fatalf("--lenient: expected the native frame dropped and exit 0, got %d:\n%s%s", code, out, errOut)
	}

	if code, _, _ := runCLI(t, `{"broken":`); code != 1 {
		t.Fatalf("broken JSON: expected exit 1, got %d", code)
	}
}

func TestRunConfigFileAndFlagOverride(t *testing.T) {
	dir := chdirTemp(t)
	cfg := "underline: \"^\"\nno_trace: true\nskip_node_files: true\ntheme: none\n"
	if err := os.WriteFile(filepath.Join(dir, ".prettytrace.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	code, out, errOut := runCLI(t, appTrace(dir))
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "  │         ^^^\n") || strings.Contains(out, "boot();") {
		t.Fatalf("config not applied:\n%s", out)
	}

	code, out, errOut = runCLI(t, appTrace(dir), "-u", "~")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "~~~") {
		t.Fatalf("flag should override the config file:\n%s", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("colour: never\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if code, _, _ := runCLI(t, appTrace(dir), "-c", "bad.yaml"); code != 1 {
		t.Fatalf("bad config: expected exit 1, got %d", code)
	}
}

func TestRunColorAlways(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".prettytrace.toml"), []byte("color = \"always\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	code, out, errOut := runCLI(t, appTrace(dir))
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("color = always should emit escapes: %q", out)
	}

	code, out, _ = runCLI(t, appTrace(dir), "--no-color")
	if code != 0 || strings.Contains(out, "\x1b[") {
		t.Fatalf("--no-color should win over the config file: %q", out)
	}
}

func TestSplitTraces(t *testing.T) {
	text := strings.Join([]string{
		"server listening on :3000",
		"/srv/app.js:2",
		"  throw new Error('no config');",
		"  ^",
		"",
		"Uncaught TypeError: boom",
		"    at a (/srv/a.js:1:1)",
		"    at /srv/b.js:2:2",
		"request done",
		"RangeError: too far",
		"second line",
		"    at c (/srv/c.js:3:3)",
	}, "\n")
	blocks := splitTraces(text)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 traces, got %d: %q", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[0], "TypeError: boom\n") {
		t.Fatalf("unexpected first trace: %q", blocks[0])
	}
	if blocks[1] != "RangeError: too far\nsecond line\n    at c (/srv/c.js:3:3)" {
		t.Fatalf("unexpected second trace: %q", blocks[1])
	}
}

func TestParseInputSkipsRecordsWithoutStack(t *testing.T) {
	traces, err := parseInput([]byte(`{"msg":"hello"} {"err":{"message":"x"}}`), zap.NewNop())
	if err != nil {
		t.Fatalf("parseInput failed: %v", err)
	}
	if len(traces) != 0 {
		t.Fatalf("expected no traces, got %d", len(traces))
	}

	traces, err = parseInput([]byte("  \n"), zap.NewNop())
	if err != nil || traces != nil {
		t.Fatalf("blank input: %v %v", traces, err)
	}
}
