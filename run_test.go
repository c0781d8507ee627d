package prettytrace

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// stubProcess captures stderr output and exit calls for the duration of t.
func stubProcess(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var buf bytes.Buffer
	code := -1
	prevStderr, prevExit := stderr, exit
	stderr = &buf
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		stderr, exit = prevStderr, prevExit
	})
	return &buf, &code
}

func TestRun_Success(t *testing.T) {
	buf, code := stubProcess(t)
	called := false
	Run(func() error {
		called = true
		return nil
	}, nil)
	if !called || *code != -1 || buf.Len() != 0 {
		t.Fatalf("unexpected result: called=%v code=%d stderr=%q", called, *code, buf.String())
	}
}

func TestRun_ErrorIsRendered(t *testing.T) {
	buf, code := stubProcess(t)
	dir, path := writeSource(t, "view.js", viewSource)

	Run(func() error { return viewError(path) }, plainOptions(dir))
	if *code != 1 {
		t.Fatalf("expected exit status 1, got %d", *code)
	}
	if !strings.Contains(buf.String(), "at view.js:2:21 in function render") {
		t.Fatalf("unexpected stderr:\n%s", buf.String())
	}
}

func TestRun_PanicIsRendered(t *testing.T) {
	buf, code := stubProcess(t)

	Run(func() error { panic("out of widgets") }, &Options{Theme: "none"})
	if *code != 1 {
		t.Fatalf("expected exit status 1, got %d", *code)
	}
	if !strings.Contains(buf.String(), "╰── panic: out of widgets") {
		t.Fatalf("unexpected stderr:\n%s", buf.String())
	}
}

func TestRun_UnrenderableErrorFallsBack(t *testing.T) {
	buf, code := stubProcess(t)

	Run(func() error { return errors.New("plain failure") }, nil)
	if *code != 1 {
		t.Fatalf("expected exit status 1, got %d", *code)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "plain failure\n") || !strings.Contains(out, ErrNoStack.Error()) {
		t.Fatalf("unexpected fallback output: %q", out)
	}
}
