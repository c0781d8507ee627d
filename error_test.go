package prettytrace

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseError(t *testing.T) {
	cases := []struct {
		text string
		want Error
	}{
		{
			text: "TypeError: x is not a function\n    at run (/srv/a.js:1:2)",
			want: Error{Name: "TypeError", Message: "x is not a function", Stack: "TypeError: x is not a function\n    at run (/srv/a.js:1:2)"},
		},
		{
			text: "Error: first: with colon\nsecond line\n    at /srv/a.js:1:2\n",
			want: Error{Name: "Error", Message: "first: with colon\nsecond line", Stack: "Error: first: with colon\nsecond line\n    at /srv/a.js:1:2"},
		},
		{
			text: "    at /srv/a.js:1:2",
			want: Error{Name: "Error", Stack: "    at /srv/a.js:1:2"},
		},
		{
			text: "RangeError\r\n    at /srv/a.js:1:2",
			want: Error{Name: "RangeError", Stack: "RangeError\n    at /srv/a.js:1:2"},
		},
	}
	for _, tc := range cases {
		got, err := ParseError(tc.text)
		if err != nil {
			t.Fatalf("ParseError(%q) failed: %v", tc.text, err)
		}
		if diff := cmp.Diff(tc.want, *got); diff != "" {
			t.Fatalf("ParseError(%q) mismatch (-want +got):\n%s", tc.text, diff)
		}
	}

	if _, err := ParseError(" \n "); !errors.Is(err, ErrNoStack) {
		t.Fatalf("expected ErrNoStack for blank input, got %v", err)
	}
}

func TestError_ErrorString(t *testing.T) {
	if got := (&Error{Name: "TypeError", Message: "boom"}).Error(); got != "TypeError: boom" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if got := (&Error{Name: "RangeError"}).Error(); got != "RangeError" {
		t.Fatalf("unexpected Error() without message: %q", got)
	}
}

func TestError_FormatVerbs(t *testing.T) {
	t.Cleanup(Restore)
	Restore()

	e := &Error{Name: "Error", Message: "boom", Stack: "Error: boom\n    at /srv/a.js:1:2"}
	if got := fmt.Sprintf("%v", e); got != "Error: boom" {
		t.Fatalf("%%v = %q", got)
	}
	if got := fmt.Sprintf("%s", e); got != "Error: boom" {
		t.Fatalf("%%s = %q", got)
	}
	if got := fmt.Sprintf("%q", e); got != `"Error: boom"` {
		t.Fatalf("%%q = %q", got)
	}
	if got := fmt.Sprintf("%+v", e); got != e.Stack {
		t.Fatalf("%%+v without Install should print the raw stack, got %q", got)
	}
}

func TestFromError(t *testing.T) {
	e := &Error{Name: "Error", Message: "boom", Stack: "Error: boom\n    at /srv/a.js:1:2"}
	got, err := FromError(fmt.Errorf("wrapped: %w", e))
	if err != nil || got != e {
		t.Fatalf("expected the wrapped *Error back, got %v, %v", got, err)
	}

	se := &stackError{msg: "field missing", stack: "Error: ignored\n    at check (/srv/v.js:9:3)"}
	got, err = FromError(se)
	if err != nil {
		t.Fatalf("FromError(stacker) failed: %v", err)
	}
	if got.Name != "ValidationError" || got.Message != "field missing" || got.Stack != se.stack {
		t.Fatalf("unexpected conversion: %+v", got)
	}

	if _, err := FromError(&stackError{msg: "x"}); !errors.Is(err, ErrNoStack) {
		t.Fatalf("expected ErrNoStack for an empty Stack(), got %v", err)
	}
	if _, err := FromError(errors.New("plain")); !errors.Is(err, ErrNoStack) {
		t.Fatalf("expected ErrNoStack for a plain error, got %v", err)
	}
	if _, err := FromError(nil); err == nil {
		t.Fatalf("expected an error for nil")
	}
}
