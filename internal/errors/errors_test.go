package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "mount error",
			code:    "E001",
			wantMsg: "Host element not found",
			wantCat: CategoryMount,
		},
		{
			name:    "source error",
			code:    "E003",
			wantMsg: "Data decode failed",
			wantCat: CategorySource,
		},
		{
			name:    "config error",
			code:    "E005",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryLive, "bad frame %d", 3)
	if err.Message != "bad frame 3" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != "bad frame 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	cause := fmt.Errorf("open x.html: no such file")
	err := New("E004").WithDetail("x.html").Wrap(cause)

	want := "E004: Source fetch failed (x.html): open x.html: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("mount: %w", New("E001"))

	if !IsCode(err, "E001") {
		t.Error("expected E001 to be found through wrapping")
	}
	if IsCode(err, "E002") {
		t.Error("expected E002 not to match")
	}
	if IsCode(nil, "E001") {
		t.Error("expected nil not to match")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E002") != nil {
		t.Error("expected nil for nil error")
	}

	plain := stderrors.New("boom")
	wrapped := FromError(plain, "E002")
	if wrapped.Code != "E002" || wrapped.Wrapped != plain {
		t.Errorf("unexpected wrap %+v", wrapped)
	}

	existing := New("E003")
	if FromError(fmt.Errorf("ctx: %w", existing), "E002") != existing {
		t.Error("expected an existing BambooError to be returned unchanged")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E001").WithDetailf("selector %q matched nothing", "#app").Wrap(stderrors.New("empty document"))
	out := err.Format()

	for _, want := range []string{
		"ERROR E001: Host element not found",
		`selector "#app" matched nothing`,
		"caused by: empty document",
		"hint: Check the selector",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if wrapText("   ", 10) != nil {
		t.Error("expected nil for blank text")
	}
}

func TestRegistryComplete(t *testing.T) {
	for _, code := range []string{"E001", "E002", "E003", "E004", "E005", "E006", "E007"} {
		tmpl, ok := Lookup(code)
		if !ok {
			t.Errorf("code %s not registered", code)
			continue
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has an incomplete template", code)
		}
	}
}
