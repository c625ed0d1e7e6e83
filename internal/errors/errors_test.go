package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"simple error", errors.New("something went wrong"), "Error: something went wrong"},
		{"hinted error", WithHint(errors.New("no database"), "run 'theseus init'"), "Error: no database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("connection to %s:%d failed", "localhost", 5432)
	if got != "Error: connection to localhost:5432 failed" {
		t.Errorf("Formatf = %q", got)
	}
}

func TestWithHint(t *testing.T) {
	base := errors.New("storage not initialized")
	err := fmt.Errorf("loading: %w", WithHint(base, "run 'theseus init' first"))

	if !errors.Is(err, base) {
		t.Error("hinted error does not unwrap to its cause")
	}
	var h Hinter
	if !errors.As(err, &h) || h.Hint() != "run 'theseus init' first" {
		t.Errorf("hint not found in chain")
	}
	if WithHint(nil, "x") != nil {
		t.Error("WithHint(nil) should be nil")
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(WithHint(errors.New("test error"), "try again"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		out := stderr.String()
		if !strings.Contains(out, "Error: test error") || !strings.Contains(out, "try again") {
			t.Errorf("Fatal() stderr = %q", out)
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
