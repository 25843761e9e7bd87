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
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      NewValidationError("name", "goal name is required"),
			expected: "Error: name: goal name is required",
		},
		{
			name:     "not found error",
			err:      &NotFoundError{Kind: "goal group", ID: "g-1"},
			expected: "Error: goal group not found: g-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "slot")
	if got != "Error: failed to load slot" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &ValidationError{Message: "bad input"}
	if err.Error() != "bad input" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad input")
	}
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to add goal: %w", NewValidationError("repeatInterval", "must be strictly increasing"))

	var vErr *ValidationError
	if !errors.As(wrapped, &vErr) {
		t.Fatal("errors.As did not find ValidationError")
	}
	if vErr.Field != "repeatInterval" {
		t.Errorf("Field = %q, want repeatInterval", vErr.Field)
	}

	wrapped = fmt.Errorf("failed to complete goal: %w", &NotFoundError{Kind: "goal instance", ID: "x"})
	var nfErr *NotFoundError
	if !errors.As(wrapped, &nfErr) {
		t.Fatal("errors.As did not find NotFoundError")
	}
	if nfErr.ID != "x" {
		t.Errorf("ID = %q, want x", nfErr.ID)
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
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
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
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
