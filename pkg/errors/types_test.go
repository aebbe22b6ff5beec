package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLayoutInvalid, "constraint count mismatch")

	if err == nil {
		t.Fatal("New should return non-nil error")
	}

	if err.Code != ErrCodeLayoutInvalid {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLayoutInvalid)
	}

	if err.Message != "constraint count mismatch" {
		t.Errorf("Message = %v, want 'constraint count mismatch'", err.Message)
	}

	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}

	if len(err.Stack) == 0 {
		t.Error("Stack should be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeLayoutInvalid, "%d constraints for %d children", 2, 3)
	if err.Message != "2 constraints for 3 children" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("original error")
	err := Wrap(underlying, ErrCodeInputStream, "input stream failed")

	if err == nil {
		t.Fatal("Wrap should return non-nil error")
	}

	if err.Underlying != underlying {
		t.Error("Underlying should be preserved")
	}

	if err.Code != ErrCodeInputStream {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInputStream)
	}

	if !strings.Contains(err.Error(), "original error") {
		t.Error("Error string should include underlying error")
	}
}

func TestWrap_Nil(t *testing.T) {
	err := Wrap(nil, ErrCodeInternal, "test")
	if err != nil {
		t.Error("Wrap of nil should return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeLayoutInvalid, "bad branch")
	err.WithContext("children", 3)
	err.WithContext("constraints", 2)

	if err.Context["children"] != 3 {
		t.Error("Context should contain 'children' key")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "children: 3") || !strings.Contains(errStr, "constraints: 2") {
		t.Errorf("Error string should include context, got %q", errStr)
	}
	// keys are sorted so the message is stable
	if strings.Index(errStr, "children") > strings.Index(errStr, "constraints") {
		t.Errorf("context keys should be sorted, got %q", errStr)
	}
}

func TestUnwrap(t *testing.T) {
	underlying := errors.New("underlying")
	err := Wrap(underlying, ErrCodeInternal, "wrapped")

	if err.Unwrap() != underlying {
		t.Error("Unwrap should return underlying error")
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeQueueClosed, "queue closed")
	err := fmt.Errorf("push: %w", New(ErrCodeQueueClosed, "closed while pushing"))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should match structured errors by code")
	}
	if errors.Is(err, New(ErrCodeInternal, "other")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeRenderPanic, "panic")

	if !IsCode(err, ErrCodeRenderPanic) {
		t.Error("IsCode should return true for matching code")
	}

	if IsCode(err, ErrCodeInputStream) {
		t.Error("IsCode should return false for non-matching code")
	}

	if IsCode(nil, ErrCodeRenderPanic) {
		t.Error("IsCode should return false for nil error")
	}

	stdErr := errors.New("standard error")
	if IsCode(stdErr, ErrCodeInternal) {
		t.Error("IsCode should return false for plain errors")
	}

	wrapped := fmt.Errorf("run: %w", err)
	if !IsCode(wrapped, ErrCodeRenderPanic) {
		t.Error("IsCode should look through wrapping")
	}
}

func TestGetCode(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad")

	if code := GetCode(err); code != ErrCodeConfigInvalid {
		t.Errorf("GetCode = %v, want %v", code, ErrCodeConfigInvalid)
	}

	if GetCode(nil) != "" {
		t.Error("GetCode should return empty string for nil")
	}

	if GetCode(errors.New("standard")) != ErrCodeInternal {
		t.Error("GetCode should return ErrCodeInternal for plain errors")
	}
}

func TestStackTrace(t *testing.T) {
	err := New(ErrCodeInternal, "test error")

	trace := err.StackTrace()
	if !strings.Contains(trace, "Stack trace:") {
		t.Error("StackTrace should contain header")
	}
	if len(err.Stack) == 0 {
		t.Error("Stack should have frames")
	}
}

func TestCaptureStack(t *testing.T) {
	frames := captureStack(0)

	if len(frames) == 0 {
		t.Fatal("captureStack should return at least one frame")
	}

	found := false
	for _, frame := range frames {
		if strings.Contains(frame.Function, "Test") || strings.Contains(frame.Function, "errors") {
			found = true
			break
		}
	}

	if !found {
		t.Error("Stack should contain test or errors package frames")
	}
}

func TestErrorCodes_Defined(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeInputStream,
		ErrCodeInputEscalated,
		ErrCodeQueueClosed,
		ErrCodeLayoutInvalid,
		ErrCodeNotFound,
		ErrCodeRenderPanic,
		ErrCodeBackendInit,
		ErrCodeConfigLoad,
		ErrCodeConfigInvalid,
		ErrCodeInternal,
		ErrCodeInvalidInput,
	}

	seen := map[ErrorCode]bool{}
	for _, code := range codes {
		if code == "" {
			t.Error("Error code should not be empty")
		}
		if seen[code] {
			t.Errorf("duplicate error code %s", code)
		}
		seen[code] = true
	}
}
