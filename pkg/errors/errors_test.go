// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"patchcheck/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "root_resolve_error",
			code:    errors.ErrRootResolve,
			message: "project root not found",
			wantStr: "[ROOT_RESOLVE] project root not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wraps_underlying_error", func(t *testing.T) {
		base := stderrors.New("read failed")
		err := errors.Wrap(base, errors.ErrLibraryLoad, "cannot load file library")

		if !stderrors.Is(err, base) {
			t.Error("Wrap() should preserve the wrapped error for errors.Is")
		}

		want := "[LIBRARY_LOAD] cannot load file library: read failed"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "whatever"); err != nil {
			t.Errorf("Wrap(nil) = %v, want nil", err)
		}
	})
}

func TestWrapf(t *testing.T) {
	base := fmt.Errorf("no such file")
	err := errors.Wrapf(base, errors.ErrManifestLoad, "cannot load manifest %q", "product.wxs")

	want := `[MANIFEST_LOAD] cannot load manifest "product.wxs": no such file`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrVCSQuery, "git failed")

	if !errors.IsErrorCode(err, errors.ErrVCSQuery) {
		t.Error("IsErrorCode() should match the error's code")
	}
	if errors.IsErrorCode(err, errors.ErrConfigLoad) {
		t.Error("IsErrorCode() should not match a different code")
	}
	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrVCSQuery) {
		t.Error("IsErrorCode() should not match a plain error")
	}
}

func TestGetErrorCode(t *testing.T) {
	err := errors.Wrap(stderrors.New("boom"), errors.ErrProbeRead, "probe failed")

	if got := errors.GetErrorCode(err); got != errors.ErrProbeRead {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrProbeRead)
	}

	// Wrapped in a plain error, the code is still discoverable via errors.As
	wrapped := fmt.Errorf("context: %w", err)
	if got := errors.GetErrorCode(wrapped); got != errors.ErrProbeRead {
		t.Errorf("GetErrorCode(wrapped) = %v, want %v", got, errors.ErrProbeRead)
	}

	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestErrorIs(t *testing.T) {
	a := errors.New(errors.ErrManifestParse, "bad xml")
	b := errors.New(errors.ErrManifestParse, "different message, same code")

	if !stderrors.Is(a, b) {
		t.Error("errors with the same code should satisfy errors.Is")
	}

	c := errors.New(errors.ErrLibraryParse, "other code")
	if stderrors.Is(a, c) {
		t.Error("errors with different codes should not satisfy errors.Is")
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrProbeRead, "probe failed").
		WithDetail("path", "bin/ship/setup.exe")

	if err.Details["path"] != "bin/ship/setup.exe" {
		t.Errorf("WithDetail() did not record the detail: %v", err.Details)
	}
}
