package hxhydrate

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrDecode,
		ErrNetwork,
		ErrResponse,
		ErrBindingConfig,
		ErrTargetNotFound,
		ErrDepthExceeded,
		ErrNotFound,
		ErrBadRequest,
		ErrUnsupportedMediaType,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestResponseError(t *testing.T) {
	err := error(&ResponseError{URL: "/c1", StatusCode: 500})

	if !errors.Is(err, ErrResponse) {
		t.Error("ResponseError should match ErrResponse")
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("ResponseError should not match ErrNetwork")
	}
	if got := err.Error(); got != "hxhydrate: /c1 responded with status 500" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := fmt.Errorf("loading: %w", err)
	code, ok := IsResponseError(wrapped)
	if !ok || code != 500 {
		t.Errorf("IsResponseError(wrapped) = %d, %v, want 500, true", code, ok)
	}
}

func TestIsDecodeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrDecode", ErrDecode, true},
		{"wrapped ErrDecode", fmt.Errorf("wrapped: %w", ErrDecode), true},
		{"other error", errors.New("other error"), false},
		{"ErrNetwork", ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsDecodeError(tt.err)
			if result != tt.expect {
				t.Errorf("IsDecodeError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrNetwork", ErrNetwork, true},
		{"wrapped ErrNetwork", fmt.Errorf("%w: %w", ErrNetwork, errors.New("dial tcp")), true},
		{"response error", &ResponseError{URL: "/x", StatusCode: 404}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsNetworkError(tt.err)
			if result != tt.expect {
				t.Errorf("IsNetworkError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestDecodeParamWrapsEncodingError(t *testing.T) {
	_, err := DecodeParam("A")
	if !IsDecodeError(err) {
		t.Fatalf("DecodeParam(\"A\") error = %v, want ErrDecode", err)
	}

	text, err := DecodeParam(EncodeParam(`{"id":"42"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"id":"42"}` {
		t.Errorf("text = %q", text)
	}
}
