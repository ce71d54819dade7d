package hxhydrate

import (
	"errors"
	"fmt"

	"github.com/pthm/hxhydrate/lib/encoding"
)

// FormCodec is an alias for encoding.FormCodec for convenience.
type FormCodec = encoding.FormCodec

// EncodeParam encodes JSON text as a data-object token.
func EncodeParam(text string) string {
	return encoding.EncodeParam(text)
}

// DecodeParam decodes a data-object token back to its text.
func DecodeParam(token string) (string, error) {
	text, err := encoding.DecodeParam(token)
	return text, wrapEncodingError(err)
}

// EncodeJSON marshals v and encodes it as a data-object token.
func EncodeJSON(v any) (string, error) {
	return encoding.EncodeJSON(v)
}

// wrapEncodingError wraps encoding package errors with hxhydrate sentinel errors.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrDecode) {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return err
}
