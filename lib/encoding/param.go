// Package encoding implements the two wire codecs spoken between the
// hydration client and the component server:
//
//   - Param tokens: JSON text carried as unpadded base64url inside the
//     data-object attribute of a placeholder. Safe in attributes and URL
//     segments without further escaping.
//   - Form bodies: the field mapping collected for an action binding,
//     serialized with a compact binary format (CBOR by default, MessagePack
//     as an alternative).
//
// The two are deliberately separate. The server-side collaborator decodes
// placeholder payloads as JSON and form submissions as binary.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned for malformed param tokens and for tokens whose
// decoded text is not valid JSON.
var ErrDecode = errors.New("encoding: malformed param token")

// standard base64 characters that have URL-safe counterparts
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// EncodeParam encodes text as an unpadded base64url token.
func EncodeParam(text string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(text))
}

// DecodeParam is the inverse of EncodeParam.
//
// Correct trailing padding and the standard base64 alphabet are tolerated
// so tokens produced by other encoders still decode. Padding beyond what
// the token length calls for is malformed. An empty token decodes to an
// empty string.
func DecodeParam(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	t := strings.TrimRight(token, "=")
	if pad := len(token) - len(t); pad > 0 && (len(t)%4 == 0 || (len(t)+pad)%4 != 0) {
		return "", fmt.Errorf("%w: unexpected padding", ErrDecode)
	}
	data, err := base64.RawURLEncoding.DecodeString(toURLAlphabet.Replace(t))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(data), nil
}

// EncodeJSON marshals v to JSON and encodes the result as a param token.
func EncodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return EncodeParam(string(data)), nil
}

// DecodeJSONParam decodes a token and checks that the result is a JSON
// document. An empty token yields an empty string and no error.
func DecodeJSONParam(token string) (string, error) {
	text, err := DecodeParam(token)
	if err != nil || text == "" {
		return text, err
	}
	if !json.Valid([]byte(text)) {
		return "", fmt.Errorf("%w: decoded payload is not JSON", ErrDecode)
	}
	return text, nil
}
