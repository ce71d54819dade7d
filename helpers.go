package hxhydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pthm/hxhydrate/lib/encoding"
)

// maxBodyBytes caps the request bodies read by DecodePayload and DecodeFields.
const maxBodyBytes = 1 << 20

// Payload is the decoded JSON parameter set of a placeholder.
type Payload map[string]any

// String returns the value at key if it is a string, or its JSON text
// otherwise. Missing keys yield "".
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxhydrate.Render(w, r, myFragment())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// DecodePayload reads the JSON payload a placeholder load posts.
//
// An empty body is the "no payload" case and yields an empty Payload.
// Bodies that are not a JSON object fail with ErrBadRequest.
func DecodePayload(r *http.Request) (Payload, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	payload := Payload{}
	if len(bytes.TrimSpace(data)) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if payload == nil {
		payload = Payload{}
	}
	return payload, nil
}

// DecodeFields reads the binary form body an action binding posts. The
// codec is chosen from the Content-Type header.
func DecodeFields(r *http.Request) (map[string]string, error) {
	codec, ok := encoding.FormCodecFor(r.Header.Get("Content-Type"))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, r.Header.Get("Content-Type"))
	}
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	fields, err := codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return fields, nil
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, maxBodyBytes)
	}
	return data, nil
}
