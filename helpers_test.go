package hxhydrate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/pthm/hxhydrate/lib/encoding"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]string
		wantErr error
	}{
		{name: "empty body", body: "", want: map[string]string{}},
		{name: "whitespace", body: "  \n", want: map[string]string{}},
		{name: "object", body: `{"id":"42","q":"boats"}`, want: map[string]string{"id": "42", "q": "boats"}},
		{name: "null", body: "null", want: map[string]string{}},
		{name: "not json", body: "id=42", wantErr: ErrBadRequest},
		{name: "array", body: `["id"]`, wantErr: ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/c", strings.NewReader(tt.body))

			payload, err := DecodePayload(req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodePayload() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload() error = %v", err)
			}
			if len(payload) != len(tt.want) {
				t.Fatalf("payload = %v, want %v", payload, tt.want)
			}
			for k, v := range tt.want {
				if got := payload.String(k); got != v {
					t.Errorf("payload[%q] = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestDecodePayload_TooLarge(t *testing.T) {
	body := `{"q":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/c", strings.NewReader(body))

	if _, err := DecodePayload(req); !errors.Is(err, ErrBadRequest) {
		t.Errorf("DecodePayload() error = %v, want ErrBadRequest", err)
	}
}

func TestPayloadString(t *testing.T) {
	p := Payload{
		"name":  "hull",
		"count": float64(3),
		"tags":  []any{"a", "b"},
		"none":  nil,
	}

	tests := []struct {
		key  string
		want string
	}{
		{"name", "hull"},
		{"count", "3"},
		{"tags", `["a","b"]`},
		{"none", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := p.String(tt.key); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestDecodeFields(t *testing.T) {
	fields := map[string]string{"title": "Invoice", "status": "open"}

	tests := []struct {
		name  string
		codec encoding.FormCodec
	}{
		{"cbor", encoding.CBOR},
		{"msgpack", encoding.MsgPack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.codec.Marshal(fields)
			if err != nil {
				t.Fatal(err)
			}
			req := httptest.NewRequest(http.MethodPost, "/save", bytes.NewReader(data))
			req.Header.Set("Content-Type", tt.codec.ContentType())

			got, err := DecodeFields(req)
			if err != nil {
				t.Fatalf("DecodeFields() error = %v", err)
			}
			if len(got) != 2 || got["title"] != "Invoice" || got["status"] != "open" {
				t.Errorf("DecodeFields() = %v, want %v", got, fields)
			}
		})
	}
}

func TestDecodeFields_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		wantErr     error
	}{
		{"json content type", "application/json", []byte(`{}`), ErrUnsupportedMediaType},
		{"no content type", "", []byte{0xa0}, ErrUnsupportedMediaType},
		{"garbage cbor", encoding.ContentTypeCBOR, []byte{0xff, 0x00}, ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/save", bytes.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if _, err := DecodeFields(req); !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeFields() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRender(t *testing.T) {
	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hello</p>")
		return err
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/c", nil)

	if err := Render(rec, req, component); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "<p>hello</p>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
