package encoding

import (
	"bytes"
	"testing"
)

func TestFormCodecRoundTrip(t *testing.T) {
	codecs := []FormCodec{CBOR, MsgPack}
	fields := map[string]string{
		"a":     "1",
		"b":     "2",
		"c":     "3",
		"title": "Quarterly report – draft",
	}

	for _, codec := range codecs {
		t.Run(codec.ContentType(), func(t *testing.T) {
			data, err := codec.Marshal(fields)
			if err != nil {
				t.Fatalf("Marshal error = %v", err)
			}

			got, err := codec.Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}

			if len(got) != len(fields) {
				t.Fatalf("got %d fields, want %d", len(got), len(fields))
			}
			for k, v := range fields {
				if got[k] != v {
					t.Errorf("field %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestFormCodecNilFields(t *testing.T) {
	for _, codec := range []FormCodec{CBOR, MsgPack} {
		data, err := codec.Marshal(nil)
		if err != nil {
			t.Fatalf("%s: Marshal(nil) error = %v", codec.ContentType(), err)
		}
		got, err := codec.Unmarshal(data)
		if err != nil {
			t.Fatalf("%s: Unmarshal error = %v", codec.ContentType(), err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("%s: got %v, want empty map", codec.ContentType(), got)
		}
	}
}

func TestCBORIsDeterministic(t *testing.T) {
	first, err := CBOR.Marshal(map[string]string{"z": "1", "a": "2", "m": "3"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := CBOR.Marshal(map[string]string{"m": "3", "z": "1", "a": "2"})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding differs between runs: %x vs %x", first, again)
		}
	}
}

func TestCBORUnmarshalGarbage(t *testing.T) {
	if _, err := CBOR.Unmarshal([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

func TestFormCodecFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        FormCodec
		ok          bool
	}{
		{"application/cbor", CBOR, true},
		{"application/cbor; charset=binary", CBOR, true},
		{"application/msgpack", MsgPack, true},
		{"application/x-msgpack", MsgPack, true},
		{"application/json", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, ok := FormCodecFor(tt.contentType)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("codec = %v, want %v", got, tt.want)
			}
		})
	}
}
