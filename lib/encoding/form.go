package encoding

import (
	"fmt"
	"mime"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Content types for form bodies.
const (
	ContentTypeCBOR    = "application/cbor"
	ContentTypeMsgPack = "application/msgpack"
)

// FormCodec serializes the field mapping of an action binding.
type FormCodec interface {
	ContentType() string
	Marshal(fields map[string]string) ([]byte, error)
	Unmarshal(data []byte) (map[string]string, error)
}

var (
	// CBOR encodes with RFC 8949 core deterministic encoding, so the same
	// fields always produce the same bytes.
	CBOR FormCodec = cborCodec{}

	// MsgPack encodes with MessagePack.
	MsgPack FormCodec = msgpackCodec{}
)

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("encoding: cbor encode mode: %v", err))
	}
	cborDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("encoding: cbor decode mode: %v", err))
	}
}

// FormCodecFor returns the codec for a Content-Type header value.
// Parameters such as charset are ignored.
func FormCodecFor(contentType string) (FormCodec, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}
	switch mediaType {
	case ContentTypeCBOR:
		return CBOR, true
	case ContentTypeMsgPack, "application/x-msgpack":
		return MsgPack, true
	}
	return nil, false
}

type cborCodec struct{}

func (cborCodec) ContentType() string { return ContentTypeCBOR }

func (cborCodec) Marshal(fields map[string]string) ([]byte, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	return cborEnc.Marshal(fields)
}

func (cborCodec) Unmarshal(data []byte) (map[string]string, error) {
	var fields map[string]string
	if err := cborDec.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]string{}
	}
	return fields, nil
}

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string { return ContentTypeMsgPack }

func (msgpackCodec) Marshal(fields map[string]string) ([]byte, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	return msgpack.Marshal(fields)
}

func (msgpackCodec) Unmarshal(data []byte) (map[string]string, error) {
	var fields map[string]string
	if err := msgpack.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]string{}
	}
	return fields, nil
}
