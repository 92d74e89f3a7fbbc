package marker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Codec serializes persisted marker records.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and HTTP transport.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json. It is the default.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONCodec) ContentType() string                { return "application/json" }

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (YAMLCodec) ContentType() string                { return "application/x-yaml" }

// CBORCodec implements Codec using fxamacker/cbor for compact storage.
type CBORCodec struct{}

func (CBORCodec) Marshal(v any) ([]byte, error)      { return cbor.Marshal(v) }
func (CBORCodec) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }
func (CBORCodec) ContentType() string                { return "application/cbor" }

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
	_ Codec = CBORCodec{}
)

// CodecByName maps "json", "yaml" or "cbor" to a codec.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	case "cbor":
		return CBORCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown marker codec %q", name)
	}
}

// CodecForMediaType maps a Content-Type or Accept value to a codec,
// ignoring parameters. Anything unrecognised, including "", is JSON.
func CodecForMediaType(mediaType string) Codec {
	mt, _, _ := strings.Cut(mediaType, ";")

	switch strings.ToLower(strings.TrimSpace(mt)) {
	case YAMLCodec{}.ContentType(), "application/yaml", "text/yaml":
		return YAMLCodec{}
	case CBORCodec{}.ContentType():
		return CBORCodec{}
	default:
		return JSONCodec{}
	}
}
