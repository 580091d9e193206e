package route

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
)

// Kind tags which variant a Payload holds.
type Kind int

const (
	KindBytes Kind = iota
	KindJSON
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Payload is the decoded request body handed to a Handler. It holds either a
// decoded JSON value or the raw body bytes, never both.
type Payload struct {
	kind  Kind
	value any
	raw   []byte
}

// JSON wraps an already decoded JSON value.
func JSON(v any) Payload {
	return Payload{kind: KindJSON, value: v}
}

// Bytes wraps a raw body.
func Bytes(b []byte) Payload {
	return Payload{kind: KindBytes, raw: b}
}

// Kind reports the variant.
func (p Payload) Kind() Kind { return p.kind }

// IsJSON reports whether the payload holds a JSON value.
func (p Payload) IsJSON() bool { return p.kind == KindJSON }

// IsBytes reports whether the payload holds raw bytes.
func (p Payload) IsBytes() bool { return p.kind == KindBytes }

// Value returns the decoded JSON value, or nil for a bytes payload.
func (p Payload) Value() any {
	if p.kind != KindJSON {
		return nil
	}
	return p.value
}

// Raw returns the body bytes, or nil for a JSON payload.
func (p Payload) Raw() []byte {
	if p.kind != KindBytes {
		return nil
	}
	return p.raw
}

// Object returns the payload as a JSON object when it is one.
func (p Payload) Object() (map[string]any, bool) {
	if p.kind != KindJSON {
		return nil, false
	}
	obj, ok := p.value.(map[string]any)
	return obj, ok
}

// Decode re-decodes the payload into a typed value. Bytes payloads are parsed
// as JSON as well, for handlers that accept either variant.
func (p Payload) Decode(into any) error {
	var data []byte
	switch p.kind {
	case KindJSON:
		encoded, err := sonic.Marshal(p.value)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		data = encoded
	default:
		data = p.raw
	}
	if err := sonic.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// MIME returns the media type of the payload, sniffed from content for bytes.
func (p Payload) MIME() string {
	if p.kind == KindJSON {
		return "application/json"
	}
	return mimetype.Detect(p.raw).String()
}

// DecodePayload turns a request body into a Payload. A JSON parse is tried
// first; the result is kept when the content type declares JSON or when the
// body is an object or array. Everything else stays raw bytes.
func DecodePayload(contentType string, body []byte) Payload {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Bytes(body)
	}

	var value any
	if err := sonic.Unmarshal(trimmed, &value); err != nil {
		return Bytes(body)
	}

	if isJSONContentType(contentType) {
		return JSON(value)
	}
	switch value.(type) {
	case map[string]any, []any:
		return JSON(value)
	}
	return Bytes(body)
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
