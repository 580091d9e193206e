package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

// base64Fields are checked in order for an encoded upload
var base64Fields = []string{"screenshot", "data", "image", "file", "dataUrl"}

// Saved is the result of every handler that writes a file
type Saved struct {
	Saved       string `json:"saved"`
	SizeBytes   int    `json:"sizeBytes"`
	ContentType string `json:"contentType,omitempty"`
}

// Receive logs whatever arrives and acknowledges it
func Receive(logger *logging.Logger) route.Handler {
	logger = logging.OrNop(logger).Named("receive")
	return func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		fields := []zap.Field{
			zap.String("path", m.Path),
			zap.String("method", m.Method),
			zap.String("payload_type", p.Kind().String()),
			zap.String("content_type", m.Header("Content-Type")),
			zap.String("remote", m.RemoteAddr),
		}
		if p.IsJSON() {
			fields = append(fields, zap.Any("payload", p.Value()))
		} else {
			fields = append(fields, zap.Int("bytes", len(p.Raw())), zap.String("mime", p.MIME()))
		}
		logger.Info("payload received", fields...)
		return "ok", nil
	}
}

// SaveBase64 decodes a base64 string or data URL from the first present
// field of screenshot, data, image, file or dataUrl and saves it in dir. A
// fileName field names the file. A raw body holding base64 text is accepted
// too.
func SaveBase64(dir string) route.Handler {
	return func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		var encoded, fileName string
		if obj, ok := p.Object(); ok {
			for _, key := range base64Fields {
				if s, ok := obj[key].(string); ok && s != "" {
					encoded = s
					break
				}
			}
			fileName, _ = obj["fileName"].(string)
		} else if p.IsBytes() {
			encoded = strings.TrimSpace(string(p.Raw()))
		} else {
			return nil, route.Fail(http.StatusBadRequest, "expected json object payload")
		}
		if encoded == "" {
			return nil, route.Fail(http.StatusBadRequest, "missing base64 field (one of %s)", strings.Join(base64Fields, ", "))
		}

		declared, data, err := decodeBase64(encoded)
		if err != nil {
			return nil, route.Fail(http.StatusBadRequest, "invalid base64: %v", err)
		}

		ext := extensionFor(declared, data)
		name := generatedName("screenshot", ext)
		if fileName != "" {
			name = sanitizeFilename(fileName, ext)
		}
		path, err := save(dir, name, data)
		if err != nil {
			return nil, err
		}
		return Saved{Saved: path, SizeBytes: len(data), ContentType: declared}, nil
	}
}

// decodeBase64 accepts plain base64 or a data:<mime>;base64,<data> URL
func decodeBase64(s string) (string, []byte, error) {
	var declared string
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, errInvalidDataURL
		}
		declared, _, _ = strings.Cut(meta, ";")
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", nil, err
	}
	return declared, data, nil
}

// SaveRaw stores a raw body in dir under a generated name
func SaveRaw(dir string) route.Handler {
	return func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		if !p.IsBytes() {
			return nil, route.Fail(http.StatusBadRequest, "expected raw bytes payload")
		}
		data := p.Raw()
		if len(data) == 0 {
			return nil, route.Fail(http.StatusBadRequest, "empty body")
		}
		path, err := save(dir, generatedName("raw", extensionFor("", data)), data)
		if err != nil {
			return nil, err
		}
		return Saved{Saved: path, SizeBytes: len(data), ContentType: p.MIME()}, nil
	}
}

// PageSource saves the html field of a JSON payload
func PageSource(dir string) route.Handler {
	return func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		obj, ok := p.Object()
		if !ok {
			return nil, route.Fail(http.StatusBadRequest, "expected json object payload")
		}
		html, _ := obj["html"].(string)
		path, err := save(dir, generatedName("page_source", ".html"), []byte(html))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"saved":     path,
			"length":    len(html),
			"tabUrl":    obj["tabUrl"],
			"timestamp": obj["timestamp"],
		}, nil
	}
}

// Cookies echoes a cookie export with a summary
func Cookies() route.Handler {
	return func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		obj, _ := p.Object()

		var cookies any
		if arr, isArr := p.Value().([]any); isArr {
			cookies = arr
		} else if c, ok := obj["cookies"]; ok && c != nil {
			cookies = c
		} else {
			cookies = obj["cookie"]
		}
		var count any
		switch c := cookies.(type) {
		case []any:
			count = len(c)
		case map[string]any:
			count = len(c)
		case nil:
			cookies, count = []any{}, 0
		}

		return map[string]any{
			"received": map[string]any{
				"cookieAll":    obj["cookieAll"],
				"cookieDomain": obj["cookieDomain"],
				"cookieNames":  obj["cookieNames"],
				"cookieCount":  count,
			},
			"cookies": cookies,
		}, nil
	}
}

// Mount registers the built-in handlers used by the extension's test
// workflows. Uploads land in dir.
func Mount(registry *route.Registry, dir string, logger *logging.Logger) error {
	routes := []struct {
		path    string
		handler route.Handler
		methods []string
	}{
		{"/receive", Receive(logger), nil},
		{"/upload", SaveBase64(dir), []string{http.MethodPost, http.MethodPut}},
		{"/image", SaveBase64(dir), nil},
		{"/image-raw", SaveRaw(dir), nil},
		{"/cookies", Cookies(), []string{http.MethodPost, http.MethodPut}},
		{"/page-source", PageSource(dir), []string{http.MethodPost, http.MethodPut}},
	}
	for _, r := range routes {
		if err := registry.Register(r.path, r.handler, r.methods...); err != nil {
			return err
		}
	}
	return nil
}
