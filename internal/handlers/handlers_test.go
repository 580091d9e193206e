package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

// pngHeader is the PNG signature plus the start of an IHDR chunk
const pngHeader = "iVBORw0KGgoAAAANSUhEUg=="

func call(t *testing.T, h route.Handler, p route.Payload) (any, error) {
	t.Helper()
	return h(context.Background(), p, route.Meta{Method: http.MethodPost, Path: "/test"})
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var hErr *route.HandlerError
	require.True(t, errors.As(err, &hErr), "expected HandlerError, got %v", err)
	assert.Equal(t, status, hErr.Status)
}

func TestReceive(t *testing.T) {
	out, err := call(t, Receive(nil), route.JSON(map[string]any{"hello": "world"}))
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	out, err = call(t, Receive(nil), route.Bytes([]byte{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestSaveBase64(t *testing.T) {
	tests := []struct {
		name    string
		payload route.Payload
		ext     string
		file    string
	}{
		{"plain field", route.JSON(map[string]any{"data": pngHeader}), ".png", ""},
		{"screenshot wins", route.JSON(map[string]any{"screenshot": pngHeader, "data": "garbage"}), ".png", ""},
		{"data url", route.JSON(map[string]any{"dataUrl": "data:image/jpeg;base64," + pngHeader}), ".jpg", ""},
		{"named", route.JSON(map[string]any{"image": pngHeader, "fileName": "../shot.webp"}), "", "shot.webp"},
		{"raw body", route.Bytes([]byte(pngHeader + "\n")), ".png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out, err := call(t, SaveBase64(dir), tt.payload)
			require.NoError(t, err)

			saved := out.(Saved)
			assert.Equal(t, dir, filepath.Dir(saved.Saved))
			assert.Equal(t, 16, saved.SizeBytes)
			if tt.file != "" {
				assert.Equal(t, tt.file, filepath.Base(saved.Saved))
			} else {
				assert.True(t, strings.HasPrefix(filepath.Base(saved.Saved), "screenshot_"))
				assert.Equal(t, tt.ext, filepath.Ext(saved.Saved))
			}

			data, err := os.ReadFile(saved.Saved)
			require.NoError(t, err)
			assert.Equal(t, "\x89PNG", string(data[:4]))
		})
	}
}

func TestSaveBase64Rejects(t *testing.T) {
	dir := t.TempDir()

	_, err := call(t, SaveBase64(dir), route.JSON([]any{"x"}))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = call(t, SaveBase64(dir), route.JSON(map[string]any{"other": "x"}))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = call(t, SaveBase64(dir), route.JSON(map[string]any{"data": "not base64!!"}))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = call(t, SaveBase64(dir), route.JSON(map[string]any{"data": "data:image/png;base64"}))
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSaveRaw(t *testing.T) {
	dir := t.TempDir()
	out, err := call(t, SaveRaw(dir), route.Bytes([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")))
	require.NoError(t, err)

	saved := out.(Saved)
	assert.Equal(t, ".png", filepath.Ext(saved.Saved))
	assert.Equal(t, "image/png", saved.ContentType)

	_, err = call(t, SaveRaw(dir), route.JSON(map[string]any{"a": 1}))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = call(t, SaveRaw(dir), route.Bytes(nil))
	requireStatus(t, err, http.StatusBadRequest)
}

func TestPageSource(t *testing.T) {
	dir := t.TempDir()
	out, err := call(t, PageSource(dir), route.JSON(map[string]any{
		"html":   "<html><body>hi</body></html>",
		"tabUrl": "https://example.com",
	}))
	require.NoError(t, err)

	result := out.(map[string]any)
	assert.Equal(t, 28, result["length"])
	assert.Equal(t, "https://example.com", result["tabUrl"])

	data, err := os.ReadFile(result["saved"].(string))
	require.NoError(t, err)
	assert.Equal(t, "<html><body>hi</body></html>", string(data))
}

func TestCookies(t *testing.T) {
	out, err := call(t, Cookies(), route.JSON(map[string]any{
		"cookies":      []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}},
		"cookieDomain": "example.com",
	}))
	require.NoError(t, err)

	result := out.(map[string]any)
	received := result["received"].(map[string]any)
	assert.Equal(t, 2, received["cookieCount"])
	assert.Equal(t, "example.com", received["cookieDomain"])

	// a bare array export is the cookie list itself
	out, err = call(t, Cookies(), route.JSON([]any{map[string]any{"name": "a", "value": "1"}}))
	require.NoError(t, err)
	result = out.(map[string]any)
	assert.Equal(t, 1, result["received"].(map[string]any)["cookieCount"])
	assert.Equal(t, []any{map[string]any{"name": "a", "value": "1"}}, result["cookies"])

	out, err = call(t, Cookies(), route.Bytes([]byte("nothing")))
	require.NoError(t, err)
	assert.Equal(t, 0, out.(map[string]any)["received"].(map[string]any)["cookieCount"])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, hint, want string
	}{
		{"shot.png", ".jpg", "shot.png"},
		{"../../etc/passwd", ".png", "passwd.png"},
		{`C:\tmp\a.b.jpg`, "", "a.b.jpg"},
		{"noext", "", "noext.bin"},
		{".hidden", "png", "hidden.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in, tt.hint), tt.in)
	}
}

func TestMount(t *testing.T) {
	registry := route.NewRegistry()
	require.NoError(t, Mount(registry, t.TempDir(), nil))

	for _, path := range []string{"/receive", "/upload", "/image", "/image-raw", "/cookies", "/page-source"} {
		_, ok := registry.Lookup(path)
		assert.True(t, ok, path)
	}
	upload, _ := registry.Lookup("/upload/")
	assert.True(t, upload.Allows(http.MethodPut))
}
