package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

func setupRouter(t *testing.T, opts Options) (*gin.Engine, *route.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := route.NewRegistry()

	registry.MustRegister("/receive", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return map[string]any{
			"payloadType": p.Kind().String(),
			"method":      m.Method,
			"path":        m.Path,
		}, nil
	})
	registry.MustRegister("/cookies", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return p.Value(), nil
	})

	return NewRouter(registry, opts), registry
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(body, &out))
	return out
}

func TestDispatchJSON(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader(`{"hello":"world"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w.Body.Bytes())
	assert.Equal(t, true, data["ok"])
	result := data["result"].(map[string]any)
	assert.Equal(t, "json", result["payloadType"])
	assert.Equal(t, "POST", result["method"])
	assert.Equal(t, "/receive", result["path"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDispatchRawBytes(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/receive", bytes.NewReader([]byte("raw-bytes")))
	req.Header.Set("Content-Type", "application/octet-stream")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w.Body.Bytes())
	assert.Equal(t, true, data["ok"])
	assert.Equal(t, "bytes", data["result"].(map[string]any)["payloadType"])
}

func TestDispatchEchoArray(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	payload := `[{"name":"a","value":"1"}]`
	req := httptest.NewRequest(http.MethodPost, "/cookies", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"result":[{"name":"a","value":"1"}]}`, w.Body.String())
}

func TestDispatchScenario(t *testing.T) {
	router, registry := setupRouter(t, Options{})
	registry.MustRegister("/receive", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return map[string]any{"x": 1}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"result":{"x":1}}`, w.Body.String())
}

func TestDispatchNilResult(t *testing.T) {
	router, registry := setupRouter(t, Options{})
	registry.MustRegister("/silent", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return nil, nil
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/silent", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"result":null}`, w.Body.String())
}

func TestDispatchOptions(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	for _, path := range []string{"/receive", "/cookies/"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, path, nil))

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
			assert.Empty(t, w.Body.String())
		})
	}
}

func TestDispatchPreflightWithOrigin(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	req := httptest.NewRequest(http.MethodOptions, "/receive", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnopabcdefghijklmnop")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}

func TestDispatchPreflightUnregistered(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	req := httptest.NewRequest(http.MethodOptions, "/nope", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnopabcdefghijklmnop")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"not found: /nope"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestDispatchNotFound(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"not found: /missing"}`, w.Body.String())
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	router, _ := setupRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/receive", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, false, decode(t, w.Body.Bytes())["ok"])
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Allow"))
}

func TestDispatchHandlerErrors(t *testing.T) {
	router, registry := setupRouter(t, Options{})
	registry.MustRegister("/boom", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return nil, errors.New("boom")
	})
	registry.MustRegister("/picky", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return nil, route.Fail(http.StatusBadRequest, "expected json payload")
	})
	registry.MustRegister("/panic", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		panic("unexpected")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantError  string
	}{
		{path: "/boom", wantStatus: http.StatusInternalServerError, wantError: "boom"},
		{path: "/picky", wantStatus: http.StatusBadRequest, wantError: "expected json payload"},
		{path: "/panic", wantStatus: http.StatusInternalServerError, wantError: "handler panic: unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader("x")))

			assert.Equal(t, tt.wantStatus, w.Code)
			data := decode(t, w.Body.Bytes())
			assert.Equal(t, false, data["ok"])
			assert.Equal(t, tt.wantError, data["error"])
		})
	}

	// server keeps serving after failures
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDispatchBodyLimit(t *testing.T) {
	router, _ := setupRouter(t, Options{MaxBodyBytes: 8})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader("0123456789abcdef")))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, false, decode(t, w.Body.Bytes())["ok"])
}

func TestDispatchLateRegistration(t *testing.T) {
	router, registry := setupRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/late", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	registry.MustRegister("/late", func(ctx context.Context, p route.Payload, m route.Meta) (any, error) {
		return "ok", nil
	}, http.MethodPost, http.MethodPut)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/late", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"result":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := monitoring.NewMetrics()
	router, _ := setupRouter(t, Options{Metrics: metrics, MetricsPath: "/metrics"})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader("{}")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `runyx_http_requests_total{method="POST",route="/receive",status="200"} 1`)
}
