package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchVersionRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/version" {
			http.NotFound(w, r)
			return
		}
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Browser":"Chrome/126.0","Protocol-Version":"1.3","webSocketDebuggerUrl":"ws://127.0.0.1/devtools/browser/x"}`))
	}))
	defer server.Close()

	info, err := fetchVersion(context.Background(), newDevToolsClient(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "Chrome/126.0", info.Browser)
	assert.Equal(t, "ws://127.0.0.1/devtools/browser/x", info.WebSocketDebuggerURL)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchVersionMissingDebuggerURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Browser":"Chrome/126.0"}`))
	}))
	defer server.Close()

	_, err := fetchVersion(context.Background(), newDevToolsClient(server.URL))
	assert.ErrorContains(t, err, "no webSocketDebuggerUrl")
}

func TestFetchVersionUnreachable(t *testing.T) {
	port, err := freePort()
	require.NoError(t, err)

	_, err = fetchVersion(context.Background(), newDevToolsClient("http://127.0.0.1:"+itoa(port)))
	assert.Error(t, err)
}
