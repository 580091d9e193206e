package browser

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	devToolsRequestTimeout = 2 * time.Second
	devToolsRetries      = 3
	devToolsRetryWait    = 100 * time.Millisecond
)

// VersionInfo is the /json/version document.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	V8Version            string `json:"V8-Version"`
	WebKitVersion        string `json:"WebKit-Version"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// TargetInfo describes one DevTools target.
type TargetInfo struct {
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Attached bool   `json:"attached"`
}

// newDevToolsClient builds the HTTP client used against the DevTools
// endpoint, on retryablehttp's pooled transport.
func newDevToolsClient(baseURL string) *resty.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	client := resty.New()
	client.
		SetBaseURL(baseURL).
		SetTimeout(devToolsRequestTimeout).
		SetRetryCount(devToolsRetries).
		SetRetryWaitTime(devToolsRetryWait).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500
		})
	client.SetTransport(retryClient.HTTPClient.Transport)
	return client
}

func fetchVersion(ctx context.Context, client *resty.Client) (VersionInfo, error) {
	var info VersionInfo
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/json/version")
	if err != nil {
		return VersionInfo{}, err
	}
	if resp.IsError() {
		return VersionInfo{}, fmt.Errorf("GET /json/version: %s", resp.Status())
	}
	if info.WebSocketDebuggerURL == "" {
		return VersionInfo{}, fmt.Errorf("GET /json/version: no webSocketDebuggerUrl")
	}
	return info, nil
}

// freePort asks the kernel for an unused port.
func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}
