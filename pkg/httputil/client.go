package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sdjayna/penplot/pkg/buildinfo"
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/observability"
)

// DefaultTimeout bounds requests made by [NewHTTPClient] clients.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns a client with the given timeout, or DefaultTimeout
// when timeout is zero. A negative timeout disables it, which streaming
// endpoints need.
func NewHTTPClient(timeout time.Duration) *http.Client {
	switch {
	case timeout == 0:
		timeout = DefaultTimeout
	case timeout < 0:
		timeout = 0
	}
	return &http.Client{Timeout: timeout}
}

// Do sends req with penplot's User-Agent and reports it to the HTTP hooks.
// Transport failures come back as retryable NETWORK_ERROR errors unless ctx
// was cancelled.
func Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", buildinfo.UserAgent())
	}
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", req.Method, req.URL.Redacted()))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// CheckStatus returns nil for 2xx responses. Otherwise it reads the body,
// preferring a JSON {"message": ...} field, and returns the matching coded
// error. 5xx responses are retryable except 501 and 502; a 502 means the
// plotter itself rejected the command. The body is closed on error.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := strings.TrimSpace(string(raw))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	err := errors.FromStatus(resp.StatusCode, msg)
	if retryableStatus(resp.StatusCode) {
		return Retryable(err)
	}
	return err
}

// DecodeJSON checks the status of resp and decodes its body into v.
func DecodeJSON(resp *http.Response, v any) error {
	if err := CheckStatus(resp); err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusNotImplemented, http.StatusBadGateway:
		return false
	}
	return status >= 500
}
