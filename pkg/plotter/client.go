package plotter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/httputil"
)

// ErrStop ends Progress without error when returned by its callback.
var ErrStop = stderrors.New("stop following progress")

// Client talks to a plotter Server.
type Client struct {
	baseURL string
	http    *http.Client
	stream  *http.Client
	logger  *log.Logger

	// Attempts and Delay control retries of transient failures.
	Attempts int
	Delay    time.Duration
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, logger *log.Logger) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httputil.NewHTTPClient(0),
		stream:   httputil.NewHTTPClient(-1),
		logger:   logger,
		Attempts: httputil.DefaultAttempts,
		Delay:    httputil.DefaultDelay,
	}, nil
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Send posts a command. Failures reported by the server come back as coded
// errors carrying the server's message.
func (c *Client) Send(ctx context.Context, req Request) (Response, error) {
	var resp Response
	err := c.postJSON(ctx, "/plotter", req, &resp)
	return resp, err
}

// SaveSVG asks the server to archive an SVG.
func (c *Client) SaveSVG(ctx context.Context, req SaveRequest) (SaveResponse, error) {
	var resp SaveResponse
	err := c.postJSON(ctx, "/save-svg", req, &resp)
	return resp, err
}

// Status reports whether the server is plotting.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var resp StatusResponse
	err := httputil.Retry(ctx, c.Attempts, c.Delay, func() error {
		req, err := http.NewRequest(http.MethodGet, c.baseURL+"/status", nil)
		if err != nil {
			return err
		}
		r, err := httputil.Do(ctx, c.http, req)
		if err != nil {
			return err
		}
		return httputil.DecodeJSON(r, &resp)
	})
	return resp, err
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request")
	}
	return httputil.Retry(ctx, c.Attempts, c.Delay, func() error {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := httputil.Do(ctx, c.http, req)
		if err != nil {
			c.logger.Debug("request failed", "path", path, "error", err)
			return err
		}
		return httputil.DecodeJSON(resp, out)
	})
}

// Stream is an open subscription to the progress stream.
type Stream struct {
	ctx  context.Context
	body io.ReadCloser
}

// Subscribe connects to the progress stream, retrying transient failures.
// Once it returns, every message published by the server reaches the
// stream.
func (c *Client) Subscribe(ctx context.Context) (*Stream, error) {
	var body io.ReadCloser
	err := httputil.Retry(ctx, c.Attempts, c.Delay, func() error {
		req, err := http.NewRequest(http.MethodGet, c.baseURL+"/plot-progress", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "text/event-stream")
		resp, err := httputil.Do(ctx, c.stream, req)
		if err != nil {
			return err
		}
		if err := httputil.CheckStatus(resp); err != nil {
			return err
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Stream{ctx: ctx, body: body}, nil
}

// Each calls fn for every message until the server closes the stream, the
// subscription's context is cancelled or fn returns an error. Returning
// ErrStop ends it cleanly.
func (s *Stream) Each(fn func(msg string) error) error {
	err := ReadEvents(s.body, fn)
	switch {
	case stderrors.Is(err, ErrStop):
		return nil
	case s.ctx.Err() != nil:
		return s.ctx.Err()
	}
	return err
}

// Close ends the subscription.
func (s *Stream) Close() error { return s.body.Close() }

// Progress subscribes to the progress stream and calls fn for every
// message as [Stream.Each] does. Connecting is retried; a dropped stream
// is not.
func (c *Client) Progress(ctx context.Context, fn func(msg string) error) error {
	s, err := c.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Each(fn)
}

// ReadEvents parses a server-sent event stream and calls fn with the
// progress text of each event. Comments and events without a progress
// payload are skipped.
func ReadEvents(r io.Reader, fn func(msg string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var data strings.Builder
	dispatch := func() error {
		if data.Len() == 0 {
			return nil
		}
		var ev Event
		err := json.Unmarshal([]byte(data.String()), &ev)
		data.Reset()
		if err != nil {
			return nil
		}
		return fn(ev.Progress)
	}

	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if err := dispatch(); err != nil {
				return err
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return dispatch()
}

// IsFinal reports whether msg ends a plot.
func IsFinal(msg string) bool {
	return msg == MessageComplete || msg == MessageError
}
