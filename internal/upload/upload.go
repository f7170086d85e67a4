package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/metrics"
)

// ContentType is sent with every frame.
const ContentType = "image/jpeg"

// maxVerdictBytes bounds how much of a response body is read.
const maxVerdictBytes = 64 << 10

// Result is the outcome of one upload as seen by the node. StatusCode is the
// HTTP status, or 0 when the request never got a response.
type Result struct {
	StatusCode int
	Body       string
	Err        error
}

// Positive reports whether the server answered at all. The status value
// beyond positivity carries no meaning for the node.
func (r Result) Positive() bool {
	return r.StatusCode > 0
}

// Client posts frames to the classifier endpoint.
type Client struct {
	url  string
	http *http.Client
}

// New creates a client for url; timeout bounds one whole request.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Submit posts data as the request body and returns the status and body.
// It never returns a nil-status success: transport failures yield
// StatusCode 0 with Err set.
func (c *Client) Submit(ctx context.Context, data []byte, traceID string) Result {
	start := time.Now()
	res := c.submit(ctx, data, traceID)

	label := "transport_error"
	if res.Positive() {
		label = strconv.Itoa(res.StatusCode)
	}
	metrics.ObserveUpload(label, time.Since(start))

	if res.Err != nil {
		debug.Error(res.Err)
	}
	return res
}

func (c *Client) submit(ctx context.Context, data []byte, traceID string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return Result{Err: fmt.Errorf("build upload request: %w", err)}
	}
	req.Header.Set("Content-Type", ContentType)
	if traceID != "" {
		req.Header.Set("X-Request-ID", traceID)
	}

	debug.Verbose("Upload: POST %s (%d bytes, trace %s)", c.url, len(data), traceID)
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("upload: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerdictBytes))
	res := Result{StatusCode: resp.StatusCode, Body: string(body)}
	if err != nil {
		res.Err = fmt.Errorf("read verdict: %w", err)
	}
	debug.Verbose("Upload: status %d, verdict %q", res.StatusCode, res.Body)
	return res
}
