package proxybench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

type failure string

const (
	failureNone       failure = ""
	failureTimeout    failure = "timeout"
	failureConnection failure = "connection"
)

// outcome is the explicit result of a single HTTP request.
// Either a response was received (statusCode, header, body set)
// or the request failed (failure and err set).
type outcome struct {
	statusCode int
	elapsed    time.Duration
	header     http.Header
	body       []byte
	failure    failure
	err        error
}

func (o outcome) ok() bool {
	return o.failure == failureNone
}

// client issues one bounded-timeout request at a time and turns every
// transport error into a classified outcome instead of propagating it.
type client struct {
	http *http.Client
}

func newClient() client {
	return client{
		http: &http.Client{
			// Fresh connection per request, so connection reuse
			// cannot mask cache timing.
			Transport: &http.Transport{DisableKeepAlives: true},
		},
	}
}

// do issues a single request and measures wall-clock time until the full
// body has been read. host, if non-empty, overrides the Host header
// (needed when addressing an origin through the proxy).
func (c client) do(method, url, host, contentType string, body []byte, timeout time.Duration) outcome {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return outcome{failure: failureConnection, err: err}
	}
	if host != "" {
		req.Host = host
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	res, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return outcome{elapsed: time.Since(start), failure: classifyFailure(err), err: err}
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	elapsed := time.Since(start)
	if err != nil {
		return outcome{statusCode: res.StatusCode, elapsed: elapsed, failure: classifyFailure(err), err: err}
	}
	return outcome{
		statusCode: res.StatusCode,
		elapsed:    elapsed,
		header:     res.Header,
		body:       b,
	}
}

func (c client) get(url, host string, timeout time.Duration) outcome {
	return c.do(http.MethodGet, url, host, "", nil, timeout)
}

func classifyFailure(err error) failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failureTimeout
	}
	return failureConnection
}
