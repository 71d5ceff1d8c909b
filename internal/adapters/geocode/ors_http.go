package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxAttempts bounds how many times a geocode lookup is sent upstream.
const maxAttempts = 4

// maxBody caps how much of an upstream response is read.
const maxBody = 1 << 20

// statusError is a non-2xx answer from the geocoding service.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("openrouteservice geocode: status %d", e.Status)
	}
	return fmt.Sprintf("openrouteservice geocode: status %d: %s", e.Status, e.Body)
}

// temporary reports whether the service may answer differently on a retry.
func (e *statusError) temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// fetchJSON sends a GET for endpoint with query and returns the response
// body. Rate limiting, server errors and network errors are retried with
// doubling backoff until maxAttempts or ctx ends.
func (o *ORSResolver) fetchJSON(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	target := endpoint + "?" + query.Encode()
	wait := o.backoff

	for attempt := 1; ; attempt++ {
		body, err := o.fetchOnce(ctx, target)
		if err == nil {
			return body, nil
		}
		if attempt == maxAttempts || !shouldRetry(err) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func (o *ORSResolver) fetchOnce(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &statusError{Status: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.temporary()
	}
	var ne net.Error
	return errors.As(err, &ne)
}
