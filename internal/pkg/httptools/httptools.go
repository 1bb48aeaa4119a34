package httptools

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var (
	ErrUpstream    = errors.New("upstream error")
	ErrInvalidJSON = errors.New("upstream returned invalid json")
	ErrNotFound    = errors.New("upstream resource not found")
)

const maxBody = 8 << 20

func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{ //nolint:exhaustruct
		Timeout: timeout,
		Transport: &http.Transport{ //nolint:exhaustruct
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12}, //nolint:exhaustruct
			MaxIdleConnsPerHost: 8,                                         //nolint:gomnd
			IdleConnTimeout:     90 * time.Second,                          //nolint:gomnd
		},
	}
}

// GetJSON performs a GET and returns the parsed body. Non-2xx answers and
// bodies that are not valid JSON are reported as ErrUpstream.
func GetJSON(ctx context.Context, client *http.Client, provider, addr string, header http.Header) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("new request error: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		metrics.RecordUpstream(provider, 0)

		return gjson.Result{}, fmt.Errorf("%w: %s: %w", ErrUpstream, provider, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstream(provider, resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %s read body: %w", ErrUpstream, provider, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return gjson.Result{}, fmt.Errorf("%w: %s %s", ErrNotFound, provider, req.URL.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, fmt.Errorf("%w: %s %s %s", ErrUpstream, provider, req.URL.Path, resp.Status)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: %w: %s", ErrUpstream, ErrInvalidJSON, provider)
	}

	return gjson.ParseBytes(body), nil
}

// Decimal reads a JSON number without going through float64.
func Decimal(r gjson.Result) decimal.Decimal {
	if r.Type != gjson.Number {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(r.Raw)
	if err != nil {
		return decimal.NewFromFloat(r.Float())
	}

	return d
}
