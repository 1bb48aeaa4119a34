// Package feargreed reads the crypto Fear & Greed index from alternative.me.
package feargreed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
)

const provider = "feargreed"

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

// Index returns the latest limit readings, newest first.
func (c *Client) Index(ctx context.Context, limit int) ([]models.FearGreed, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("format", "json")

	res, err := httptools.GetJSON(ctx, c.http, provider, c.baseURL+"/fng/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("get fear and greed error: %w", err)
	}

	data := res.Get("data").Array()
	out := make([]models.FearGreed, 0, len(data))

	for _, v := range data {
		// The API encodes numbers as strings.
		value, err := strconv.ParseInt(v.Get("value").String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value error: %w", err)
		}

		ts, err := strconv.ParseInt(v.Get("timestamp").String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp error: %w", err)
		}

		out = append(out, models.FearGreed{
			Value:          value,
			Classification: v.Get("value_classification").String(),
			Timestamp:      time.Unix(ts, 0).UTC(),
		})
	}

	return out, nil
}
