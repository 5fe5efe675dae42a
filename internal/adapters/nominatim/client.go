// Package nominatim is the retained network fallback behind
// ports.GeocodeProvider. It speaks the Nominatim reverse-geocoding JSON
// API and is only wired in when the offline table is explicitly
// disabled; the primary path never touches the network.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Client reverse-geocodes through a Nominatim-compatible endpoint,
// keeping at most maxInFlight requests outstanding.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  chan struct{}
}

// NewClient builds a client for the given endpoint. maxInFlight <= 0
// falls back to 50, matching the aggregation prefetch bound.
func NewClient(baseURL string, timeout time.Duration, maxInFlight int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxInFlight <= 0 {
		maxInFlight = 50
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  make(chan struct{}, maxInFlight),
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		Country string `json:"country"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Geocode resolves a coordinate through the remote endpoint. Failures
// are mapped onto the domain geocode errors so the aggregator can skip
// the point and keep going: deadline hits become ErrGeocodeTimeout,
// everything else on the wire becomes ErrGeocodeTransport, and a clean
// response without an address becomes ErrGeocodeNoResult.
func (c *Client) Geocode(ctx context.Context, lat, lon float64) (domain.GeocodeResult, error) {
	c.tokens <- struct{}{}
	defer func() { <-c.tokens }()

	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%f&lon=%f", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("%w: %v", domain.ErrGeocodeTransport, err)
	}
	req.Header.Set("User-Agent", "mileatlas/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return domain.GeocodeResult{}, fmt.Errorf("%w: %v", domain.ErrGeocodeTimeout, err)
		}
		return domain.GeocodeResult{}, fmt.Errorf("%w: %v", domain.ErrGeocodeTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeocodeResult{}, fmt.Errorf("%w: status %d", domain.ErrGeocodeTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("%w: %v", domain.ErrGeocodeTransport, err)
	}

	var rr reverseResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("%w: %v", domain.ErrGeocodeTransport, err)
	}
	if rr.Error != "" || rr.Address.Country == "" {
		return domain.GeocodeResult{}, domain.ErrGeocodeNoResult
	}

	country := domain.NormalizeCountry(rr.Address.Country)
	city := rr.Address.City
	if city == "" {
		city = rr.Address.Town
	}
	if city == "" {
		city = rr.Address.Village
	}

	res := domain.GeocodeResult{Country: country, City: city, Confidence: 0.90}
	if city == "" {
		res.City = fmt.Sprintf("Other %s", country)
		res.Confidence = 0.60
	}
	return res, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
