// Package geocode turns free-text addresses into map coordinates. The
// bridge hands results to the UI loop and discards responses from
// superseded requests, so a slow lookup can never move the map backwards.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Result struct {
	Lat   float64
	Lng   float64
	Found bool
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// Nominatim is a minimal OpenStreetMap geocoding client. It rate-limits
// itself to one request per minInterval, as the public instance requires.
type Nominatim struct {
	baseURL     string
	httpClient  *http.Client
	userAgent   string
	minInterval time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

func NewNominatim(baseURL, userAgent string, minInterval time.Duration, httpClient *http.Client) *Nominatim {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Nominatim{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		userAgent:   userAgent,
		minInterval: minInterval,
	}
}

func (n *Nominatim) Geocode(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, nil
	}

	if err := n.waitRateLimit(ctx); err != nil {
		return Result{}, err
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search", nil)
	if err != nil {
		return Result{}, err
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocode: status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: bad lat %q", results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: bad lon %q", results[0].Lon)
	}

	return Result{Lat: lat, Lng: lng, Found: true}, nil
}

func (n *Nominatim) waitRateLimit(ctx context.Context) error {
	n.mu.Lock()
	wait := n.minInterval - time.Since(n.lastRequest)
	n.lastRequest = time.Now().Add(wait)
	n.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
