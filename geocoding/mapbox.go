// Package geocoding converts between free-text addresses and coordinates
// using the Mapbox Geocoding API.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nagar-connect/config"
)

var (
	// ErrNotFound means the service answered but returned zero results.
	ErrNotFound = errors.New("geocoding: no results")
	// ErrService means the call failed (network error or non-2xx response).
	ErrService = errors.New("geocoding: service error")
	// ErrMalformed means a result came back without a usable coordinate pair.
	ErrMalformed = errors.New("geocoding: malformed result")
	// ErrEmptyAddress is returned before any network call.
	ErrEmptyAddress = errors.New("geocoding: address is empty")
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

type Config struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
}

// Mapbox is a single-shot client: no caching, no retry.
type Mapbox struct {
	token   string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewMapbox(cfg Config, log zerolog.Logger) (*Mapbox, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("%w: mapbox access token is required", config.ErrMisconfigured)
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.mapbox.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Mapbox{
		token:   cfg.AccessToken,
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("adapter", "mapbox").Logger(),
	}, nil
}

type featureCollection struct {
	Features []struct {
		Center    []float64 `json:"center"`
		PlaceName string    `json:"place_name"`
	} `json:"features"`
}

// Forward resolves address to the first matching point.
func (m *Mapbox) Forward(ctx context.Context, address string) (Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinates{}, ErrEmptyAddress
	}

	fc, err := m.lookup(ctx, url.PathEscape(address), url.Values{"limit": {"1"}})
	if err != nil {
		return Coordinates{}, err
	}
	center := fc.Features[0].Center
	if len(center) != 2 {
		return Coordinates{}, fmt.Errorf("%w: center has %d values", ErrMalformed, len(center))
	}
	return Coordinates{Longitude: center[0], Latitude: center[1]}, nil
}

// Reverse returns the place name for a point.
func (m *Mapbox) Reverse(ctx context.Context, lon, lat float64) (string, error) {
	query := strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
	fc, err := m.lookup(ctx, query, url.Values{"limit": {"1"}})
	if err != nil {
		return "", err
	}
	name := fc.Features[0].PlaceName
	if name == "" {
		return "", fmt.Errorf("%w: empty place name", ErrMalformed)
	}
	return name, nil
}

func (m *Mapbox) lookup(ctx context.Context, query string, params url.Values) (*featureCollection, error) {
	params.Set("access_token", m.token)
	endpoint := m.baseURL + "/geocoding/v5/mapbox.places/" + query + ".json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrService, err)
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, redact(err, m.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.log.Warn().Int("status", resp.StatusCode).Msg("geocoding request rejected")
		return nil, fmt.Errorf("%w: status=%d", ErrService, resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrService, err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNotFound
	}
	return &fc, nil
}

// url.Error embeds the full request URL, token included.
func redact(err error, token string) string {
	return strings.ReplaceAll(err.Error(), token, "***")
}
