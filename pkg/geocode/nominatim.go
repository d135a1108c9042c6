package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/company-hunter/pkg/apierror"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim geocodes through OpenStreetMap. The public instance allows
// one request per second and requires an identifying User-Agent.
type Nominatim struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	countryCodes string
	limiter      *rate.Limiter
}

type NominatimOption func(*Nominatim)

func WithBaseURL(baseURL string) NominatimOption {
	return func(n *Nominatim) {
		if strings.TrimSpace(baseURL) != "" {
			n.baseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) NominatimOption {
	return func(n *Nominatim) {
		if client != nil {
			n.httpClient = client
		}
	}
}

func WithUserAgent(userAgent string) NominatimOption {
	return func(n *Nominatim) {
		n.userAgent = userAgent
	}
}

// WithMinInterval sets the spacing between requests; zero disables limiting
func WithMinInterval(interval time.Duration) NominatimOption {
	return func(n *Nominatim) {
		if interval <= 0 {
			n.limiter = nil
			return
		}
		n.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithCountryCodes restricts matches, e.g. "gb" or "gb,ie"
func WithCountryCodes(codes string) NominatimOption {
	return func(n *Nominatim) {
		n.countryCodes = codes
	}
}

func NewNominatim(opts ...NominatimOption) *Nominatim {
	n := &Nominatim{
		baseURL:    DefaultNominatimURL,
		httpClient: http.DefaultClient,
		userAgent:  "company-hunter/1.0",
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Geocode(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrNotResolvable
	}

	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("geocode: nominatim rate limit: %w", err)
		}
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)
	if n.countryCodes != "" {
		params.Set("countrycodes", n.countryCodes)
	}

	endpoint := strings.TrimRight(n.baseURL, "/") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: nominatim build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(n.userAgent) != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: nominatim request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := apierror.FromResponse("nominatim", resp); err != nil {
		return Result{}, err
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("geocode: nominatim decode response: %w", err)
	}
	if len(places) == 0 {
		return Result{}, ErrNotResolvable
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: nominatim latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: nominatim longitude %q: %w", places[0].Lon, err)
	}

	return Result{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: places[0].DisplayName,
		Provider:         "nominatim",
	}, nil
}
