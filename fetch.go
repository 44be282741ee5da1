package countrybed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DatasetFields is the projection requested from the API. The all
// endpoint accepts at most ten fields.
var DatasetFields = []string{
	"name",
	"capital",
	"currencies",
	"population",
	"flags",
	"languages",
	"region",
	"subregion",
	"timezones",
	"latlng",
}

// maxErrorBody caps how much of a failed response is kept.
const maxErrorBody = 64 << 10

// Fetcher retrieves the full country dataset.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]Country, error)
}

// RestCountriesFetcher fetches the dataset from a REST Countries v3.1 API.
type RestCountriesFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewRestCountriesFetcher uses cfg.BaseURL and cfg.HTTPClient.
func NewRestCountriesFetcher(cfg *Config) *RestCountriesFetcher {
	return &RestCountriesFetcher{
		BaseURL: cfg.BaseURL,
		Client:  cfg.HTTPClient,
	}
}

// URL returns the full request URL including the field projection.
func (f *RestCountriesFetcher) URL() string {
	return strings.TrimRight(f.BaseURL, "/") + "/all?fields=" + strings.Join(DatasetFields, ",")
}

// FetchAll issues a single GET. Transport failures and non-2xx responses
// are *FetchError; a body that is not a country array is *ParseError.
func (f *RestCountriesFetcher) FetchAll(ctx context.Context) ([]Country, error) {
	endpoint := f.URL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "countrybed/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	return decodeCountries(endpoint, body)
}

// decodeCountries parses a JSON array of countries. Every entry must
// carry a common name since it is the lookup key.
func decodeCountries(source string, b []byte) ([]Country, error) {
	var countries []Country
	if err := json.Unmarshal(b, &countries); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	if countries == nil {
		return nil, &ParseError{Source: source, Err: errors.New("expected a JSON array of countries")}
	}
	for i, c := range countries {
		if strings.TrimSpace(c.Name.Common) == "" {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("entry %d has no common name", i)}
		}
		if c.Population != nil && *c.Population < 0 {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("%s: negative population", c.Name.Common)}
		}
	}
	return countries, nil
}
