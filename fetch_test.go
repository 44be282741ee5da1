package countrybed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const franceJSON = `[
  {
    "name": {"common": "France", "official": "French Republic", "nativeName": {}},
    "capital": ["Paris"],
    "region": "Europe",
    "subregion": "Western Europe",
    "population": 67391582,
    "currencies": {"EUR": {"name": "Euro", "symbol": "€"}},
    "languages": {"fra": "French"},
    "timezones": ["UTC-10:00", "UTC+01:00"],
    "latlng": [46.0, 2.0],
    "flags": {"png": "https://flagcdn.com/w320/fr.png", "svg": "https://flagcdn.com/fr.svg", "alt": "Tricolour"}
  }
]`

func TestRestCountriesFetcher_URL(t *testing.T) {
	f := NewRestCountriesFetcher(NewConfig(WithBaseURL("https://example.test/v3.1/")))
	want := "https://example.test/v3.1/all?fields=name,capital,currencies,population,flags,languages,region,subregion,timezones,latlng"
	if got := f.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if len(DatasetFields) > 10 {
		t.Errorf("DatasetFields has %d entries; the all endpoint accepts at most 10", len(DatasetFields))
	}
}

func TestRestCountriesFetcher_FetchAll(t *testing.T) {
	var gotPath, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(franceJSON))
	}))
	defer srv.Close()

	f := NewRestCountriesFetcher(NewConfig(WithBaseURL(srv.URL)))
	countries, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if gotPath != "/all" {
		t.Errorf("request path = %q, want /all", gotPath)
	}
	if gotFields != strings.Join(DatasetFields, ",") {
		t.Errorf("fields = %q, want %q", gotFields, strings.Join(DatasetFields, ","))
	}

	if len(countries) != 1 {
		t.Fatalf("FetchAll() returned %d countries, want 1", len(countries))
	}
	c := countries[0]
	if c.Name.Common != "France" || c.Name.Official != "French Republic" {
		t.Errorf("Name = %+v", c.Name)
	}
	if c.RegionName() != "Europe" || c.Subregion == nil || *c.Subregion != "Western Europe" {
		t.Errorf("region/subregion = %v/%v", c.Region, c.Subregion)
	}
	if c.Population == nil || *c.Population != 67391582 {
		t.Errorf("Population = %v", c.Population)
	}
	if c.Currencies["EUR"].Symbol != "€" || c.Languages["fra"] != "French" {
		t.Errorf("currencies/languages = %v/%v", c.Currencies, c.Languages)
	}
	if lat, lng, ok := c.Coordinates(); !ok || lat != 46 || lng != 2 {
		t.Errorf("Coordinates() = %v, %v, %v", lat, lng, ok)
	}
	if u, ok := c.FlagURL(); !ok || u != "https://flagcdn.com/w320/fr.png" {
		t.Errorf("FlagURL() = %q, %v", u, ok)
	}
}

func TestRestCountriesFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"status":500,"message":"boom"}`, ErrFetch},
		{"bad request", http.StatusBadRequest, `{"message":"fields limit exceeded"}`, ErrFetch},
		{"not json", http.StatusOK, `<html>maintenance</html>`, ErrParse},
		{"object not array", http.StatusOK, `{"name":{"common":"France"}}`, ErrParse},
		{"null body", http.StatusOK, `null`, ErrParse},
		{"wrong field type", http.StatusOK, `[{"name":{"common":"France"},"population":"many"}]`, ErrParse},
		{"missing name", http.StatusOK, `[{"capital":["Paris"]}]`, ErrParse},
		{"negative population", http.StatusOK, `[{"name":{"common":"X"},"population":-1}]`, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewRestCountriesFetcher(NewConfig(WithBaseURL(srv.URL)))
			_, err := f.FetchAll(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FetchAll() error = %v, want %v", err, tt.wantErr)
			}

			var fe *FetchError
			if errors.As(err, &fe) {
				if fe.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.status)
				}
				if fe.Body != tt.body {
					t.Errorf("Body = %q, want response body verbatim", fe.Body)
				}
			}
		})
	}
}

func TestRestCountriesFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewRestCountriesFetcher(NewConfig(WithBaseURL(url)))
	_, err := f.FetchAll(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("FetchAll() error = %v, want *FetchError", err)
	}
	if fe.Err == nil {
		t.Error("FetchError.Err = nil, want transport error")
	}
}

func TestRestCountriesFetcher_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	countries, err := NewRestCountriesFetcher(NewConfig(WithBaseURL(srv.URL))).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(countries) != 0 {
		t.Errorf("FetchAll() = %d countries, want 0", len(countries))
	}
}
