package countrybed

import (
	"fmt"
	"sort"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable stands in for any absent field in a Record.
const NotAvailable = "not available"

// geohashPrecision is about 150m of resolution, plenty for a country
// reference point.
const geohashPrecision = 7

// Record is the flat, display-ready projection of a Country.
type Record struct {
	Name        string
	Official    string
	Capital     string
	Region      string
	Subregion   string
	Population  string
	Currencies  string
	Languages   string
	Timezones   string
	Coordinates string
	Geohash     string
	Domains     string
	Flag        []string
}

var numberPrinter = message.NewPrinter(language.English)

// Describe projects c for display. flag is the rendered flag art and
// may be nil.
func Describe(c Country, flag []string) Record {
	rec := Record{
		Name:        c.Name.Common,
		Official:    orNA(c.Name.Official),
		Capital:     joinOrNA(c.Capital),
		Region:      ptrOrNA(c.Region),
		Subregion:   ptrOrNA(c.Subregion),
		Population:  NotAvailable,
		Currencies:  currenciesOrNA(c.Currencies),
		Languages:   languagesOrNA(c.Languages),
		Timezones:   joinOrNA(c.Timezones),
		Coordinates: NotAvailable,
		Geohash:     NotAvailable,
		Domains:     joinOrNA(c.TLD),
		Flag:        []string{NotAvailable},
	}
	if c.Population != nil {
		rec.Population = numberPrinter.Sprintf("%d", *c.Population)
	}
	if lat, lng, ok := c.Coordinates(); ok {
		rec.Coordinates = fmt.Sprintf("%.2f, %.2f", lat, lng)
		h := geohash.Encode(lat, lng)
		if len(h) > geohashPrecision {
			h = h[:geohashPrecision]
		}
		rec.Geohash = h
	}
	if len(flag) > 0 {
		rec.Flag = flag
	}
	return rec
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func ptrOrNA(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return orNA(*s)
}

func joinOrNA(ss []string) string {
	if len(ss) == 0 {
		return NotAvailable
	}
	return orNA(strings.Join(ss, ", "))
}

// sortedKeys gives map flattening a stable order: ISO code ascending.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func currenciesOrNA(m map[string]Currency) string {
	if len(m) == 0 {
		return NotAvailable
	}
	parts := make([]string, 0, len(m))
	for _, code := range sortedKeys(m) {
		cur := m[code]
		name := cur.Name
		if name == "" {
			name = code
		}
		if cur.Symbol != "" {
			name += " (" + cur.Symbol + ")"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func languagesOrNA(m map[string]string) string {
	if len(m) == 0 {
		return NotAvailable
	}
	parts := make([]string, 0, len(m))
	for _, code := range sortedKeys(m) {
		name := m[code]
		if name == "" {
			name = code
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}
