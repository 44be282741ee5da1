package countrybed

// Country is one record of the REST Countries v3.1 dataset.
// Pointer and slice fields are optional; nil or empty means absent.
type Country struct {
	Name       Name                `json:"name"`
	Capital    []string            `json:"capital,omitempty"`
	Region     *string             `json:"region,omitempty"`
	Subregion  *string             `json:"subregion,omitempty"`
	Population *int64              `json:"population,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
	LatLng     []float64           `json:"latlng,omitempty"`
	TLD        []string            `json:"tld,omitempty"`
	Flags      *Flags              `json:"flags,omitempty"`
}

// Name holds the common (lookup key) and official country names.
type Name struct {
	Common   string `json:"common"`
	Official string `json:"official,omitempty"`
}

// Currency is the display form of one ISO 4217 currency.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Flags references flag images by format.
type Flags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Coordinates returns the country's latitude and longitude.
// ok is false unless the source carried exactly one pair.
func (c Country) Coordinates() (lat, lng float64, ok bool) {
	if len(c.LatLng) != 2 {
		return 0, 0, false
	}
	return c.LatLng[0], c.LatLng[1], true
}

// RegionName returns the region, or "" when absent.
func (c Country) RegionName() string {
	if c.Region == nil {
		return ""
	}
	return *c.Region
}

// FlagURL picks the raster flag image, falling back to SVG.
// ok is false when the country has no flag reference at all.
func (c Country) FlagURL() (string, bool) {
	if c.Flags == nil {
		return "", false
	}
	if c.Flags.PNG != "" {
		return c.Flags.PNG, true
	}
	if c.Flags.SVG != "" {
		return c.Flags.SVG, true
	}
	return "", false
}
