package countrybed

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/golang/geo/s2"
)

// maxSuggestDistance caps the edit distance for "did you mean" hints.
const maxSuggestDistance = 3

// defaultSuggestions is how many hints a NotFoundError carries.
const defaultSuggestions = 3

// earthRadiusKm is the mean Earth radius used to turn angles into km.
const earthRadiusKm = 6371.0088

// Index resolves queries against one snapshot. Every lookup returns the
// first match in source order. Safe for concurrent reads.
type Index struct {
	countries []Country
	names     []string // lowercased common names, parallel to countries
}

// NewIndex builds the name index for countries, keeping source order.
func NewIndex(countries []Country) *Index {
	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = normalizeName(c.Name.Common)
	}
	return &Index{countries: countries, names: names}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Len returns the number of indexed countries.
func (x *Index) Len() int {
	return len(x.countries)
}

// Countries returns the indexed countries in source order.
func (x *Index) Countries() []Country {
	return x.countries
}

// Names returns the common names in source order.
func (x *Index) Names() []string {
	out := make([]string, len(x.countries))
	for i, c := range x.countries {
		out[i] = c.Name.Common
	}
	return out
}

// FindByName returns the country whose common name equals query, ignoring
// case. Failing that, it returns the first country whose name contains
// query. Otherwise a *NotFoundError with suggestions is returned.
func (x *Index) FindByName(query string) (Country, error) {
	q := normalizeName(query)
	if q == "" {
		return Country{}, &NotFoundError{Kind: "name", Query: query}
	}

	for i, n := range x.names {
		if n == q {
			return x.countries[i], nil
		}
	}
	for i, n := range x.names {
		if strings.Contains(n, q) {
			return x.countries[i], nil
		}
	}
	return Country{}, &NotFoundError{
		Kind:        "name",
		Query:       query,
		Suggestions: x.Suggest(query, defaultSuggestions),
	}
}

// FindByCapital returns the first country with a capital equal to
// capital, ignoring case. Partial capital names do not match.
func (x *Index) FindByCapital(capital string) (Country, error) {
	q := normalizeName(capital)
	if q != "" {
		for _, c := range x.countries {
			for _, city := range c.Capital {
				if normalizeName(city) == q {
					return c, nil
				}
			}
		}
	}
	return Country{}, &NotFoundError{Kind: "capital", Query: capital}
}

// FilterByRegion returns the countries whose region equals region
// exactly. The result may be empty.
func (x *Index) FilterByRegion(region string) []Country {
	out := []Country{}
	for _, c := range x.countries {
		if c.Region != nil && *c.Region == region {
			out = append(out, c)
		}
	}
	return out
}

// Regions returns the distinct regions present, sorted.
func (x *Index) Regions() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range x.countries {
		if c.Region == nil || *c.Region == "" || seen[*c.Region] {
			continue
		}
		seen[*c.Region] = true
		out = append(out, *c.Region)
	}
	sort.Strings(out)
	return out
}

// RandomName picks a common name uniformly. A nil r uses the global source.
func (x *Index) RandomName(r *rand.Rand) (string, error) {
	n := len(x.countries)
	if n == 0 {
		return "", &EmptyDatasetError{Op: "random"}
	}
	var i int
	if r == nil {
		i = rand.IntN(n)
	} else {
		i = r.IntN(n)
	}
	return x.countries[i].Name.Common, nil
}

// Suggest returns up to limit common names within maxSuggestDistance
// edits of query, closest first, ties in source order.
func (x *Index) Suggest(query string, limit int) []string {
	q := normalizeName(query)
	if q == "" || limit <= 0 {
		return nil
	}

	type candidate struct {
		idx  int
		dist int
	}
	var cands []candidate
	seen := make(map[string]bool)
	for i, n := range x.names {
		if seen[n] {
			continue
		}
		seen[n] = true
		if d := levenshtein.ComputeDistance(q, n); d <= maxSuggestDistance {
			cands = append(cands, candidate{idx: i, dist: d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = x.countries[c.idx].Name.Common
	}
	return out
}

// Nearest returns the country whose reference point is closest to
// lat/lng on the sphere, with the distance in kilometres. Countries
// without coordinates are ignored.
func (x *Index) Nearest(lat, lng float64) (Country, float64, error) {
	target := s2.LatLngFromDegrees(lat, lng)

	best := -1
	var bestAngle float64
	for i, c := range x.countries {
		clat, clng, ok := c.Coordinates()
		if !ok {
			continue
		}
		a := target.Distance(s2.LatLngFromDegrees(clat, clng)).Radians()
		if best < 0 || a < bestAngle {
			best = i
			bestAngle = a
		}
	}
	if best < 0 {
		return Country{}, 0, &EmptyDatasetError{Op: "nearest"}
	}
	return x.countries[best], bestAngle * earthRadiusKm, nil
}
