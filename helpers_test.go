package countrybed

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

// testCountries is a small dataset in a deliberate order: Guinea-Bissau
// precedes Guinea so partial matches and exact matches disagree, and
// Dominica precedes Dominican Republic.
func testCountries() []Country {
	return []Country{
		{
			Name:       Name{Common: "France", Official: "French Republic"},
			Capital:    []string{"Paris"},
			Region:     strPtr("Europe"),
			Subregion:  strPtr("Western Europe"),
			Population: int64Ptr(67391582),
			Currencies: map[string]Currency{"EUR": {Name: "Euro", Symbol: "€"}},
			Languages:  map[string]string{"fra": "French"},
			Timezones:  []string{"UTC+01:00"},
			LatLng:     []float64{46, 2},
			TLD:        []string{".fr"},
			Flags:      &Flags{PNG: "https://flags.test/fr.png", SVG: "https://flags.test/fr.svg"},
		},
		{
			Name:       Name{Common: "Germany", Official: "Federal Republic of Germany"},
			Capital:    []string{"Berlin"},
			Region:     strPtr("Europe"),
			Subregion:  strPtr("Western Europe"),
			Population: int64Ptr(83240525),
			Currencies: map[string]Currency{"EUR": {Name: "Euro", Symbol: "€"}},
			Languages:  map[string]string{"deu": "German"},
			LatLng:     []float64{51, 9},
			Flags:      &Flags{PNG: "https://flags.test/de.png"},
		},
		{
			Name:    Name{Common: "Guinea-Bissau"},
			Capital: []string{"Bissau"},
			Region:  strPtr("Africa"),
			LatLng:  []float64{12, -15},
			Flags:   &Flags{SVG: "https://flags.test/gw.svg"},
		},
		{
			Name:    Name{Common: "Guinea"},
			Capital: []string{"Conakry"},
			Region:  strPtr("Africa"),
			LatLng:  []float64{11, -10},
			Flags:   &Flags{PNG: "https://flags.test/gn.png"},
		},
		{
			Name:    Name{Common: "South Africa"},
			Capital: []string{"Pretoria", "Bloemfontein", "Cape Town"},
			Region:  strPtr("Africa"),
			Currencies: map[string]Currency{
				"ZAR": {Name: "South African rand", Symbol: "R"},
			},
			Languages: map[string]string{
				"zul": "Zulu",
				"afr": "Afrikaans",
				"eng": "English",
			},
			LatLng: []float64{-29, 24},
			Flags:  &Flags{PNG: "https://flags.test/za.png"},
		},
		{
			Name:    Name{Common: "Dominica"},
			Capital: []string{"Roseau"},
			Region:  strPtr("Americas"),
			Flags:   &Flags{PNG: "https://flags.test/dm.png"},
		},
		{
			Name:    Name{Common: "Dominican Republic"},
			Capital: []string{"Santo Domingo"},
			Region:  strPtr("Americas"),
			Flags:   &Flags{PNG: "https://flags.test/do.png"},
		},
		{
			Name:   Name{Common: "Antarctica"},
			Region: strPtr("Antarctic"),
		},
	}
}
