package domain

import "strings"

// countryISO3 maps facility country names to ISO 3166-1 alpha-3 codes, the
// shape keys used by the world and regional choropleth layers. Lookup is
// case-insensitive; keys are stored lowercased.
var countryISO3 = map[string]string{
	// Europe
	"france":         "FRA",
	"germany":        "DEU",
	"spain":          "ESP",
	"italy":          "ITA",
	"united kingdom": "GBR",
	"netherlands":    "NLD",
	"poland":         "POL",
	"sweden":         "SWE",
	"switzerland":    "CHE",
	"ireland":        "IRL",
	// Asia
	"china":       "CHN",
	"japan":       "JPN",
	"india":       "IND",
	"singapore":   "SGP",
	"south korea": "KOR",
	"thailand":    "THA",
	"vietnam":     "VNM",
	// Lat-Am
	"brazil":    "BRA",
	"mexico":    "MEX",
	"argentina": "ARG",
	"chile":     "CHL",
	"colombia":  "COL",
	// NA
	"canada":        "CAN",
	"united states": "USA",
	// AfME
	"south africa":         "ZAF",
	"united arab emirates": "ARE",
}

// stateCode maps US state names to USPS two-letter codes, the shape keys
// used by the US-state choropleth layer.
var stateCode = map[string]string{
	"alabama":        "AL",
	"arizona":        "AZ",
	"california":     "CA",
	"colorado":       "CO",
	"connecticut":    "CT",
	"florida":        "FL",
	"georgia":        "GA",
	"illinois":       "IL",
	"indiana":        "IN",
	"iowa":           "IA",
	"kansas":         "KS",
	"kentucky":       "KY",
	"louisiana":      "LA",
	"maryland":       "MD",
	"massachusetts":  "MA",
	"michigan":       "MI",
	"minnesota":      "MN",
	"missouri":       "MO",
	"new jersey":     "NJ",
	"new york":       "NY",
	"north carolina": "NC",
	"ohio":           "OH",
	"oregon":         "OR",
	"pennsylvania":   "PA",
	"tennessee":      "TN",
	"texas":          "TX",
	"virginia":       "VA",
	"washington":     "WA",
	"wisconsin":      "WI",
}

// LookupCountryISO3 resolves a country name to its ISO3 code,
// case-insensitively. Unknown names report false.
func LookupCountryISO3(name string) (string, bool) {
	code, ok := countryISO3[normalizeGeoName(name)]
	return code, ok
}

// LookupStateCode resolves a US state name to its two-letter code,
// case-insensitively. Unknown names report false.
func LookupStateCode(name string) (string, bool) {
	code, ok := stateCode[normalizeGeoName(name)]
	return code, ok
}

func normalizeGeoName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
