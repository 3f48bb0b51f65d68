package model

import "strings"

// uicCountries maps UIC railway country codes to ISO 3166 alpha-2 codes.
var uicCountries = map[string]string{
	"70": "GB",
	"71": "ES",
	"80": "DE",
	"82": "LU",
	"83": "IT",
	"84": "NL",
	"85": "CH",
	"87": "FR",
	"88": "BE",
}

// CountryFromProviderID derives the country of a stop area from the UIC code
// embedded in its Navitia id (e.g. "stop_area:SNCF:87686006" is in France).
// It returns "" when the id carries no recognisable UIC code.
func CountryFromProviderID(id string) string {
	code := id
	if i := strings.LastIndex(id, ":"); i >= 0 {
		code = id[i+1:]
	}
	if len(code) < 7 {
		return ""
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return uicCountries[code[:2]]
}
