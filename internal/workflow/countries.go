package workflow

import "github.com/five82/rentdesk/internal/catalog"

var fallbackCountries = [...]catalog.Country{
	{ID: 1, Name: "United States"},
	{ID: 2, Name: "Canada"},
	{ID: 3, Name: "United Kingdom"},
	{ID: 4, Name: "Germany"},
	{ID: 5, Name: "France"},
	{ID: 6, Name: "Australia"},
	{ID: 7, Name: "Japan"},
	{ID: 8, Name: "China"},
	{ID: 9, Name: "India"},
	{ID: 10, Name: "Brazil"},
}

// FallbackCountries returns a copy of the country options used when the API
// has none to offer.
func FallbackCountries() []catalog.Country {
	out := make([]catalog.Country, len(fallbackCountries))
	copy(out, fallbackCountries[:])
	return out
}

// CountryOptions picks the options a customer form shows. An error or an
// empty list yields the fallback set; usedFallback tells the caller so it
// can log it. The form never shows a country error.
func CountryOptions(fetched []catalog.Country, err error) (options []catalog.Country, usedFallback bool) {
	if err != nil || len(fetched) == 0 {
		return FallbackCountries(), true
	}
	return fetched, false
}

// CountryName returns the name for id, or "" when it is not an option.
func CountryName(options []catalog.Country, id int64) string {
	for _, c := range options {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
