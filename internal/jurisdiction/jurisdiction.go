// Package jurisdiction maps free-text project locations to the governing state.
package jurisdiction

import (
	"regexp"
	"slices"
	"strings"
)

// Generic is the jurisdiction code used when a location cannot be resolved.
const Generic = "GENERIC"

// Jurisdiction is a governing legal region.
type Jurisdiction struct {
	Code     string
	Name     string
	Resolved bool
}

// Unresolved is returned when no state can be derived from a location.
var Unresolved = Jurisdiction{Code: Generic, Name: "Generic (unresolved)", Resolved: false}

var states = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
	"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
	"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

var (
	// A trailing ZIP code: "CA 94105", "California 94105-1234".
	trailingZip = regexp.MustCompile(`\s*\b\d{5}(?:-\d{4})?$`)
	// "XX 12345" anywhere in the location.
	codeBeforeZip = regexp.MustCompile(`\b([A-Za-z]{2})\s+\d{5}(?:-\d{4})?\b`)
	// An upper-case code ending a component without a comma: "Austin TX".
	trailingCode = regexp.MustCompile(`\s([A-Z]{2})$`)

	byName = namesToCodes()
)

var countries = []string{"usa", "us", "u.s.", "u.s.a.", "united states", "united states of america"}

func namesToCodes() map[string]string {
	out := make(map[string]string, len(states))
	for code, name := range states {
		out[strings.ToLower(name)] = code
	}
	return out
}

// Resolve derives the state jurisdiction from a free-text location. It never
// fails: unresolvable input yields Unresolved.
//
// Only the last comma-separated component (after dropping a country) is
// considered, so street and city names elsewhere in the address never match.
func Resolve(location string) Jurisdiction {
	parts := strings.Split(location, ",")
	for len(parts) > 0 {
		last := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
		if last != "" && !slices.Contains(countries, last) {
			break
		}
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return Unresolved
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	region := strings.TrimSpace(trailingZip.ReplaceAllString(last, ""))

	if len(region) == 2 {
		if j, ok := lookup(strings.ToUpper(region)); ok {
			return j
		}
	}
	if code, ok := byName[strings.ToLower(strings.Join(strings.Fields(region), " "))]; ok {
		return Jurisdiction{Code: code, Name: states[code], Resolved: true}
	}
	if m := trailingCode.FindStringSubmatch(region); m != nil {
		if j, ok := lookup(m[1]); ok {
			return j
		}
	}
	if m := codeBeforeZip.FindStringSubmatch(location); m != nil {
		if j, ok := lookup(strings.ToUpper(m[1])); ok {
			return j
		}
	}
	return Unresolved
}

// Known reports whether code is a supported state jurisdiction.
func Known(code string) bool {
	_, ok := states[strings.ToUpper(code)]
	return ok
}

// Name returns the display name for a jurisdiction code.
func Name(code string) string {
	if n, ok := states[strings.ToUpper(code)]; ok {
		return n
	}
	if code == Generic {
		return Unresolved.Name
	}
	return code
}

func lookup(code string) (Jurisdiction, bool) {
	name, ok := states[code]
	if !ok {
		return Jurisdiction{}, false
	}
	return Jurisdiction{Code: code, Name: name, Resolved: true}, true
}
