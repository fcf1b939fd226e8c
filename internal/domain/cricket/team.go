package cricket

import (
	"strings"
	"unicode"
)

// Short codes for the ten known franchises, keyed by lower-cased full name.
var franchiseShortNames = map[string]string{
	"mumbai indians":        "MI",
	"chennai super kings":   "CSK",
	"royal challengers":     "RCB",
	"kolkata knight riders": "KKR",
	"delhi capitals":        "DC",
	"punjab kings":          "PBKS",
	"rajasthan royals":      "RR",
	"sunrisers hyderabad":   "SRH",
	"gujarat titans":        "GT",
	"lucknow super giants":  "LSG",
}

// Team is a normalized franchise reference.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// NewTeam normalizes a raw team name into a Team. The same input always
// produces the same value: the id is the lower-cased name with whitespace
// removed, and the short name comes from the franchise table or, on a miss,
// from the upper-cased initials of each word. Callers are expected to reject
// empty names before calling.
func NewTeam(rawName string) Team {
	name := strings.TrimSpace(rawName)

	short, ok := franchiseShortNames[strings.ToLower(name)]
	if !ok {
		var b strings.Builder
		for _, word := range strings.Fields(name) {
			b.WriteRune(unicode.ToUpper([]rune(word)[0]))
		}
		short = b.String()
	}

	return Team{
		ID:        strings.Join(strings.Fields(strings.ToLower(name)), ""),
		Name:      name,
		ShortName: short,
	}
}
