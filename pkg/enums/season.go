package enums

import "fmt"

// Season describes the growing windows a product can be sold in.
type Season string

const (
	SeasonSpring    Season = "spring"
	SeasonSummer    Season = "summer"
	SeasonFall      Season = "fall"
	SeasonWinter    Season = "winter"
	SeasonYearRound Season = "year_round"
)

var validSeasons = []Season{
	SeasonSpring,
	SeasonSummer,
	SeasonFall,
	SeasonWinter,
	SeasonYearRound,
}

// IsValid reports whether the value matches the canonical season enum.
func (s Season) IsValid() bool {
	for _, candidate := range validSeasons {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSeason converts the raw string to Season.
func ParseSeason(value string) (Season, error) {
	for _, candidate := range validSeasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid season %q", value)
}
