package geolocation

import (
	"bufio"
	"fmt"
	"strings"
)

// CountryCodeMapper holds a mapping of ISO-3166-1 alpha-2 country codes to
// their alpha-3 equivalents. Floor rule tables key countries by alpha-3
// while OpenRTB device geo carries alpha-2.
type CountryCodeMapper struct {
	alpha2ToAlpha3 map[string]string
}

// NewCountryCodeMapperFromCSV builds a mapper from "alpha2,alpha3" lines.
// Blank lines are skipped; anything else that is not a two-column row of a
// 2-letter and a 3-letter code is a configuration error.
func NewCountryCodeMapperFromCSV(csv string) (*CountryCodeMapper, error) {
	mapping := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(csv))
	line := 0
	for scanner.Scan() {
		line++
		row := strings.TrimSpace(scanner.Text())
		if row == "" {
			continue
		}

		columns := strings.Split(row, ",")
		if len(columns) != 2 {
			return nil, fmt.Errorf("invalid country code mapping on line %d: %q", line, row)
		}

		alpha2 := strings.ToUpper(strings.TrimSpace(columns[0]))
		alpha3 := strings.ToUpper(strings.TrimSpace(columns[1]))
		if len(alpha2) != 2 || len(alpha3) != 3 {
			return nil, fmt.Errorf("invalid country code mapping on line %d: %q", line, row)
		}

		mapping[alpha2] = alpha3
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &CountryCodeMapper{alpha2ToAlpha3: mapping}, nil
}

// MapToAlpha3 returns the alpha-3 code for the given alpha-2 code, or ""
// when the code is unknown. Lookup is case-insensitive.
func (m *CountryCodeMapper) MapToAlpha3(alpha2 string) string {
	return m.alpha2ToAlpha3[strings.ToUpper(alpha2)]
}
