package payperiod

import (
	"strconv"
	"strings"
)

// =============================================================================
// DAY PATTERN PARSER
// =============================================================================

// ParseDayPattern parses a comma-separated day list ("11, 26") into an
// ordered sequence of integers. Original order is preserved. Empty and
// non-numeric tokens are dropped silently; an empty input yields an empty
// sequence, never an error.
func ParseDayPattern(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var days []int
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		days = append(days, n)
	}
	return days
}
