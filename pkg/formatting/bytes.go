// Package formatting converts byte sizes between counts and the
// human-readable strings used in configuration and error messages.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// units are base-1024 suffixes indexed by exponent.
var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	v := float64(n)
	exp := 0
	for (v >= 1024 || v <= -1024) && exp < len(units)-1 {
		v /= 1024
		exp++
	}

	if exp == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(v, 'f', precision, 64) + " " + units[exp]
}

// ParseBytes reads sizes such as "20MB", "1.5 gb", or "4096". Units are
// case-insensitive; a bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if unit == "" {
		return int64(value), nil
	}

	for exp, u := range units {
		if strings.EqualFold(unit, u) {
			return int64(value * float64(int64(1)<<(10*exp))), nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit: %q", unit)
}
