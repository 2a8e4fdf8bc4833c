package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents represents a monetary amount in whole cents. Amounts are persisted as
// NUMERIC(10,2) columns; integer cents avoid float rounding in fee math.
type Cents int64

// String formats the amount the way the NUMERIC(10,2) column stores it, e.g. "1.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseCents parses a decimal amount string as produced by the database
// ("1.50", "1.5", "12", "0"). At most two fractional digits are accepted.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ValidationError("amount", "is empty")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	wholePart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		wholePart = s[:idx]
		fracPart = s[idx+1:]
	}

	if wholePart == "" {
		wholePart = "0"
	}

	if len(fracPart) > 2 {
		return 0, ValidationError("amount", "has more than two fractional digits")
	}

	for len(fracPart) < 2 {
		fracPart += "0"
	}

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, ValidationError("amount", "is not a decimal number")
	}

	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, ValidationError("amount", "is not a decimal number")
	}

	cents := whole*100 + frac
	if negative {
		cents = -cents
	}

	return Cents(cents), nil
}
