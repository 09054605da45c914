package settings

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultCapital is the capital the session starts with (Rp 10.000.000)
const DefaultCapital int64 = 10_000_000

// ParseCapital turns raw text from the capital field into a whole Rupiah amount.
// Every character other than ASCII 0-9 is dropped, so "Rp 1.500.000" and "1,500,000"
// both give 1500000. Empty or digit-free input gives 0. Never fails: a digit string
// too large for int64 saturates at math.MaxInt64.
func ParseCapital(raw string) int64 {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}

	digits := b.String()
	if digits == "" {
		return 0
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt64
		}
		return 0
	}
	return v
}

// SanitizeCapital clamps a numeric capital into the valid range
func SanitizeCapital(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
