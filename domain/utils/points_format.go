package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"superfan/domain/entities"
)

// MaxPointsAmount is the hard ceiling for any single point amount. It is an
// anti-abuse bound and must be checked before any ledger mutation.
const MaxPointsAmount int64 = 1_000_000

// FormatPoints formats a point total as a thousands-grouped integer string
// (e.g., 41250 -> "41,250").
func FormatPoints(pts int64) string {
	sign := ""
	if pts < 0 {
		sign = "-"
		pts = -pts
	}

	digits := strconv.FormatInt(pts, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// FormatPointsCompact formats a point total using magnitude suffixes with
// one decimal (e.g., 1500 -> "1.5K", 2500000 -> "2.5M").
func FormatPointsCompact(pts int64) string {
	absValue := pts
	sign := ""
	if pts < 0 {
		absValue = -pts
		sign = "-"
	}

	switch {
	case absValue >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", sign, float64(absValue)/1_000_000)
	case absValue >= 1_000:
		return fmt.Sprintf("%s%.1fK", sign, float64(absValue)/1_000)
	default:
		return fmt.Sprintf("%s%d", sign, absValue)
	}
}

// ValidatePointsAmount rejects non-finite, negative, fractional, or
// oversized amounts. Inbound payloads decode numbers as float64, so the
// check runs on the raw value before it is narrowed to an integer.
func ValidatePointsAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: not a finite number", entities.ErrInvalidAmount)
	}
	if v < 0 {
		return fmt.Errorf("%w: negative", entities.ErrInvalidAmount)
	}
	if v != math.Trunc(v) {
		return fmt.Errorf("%w: not an integer", entities.ErrInvalidAmount)
	}
	if v > float64(MaxPointsAmount) {
		return fmt.Errorf("%w: exceeds ceiling of %d", entities.ErrInvalidAmount, MaxPointsAmount)
	}
	return nil
}

// ParsePointsAmount parses a user-entered point string, tolerating
// thousands separators and surrounding whitespace. It never fails: invalid
// input degrades to 0 and fractions floor, because it sits in display paths
// where a hard failure would break rendering.
func ParsePointsAmount(s string) int64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "_", "")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	return int64(math.Floor(v))
}
