package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDollars renders v as "$1,234,567".
func FormatDollars(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + comma(v)
}

// FormatCompact renders v as "$1.25M", "$340K" or "$950".
func FormatCompact(v int64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", float64(v)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("$%.2fM", float64(v)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("$%.0fK", float64(v)/1_000)
	}
	return FormatDollars(v)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// ParseDollars reads amounts typed by a player: "30000", "$30,000", "30k",
// "1.5m". "pass" reads as zero.
func ParseDollars(s string) (int64, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "pass" {
		return 0, nil
	}
	raw = strings.NewReplacer("$", "", ",", "", "_", "", " ", "").Replace(raw)
	mult := 1.0
	switch {
	case strings.HasSuffix(raw, "k"):
		mult, raw = 1_000, strings.TrimSuffix(raw, "k")
	case strings.HasSuffix(raw, "m"):
		mult, raw = 1_000_000, strings.TrimSuffix(raw, "m")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not an amount", ErrInvalidAmount, s)
	}
	return int64(math.Round(f * mult)), nil
}
