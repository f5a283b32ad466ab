package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dotThousands   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParseQuantity reads a quantity cell tolerantly: thousands separators
// and comma decimals are accepted, anything non-numeric yields nil.
func ParseQuantity(input string) *float64 {
	token := strings.TrimSpace(strings.ReplaceAll(input, " ", " "))
	if token == "" {
		return nil
	}
	norm := normalizeNumericToken(token)
	parsed, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil
	}
	return FloatPtr(parsed)
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if dotThousands.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if commaThousands.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}

// FormatQuantity renders an aggregated total; zero shows as empty so
// blank source quantities do not print as "0" rows.
func FormatQuantity(total float64) string {
	if total == 0 {
		return ""
	}
	return strconv.FormatFloat(total, 'f', -1, 64)
}
