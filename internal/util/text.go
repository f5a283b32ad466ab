package util

import "strings"

// NormalizeKey reduces an identifier to its comparable form: letters and
// digits only, uppercased. Total and idempotent.
func NormalizeKey(input string) string {
	out := strings.Builder{}
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StripSeparators removes only the separator punctuation that varies
// between a source identifier and a filename spelling of it.
func StripSeparators(input string) string {
	repl := strings.NewReplacer(".", "", "_", "", "-", "", " ", "")
	return repl.Replace(input)
}

// KeyVariants returns the spellings a code may take in a filename:
// verbatim, separator-stripped, and the case variants of the stripped
// form. Order is stable; duplicates are removed.
func KeyVariants(input string) []string {
	stripped := StripSeparators(input)
	candidates := []string{
		input,
		stripped,
		strings.ToUpper(stripped),
		strings.ToLower(stripped),
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// LongestDigitRun returns the longest consecutive run of digits in the
// input, the first one when several tie.
func LongestDigitRun(input string) string {
	best, cur := "", ""
	for _, r := range input {
		if r >= '0' && r <= '9' {
			cur += string(r)
			continue
		}
		if len(cur) > len(best) {
			best = cur
		}
		cur = ""
	}
	if len(cur) > len(best) {
		best = cur
	}
	return best
}

// FirstAlnumRun returns the first run of letters/digits with at least
// minLen characters, or "".
func FirstAlnumRun(input string, minLen int) string {
	cur := ""
	for _, r := range input {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur += string(r)
			continue
		}
		if len(cur) >= minLen {
			return cur
		}
		cur = ""
	}
	if len(cur) >= minLen {
		return cur
	}
	return ""
}

// SolicitudPrefix is the part of a solicitud before the "/year" suffix.
func SolicitudPrefix(solicitud string) string {
	if idx := strings.Index(solicitud, "/"); idx >= 0 {
		return strings.TrimSpace(solicitud[:idx])
	}
	return strings.TrimSpace(solicitud)
}

// SolicitudSuffix is the part after the "/", usually a two-digit year.
func SolicitudSuffix(solicitud string) string {
	if idx := strings.Index(solicitud, "/"); idx >= 0 {
		return strings.TrimSpace(solicitud[idx+1:])
	}
	return ""
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
