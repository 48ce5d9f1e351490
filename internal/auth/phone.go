package auth

import "regexp"

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	localPhoneRe = regexp.MustCompile(`^0\d{9}$`)
)

// IsEmail reports whether the identifier looks like an email address.
func IsEmail(identifier string) bool {
	return emailRe.MatchString(identifier)
}

// PhoneCandidates expands a phone number into the formats it may have been
// stored under. Numbers are written inconsistently at registration time
// (0701234567, +256701234567, 256701234567), so lookups probe each candidate
// in order until one matches.
func PhoneCandidates(raw, countryCode string) []string {
	candidates := []string{raw}

	ccRe := regexp.MustCompile(`^\+?` + countryCode)
	if ccRe.MatchString(raw) {
		candidates = append(candidates, ccRe.ReplaceAllString(raw, "0"))
	}
	if localPhoneRe.MatchString(raw) {
		candidates = append(candidates, "+"+countryCode+raw[1:], countryCode+raw[1:])
	}

	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
