package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// phoneCandidatePattern is deliberately loose; candidates are accepted
	// only when they carry between minPhoneDigits and maxPhoneDigits digits.
	phoneCandidatePattern = regexp.MustCompile(`\+?\(?\d[\d ().\-]{6,}\d`)

	urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"'|,]+|\b(?:linkedin\.com|github\.com|gitlab\.com|bitbucket\.org|behance\.net|dribbble\.com|medium\.com|kaggle\.com|leetcode\.com)/[^\s<>"'|,]+`)
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// ExtractEmail returns the first email address in text, or "" if none
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone-number-like run in text, or "" if none.
// Runs with too few or too many digits (dates, year ranges, ids) are skipped.
func ExtractPhone(text string) string {
	for _, candidate := range phoneCandidatePattern.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		digits := countDigits(candidate)
		if digits >= minPhoneDigits && digits <= maxPhoneDigits {
			return candidate
		}
	}
	return ""
}

// ExtractURLs returns every URL in text in order of appearance, deduplicated
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		match = strings.TrimRight(match, ".;:)]}")
		key := strings.ToLower(match)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		urls = append(urls, match)
	}
	return urls
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
