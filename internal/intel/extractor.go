package intel

import "strings"

// Extract applies the pattern library to text. It never fails: a class
// with no matches yields an empty set.
func Extract(text string) Record {
	return Record{
		UPIIDs:             set(upiPattern.FindAllString(text, -1)),
		BankAccounts:       set(accountNumbers(text)),
		PhishingLinks:      set(urlPattern.FindAllString(text, -1)),
		PhoneNumbers:       set(phonePattern.FindAllString(text, -1)),
		SuspiciousKeywords: set(MatchKeywords(text)),
	}
}

// MatchKeywords returns the trigger words contained in text. Matching is a
// case-insensitive substring test, so "app" also matches inside "happy".
func MatchKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			found = append(found, k)
		}
	}
	return found
}

func accountNumbers(text string) []string {
	var out []string
	for _, run := range bankPattern.FindAllString(text, -1) {
		if LooksLikeTimestamp(run) {
			continue
		}
		out = append(out, run)
	}
	return out
}

// LooksLikeTimestamp reports whether a digit run is shaped like a millisecond
// epoch between 2023 and 2029 (13 digits with a "17" or "18" prefix).
func LooksLikeTimestamp(digits string) bool {
	return len(digits) == 13 && (strings.HasPrefix(digits, "17") || strings.HasPrefix(digits, "18"))
}
