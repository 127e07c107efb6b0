package persona

import "strings"

// Fallback builds a canned reply without any backend. It never fails and never
// returns an empty string.
func Fallback(r Rand, message string) string {
	m := strings.ToLower(message)

	var body string
	switch {
	case containsAny(m, paymentTriggers):
		body = paymentBody
	case containsAny(m, linkTriggers):
		body = linkBody
	default:
		body = deflections[r.IntN(len(deflections))]
	}

	return greetings[r.IntN(len(greetings))] + " " + body
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
