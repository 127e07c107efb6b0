package intel

import "regexp"

var (
	upiPattern   = regexp.MustCompile(`[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}`)
	urlPattern   = regexp.MustCompile(`https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+[/\w\.-]*`)
	bankPattern  = regexp.MustCompile(`\b\d{9,18}\b`)
	phonePattern = regexp.MustCompile(`\+?\d[\d -]{8,12}\d`)
)

// Category is one named group of scam trigger words.
type Category struct {
	Name  string
	Words []string
}

// taxonomy is ordered so keyword output and classifier counting are stable.
var taxonomy = []Category{
	{Name: "urgency", Words: []string{"urgent", "immediately", "today", "blocked", "limit", "verify now"}},
	{Name: "financial", Words: []string{"payment", "bank", "kyc", "upi", "card", "account", "transfer"}},
	{Name: "bait", Words: []string{"lottery", "prize", "reward", "winner", "bonus", "gift"}},
	{Name: "technical", Words: []string{"link", "click", "app", "download", "apk", "verification"}},
}

var keywords = flatten(taxonomy)

func flatten(cats []Category) []string {
	var out []string
	for _, c := range cats {
		out = append(out, c.Words...)
	}
	return out
}

// Taxonomy returns a copy of the scam-indicator categories.
func Taxonomy() []Category {
	out := make([]Category, len(taxonomy))
	for i, c := range taxonomy {
		words := make([]string, len(c.Words))
		copy(words, c.Words)
		out[i] = Category{Name: c.Name, Words: words}
	}
	return out
}

// Keywords returns every trigger word across all categories, in taxonomy order.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}
