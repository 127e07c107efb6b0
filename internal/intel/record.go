// Package intel extracts fraud intelligence (payment handles, account numbers,
// phishing links, phone numbers and scam vocabulary) from raw message text.
package intel

import (
	"slices"
	"sort"
)

// Record is the intelligence found in one message or one whole session.
// Every field is a sorted set and is never nil.
type Record struct {
	UPIIDs             []string `json:"upiIds"`
	BankAccounts       []string `json:"bankAccounts"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Empty returns a record with all five sets present and empty.
func Empty() Record {
	return Record{
		UPIIDs:             []string{},
		BankAccounts:       []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
}

// IsEmpty reports whether no intelligence of any class was found.
func (r Record) IsEmpty() bool {
	return r.Count() == 0
}

// Count is the number of distinct artifacts across all five classes.
func (r Record) Count() int {
	return len(r.UPIIDs) + len(r.BankAccounts) + len(r.PhishingLinks) + len(r.PhoneNumbers) + len(r.SuspiciousKeywords)
}

// Union merges records set-wise; duplicates across inputs appear once.
func Union(records ...Record) Record {
	return Record{
		UPIIDs:             unionOf(records, func(r Record) []string { return r.UPIIDs }),
		BankAccounts:       unionOf(records, func(r Record) []string { return r.BankAccounts }),
		PhishingLinks:      unionOf(records, func(r Record) []string { return r.PhishingLinks }),
		PhoneNumbers:       unionOf(records, func(r Record) []string { return r.PhoneNumbers }),
		SuspiciousKeywords: unionOf(records, func(r Record) []string { return r.SuspiciousKeywords }),
	}
}

func unionOf(records []Record, field func(Record) []string) []string {
	var all []string
	for _, r := range records {
		all = append(all, field(r)...)
	}
	return set(all)
}

// set de-duplicates and sorts values, always returning a non-nil slice.
func set(values []string) []string {
	out := make([]string, 0, len(values))
	out = append(out, values...)
	sort.Strings(out)
	return slices.Compact(out)
}
