package intel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnion_DeduplicatesAcrossRecords(t *testing.T) {
	a := Record{
		UPIIDs:             []string{"scammer@oksbi"},
		BankAccounts:       []string{"123456789"},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{"upi"},
	}
	b := Record{
		UPIIDs:             []string{"scammer@oksbi", "other@paytm"},
		PhishingLinks:      []string{"http://evil-link.com"},
		SuspiciousKeywords: []string{"click", "upi"},
	}

	got := Union(a, b)
	want := Record{
		UPIIDs:             []string{"other@paytm", "scammer@oksbi"},
		BankAccounts:       []string{"123456789"},
		PhishingLinks:      []string{"http://evil-link.com"},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{"click", "upi"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Union mismatch (-want +got):\n%s", diff)
	}
	if got.Count() != 6 {
		t.Errorf("expected count 6, got %d", got.Count())
	}
}

func TestUnion_NoRecords(t *testing.T) {
	got := Union()
	if !got.IsEmpty() {
		t.Errorf("expected empty union, got %+v", got)
	}
	if diff := cmp.Diff(Empty(), got); diff != "" {
		t.Errorf("expected non-nil empty sets (-want +got):\n%s", diff)
	}
}
