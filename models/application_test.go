package models

import "testing"

func TestParseApplicationStatusCanonical(t *testing.T) {
	all := []ApplicationStatus{
		StatusDraft, StatusSubmitted, StatusEligible, StatusNotEligible,
		StatusOnHold, StatusProvisionalSelected, StatusSelected,
		StatusRejected, StatusWithdrawn, StatusSelectedInOtherPost,
	}
	for _, status := range all {
		parsed, err := ParseApplicationStatus(string(status))
		if err != nil {
			t.Fatalf("ParseApplicationStatus(%q) returned error: %v", status, err)
		}
		if parsed != status {
			t.Fatalf("ParseApplicationStatus(%q) = %q", status, parsed)
		}
	}
}

func TestParseApplicationStatusAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want ApplicationStatus
	}{
		{"draft", StatusDraft},
		{" Submitted ", StatusSubmitted},
		{"not-eligible", StatusNotEligible},
		{"INELIGIBLE", StatusNotEligible},
		{"on hold", StatusOnHold},
		{"hold", StatusOnHold},
		{"provisionally_selected", StatusProvisionalSelected},
		{"Provisional", StatusProvisionalSelected},
		{"selected in other post", StatusSelectedInOtherPost},
	}
	for _, tc := range cases {
		got, err := ParseApplicationStatus(tc.raw)
		if err != nil {
			t.Fatalf("ParseApplicationStatus(%q) returned error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseApplicationStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseApplicationStatusUnknown(t *testing.T) {
	for _, raw := range []string{"", "PENDING", "APPROVED", "DRAFTS"} {
		if _, err := ParseApplicationStatus(raw); err == nil {
			t.Fatalf("ParseApplicationStatus(%q) expected error", raw)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []ApplicationStatus{
		StatusSelected, StatusRejected, StatusWithdrawn,
		StatusSelectedInOtherPost, StatusNotEligible,
	}
	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Fatalf("%s should be terminal", status)
		}
	}

	live := []ApplicationStatus{
		StatusDraft, StatusSubmitted, StatusEligible,
		StatusOnHold, StatusProvisionalSelected,
	}
	for _, status := range live {
		if status.IsTerminal() {
			t.Fatalf("%s should not be terminal", status)
		}
	}
}
