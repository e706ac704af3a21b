package services

import (
	"testing"

	"recruitment-portal-api/models"
)

func TestParseSelectionAction(t *testing.T) {
	for _, raw := range []string{"HOLD", "PROVISIONAL_SELECT", "SELECT", "REJECT"} {
		action, err := ParseSelectionAction(raw)
		if err != nil {
			t.Fatalf("ParseSelectionAction(%q) returned error: %v", raw, err)
		}
		if string(action) != raw {
			t.Fatalf("ParseSelectionAction(%q) = %q", raw, action)
		}
	}

	if _, err := ParseSelectionAction("APPROVE"); err == nil {
		t.Fatal("expected error for unknown action")
	}
	if _, err := ParseSelectionAction("select"); err == nil {
		t.Fatal("expected error for lowercase action")
	}
}

func TestValidateTransitionAllowedPairs(t *testing.T) {
	cases := []struct {
		current models.ApplicationStatus
		action  SelectionAction
		target  models.ApplicationStatus
	}{
		{models.StatusEligible, ActionHold, models.StatusOnHold},
		{models.StatusOnHold, ActionHold, models.StatusOnHold},
		{models.StatusEligible, ActionProvisionalSelect, models.StatusProvisionalSelected},
		{models.StatusOnHold, ActionProvisionalSelect, models.StatusProvisionalSelected},
		{models.StatusProvisionalSelected, ActionSelect, models.StatusSelected},
		{models.StatusEligible, ActionReject, models.StatusRejected},
		{models.StatusOnHold, ActionReject, models.StatusRejected},
		{models.StatusProvisionalSelected, ActionReject, models.StatusRejected},
	}
	for _, tc := range cases {
		target, err := ValidateTransition(tc.current, tc.action)
		if err != nil {
			t.Fatalf("%s + %s: unexpected error %v", tc.current, tc.action, err)
		}
		if target != tc.target {
			t.Fatalf("%s + %s = %s, want %s", tc.current, tc.action, target, tc.target)
		}
	}
}

func TestValidateTransitionForbiddenPairs(t *testing.T) {
	cases := []struct {
		current models.ApplicationStatus
		action  SelectionAction
	}{
		{models.StatusDraft, ActionHold},
		{models.StatusSubmitted, ActionHold},
		{models.StatusNotEligible, ActionProvisionalSelect},
		{models.StatusEligible, ActionSelect},
		{models.StatusOnHold, ActionSelect},
		{models.StatusSelected, ActionReject},
		{models.StatusRejected, ActionReject},
		{models.StatusWithdrawn, ActionProvisionalSelect},
		{models.StatusSelectedInOtherPost, ActionSelect},
	}
	for _, tc := range cases {
		if _, err := ValidateTransition(tc.current, tc.action); err == nil {
			t.Fatalf("%s + %s: expected conflict, got nil", tc.current, tc.action)
		}
	}
}

func TestValidateTransitionRejectsUnknownAction(t *testing.T) {
	if _, err := ValidateTransition(models.StatusEligible, SelectionAction("PROMOTE")); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
