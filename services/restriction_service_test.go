package services

import (
	"testing"

	"recruitment-portal-api/config"
)

func newTestRestrictionService() *RestrictionService {
	return NewRestrictionService(nil, config.Settings{
		MaxDistinctPostNames: 2,
		MaxOSCPerPostName:    2,
	})
}

func TestDecideFirstApplicationAllowed(t *testing.T) {
	svc := newTestRestrictionService()
	decision := svc.decide(nil, appliedPost{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1})

	if !decision.Allowed || decision.Reason != ReasonFirstApplication {
		t.Fatalf("expected first application allow, got %+v", decision)
	}
}

func TestDecideExactPostDuplicateRejected(t *testing.T) {
	svc := newTestRestrictionService()
	existing := []appliedPost{{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1}}

	decision := svc.decide(existing, appliedPost{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1})
	if decision.Allowed || decision.Reason != ReasonAlreadyApplied {
		t.Fatalf("expected duplicate rejection, got %+v", decision)
	}
}

func TestDecideDistrictMismatchRejected(t *testing.T) {
	svc := newTestRestrictionService()
	existing := []appliedPost{{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1}}

	decision := svc.decide(existing, appliedPost{PostID: 2, PostName: "Clerk", ComponentID: 11, DistrictID: 2})
	if decision.Allowed || decision.Reason != ReasonDistrictMismatch {
		t.Fatalf("expected district mismatch rejection, got %+v", decision)
	}
}

func TestDecideOSCVariations(t *testing.T) {
	svc := newTestRestrictionService()

	// Post A applied: Clerk in component 10, district 1.
	existing := []appliedPost{{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1}}

	// Post B: same post name, second component, same district: allowed.
	second := svc.decide(existing, appliedPost{PostID: 2, PostName: "Clerk", ComponentID: 11, DistrictID: 1})
	if !second.Allowed {
		t.Fatalf("expected second OSC under cap to be allowed, got %+v", second)
	}

	// Post C: third component for the same post name: rejected.
	existing = append(existing, appliedPost{PostID: 2, PostName: "Clerk", ComponentID: 11, DistrictID: 1})
	third := svc.decide(existing, appliedPost{PostID: 3, PostName: "Clerk", ComponentID: 12, DistrictID: 1})
	if third.Allowed || third.Reason != ReasonOSCLimitReached {
		t.Fatalf("expected OSC cap rejection, got %+v", third)
	}
}

func TestDecideSamePostNameSameComponentRejected(t *testing.T) {
	svc := newTestRestrictionService()
	existing := []appliedPost{{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1}}

	// Different post id, but same post name and component.
	decision := svc.decide(existing, appliedPost{PostID: 9, PostName: "Clerk", ComponentID: 10, DistrictID: 1})
	if decision.Allowed || decision.Reason != ReasonDuplicateOSC {
		t.Fatalf("expected duplicate OSC rejection, got %+v", decision)
	}
}

func TestDecidePostNameLimitMonotonic(t *testing.T) {
	svc := newTestRestrictionService()
	existing := []appliedPost{
		{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1},
		{PostID: 2, PostName: "Peon", ComponentID: 10, DistrictID: 1},
	}

	// Two distinct post names reached; any new name is rejected
	// regardless of component.
	targets := []appliedPost{
		{PostID: 3, PostName: "Driver", ComponentID: 10, DistrictID: 1},
		{PostID: 4, PostName: "Driver", ComponentID: 11, DistrictID: 1},
		{PostID: 5, PostName: "Guard", ComponentID: 12, DistrictID: 1},
	}
	for _, target := range targets {
		decision := svc.decide(existing, target)
		if decision.Allowed || decision.Reason != ReasonPostNameLimit {
			t.Fatalf("target %+v: expected post-name cap rejection, got %+v", target, decision)
		}
	}

	// Existing post names remain applicable via a new component.
	allowed := svc.decide(existing, appliedPost{PostID: 6, PostName: "Peon", ComponentID: 11, DistrictID: 1})
	if !allowed.Allowed {
		t.Fatalf("expected existing post name with new component to be allowed, got %+v", allowed)
	}
}

func TestDecideHonorsConfiguredLimits(t *testing.T) {
	svc := NewRestrictionService(nil, config.Settings{MaxDistinctPostNames: 3, MaxOSCPerPostName: 1})
	existing := []appliedPost{
		{PostID: 1, PostName: "Clerk", ComponentID: 10, DistrictID: 1},
		{PostID: 2, PostName: "Peon", ComponentID: 10, DistrictID: 1},
	}

	// Third distinct name fits under the raised cap.
	decision := svc.decide(existing, appliedPost{PostID: 3, PostName: "Driver", ComponentID: 10, DistrictID: 1})
	if !decision.Allowed {
		t.Fatalf("expected third post name under cap of 3, got %+v", decision)
	}

	// OSC cap of 1 forbids a second component for a known name.
	decision = svc.decide(existing, appliedPost{PostID: 4, PostName: "Clerk", ComponentID: 11, DistrictID: 1})
	if decision.Allowed || decision.Reason != ReasonOSCLimitReached {
		t.Fatalf("expected OSC cap of 1 rejection, got %+v", decision)
	}
}
