package services

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestEvaluateAgeWithinRangePasses(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(1996, time.March, 10) // age 30
	snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob}
	req := PostRequirements{PostID: 1, MinAge: intPtr(18), MaxAge: intPtr(35)}

	svc := NewEligibilityService(nil)
	verdict := svc.Evaluate(snapshot, req, now)

	ageCheck := verdict.Checks[0]
	if ageCheck.Criterion != CriterionAge || !ageCheck.Passed {
		t.Fatalf("expected age check to pass, got %+v", ageCheck)
	}
}

func TestEvaluateAgeOutsideRangeFails(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(2010, time.January, 1) // age 16
	snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob}

	svc := NewEligibilityService(nil)
	verdict := svc.Evaluate(snapshot, PostRequirements{PostID: 1}, now)

	if verdict.IsEligible {
		t.Fatal("expected verdict to fail for age 16 with default bounds")
	}
	if !strings.Contains(verdict.FailedChecks[0], "18-65") {
		t.Fatalf("expected default range in message, got %q", verdict.FailedChecks[0])
	}
}

func TestEvaluateMissingDobFails(t *testing.T) {
	svc := NewEligibilityService(nil)
	verdict := svc.Evaluate(&ApplicantSnapshot{ApplicantID: 1}, PostRequirements{PostID: 1}, time.Now())

	if verdict.IsEligible {
		t.Fatal("expected verdict to fail without a date of birth")
	}
	if verdict.Checks[0].Passed {
		t.Fatalf("expected age check failure, got %+v", verdict.Checks[0])
	}
}

func TestEvaluateEducationBelowMinimumFailsWithBothRanks(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(1996, time.March, 10)
	snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob, EducationRanks: []int{3}}
	req := PostRequirements{PostID: 1, MinEducationRank: intPtr(5)}

	svc := NewEligibilityService(nil)
	verdict := svc.Evaluate(snapshot, req, now)

	if verdict.IsEligible {
		t.Fatal("expected verdict to fail for rank 3 against minimum 5")
	}
	msg := verdict.Checks[1].Message
	if !strings.Contains(msg, "3") || !strings.Contains(msg, "5") {
		t.Fatalf("expected both ranks in failure message, got %q", msg)
	}
}

func TestEvaluateNoEducationRecords(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(1996, time.March, 10)
	snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob}
	svc := NewEligibilityService(nil)

	withMin := svc.Evaluate(snapshot, PostRequirements{PostID: 1, MinEducationRank: intPtr(2)}, now)
	if withMin.Checks[1].Passed {
		t.Fatal("expected education check to fail when a minimum is configured and no records exist")
	}

	withoutMin := svc.Evaluate(snapshot, PostRequirements{PostID: 1}, now)
	if !withoutMin.Checks[1].Passed {
		t.Fatal("expected education check to pass when no minimum is configured")
	}
}

func TestEvaluateExperienceSum(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(1990, time.March, 10)
	svc := NewEligibilityService(nil)

	cases := []struct {
		name   string
		months int
		min    int
		want   bool
	}{
		{"zero requirement always passes", 0, 0, true},
		{"meets requirement", 24, 24, true},
		{"below requirement", 12, 24, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob, ExperienceMonths: tc.months}
			verdict := svc.Evaluate(snapshot, PostRequirements{PostID: 1, MinExperienceMonths: tc.min}, now)
			if verdict.Checks[2].Passed != tc.want {
				t.Fatalf("experience check = %v, want %v", verdict.Checks[2].Passed, tc.want)
			}
		})
	}
}

func TestWholeMonthsBetween(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{date(2024, time.January, 15), date(2024, time.March, 15), 2},
		{date(2024, time.January, 15), date(2024, time.March, 14), 1},
		{date(2024, time.March, 15), date(2024, time.January, 15), 0},
		{date(2024, time.January, 1), date(2024, time.January, 20), 0},
	}
	for _, tc := range cases {
		if got := wholeMonthsBetween(tc.start, tc.end); got != tc.want {
			t.Fatalf("wholeMonthsBetween(%v, %v) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(1996, time.March, 10)
	snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob, EducationRanks: []int{4}, ExperienceMonths: 30}
	req := PostRequirements{PostID: 7, MinEducationRank: intPtr(3), MinExperienceMonths: 12}

	svc := NewEligibilityService(nil)
	first := svc.Evaluate(snapshot, req, now)
	second := svc.Evaluate(snapshot, req, now)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verdicts differ:\n%+v\n%+v", first, second)
	}
}

func TestEvaluateAllAgreesWithSinglePostPath(t *testing.T) {
	now := date(2026, time.September, 1)
	dob := date(1992, time.June, 20)
	snapshot := &ApplicantSnapshot{ApplicantID: 1, DateOfBirth: &dob, EducationRanks: []int{2, 5}, ExperienceMonths: 18}

	reqs := []PostRequirements{
		{PostID: 1, MinAge: intPtr(18), MaxAge: intPtr(30)},
		{PostID: 2, MinEducationRank: intPtr(6)},
		{PostID: 3, MinExperienceMonths: 12},
		{PostID: 4, MaxEducationRank: intPtr(4)},
	}

	svc := NewEligibilityService(nil)
	bulk := svc.EvaluateAll(snapshot, reqs, now)
	for _, req := range reqs {
		single := svc.Evaluate(snapshot, req, now)
		if !reflect.DeepEqual(bulk[req.PostID], single) {
			t.Fatalf("post %d: bulk and single verdicts disagree:\n%+v\n%+v", req.PostID, bulk[req.PostID], single)
		}
	}
}

func TestAgeAtBirthdayBoundary(t *testing.T) {
	dob := date(1990, time.September, 2)
	if got := AgeAt(dob, date(2026, time.September, 1)); got != 35 {
		t.Fatalf("day before birthday: got %d, want 35", got)
	}
	if got := AgeAt(dob, date(2026, time.September, 2)); got != 36 {
		t.Fatalf("on birthday: got %d, want 36", got)
	}
}
