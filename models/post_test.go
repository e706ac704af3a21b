package models

import (
	"testing"
	"time"
)

func TestPostIsOpenForApplications(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name string
		post Post
		want bool
	}{
		{"active with capacity", Post{IsActive: true, TotalPositions: 5, FilledPositions: 2}, true},
		{"inactive", Post{IsActive: false, TotalPositions: 5}, false},
		{"closed flag set", Post{IsActive: true, IsClosed: true, TotalPositions: 5}, false},
		{"closing date passed", Post{IsActive: true, TotalPositions: 5, ClosingDate: &past}, false},
		{"closing date ahead", Post{IsActive: true, TotalPositions: 5, ClosingDate: &future}, true},
		{"at capacity", Post{IsActive: true, TotalPositions: 5, FilledPositions: 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.post.IsOpenForApplications(now); got != tc.want {
				t.Fatalf("IsOpenForApplications = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPostRemainingPositions(t *testing.T) {
	post := Post{TotalPositions: 5, FilledPositions: 2}
	if got := post.RemainingPositions(); got != 3 {
		t.Fatalf("RemainingPositions = %d, want 3", got)
	}

	post.FilledPositions = 7
	if got := post.RemainingPositions(); got != 0 {
		t.Fatalf("RemainingPositions past capacity = %d, want 0", got)
	}
}
