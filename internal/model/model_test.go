package model

import "testing"

func TestStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{Status(""), false},
		{Status("bogus"), false},
		{Status("open"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestStatus_String(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusInProgress, "in_progress"},
		{StatusCompleted, "completed"},
		{StatusCancelled, "cancelled"},
	} {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%q).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestDependency_DirectionFor(t *testing.T) {
	d := &Dependency{TaskID: "td-a", DependsOnID: "td-b"}

	if got := d.DirectionFor("td-a"); got != DirBlockedBy {
		t.Errorf("DirectionFor(dependent) = %q, want %q", got, DirBlockedBy)
	}
	if got := d.DirectionFor("td-b"); got != DirBlocks {
		t.Errorf("DirectionFor(blocker) = %q, want %q", got, DirBlocks)
	}
}
