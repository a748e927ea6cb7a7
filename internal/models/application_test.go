package models

import "testing"

func TestValidApplicationStatus(t *testing.T) {
	valid := []string{
		ApplicationStatusApplied,
		ApplicationStatusReviewing,
		ApplicationStatusShortlisted,
		ApplicationStatusInterview,
		ApplicationStatusOffered,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	}
	for _, s := range valid {
		if !ValidApplicationStatus(s) {
			t.Errorf("ValidApplicationStatus(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "applied", "HIRED", "PENDING", "withdrawn "}
	for _, s := range invalid {
		if ValidApplicationStatus(s) {
			t.Errorf("ValidApplicationStatus(%q) = true, want false", s)
		}
	}
}
