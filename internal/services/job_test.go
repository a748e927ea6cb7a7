package services

import (
	"testing"

	"github.com/jobkit/jobkit/internal/models"
)

func TestValidJobStatus(t *testing.T) {
	for _, s := range []string{models.JobStatusOpen, models.JobStatusClosed, models.JobStatusDraft} {
		if !validJobStatus(s) {
			t.Errorf("validJobStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "open", "ARCHIVED", "PAUSED"} {
		if validJobStatus(s) {
			t.Errorf("validJobStatus(%q) = true, want false", s)
		}
	}
}
