package services

import (
	"strings"
	"testing"

	"github.com/jobkit/jobkit/internal/config"
)

func testEmailService() *EmailService {
	return NewEmailService(&config.SMTPConfig{From: "noreply@jobkit.dev"})
}

func TestEmailService_InviteBody(t *testing.T) {
	body := testEmailService().InviteBody("Acme GmbH", "RECRUITER", "tok-abc123")
	for _, want := range []string{"Acme GmbH", "RECRUITER", "tok-abc123"} {
		if !strings.Contains(body, want) {
			t.Errorf("invite body missing %q", want)
		}
	}
}

func TestEmailService_ResetBody(t *testing.T) {
	body := testEmailService().ResetBody("Ada", "reset-token-xyz")
	if !strings.Contains(body, "Ada") {
		t.Error("reset body missing recipient name")
	}
	if !strings.Contains(body, "reset-token-xyz") {
		t.Error("reset body missing token")
	}
}

func TestEmailService_ApplicationBody(t *testing.T) {
	body := testEmailService().ApplicationBody("Ada Lovelace", "Senior Go Engineer")
	if !strings.Contains(body, "Ada Lovelace") {
		t.Error("application body missing applicant name")
	}
	if !strings.Contains(body, "Senior Go Engineer") {
		t.Error("application body missing job title")
	}
}
