package services

import (
	"strings"
	"testing"

	"github.com/jobkit/jobkit/internal/models"
	"gorm.io/datatypes"
)

func TestBuildCoverLetterPrompt(t *testing.T) {
	user := &models.User{Name: "Ada Lovelace"}
	resume := &models.Resume{
		Headline:   "Backend Engineer",
		Summary:    "Ten years of distributed systems work.",
		Experience: datatypes.JSON(`[{"company":"Analytical Engines Ltd"}]`),
		Skills:     datatypes.JSON(`["Go","PostgreSQL"]`),
	}
	job := &models.Job{
		Title:       "Senior Go Engineer",
		Location:    "Berlin",
		Skills:      "Go, Kubernetes",
		Description: "Build and run our job pipeline.",
		Company:     &models.Company{Name: "Acme GmbH"},
	}

	prompt := BuildCoverLetterPrompt(user, resume, job, "friendly")

	for _, want := range []string{
		"Tone: friendly",
		"Applicant: Ada Lovelace",
		"Headline: Backend Engineer",
		"Summary: Ten years of distributed systems work.",
		"Analytical Engines Ltd",
		`["Go","PostgreSQL"]`,
		"Job title: Senior Go Engineer",
		"Company: Acme GmbH",
		"Location: Berlin",
		"Required skills: Go, Kubernetes",
		"Build and run our job pipeline.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCoverLetterPrompt_DefaultTone(t *testing.T) {
	prompt := BuildCoverLetterPrompt(&models.User{Name: "A"}, &models.Resume{}, &models.Job{Title: "X"}, "")
	if !strings.Contains(prompt, "Tone: professional") {
		t.Errorf("expected default professional tone, got:\n%s", prompt)
	}
}

func TestBuildCoverLetterPrompt_SkipsEmptySections(t *testing.T) {
	resume := &models.Resume{
		Experience: datatypes.JSON(`[]`),
		Education:  datatypes.JSON(`null`),
	}
	prompt := BuildCoverLetterPrompt(&models.User{Name: "A"}, resume, &models.Job{Title: "X"}, "")
	if strings.Contains(prompt, "Experience:") {
		t.Error("empty experience section should be omitted")
	}
	if strings.Contains(prompt, "Education:") {
		t.Error("null education section should be omitted")
	}
	if strings.Contains(prompt, "Projects:") {
		t.Error("missing projects section should be omitted")
	}
}
