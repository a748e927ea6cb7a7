package main

import (
	"fmt"
	"os"

	"github.com/jobkit/jobkit/internal/config"
	"github.com/jobkit/jobkit/internal/models"
)

// Recomputes jobs.applicant_count from the applications table. Useful after
// manual data fixes, since the counter is otherwise maintained incrementally.
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	var jobs []models.Job
	if err := db.Order("id").Find(&jobs).Error; err != nil {
		fmt.Printf("Failed to read jobs: %v\n", err)
		os.Exit(1)
	}

	updated := 0
	for _, job := range jobs {
		var count int64
		db.Model(&models.JobApplication{}).
			Where("job_id = ? AND status <> ?", job.ID, models.ApplicationStatusWithdrawn).
			Count(&count)

		if int(count) == job.ApplicantCount {
			continue
		}
		err := db.Model(&models.Job{}).
			Where("id = ?", job.ID).
			Update("applicant_count", int(count)).Error
		if err != nil {
			fmt.Printf("Failed to update job %d: %v\n", job.ID, err)
			os.Exit(1)
		}
		fmt.Printf("Job %d (%s): %d -> %d\n", job.ID, job.Title, job.ApplicantCount, count)
		updated++
	}

	fmt.Printf("\nDone. Updated %d of %d jobs.\n", updated, len(jobs))
}
