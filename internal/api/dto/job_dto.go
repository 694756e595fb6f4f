package dto

import "jobboard/internal/api/models"

// JobRequest: payload for posting or editing a job. Field rules are enforced by
// the job service so every violation is reported at once, not by binding tags.
type JobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	JobType      string `json:"job_type"`
	Salary       string `json:"salary"`
	Deadline     string `json:"deadline,omitempty"` // YYYY-MM-DD, optional
	Featured     bool   `json:"featured"`
}

// JobStatusRequest: payload for the open/closed toggle
type JobStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RecruiterJobResponse: a recruiter's own job with per-status application counts
type RecruiterJobResponse struct {
	Job          models.Job `json:"job"`
	Applications struct {
		Total    int64 `json:"total"`
		Pending  int64 `json:"pending"`
		Reviewed int64 `json:"reviewed"`
		Accepted int64 `json:"accepted"`
		Rejected int64 `json:"rejected"`
	} `json:"applications"`
}
