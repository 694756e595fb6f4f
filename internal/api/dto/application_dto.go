package dto

// SubmitApplicationRequest: payload for applying to a job
type SubmitApplicationRequest struct {
	CoverLetter string `json:"cover_letter" binding:"required"`
}

// ApplicationStatusRequest: payload for a recruiter/admin status decision
type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ApplicationListQuery: optional caller filters; visibility scoping by role is
// applied by the service before these.
type ApplicationListQuery struct {
	JobID       int64  `form:"job_id"`
	JobseekerID string `form:"jobseeker_id"`
	Status      string `form:"status"`
}
