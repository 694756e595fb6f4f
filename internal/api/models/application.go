package models

import "time"

// Application status values. Accepted and rejected are terminal.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusReviewed = "reviewed"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

func ValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// TerminalApplicationStatus reports whether no further transitions are permitted.
func TerminalApplicationStatus(status string) bool {
	return status == ApplicationStatusAccepted || status == ApplicationStatusRejected
}

type Application struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID       int64     `gorm:"not null;index;uniqueIndex:idx_applications_job_seeker" json:"job_id"`
	JobseekerID string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_job_seeker" json:"jobseeker_id"`
	ResumePath  string    `gorm:"not null" json:"resume_path"` // snapshot of the seeker's resume at submission time
	CoverLetter string    `gorm:"not null" json:"cover_letter"`
	Status      string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Job       *Job  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	Jobseeker *User `gorm:"foreignKey:JobseekerID;constraint:OnDelete:CASCADE" json:"jobseeker,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}
