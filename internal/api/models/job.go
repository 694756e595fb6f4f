package models

import "time"

// Job status values. Open and closed toggle freely while the job exists.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Job type values accepted by validation.
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
	JobTypeRemote     = "remote"
)

func ValidJobType(jobType string) bool {
	switch jobType {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeRemote:
		return true
	}
	return false
}

type Job struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RecruiterID  string     `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"not null" json:"description"`
	Requirements string     `gorm:"not null" json:"requirements"`
	Location     string     `gorm:"not null" json:"location"`
	JobType      string     `gorm:"not null" json:"job_type"`
	Salary       string     `gorm:"not null" json:"salary"`
	CompanyName  string     `json:"company_name"` // snapshot of the recruiter's profile at posting time
	Deadline     *time.Time `json:"deadline,omitempty"`
	Featured     bool       `gorm:"default:false" json:"featured"`
	Status       string     `gorm:"not null;default:'open'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Recruiter *User `gorm:"foreignKey:RecruiterID;constraint:OnDelete:CASCADE" json:"recruiter,omitempty"`
}

func (Job) TableName() string {
	return "jobs"
}
