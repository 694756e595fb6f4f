package models

import "time"

// Profile is a single relation shared by both roles: the jobseeker fields and the
// recruiter/company fields coexist, selected by the owning user's role. The DTO
// layer exposes them as role-tagged variants so one role can never write the
// other's fields.
type Profile struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Jobseeker fields
	Bio          string `json:"bio"`
	Skills       string `json:"skills"`
	Experience   string `json:"experience"`
	Education    string `json:"education"`
	ResumePath   string `json:"resume_path"`
	ProfileImage string `json:"profile_image"`

	// Recruiter fields
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	CompanyWebsite     string `json:"company_website"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}
