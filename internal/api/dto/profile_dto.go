package dto

import "jobboard/internal/api/models"

// The profiles relation stores jobseeker and recruiter fields side by side.
// These role-tagged requests keep each role writing only its own fields.

// JobseekerProfileRequest: profile fields a jobseeker may edit
type JobseekerProfileRequest struct {
	Phone      string `json:"phone" binding:"max=20"`
	Address    string `json:"address" binding:"max=200"`
	Bio        string `json:"bio" binding:"max=2000"`
	Skills     string `json:"skills" binding:"max=1000"`
	Experience string `json:"experience" binding:"max=4000"`
	Education  string `json:"education" binding:"max=4000"`
}

// RecruiterProfileRequest: profile fields a recruiter may edit
type RecruiterProfileRequest struct {
	Phone              string `json:"phone" binding:"max=20"`
	Address            string `json:"address" binding:"max=200"`
	CompanyName        string `json:"company_name" binding:"max=100"`
	CompanyDescription string `json:"company_description" binding:"max=4000"`
	CompanyWebsite     string `json:"company_website" binding:"omitempty,url"`
}

// JobseekerProfileResponse exposes only the jobseeker view of the row
type JobseekerProfileResponse struct {
	UserID       string `json:"user_id"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Bio          string `json:"bio"`
	Skills       string `json:"skills"`
	Experience   string `json:"experience"`
	Education    string `json:"education"`
	ResumePath   string `json:"resume_path"`
	ProfileImage string `json:"profile_image"`
}

// RecruiterProfileResponse exposes only the recruiter view of the row
type RecruiterProfileResponse struct {
	UserID             string `json:"user_id"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	CompanyWebsite     string `json:"company_website"`
	ProfileImage       string `json:"profile_image"`
}

func ToJobseekerProfile(p *models.Profile) *JobseekerProfileResponse {
	return &JobseekerProfileResponse{
		UserID:       p.UserID,
		Phone:        p.Phone,
		Address:      p.Address,
		Bio:          p.Bio,
		Skills:       p.Skills,
		Experience:   p.Experience,
		Education:    p.Education,
		ResumePath:   p.ResumePath,
		ProfileImage: p.ProfileImage,
	}
}

func ToRecruiterProfile(p *models.Profile) *RecruiterProfileResponse {
	return &RecruiterProfileResponse{
		UserID:             p.UserID,
		Phone:              p.Phone,
		Address:            p.Address,
		CompanyName:        p.CompanyName,
		CompanyDescription: p.CompanyDescription,
		CompanyWebsite:     p.CompanyWebsite,
		ProfileImage:       p.ProfileImage,
	}
}
