package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/policy"
	"jobboard/internal/api/repository"
	"jobboard/internal/storage"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetJobseeker(ctx context.Context, session policy.Session) (*dto.JobseekerProfileResponse, error)
	GetRecruiter(ctx context.Context, session policy.Session) (*dto.RecruiterProfileResponse, error)
	UpdateJobseeker(ctx context.Context, session policy.Session, req dto.JobseekerProfileRequest) error
	UpdateRecruiter(ctx context.Context, session policy.Session, req dto.RecruiterProfileRequest) error
	UploadResume(ctx context.Context, session policy.Session, reader io.Reader, size int64, contentType string) (string, error)
	UploadProfileImage(ctx context.Context, session policy.Session, reader io.Reader, size int64, contentType string) (string, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	store       storage.Store
	logger      *slog.Logger
}

func NewProfileService(profileRepo repository.ProfileRepository, store storage.Store, logger *slog.Logger) ProfileService {
	return &profileService{profileRepo: profileRepo, store: store, logger: logger}
}

func (s *profileService) GetJobseeker(ctx context.Context, session policy.Session) (*dto.JobseekerProfileResponse, error) {
	if err := policy.Authorize(session, policy.EditProfile, ""); err != nil {
		return nil, ErrForbidden
	}
	profile, err := s.profileRepo.FindByUserID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("profile lookup failed", "error", err)
		return nil, ErrPersistence
	}
	return dto.ToJobseekerProfile(profile), nil
}

func (s *profileService) GetRecruiter(ctx context.Context, session policy.Session) (*dto.RecruiterProfileResponse, error) {
	if err := policy.Authorize(session, policy.EditProfile, ""); err != nil {
		return nil, ErrForbidden
	}
	profile, err := s.profileRepo.FindByUserID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("profile lookup failed", "error", err)
		return nil, ErrPersistence
	}
	return dto.ToRecruiterProfile(profile), nil
}

// UpdateJobseeker writes only the jobseeker field set. Company fields are
// untouchable from this path regardless of payload.
func (s *profileService) UpdateJobseeker(ctx context.Context, session policy.Session, req dto.JobseekerProfileRequest) error {
	if err := policy.Authorize(session, policy.EditProfile, ""); err != nil {
		return ErrForbidden
	}

	profile, err := s.profileRepo.FindByUserID(session.UserID)
	if err != nil {
		s.logger.Error("profile lookup failed", "error", err)
		return ErrPersistence
	}

	profile.Phone = req.Phone
	profile.Address = req.Address
	profile.Bio = req.Bio
	profile.Skills = req.Skills
	profile.Experience = req.Experience
	profile.Education = req.Education

	if err := s.profileRepo.Update(profile); err != nil {
		s.logger.Error("profile update failed", "error", err)
		return ErrPersistence
	}
	return nil
}

// UpdateRecruiter writes only the recruiter field set. The company name on
// already-posted jobs is a snapshot and is not rewritten here.
func (s *profileService) UpdateRecruiter(ctx context.Context, session policy.Session, req dto.RecruiterProfileRequest) error {
	if err := policy.Authorize(session, policy.EditProfile, ""); err != nil {
		return ErrForbidden
	}

	profile, err := s.profileRepo.FindByUserID(session.UserID)
	if err != nil {
		s.logger.Error("profile lookup failed", "error", err)
		return ErrPersistence
	}

	profile.Phone = req.Phone
	profile.Address = req.Address
	profile.CompanyName = req.CompanyName
	profile.CompanyDescription = req.CompanyDescription
	profile.CompanyWebsite = req.CompanyWebsite

	if err := s.profileRepo.Update(profile); err != nil {
		s.logger.Error("profile update failed", "error", err)
		return ErrPersistence
	}
	return nil
}

// UploadResume stores the PDF and points the profile at it. The previous
// object is left behind on purpose: past applications snapshot its path, and
// there is no retention decision that would make deleting it safe.
func (s *profileService) UploadResume(ctx context.Context, session policy.Session, reader io.Reader, size int64, contentType string) (string, error) {
	if err := policy.Authorize(session, policy.EditProfile, ""); err != nil {
		return "", ErrForbidden
	}

	path, err := s.store.StoreResume(ctx, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.profileRepo.UpdateResumePath(session.UserID, path); err != nil {
		s.logger.Error("resume path update failed", "error", err)
		return "", ErrPersistence
	}
	return path, nil
}

func (s *profileService) UploadProfileImage(ctx context.Context, session policy.Session, reader io.Reader, size int64, contentType string) (string, error) {
	if err := policy.Authorize(session, policy.EditProfile, ""); err != nil {
		return "", ErrForbidden
	}

	path, err := s.store.StoreImage(ctx, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.profileRepo.UpdateProfileImage(session.UserID, path); err != nil {
		s.logger.Error("profile image update failed", "error", err)
		return "", ErrPersistence
	}
	return path, nil
}
