package service

import (
	"context"
	"errors"
	"log/slog"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/models"
	"jobboard/internal/api/policy"
	"jobboard/internal/api/repository"

	"gorm.io/gorm"
)

type AdminService interface {
	ListUsers(ctx context.Context, session policy.Session, role string) ([]models.User, error)
	GetUser(ctx context.Context, session policy.Session, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, session policy.Session, userID string, req dto.UpdateUserRequest) error
	DeleteUser(ctx context.Context, session policy.Session, userID string) error
	ListJobs(ctx context.Context, session policy.Session) ([]models.Job, error)
}

type adminService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	jobRepo  repository.JobRepository
	logger   *slog.Logger
}

func NewAdminService(db *gorm.DB, userRepo repository.UserRepository, jobRepo repository.JobRepository, logger *slog.Logger) AdminService {
	return &adminService{db: db, userRepo: userRepo, jobRepo: jobRepo, logger: logger}
}

func (s *adminService) ListUsers(ctx context.Context, session policy.Session, role string) ([]models.User, error) {
	if err := policy.Authorize(session, policy.ManageUsers, ""); err != nil {
		return nil, ErrForbidden
	}
	users, err := s.userRepo.List(role)
	if err != nil {
		s.logger.Error("user listing failed", "error", err)
		return nil, ErrPersistence
	}
	return users, nil
}

func (s *adminService) GetUser(ctx context.Context, session policy.Session, userID string) (*models.User, error) {
	if err := policy.Authorize(session, policy.ManageUsers, ""); err != nil {
		return nil, ErrForbidden
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("user lookup failed", "error", err)
		return nil, ErrPersistence
	}
	return user, nil
}

// UpdateUser edits the account fields an admin may change. Role is immutable
// after creation.
func (s *adminService) UpdateUser(ctx context.Context, session policy.Session, userID string, req dto.UpdateUserRequest) error {
	if err := policy.Authorize(session, policy.ManageUsers, ""); err != nil {
		return ErrForbidden
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		s.logger.Error("user lookup failed", "error", err)
		return ErrPersistence
	}

	if existing, err := s.userRepo.FindByEmail(req.Email); err == nil && existing.ID != userID {
		return ErrEmailInUse
	}

	user.Email = req.Email
	user.FullName = req.FullName

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailInUse
		}
		s.logger.Error("user update failed", "error", err)
		return ErrPersistence
	}
	return nil
}

// DeleteUser removes a user and everything they own in one transaction: their
// profile, refresh tokens, their own applications, and (for recruiters) their
// jobs with every application to those jobs. Notifications are not touched:
// they stay as an audit trail with a dangling related_id.
func (s *adminService) DeleteUser(ctx context.Context, session policy.Session, userID string) error {
	if err := policy.Authorize(session, policy.ManageUsers, ""); err != nil {
		return ErrForbidden
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		s.logger.Error("user lookup failed", "error", err)
		return ErrPersistence
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txJobs := repository.NewJobRepository(tx)

		jobs, err := txJobs.ListByRecruiter(ctx, userID)
		if err != nil {
			return err
		}
		for _, job := range jobs {
			if err := tx.Where("job_id = ?", job.ID).Delete(&models.Application{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("recruiter_id = ?", userID).Delete(&models.Job{}).Error; err != nil {
			return err
		}
		if err := tx.Where("jobseeker_id = ?", userID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := repository.NewRefreshTokenRepository(tx).DeleteByUser(userID); err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
	if err != nil {
		s.logger.Error("user deletion failed", "user_id", userID, "error", err)
		return ErrPersistence
	}
	return nil
}

func (s *adminService) ListJobs(ctx context.Context, session policy.Session) ([]models.Job, error) {
	if err := policy.Authorize(session, policy.ManageUsers, ""); err != nil {
		return nil, ErrForbidden
	}
	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("job listing failed", "error", err)
		return nil, ErrPersistence
	}
	return jobs, nil
}
