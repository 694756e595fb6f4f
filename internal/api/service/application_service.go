package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/models"
	"jobboard/internal/api/policy"
	"jobboard/internal/api/repository"
	"jobboard/internal/cache"

	"gorm.io/gorm"
)

// Cover letter length bounds, in characters.
const (
	coverLetterMin = 100
	coverLetterMax = 2000
)

type ApplicationService interface {
	Submit(ctx context.Context, session policy.Session, jobID int64, req dto.SubmitApplicationRequest) (*models.Application, error)
	SetStatus(ctx context.Context, session policy.Session, applicationID int64, newStatus string) error
	Withdraw(ctx context.Context, session policy.Session, applicationID int64) error
	List(ctx context.Context, session policy.Session, query dto.ApplicationListQuery) ([]models.Application, error)
	Get(ctx context.Context, session policy.Session, applicationID int64) (*models.Application, error)
}

type applicationService struct {
	db          *gorm.DB
	appRepo     repository.ApplicationRepository
	jobRepo     repository.JobRepository
	profileRepo repository.ProfileRepository
	cache       *cache.Cache
	logger      *slog.Logger
}

func NewApplicationService(
	db *gorm.DB,
	appRepo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	profileRepo repository.ProfileRepository,
	c *cache.Cache,
	logger *slog.Logger,
) ApplicationService {
	return &applicationService{
		db:          db,
		appRepo:     appRepo,
		jobRepo:     jobRepo,
		profileRepo: profileRepo,
		cache:       c,
		logger:      logger,
	}
}

// Submit creates a pending application against an open job. The seeker's
// current resume path is copied onto the application row, so re-uploading a
// resume later never alters past applications. The application insert and both
// notifications commit or roll back together: a submitted-but-unacknowledged
// application must not be observable.
func (s *applicationService) Submit(ctx context.Context, session policy.Session, jobID int64, req dto.SubmitApplicationRequest) (*models.Application, error) {
	if err := policy.Authorize(session, policy.ApplyToJob, ""); err != nil {
		return nil, ErrForbidden
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("job lookup failed", "error", err)
		return nil, ErrPersistence
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrJobClosed
	}

	profile, err := s.profileRepo.FindByUserID(session.UserID)
	if err != nil || profile.ResumePath == "" {
		return nil, ErrMissingResume
	}

	// character count, not bytes: a multibyte cover letter must measure the same
	if n := utf8.RuneCountInString(strings.TrimSpace(req.CoverLetter)); n < coverLetterMin || n > coverLetterMax {
		return nil, &ValidationError{Fields: []string{
			fmt.Sprintf("Cover letter must be between %d and %d characters", coverLetterMin, coverLetterMax),
		}}
	}

	application := &models.Application{
		JobID:       jobID,
		JobseekerID: session.UserID,
		ResumePath:  profile.ResumePath,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewApplicationRepository(tx).Create(ctx, application); err != nil {
			return err
		}

		txNotifications := repository.NewNotificationRepository(tx)
		recruiterNote := &models.Notification{
			UserID:    job.RecruiterID,
			Type:      models.NotificationTypeApplication,
			Title:     "New Job Application",
			Message:   fmt.Sprintf("A new application has been received for the position: %s", job.Title),
			RelatedID: &application.ID,
		}
		if err := txNotifications.Create(ctx, recruiterNote); err != nil {
			return err
		}

		seekerNote := &models.Notification{
			UserID:    session.UserID,
			Type:      models.NotificationTypeApplication,
			Title:     "Application Submitted",
			Message:   fmt.Sprintf("Your application for %s has been submitted successfully.", job.Title),
			RelatedID: &application.ID,
		}
		return txNotifications.Create(ctx, seekerNote)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateApplication
		}
		s.logger.Error("application submission failed", "job_id", jobID, "error", err)
		return nil, ErrPersistence
	}

	s.cache.Invalidate(ctx, unreadCountKey(job.RecruiterID), unreadCountKey(session.UserID))
	return application, nil
}

// SetStatus drives the review state machine. Accepted and rejected are
// terminal: nothing moves out of them. The status write and the seeker's
// notification share one transaction.
func (s *applicationService) SetStatus(ctx context.Context, session policy.Session, applicationID int64, newStatus string) error {
	application, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		s.logger.Error("application lookup failed", "error", err)
		return ErrPersistence
	}

	if application.Job == nil {
		return ErrPersistence
	}
	if err := policy.Authorize(session, policy.ReviewApplication, application.Job.RecruiterID); err != nil {
		return ErrForbidden
	}

	// pending is the entry state, never a review decision
	if !models.ValidApplicationStatus(newStatus) || newStatus == models.ApplicationStatusPending {
		return ErrInvalidTransition
	}
	if models.TerminalApplicationStatus(application.Status) {
		return ErrInvalidTransition
	}
	// re-marking the current status would only emit a duplicate notification
	if newStatus == application.Status {
		return ErrInvalidTransition
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewApplicationRepository(tx).UpdateStatus(ctx, applicationID, newStatus); err != nil {
			return err
		}

		note := &models.Notification{
			UserID:    application.JobseekerID,
			Type:      models.NotificationTypeStatusUpdate,
			Title:     "Application Status Updated",
			Message:   fmt.Sprintf("Your application for %s has been marked as %s", application.Job.Title, capitalize(newStatus)),
			RelatedID: &application.ID,
		}
		return repository.NewNotificationRepository(tx).Create(ctx, note)
	})
	if err != nil {
		s.logger.Error("application status update failed", "application_id", applicationID, "error", err)
		return ErrPersistence
	}

	s.cache.Invalidate(ctx, unreadCountKey(application.JobseekerID))
	return nil
}

// Withdraw deletes a pending application. The ownership and pending checks
// live in the delete statement itself, so a review committing concurrently
// cannot slip between a read and the delete. "Not yours", "doesn't exist" and
// "not pending" all report the same error so callers cannot probe for other
// users' applications.
func (s *applicationService) Withdraw(ctx context.Context, session policy.Session, applicationID int64) error {
	if err := policy.Authorize(session, policy.WithdrawApplication, ""); err != nil {
		return ErrForbidden
	}

	deleted, err := s.appRepo.DeletePending(ctx, applicationID, session.UserID)
	if err != nil {
		s.logger.Error("application withdrawal failed", "application_id", applicationID, "error", err)
		return ErrPersistence
	}
	if !deleted {
		return ErrNotFoundOrNotWithdrawable
	}
	return nil
}

// List applies the role visibility scope before any caller filter: a recruiter
// sees only applications to jobs they own, a seeker only their own, an admin
// everything.
func (s *applicationService) List(ctx context.Context, session policy.Session, query dto.ApplicationListQuery) ([]models.Application, error) {
	if err := policy.Authorize(session, policy.ListApplications, ""); err != nil {
		return nil, ErrForbidden
	}

	filter := repository.ApplicationFilter{JobID: query.JobID, JobseekerID: query.JobseekerID, Status: query.Status}

	var applications []models.Application
	var err error

	switch session.Role {
	case models.RoleAdmin:
		applications, err = s.appRepo.ListAll(ctx, filter)
	case models.RoleRecruiter:
		var jobs []models.Job
		jobs, err = s.jobRepo.ListByRecruiter(ctx, session.UserID)
		if err != nil {
			break
		}
		jobIDs := make([]int64, 0, len(jobs))
		for _, job := range jobs {
			jobIDs = append(jobIDs, job.ID)
		}
		applications, err = s.appRepo.ListByJobIDs(ctx, jobIDs, filter)
	case models.RoleJobseeker:
		applications, err = s.appRepo.ListByJobseeker(ctx, session.UserID, filter)
	default:
		return nil, ErrForbidden
	}

	if err != nil {
		s.logger.Error("application listing failed", "error", err)
		return nil, ErrPersistence
	}
	return applications, nil
}

// Get returns a single application under the same visibility rules as List.
func (s *applicationService) Get(ctx context.Context, session policy.Session, applicationID int64) (*models.Application, error) {
	application, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		s.logger.Error("application lookup failed", "error", err)
		return nil, ErrPersistence
	}

	switch {
	case session.IsAdmin():
	case session.UserID == application.JobseekerID:
	case application.Job != nil && session.UserID == application.Job.RecruiterID:
	default:
		return nil, ErrNotFoundOrForbidden
	}
	return application, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
