package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/models"
	"jobboard/internal/api/policy"
	"jobboard/internal/api/repository"
	"jobboard/internal/cache"
	"jobboard/internal/storage"

	"gorm.io/gorm"
)

// Cache keys for the public job listings, invalidated on every job write.
const (
	cacheKeyFeaturedJobs = "jobs:featured"
	cacheKeyRecentJobs   = "jobs:recent"
)

type JobService interface {
	Create(ctx context.Context, session policy.Session, req dto.JobRequest) (*models.Job, error)
	Update(ctx context.Context, session policy.Session, jobID int64, req dto.JobRequest) error
	SetStatus(ctx context.Context, session policy.Session, jobID int64, status string) error
	Delete(ctx context.Context, session policy.Session, jobID int64) error
	Get(ctx context.Context, jobID int64) (*models.Job, error)
	Search(ctx context.Context, filter repository.JobSearch) ([]models.Job, error)
	Featured(ctx context.Context, limit int) ([]models.Job, error)
	Recent(ctx context.Context, limit int) ([]models.Job, error)
	ListMine(ctx context.Context, session policy.Session) ([]dto.RecruiterJobResponse, error)
}

type jobService struct {
	db          *gorm.DB
	jobRepo     repository.JobRepository
	appRepo     repository.ApplicationRepository
	profileRepo repository.ProfileRepository
	store       storage.Store
	cache       *cache.Cache
	logger      *slog.Logger
}

func NewJobService(
	db *gorm.DB,
	jobRepo repository.JobRepository,
	appRepo repository.ApplicationRepository,
	profileRepo repository.ProfileRepository,
	store storage.Store,
	c *cache.Cache,
	logger *slog.Logger,
) JobService {
	return &jobService{
		db:          db,
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		store:       store,
		cache:       c,
		logger:      logger,
	}
}

// validateJob collects every violated rule so the form can show all of them.
// Length bounds count characters, not bytes. Returns the parsed deadline when
// one was given.
func validateJob(req dto.JobRequest) (*time.Time, *ValidationError) {
	var fields []string

	if req.Title == "" {
		fields = append(fields, "Job title is required")
	} else if utf8.RuneCountInString(req.Title) > 100 {
		fields = append(fields, "Job title must be less than 100 characters")
	}

	if req.Description == "" {
		fields = append(fields, "Job description is required")
	} else if utf8.RuneCountInString(req.Description) < 50 {
		fields = append(fields, "Job description must be at least 50 characters long")
	}

	if req.Requirements == "" {
		fields = append(fields, "Job requirements are required")
	} else if utf8.RuneCountInString(req.Requirements) < 30 {
		fields = append(fields, "Job requirements must be at least 30 characters long")
	}

	if !models.ValidJobType(req.JobType) {
		fields = append(fields, "Please select a valid job type")
	}

	if req.Location == "" {
		fields = append(fields, "Location is required")
	} else if utf8.RuneCountInString(req.Location) > 100 {
		fields = append(fields, "Location must be less than 100 characters")
	}

	if req.Salary == "" {
		fields = append(fields, "Salary is required")
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", req.Deadline)
		switch {
		case err != nil:
			fields = append(fields, "Application deadline must be a valid date (YYYY-MM-DD)")
		case parsed.Before(time.Now().Truncate(24 * time.Hour)):
			fields = append(fields, "Application deadline must be in the future")
		case parsed.After(time.Now().AddDate(1, 0, 0)):
			fields = append(fields, "Application deadline cannot be more than 1 year in the future")
		default:
			deadline = &parsed
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return deadline, nil
}

// Create validates and inserts a job with status=open. The company name is
// copied from the recruiter's profile: a snapshot, so renaming the company
// later does not retroactively change already-posted jobs.
func (s *jobService) Create(ctx context.Context, session policy.Session, req dto.JobRequest) (*models.Job, error) {
	if err := policy.Authorize(session, policy.PostJob, ""); err != nil {
		return nil, ErrForbidden
	}

	deadline, verr := validateJob(req)
	if verr != nil {
		return nil, verr
	}

	companyName := ""
	if profile, err := s.profileRepo.FindByUserID(session.UserID); err == nil {
		companyName = profile.CompanyName
	}

	job := &models.Job{
		RecruiterID:  session.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		JobType:      req.JobType,
		Salary:       req.Salary,
		CompanyName:  companyName,
		Deadline:     deadline,
		Featured:     req.Featured,
		Status:       models.JobStatusOpen,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.Error("job insert failed", "error", err)
		return nil, ErrPersistence
	}

	s.cache.Invalidate(ctx, cacheKeyFeaturedJobs, cacheKeyRecentJobs)
	return job, nil
}

// Update re-runs the same validation and applies all field changes atomically.
// A missing job and a job owned by someone else report the same error.
func (s *jobService) Update(ctx context.Context, session policy.Session, jobID int64, req dto.JobRequest) error {
	deadline, verr := validateJob(req)
	if verr != nil {
		return verr
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFoundOrForbidden
		}
		s.logger.Error("job lookup failed", "error", err)
		return ErrPersistence
	}

	if err := policy.Authorize(session, policy.EditJob, job.RecruiterID); err != nil {
		return ErrNotFoundOrForbidden
	}

	job.Title = req.Title
	job.Description = req.Description
	job.Requirements = req.Requirements
	job.Location = req.Location
	job.JobType = req.JobType
	job.Salary = req.Salary
	job.Deadline = deadline
	job.Featured = req.Featured

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("job update failed", "error", err)
		return ErrPersistence
	}

	s.cache.Invalidate(ctx, cacheKeyFeaturedJobs, cacheKeyRecentJobs)
	return nil
}

// SetStatus toggles open/closed. Setting the current status again is a no-op
// success.
func (s *jobService) SetStatus(ctx context.Context, session policy.Session, jobID int64, status string) error {
	if status != models.JobStatusOpen && status != models.JobStatusClosed {
		return &ValidationError{Fields: []string{"Status must be open or closed"}}
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFoundOrForbidden
		}
		s.logger.Error("job lookup failed", "error", err)
		return ErrPersistence
	}

	if err := policy.Authorize(session, policy.SetJobStatus, job.RecruiterID); err != nil {
		return ErrNotFoundOrForbidden
	}

	if job.Status == status {
		return nil
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, status); err != nil {
		s.logger.Error("job status update failed", "error", err)
		return ErrPersistence
	}

	s.cache.Invalidate(ctx, cacheKeyFeaturedJobs, cacheKeyRecentJobs)
	return nil
}

// Delete removes a job, its applications, and their stored resume snapshots in
// one transaction. A failure at any step rolls the whole thing back so no
// orphaned application is ever observable.
func (s *jobService) Delete(ctx context.Context, session policy.Session, jobID int64) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFoundOrForbidden
		}
		s.logger.Error("job lookup failed", "error", err)
		return ErrPersistence
	}

	if err := policy.Authorize(session, policy.RemoveJob, job.RecruiterID); err != nil {
		return ErrNotFoundOrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txApps := repository.NewApplicationRepository(tx)
		txJobs := repository.NewJobRepository(tx)

		applications, err := txApps.ListByJobIDs(ctx, []int64{jobID}, repository.ApplicationFilter{})
		if err != nil {
			return err
		}

		if err := txApps.DeleteByJobID(ctx, jobID); err != nil {
			return err
		}

		for _, application := range applications {
			if err := s.store.Remove(ctx, application.ResumePath); err != nil {
				return err
			}
		}

		return txJobs.Delete(ctx, jobID)
	})
	if err != nil {
		s.logger.Error("job deletion failed", "job_id", jobID, "error", err)
		return ErrDeletion
	}

	s.cache.Invalidate(ctx, cacheKeyFeaturedJobs, cacheKeyRecentJobs)
	return nil
}

func (s *jobService) Get(ctx context.Context, jobID int64) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("job lookup failed", "error", err)
		return nil, ErrPersistence
	}
	return job, nil
}

func (s *jobService) Search(ctx context.Context, filter repository.JobSearch) ([]models.Job, error) {
	jobs, err := s.jobRepo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("job search failed", "error", err)
		return nil, ErrPersistence
	}
	return jobs, nil
}

func (s *jobService) Featured(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := s.cache.Aside(ctx, cacheKeyFeaturedJobs, &jobs, func() error {
		var err error
		jobs, err = s.jobRepo.ListFeatured(ctx, limit)
		return err
	})
	if err != nil {
		s.logger.Error("featured jobs lookup failed", "error", err)
		return nil, ErrPersistence
	}
	return jobs, nil
}

func (s *jobService) Recent(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := s.cache.Aside(ctx, cacheKeyRecentJobs, &jobs, func() error {
		var err error
		jobs, err = s.jobRepo.ListRecent(ctx, limit)
		return err
	})
	if err != nil {
		s.logger.Error("recent jobs lookup failed", "error", err)
		return nil, ErrPersistence
	}
	return jobs, nil
}

// ListMine returns the recruiter's own jobs with per-status application counts
// for the dashboard listing.
func (s *jobService) ListMine(ctx context.Context, session policy.Session) ([]dto.RecruiterJobResponse, error) {
	if err := policy.Authorize(session, policy.ViewOwnJobs, ""); err != nil {
		return nil, ErrForbidden
	}

	jobs, err := s.jobRepo.ListByRecruiter(ctx, session.UserID)
	if err != nil {
		s.logger.Error("recruiter job listing failed", "error", err)
		return nil, ErrPersistence
	}

	responses := make([]dto.RecruiterJobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp := dto.RecruiterJobResponse{Job: job}
		if resp.Applications.Total, err = s.appRepo.CountByJobAndStatus(ctx, job.ID, ""); err != nil {
			return nil, ErrPersistence
		}
		if resp.Applications.Pending, err = s.appRepo.CountByJobAndStatus(ctx, job.ID, models.ApplicationStatusPending); err != nil {
			return nil, ErrPersistence
		}
		if resp.Applications.Reviewed, err = s.appRepo.CountByJobAndStatus(ctx, job.ID, models.ApplicationStatusReviewed); err != nil {
			return nil, ErrPersistence
		}
		if resp.Applications.Accepted, err = s.appRepo.CountByJobAndStatus(ctx, job.ID, models.ApplicationStatusAccepted); err != nil {
			return nil, ErrPersistence
		}
		if resp.Applications.Rejected, err = s.appRepo.CountByJobAndStatus(ctx, job.ID, models.ApplicationStatusRejected); err != nil {
			return nil, ErrPersistence
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
