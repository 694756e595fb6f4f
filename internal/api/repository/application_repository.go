package repository

import (
	"context"

	"jobboard/internal/api/models"

	"gorm.io/gorm"
)

// ApplicationFilter narrows a listing. Zero values are skipped. Visibility
// scoping by role happens in the service before this filter is applied.
type ApplicationFilter struct {
	JobID       int64
	JobseekerID string
	Status      string
}

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	FindByID(ctx context.Context, id int64) (*models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	DeletePending(ctx context.Context, id int64, jobseekerID string) (bool, error)
	DeleteByJobID(ctx context.Context, jobID int64) error
	ListByJobIDs(ctx context.Context, jobIDs []int64, filter ApplicationFilter) ([]models.Application, error)
	ListByJobseeker(ctx context.Context, jobseekerID string, filter ApplicationFilter) ([]models.Application, error)
	ListAll(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	CountByJobAndStatus(ctx context.Context, jobID int64, status string) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) FindByID(ctx context.Context, id int64) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		First(&application, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeletePending removes the application in a single conditional statement:
// only while still pending and owned by jobseekerID. A review committing
// concurrently makes the condition fail instead of racing a separate read.
func (r *applicationRepository) DeletePending(ctx context.Context, id int64, jobseekerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND jobseeker_id = ? AND status = ?", id, jobseekerID, models.ApplicationStatusPending).
		Delete(&models.Application{})
	return res.RowsAffected > 0, res.Error
}

func (r *applicationRepository) DeleteByJobID(ctx context.Context, jobID int64) error {
	return r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&models.Application{}).Error
}

func applyFilter(q *gorm.DB, filter ApplicationFilter) *gorm.DB {
	if filter.JobID != 0 {
		q = q.Where("job_id = ?", filter.JobID)
	}
	if filter.JobseekerID != "" {
		q = q.Where("jobseeker_id = ?", filter.JobseekerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

// ListByJobIDs returns applications to the given jobs, newest first. Used for
// recruiter visibility: the caller passes only job ids the recruiter owns.
func (r *applicationRepository) ListByJobIDs(ctx context.Context, jobIDs []int64, filter ApplicationFilter) ([]models.Application, error) {
	if len(jobIDs) == 0 {
		return []models.Application{}, nil
	}
	var applications []models.Application
	q := applyFilter(r.db.WithContext(ctx).Where("job_id IN ?", jobIDs), filter)
	if err := q.Preload("Job").Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) ListByJobseeker(ctx context.Context, jobseekerID string, filter ApplicationFilter) ([]models.Application, error) {
	var applications []models.Application
	q := applyFilter(r.db.WithContext(ctx).Where("jobseeker_id = ?", jobseekerID), filter)
	if err := q.Preload("Job").Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) ListAll(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	var applications []models.Application
	q := applyFilter(r.db.WithContext(ctx), filter)
	if err := q.Preload("Job").Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) CountByJobAndStatus(ctx context.Context, jobID int64, status string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Application{}).Where("job_id = ?", jobID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
