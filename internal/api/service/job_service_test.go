package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/models"
	"jobboard/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobService(t *testing.T) (JobService, *fakeStore, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	store := newFakeStore()
	svc := NewJobService(
		env.db,
		repository.NewJobRepository(env.db),
		repository.NewApplicationRepository(env.db),
		repository.NewProfileRepository(env.db),
		store,
		nil,
		testLogger(),
	)
	return svc, store, env
}

func validJobRequest() dto.JobRequest {
	return dto.JobRequest{
		Title:        "Backend Engineer",
		Description:  strings.Repeat("Design, build and run our hiring services. ", 3),
		Requirements: "Solid Go experience and working SQL knowledge.",
		Location:     "Remote",
		JobType:      models.JobTypeFullTime,
		Salary:       "70000-90000 EUR",
	}
}

func TestCreateJob(t *testing.T) {
	svc, _, env := newJobService(t)
	ctx := context.Background()

	require.NoError(t, env.db.Model(&models.Profile{}).
		Where("user_id = ?", env.recruiter.ID).
		Update("company_name", "Initech").Error)

	job, err := svc.Create(ctx, sessionFor(env.recruiter), validJobRequest())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Equal(t, env.recruiter.ID, job.RecruiterID)
	assert.Equal(t, "Initech", job.CompanyName)

	// company name is a snapshot, later renames leave the posting untouched
	require.NoError(t, env.db.Model(&models.Profile{}).
		Where("user_id = ?", env.recruiter.ID).
		Update("company_name", "Initech GmbH").Error)
	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.CompanyName)
}

func TestCreateJobRoleDenied(t *testing.T) {
	svc, _, env := newJobService(t)
	_, err := svc.Create(context.Background(), sessionFor(env.seeker), validJobRequest())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateJobValidation(t *testing.T) {
	svc, _, env := newJobService(t)
	ctx := context.Background()
	session := sessionFor(env.recruiter)

	t.Run("description length boundary", func(t *testing.T) {
		req := validJobRequest()
		req.Description = strings.Repeat("d", 49)
		_, err := svc.Create(ctx, session, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		req.Description = strings.Repeat("d", 50)
		_, err = svc.Create(ctx, session, req)
		assert.NoError(t, err)
	})

	t.Run("bounds count characters not bytes", func(t *testing.T) {
		req := validJobRequest()
		req.Description = strings.Repeat("é", 49)
		_, err := svc.Create(ctx, session, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		req.Description = strings.Repeat("é", 50)
		req.Title = strings.Repeat("é", 100)
		_, err = svc.Create(ctx, session, req)
		assert.NoError(t, err)

		req.Title = strings.Repeat("é", 101)
		_, err = svc.Create(ctx, session, req)
		require.ErrorAs(t, err, &verr)
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		_, err := svc.Create(ctx, session, dto.JobRequest{
			Title:        strings.Repeat("t", 101),
			Description:  "too short",
			Requirements: "short",
			Location:     "",
			JobType:      "gig",
			Salary:       "",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 6)
	})

	t.Run("deadline rules", func(t *testing.T) {
		req := validJobRequest()
		req.Deadline = "not-a-date"
		_, err := svc.Create(ctx, session, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		req.Deadline = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		_, err = svc.Create(ctx, session, req)
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields[0], "future")

		req.Deadline = time.Now().AddDate(1, 1, 0).Format("2006-01-02")
		_, err = svc.Create(ctx, session, req)
		require.ErrorAs(t, err, &verr)

		req.Deadline = time.Now().AddDate(0, 1, 0).Format("2006-01-02")
		job, err := svc.Create(ctx, session, req)
		require.NoError(t, err)
		require.NotNil(t, job.Deadline)
	})
}

func TestUpdateJobOwnership(t *testing.T) {
	svc, _, env := newJobService(t)
	ctx := context.Background()

	req := validJobRequest()
	req.Title = "Senior Backend Engineer"

	// missing job and foreign job look identical to the caller
	assert.ErrorIs(t, svc.Update(ctx, sessionFor(env.recruiter), 9999, req), ErrNotFoundOrForbidden)

	other := seedUser(t, env.db, models.RoleRecruiter)
	assert.ErrorIs(t, svc.Update(ctx, sessionFor(other), env.job.ID, req), ErrNotFoundOrForbidden)

	require.NoError(t, svc.Update(ctx, sessionFor(env.recruiter), env.job.ID, req))
	got, err := svc.Get(ctx, env.job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", got.Title)

	// admins edit anyone's posting
	admin := seedUser(t, env.db, models.RoleAdmin)
	req.Title = "Staff Backend Engineer"
	assert.NoError(t, svc.Update(ctx, sessionFor(admin), env.job.ID, req))
}

func TestSetJobStatus(t *testing.T) {
	svc, _, env := newJobService(t)
	ctx := context.Background()
	session := sessionFor(env.recruiter)

	require.NoError(t, svc.SetStatus(ctx, session, env.job.ID, models.JobStatusClosed))
	got, err := svc.Get(ctx, env.job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, got.Status)

	// same status again is a silent no-op
	assert.NoError(t, svc.SetStatus(ctx, session, env.job.ID, models.JobStatusClosed))

	require.NoError(t, svc.SetStatus(ctx, session, env.job.ID, models.JobStatusOpen))

	var verr *ValidationError
	err = svc.SetStatus(ctx, session, env.job.ID, "paused")
	require.ErrorAs(t, err, &verr)
}

func TestDeleteJobCascades(t *testing.T) {
	svc, store, env := newJobService(t)
	ctx := context.Background()

	appSvc := NewApplicationService(
		env.db,
		repository.NewApplicationRepository(env.db),
		repository.NewJobRepository(env.db),
		repository.NewProfileRepository(env.db),
		nil,
		testLogger(),
	)

	// give the seeker's resume a real object in the store
	resume := store.put("resumes")
	require.NoError(t, env.db.Model(&models.Profile{}).
		Where("user_id = ?", env.seeker.ID).
		Update("resume_path", resume).Error)

	_, err := appSvc.Submit(ctx, sessionFor(env.seeker), env.job.ID, dto.SubmitApplicationRequest{CoverLetter: validCoverLetter()})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sessionFor(env.recruiter), env.job.ID))

	_, err = svc.Get(ctx, env.job.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Application{}).Count(&count).Error)
	assert.Zero(t, count)

	// the application's resume snapshot is gone from storage too
	assert.False(t, store.has(resume))
}

func TestDeleteJobStorageFailureRollsBack(t *testing.T) {
	svc, store, env := newJobService(t)
	ctx := context.Background()

	appSvc := NewApplicationService(
		env.db,
		repository.NewApplicationRepository(env.db),
		repository.NewJobRepository(env.db),
		repository.NewProfileRepository(env.db),
		nil,
		testLogger(),
	)
	_, err := appSvc.Submit(ctx, sessionFor(env.seeker), env.job.ID, dto.SubmitApplicationRequest{CoverLetter: validCoverLetter()})
	require.NoError(t, err)

	store.fail = true
	assert.ErrorIs(t, svc.Delete(ctx, sessionFor(env.recruiter), env.job.ID), ErrDeletion)

	// job and application both survive a failed delete
	_, err = svc.Get(ctx, env.job.ID)
	assert.NoError(t, err)
	var count int64
	require.NoError(t, env.db.Model(&models.Application{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSearchJobsOpenOnly(t *testing.T) {
	svc, _, env := newJobService(t)
	ctx := context.Background()

	closed := seedJob(t, env.db, env.recruiter.ID)
	require.NoError(t, env.db.Model(closed).Update("status", models.JobStatusClosed).Error)

	jobs, err := svc.Search(ctx, repository.JobSearch{})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, env.job.ID, jobs[0].ID)

	jobs, err = svc.Search(ctx, repository.JobSearch{Keyword: "backend"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	jobs, err = svc.Search(ctx, repository.JobSearch{Keyword: "haskell"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestListMineCounts(t *testing.T) {
	svc, _, env := newJobService(t)
	ctx := context.Background()

	appSvc := NewApplicationService(
		env.db,
		repository.NewApplicationRepository(env.db),
		repository.NewJobRepository(env.db),
		repository.NewProfileRepository(env.db),
		nil,
		testLogger(),
	)

	second := seedJobseeker(t, env.db)
	first, err := appSvc.Submit(ctx, sessionFor(env.seeker), env.job.ID, dto.SubmitApplicationRequest{CoverLetter: validCoverLetter()})
	require.NoError(t, err)
	_, err = appSvc.Submit(ctx, sessionFor(second), env.job.ID, dto.SubmitApplicationRequest{CoverLetter: validCoverLetter()})
	require.NoError(t, err)
	require.NoError(t, appSvc.SetStatus(ctx, sessionFor(env.recruiter), first.ID, models.ApplicationStatusAccepted))

	mine, err := svc.ListMine(ctx, sessionFor(env.recruiter))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.EqualValues(t, 2, mine[0].Applications.Total)
	assert.EqualValues(t, 1, mine[0].Applications.Pending)
	assert.EqualValues(t, 1, mine[0].Applications.Accepted)
	assert.Zero(t, mine[0].Applications.Reviewed)
}
