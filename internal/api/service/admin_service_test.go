package service

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/models"
	"jobboard/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(t *testing.T) (AdminService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewAdminService(env.db, repository.NewUserRepository(env.db), repository.NewJobRepository(env.db), testLogger())
	return svc, env
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	svc, env := newAdminService(t)
	ctx := context.Background()

	for _, user := range []*models.User{env.recruiter, env.seeker} {
		session := sessionFor(user)
		_, err := svc.ListUsers(ctx, session, "")
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = svc.GetUser(ctx, session, env.seeker.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, svc.DeleteUser(ctx, session, env.seeker.ID), ErrForbidden)
		_, err = svc.ListJobs(ctx, session)
		assert.ErrorIs(t, err, ErrForbidden)
	}
}

func TestListUsersByRole(t *testing.T) {
	svc, env := newAdminService(t)
	ctx := context.Background()
	admin := sessionFor(seedUser(t, env.db, models.RoleAdmin))

	all, err := svc.ListUsers(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	recruiters, err := svc.ListUsers(ctx, admin, models.RoleRecruiter)
	require.NoError(t, err)
	require.Len(t, recruiters, 1)
	assert.Equal(t, env.recruiter.ID, recruiters[0].ID)
}

func TestUpdateUser(t *testing.T) {
	svc, env := newAdminService(t)
	ctx := context.Background()
	admin := sessionFor(seedUser(t, env.db, models.RoleAdmin))

	require.NoError(t, svc.UpdateUser(ctx, admin, env.seeker.ID, dto.UpdateUserRequest{
		Email:    "new@example.com",
		FullName: "New Name",
	}))

	got, err := svc.GetUser(ctx, admin, env.seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "New Name", got.FullName)

	// someone else's email is off limits
	err = svc.UpdateUser(ctx, admin, env.recruiter.ID, dto.UpdateUserRequest{
		Email:    "new@example.com",
		FullName: "Whoever",
	})
	assert.ErrorIs(t, err, ErrEmailInUse)

	// keeping your own email is fine
	assert.NoError(t, svc.UpdateUser(ctx, admin, env.seeker.ID, dto.UpdateUserRequest{
		Email:    "new@example.com",
		FullName: "Renamed Again",
	}))

	assert.ErrorIs(t, svc.UpdateUser(ctx, admin, "missing", dto.UpdateUserRequest{Email: "x@example.com"}), ErrNotFound)
}

// Deleting a recruiter takes their jobs and every application to those jobs
// with it. Notifications survive as an audit trail.
func TestDeleteRecruiterCascades(t *testing.T) {
	svc, env := newAdminService(t)
	ctx := context.Background()
	admin := sessionFor(seedUser(t, env.db, models.RoleAdmin))

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

	require.NoError(t, env.db.Create(&models.RefreshToken{
		ID:        "token-1",
		UserID:    env.recruiter.ID,
		Token:     "opaque-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	require.NoError(t, svc.DeleteUser(ctx, admin, env.recruiter.ID))

	var users, jobs, applications, tokens, notifications int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", env.recruiter.ID).Count(&users).Error)
	require.NoError(t, env.db.Model(&models.Job{}).Count(&jobs).Error)
	require.NoError(t, env.db.Model(&models.Application{}).Count(&applications).Error)
	require.NoError(t, env.db.Model(&models.RefreshToken{}).Where("user_id = ?", env.recruiter.ID).Count(&tokens).Error)
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&notifications).Error)

	assert.Zero(t, users)
	assert.Zero(t, jobs)
	assert.Zero(t, applications)
	assert.Zero(t, tokens)
	assert.EqualValues(t, 2, notifications)
}

func TestDeleteJobseekerCascades(t *testing.T) {
	svc, env := newAdminService(t)
	ctx := context.Background()
	admin := sessionFor(seedUser(t, env.db, models.RoleAdmin))

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

	require.NoError(t, svc.DeleteUser(ctx, admin, env.seeker.ID))

	// the job outlives its applicants
	var jobs, applications, profiles int64
	require.NoError(t, env.db.Model(&models.Job{}).Count(&jobs).Error)
	require.NoError(t, env.db.Model(&models.Application{}).Count(&applications).Error)
	require.NoError(t, env.db.Model(&models.Profile{}).Where("user_id = ?", env.seeker.ID).Count(&profiles).Error)
	assert.EqualValues(t, 1, jobs)
	assert.Zero(t, applications)
	assert.Zero(t, profiles)

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, env.seeker.ID), ErrNotFound)
}
