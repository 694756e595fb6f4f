package service

import (
	"context"
	"strings"
	"testing"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/models"
	"jobboard/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T) (ProfileService, *fakeStore, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	store := newFakeStore()
	svc := NewProfileService(repository.NewProfileRepository(env.db), store, testLogger())
	return svc, store, env
}

func TestUpdateJobseekerProfile(t *testing.T) {
	svc, _, env := newProfileService(t)
	ctx := context.Background()
	session := sessionFor(env.seeker)

	require.NoError(t, svc.UpdateJobseeker(ctx, session, dto.JobseekerProfileRequest{
		Phone:      "+49 30 1234567",
		Address:    "Berlin",
		Bio:        "Backend developer",
		Skills:     "Go, SQL",
		Experience: "5 years",
		Education:  "BSc",
	}))

	got, err := svc.GetJobseeker(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", got.Skills)
	assert.Equal(t, "Backend developer", got.Bio)
}

// The two update paths touch disjoint field sets: a recruiter update never
// clobbers jobseeker fields on the same row and vice versa.
func TestProfileFieldSetsAreIsolated(t *testing.T) {
	svc, _, env := newProfileService(t)
	ctx := context.Background()
	session := sessionFor(env.seeker)

	require.NoError(t, svc.UpdateJobseeker(ctx, session, dto.JobseekerProfileRequest{Bio: "keep me"}))
	require.NoError(t, svc.UpdateRecruiter(ctx, session, dto.RecruiterProfileRequest{CompanyName: "Acme"}))

	var profile models.Profile
	require.NoError(t, env.db.First(&profile, "user_id = ?", env.seeker.ID).Error)
	assert.Equal(t, "keep me", profile.Bio)
	assert.Equal(t, "Acme", profile.CompanyName)
}

func TestUploadResume(t *testing.T) {
	svc, store, env := newProfileService(t)
	ctx := context.Background()
	seeker := seedUser(t, env.db, models.RoleJobseeker)
	session := sessionFor(seeker)

	first, err := svc.UploadResume(ctx, session, strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "resumes/"))

	got, err := svc.GetJobseeker(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, first, got.ResumePath)

	// re-uploading points the profile at the new object, the old one stays
	second, err := svc.UploadResume(ctx, session, strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, store.has(first))

	got, err = svc.GetJobseeker(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, second, got.ResumePath)
}

func TestUploadProfileImage(t *testing.T) {
	svc, _, env := newProfileService(t)
	ctx := context.Background()
	session := sessionFor(env.recruiter)

	path, err := svc.UploadProfileImage(ctx, session, strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "images/"))

	var profile models.Profile
	require.NoError(t, env.db.First(&profile, "user_id = ?", env.recruiter.ID).Error)
	assert.Equal(t, path, profile.ProfileImage)
}

func TestProfileRequiresLogin(t *testing.T) {
	svc, _, _ := newProfileService(t)
	ctx := context.Background()

	_, err := svc.GetJobseeker(ctx, sessionForNobody())
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.UpdateRecruiter(ctx, sessionForNobody(), dto.RecruiterProfileRequest{})
	assert.ErrorIs(t, err, ErrForbidden)
}
