package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"jobboard/internal/api/models"
	"jobboard/internal/api/policy"
	"jobboard/internal/api/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
// A single connection keeps the :memory: database alive for the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.Job{},
		&models.Application{},
		&models.Notification{},
	))

	return db
}

// testEnv bundles the database with the fixture rows most tests need: a
// recruiter, an open job they posted, and a jobseeker with a resume on file.
type testEnv struct {
	db        *gorm.DB
	recruiter *models.User
	seeker    *models.User
	job       *models.Job
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	recruiter := seedUser(t, db, models.RoleRecruiter)
	return &testEnv{
		db:        db,
		recruiter: recruiter,
		seeker:    seedJobseeker(t, db),
		job:       seedJob(t, db, recruiter.ID),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory stand-in for the MinIO-backed file store.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]bool
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]bool)}
}

func (f *fakeStore) put(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := fmt.Sprintf("%s/%s", prefix, uuid.New().String())
	f.objects[name] = true
	return name
}

func (f *fakeStore) StoreResume(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	return f.put("resumes"), nil
}

func (f *fakeStore) StoreImage(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	return f.put("images"), nil
}

func (f *fakeStore) Remove(ctx context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("storage unavailable")
	}
	delete(f.objects, objectName)
	return nil
}

func (f *fakeStore) has(objectName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[objectName]
}

// seedUser inserts a user with an empty profile, mirroring registration.
func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	id := uuid.New().String()
	user := &models.User{
		ID:       id,
		Username: "user-" + id[:8],
		Email:    id[:8] + "@example.com",
		Password: "x",
		Role:     role,
		FullName: "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID}).Error)
	return user
}

// seedJobseeker inserts a jobseeker whose profile already has a resume.
func seedJobseeker(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := seedUser(t, db, models.RoleJobseeker)
	require.NoError(t, db.Model(&models.Profile{}).
		Where("user_id = ?", user.ID).
		Update("resume_path", "resumes/"+user.ID).Error)
	return user
}

func seedJob(t *testing.T, db *gorm.DB, recruiterID string) *models.Job {
	t.Helper()
	job := &models.Job{
		RecruiterID:  recruiterID,
		Title:        "Backend Engineer",
		Description:  "Build and operate the services powering our hiring platform end to end.",
		Requirements: "Professional experience with Go and PostgreSQL.",
		Location:     "Berlin",
		JobType:      models.JobTypeFullTime,
		Salary:       "70000-90000 EUR",
		CompanyName:  "Acme",
		Status:       models.JobStatusOpen,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func sessionFor(user *models.User) policy.Session {
	return policy.Session{UserID: user.ID, Role: user.Role, DisplayName: user.FullName}
}

func sessionForNobody() policy.Session {
	return policy.Session{}
}

func notificationsFor(t *testing.T, db *gorm.DB, userID string) []models.Notification {
	t.Helper()
	notifications, err := repository.NewNotificationRepository(db).ListByUser(context.Background(), userID, 100)
	require.NoError(t, err)
	return notifications
}
