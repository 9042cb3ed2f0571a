package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"jobboard/internal/events"
	"jobboard/internal/models"
	"jobboard/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserID = "user_2abcDEF123"

type applicationFixture struct {
	jobs         *jobFixture
	applications *fakeApplicationRepo
	users        *fakeUserRepo
	publisher    *recordingPublisher
	service      ApplicationService
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()

	jobs := newJobFixture(t, nil)
	applications := newFakeApplicationRepo()
	users := newFakeUserRepo()
	publisher := &recordingPublisher{}

	require.NoError(t, users.Upsert(context.Background(), &models.User{ID: testUserID, Name: "Jane Doe", Email: "jane@example.com"}))

	return &applicationFixture{
		jobs:         jobs,
		applications: applications,
		users:        users,
		publisher:    publisher,
		service: NewApplicationService(
			applications, jobs.repo, users, publisher, testConfig(), jobs.clock.Now, zap.NewNop(),
		),
	}
}

func TestApplicationService_ApplyThenAccept(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	job := f.jobs.post(t, "J1", testNow.Add(7*24*time.Hour))

	application, err := f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, application.Status)
	assert.Equal(t, testCompanyID, application.CompanyID)
	assert.Equal(t, testNow, application.SubmittedDate)

	_, err = f.service.ChangeStatus(ctx, testCompanyID, &ChangeStatusRequest{ID: application.ID, Status: "Accepted"})
	require.NoError(t, err)

	mine, err := f.service.ListUserApplications(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, job.ID, mine[0].JobID)
	assert.Equal(t, models.StatusAccepted, mine[0].Status)

	assert.Equal(t, []string{events.ApplicationSubmitted, events.ApplicationStatusChanged}, f.publisher.types())
}

func TestApplicationService_Apply_Duplicate(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	job := f.jobs.post(t, "Backend", testNow.Add(24*time.Hour))

	_, err := f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: job.ID})
	require.NoError(t, err)

	_, err = f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: job.ID})
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
	assert.Equal(t, "Already applied", GetServiceError(err).Message)
	assert.Equal(t, "ALREADY_APPLIED", GetServiceError(err).Code)
	assert.Equal(t, 1, f.applications.count())
}

func TestApplicationService_Apply_Concurrent(t *testing.T) {
	f := newApplicationFixture(t)
	job := f.jobs.post(t, "Backend", testNow.Add(24*time.Hour))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Apply(context.Background(), testUserID, &ApplyRequest{JobID: job.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, IsConflictError(err))
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.applications.count())
}

func TestApplicationService_Apply_JobNotAvailable(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	expired := f.jobs.post(t, "Expired", testNow.Add(time.Hour))
	hidden := f.jobs.post(t, "Hidden", testNow.Add(30*24*time.Hour))
	_, err := f.jobs.service.ChangeVisibility(ctx, testCompanyID, hidden.ID)
	require.NoError(t, err)

	f.jobs.clock.Advance(5 * 24 * time.Hour)

	tests := []struct {
		name  string
		jobID string
	}{
		{"past grace window", expired.ID},
		{"hidden by owner", hidden.ID},
		{"unknown job", "0b0e7a9c-1c2d-4e5f-8a9b-0c1d2e3f4a5b"},
		{"malformed id", "J1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: tt.jobID})
			require.Error(t, err)
			assert.True(t, IsNotFoundError(err))
		})
	}
	assert.Zero(t, f.applications.count())
}

func TestApplicationService_Apply_UnknownUser(t *testing.T) {
	f := newApplicationFixture(t)
	job := f.jobs.post(t, "Backend", testNow.Add(24*time.Hour))

	_, err := f.service.Apply(context.Background(), "user_missing", &ApplyRequest{JobID: job.ID})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestApplicationService_Apply_UserRemovedBeforeInsert(t *testing.T) {
	f := newApplicationFixture(t)
	job := f.jobs.post(t, "Backend", testNow.Add(24*time.Hour))
	f.applications.createErr = repositories.ErrMissingReference

	_, err := f.service.Apply(context.Background(), testUserID, &ApplyRequest{JobID: job.ID})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Equal(t, "User not found", GetServiceError(err).Message)
	assert.Empty(t, f.publisher.types())
}

func TestApplicationService_ApplicationsOutliveDeletedUser(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	job := f.jobs.post(t, "Backend", testNow.Add(24*time.Hour))
	application, err := f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: job.ID})
	require.NoError(t, err)

	webhooks := NewWebhookService(f.users, stubVerifier{}, zap.NewNop())
	deleted := `{"type":"user.deleted","data":{"id":"` + testUserID + `"}}`
	require.NoError(t, webhooks.HandleIdentityEvent(ctx, []byte(deleted), http.Header{}))

	applicants, err := f.service.ListApplicants(ctx, testCompanyID)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, application.ID, applicants[0].ID)

	_, err = f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: job.ID})
	assert.True(t, IsNotFoundError(err))
}

func TestApplicationService_ChangeStatus(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	job := f.jobs.post(t, "Backend", testNow.Add(24*time.Hour))
	application, err := f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: job.ID})
	require.NoError(t, err)

	t.Run("case insensitive status", func(t *testing.T) {
		updated, err := f.service.ChangeStatus(ctx, testCompanyID, &ChangeStatusRequest{ID: application.ID, Status: "interview"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterview, updated.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		before := len(f.publisher.types())
		updated, err := f.service.ChangeStatus(ctx, testCompanyID, &ChangeStatusRequest{ID: application.ID, Status: "Interview"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterview, updated.Status)
		assert.Len(t, f.publisher.types(), before)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.service.ChangeStatus(ctx, testCompanyID, &ChangeStatusRequest{ID: application.ID, Status: "Hired"})
		require.Error(t, err)
		assert.True(t, IsErrorType(err, ErrTypeValidation))
	})

	t.Run("other company is forbidden", func(t *testing.T) {
		_, err := f.service.ChangeStatus(ctx, "7a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", &ChangeStatusRequest{ID: application.ID, Status: "Rejected"})
		require.Error(t, err)
		assert.True(t, IsErrorType(err, ErrTypeForbidden))
	})

	t.Run("accepted cannot go back to pending", func(t *testing.T) {
		_, err := f.service.ChangeStatus(ctx, testCompanyID, &ChangeStatusRequest{ID: application.ID, Status: "Accepted"})
		require.NoError(t, err)

		_, err = f.service.ChangeStatus(ctx, testCompanyID, &ChangeStatusRequest{ID: application.ID, Status: "Pending"})
		require.Error(t, err)
		assert.True(t, IsErrorType(err, ErrTypeValidation))

		stored, err := f.applications.GetByID(ctx, application.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAccepted, stored.Status)
	})
}

func TestApplicationService_ChangeStatus_MissingApplication(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.service.ChangeStatus(context.Background(), testCompanyID, &ChangeStatusRequest{
		ID:     "0b0e7a9c-1c2d-4e5f-8a9b-0c1d2e3f4a5b",
		Status: "Accepted",
	})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Zero(t, f.applications.count())
	assert.Empty(t, f.publisher.types())
}

func TestApplicationService_ListApplicants(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	first := f.jobs.post(t, "First", testNow.Add(24*time.Hour))
	second := f.jobs.post(t, "Second", testNow.Add(24*time.Hour))

	_, err := f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: first.ID})
	require.NoError(t, err)
	f.jobs.clock.Advance(time.Minute)
	_, err = f.service.Apply(ctx, testUserID, &ApplyRequest{JobID: second.ID})
	require.NoError(t, err)

	applicants, err := f.service.ListApplicants(ctx, testCompanyID)
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	assert.Equal(t, second.ID, applicants[0].JobID, "newest first")

	others, err := f.service.ListApplicants(ctx, "7a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d")
	require.NoError(t, err)
	assert.Empty(t, others)
}
