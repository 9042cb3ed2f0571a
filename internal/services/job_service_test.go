package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard/internal/cache"
	"jobboard/internal/database"
	"jobboard/internal/models"
	"jobboard/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCompanyID = "5f1c2d7e-8b1a-4c7e-9d3f-2a6b8c0e1f4a"

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type jobFixture struct {
	repo    *fakeJobRepo
	clock   *fakeClock
	service JobService
}

func newJobFixture(t *testing.T, jobCache cache.Cache) *jobFixture {
	t.Helper()
	repo := newFakeJobRepo()
	clock := newFakeClock(testNow)
	return &jobFixture{
		repo:    repo,
		clock:   clock,
		service: NewJobService(repo, jobCache, testConfig(), clock.Now, zap.NewNop()),
	}
}

func (f *jobFixture) post(t *testing.T, title string, deadline time.Time) *models.Job {
	t.Helper()
	job, err := f.service.PostJob(context.Background(), testCompanyID, &PostJobRequest{
		Title:       title,
		Description: "<p>Build things</p>",
		Location:    "Nairobi",
		Category:    "Engineering",
		District:    "Westlands",
		Deadline:    deadline.Format(time.RFC3339),
	})
	require.NoError(t, err)
	return job
}

func listedIDs(jobs []*models.Job) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}

func TestJobService_PostJob_Defaults(t *testing.T) {
	f := newJobFixture(t, nil)

	job := f.post(t, "  Backend Engineer ", testNow.Add(24*time.Hour))

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, models.JobTypeFullTime, job.JobType)
	assert.Equal(t, models.ExperienceEntry, job.ExperienceRequired)
	assert.True(t, job.Visible)
	assert.True(t, job.IsActive)
	assert.Equal(t, testNow, job.PostedDate)
	assert.Equal(t, testCompanyID, job.CompanyID)
}

func TestJobService_PostJob_Validation(t *testing.T) {
	f := newJobFixture(t, nil)

	base := func() *PostJobRequest {
		return &PostJobRequest{
			Title:       "Backend Engineer",
			Description: "desc",
			Location:    "Nairobi",
			Category:    "Engineering",
			District:    "Westlands",
			Deadline:    "2025-03-20",
		}
	}

	tests := []struct {
		name   string
		modify func(*PostJobRequest)
	}{
		{"missing title", func(r *PostJobRequest) { r.Title = "  " }},
		{"missing district", func(r *PostJobRequest) { r.District = "" }},
		{"deadline in the past", func(r *PostJobRequest) { r.Deadline = "2025-03-01" }},
		{"deadline equal to now", func(r *PostJobRequest) { r.Deadline = testNow.Format(time.RFC3339) }},
		{"unparseable deadline", func(r *PostJobRequest) { r.Deadline = "next week" }},
		{"unknown job type", func(r *PostJobRequest) { r.JobType = "gig" }},
		{"unknown experience", func(r *PostJobRequest) { r.ExperienceRequired = "guru" }},
		{"negative salary", func(r *PostJobRequest) {
			salary := -1
			r.Salary = &salary
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.modify(req)

			_, err := f.service.PostJob(context.Background(), testCompanyID, req)
			require.Error(t, err)
			assert.True(t, IsErrorType(err, ErrTypeValidation), "got %v", err)
		})
	}
}

func TestJobService_VisibilityWindow(t *testing.T) {
	f := newJobFixture(t, nil)
	ctx := context.Background()

	deadline := testNow.Add(24 * time.Hour)
	job := f.post(t, "Data Analyst", deadline)

	jobs, err := f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, listedIDs(jobs))
	assert.True(t, jobs[0].Visible)

	// Exactly at the end of the grace window the job is still listed.
	f.clock.Advance(24*time.Hour + models.DefaultVisibilityGrace)
	jobs, err = f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, listedIDs(jobs))

	got, err := f.service.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, got.Visible)

	// deadline + 5 days
	f.clock.Advance(24 * time.Hour)
	jobs, err = f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = f.service.GetJob(ctx, job.ID)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Equal(t, "Job not found or no longer available", GetServiceError(err).Message)

	// Reads never write the stored flag.
	assert.True(t, f.repo.stored(job.ID).Visible)

	hidden, err := f.service.ExpireStaleJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hidden)
	assert.False(t, f.repo.stored(job.ID).Visible)
}

func TestJobService_ExpireStaleJobs_KeepsJobsInsideWindow(t *testing.T) {
	f := newJobFixture(t, nil)
	ctx := context.Background()

	fresh := f.post(t, "Fresh", testNow.Add(10*24*time.Hour))
	stale := f.post(t, "Stale", testNow.Add(time.Hour))

	f.clock.Advance(6 * 24 * time.Hour)

	hidden, err := f.service.ExpireStaleJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hidden)
	assert.True(t, f.repo.stored(fresh.ID).Visible)
	assert.False(t, f.repo.stored(stale.ID).Visible)

	// A second sweep has nothing left to do.
	hidden, err = f.service.ExpireStaleJobs(ctx)
	require.NoError(t, err)
	assert.Zero(t, hidden)
}

func TestJobService_ListJobs_CachedEntriesExpire(t *testing.T) {
	memory := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { memory.Close() })

	f := newJobFixture(t, memory)
	ctx := context.Background()

	job := f.post(t, "Cached", testNow.Add(time.Hour))

	jobs, err := f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	_, cached := memory.Get(ctx, jobListCacheKey(models.JobFilter{}))
	assert.True(t, cached)

	f.clock.Advance(5 * 24 * time.Hour)
	jobs, err = f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.NotContains(t, listedIDs(jobs), job.ID)
}

func TestJobService_ListJobs_FilterCaseSharesCacheEntry(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	memory := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { memory.Close() })

	repo := repositories.NewJobRepository(database.NewManagerWithDB(db, nil, zap.NewNop()), zap.NewNop())
	service := NewJobService(repo, memory, testConfig(), newFakeClock(testNow).Now, zap.NewNop())
	ctx := context.Background()

	columns := []string{
		"id", "company_id", "title", "description", "district", "location", "category",
		"salary", "job_type", "experience_required", "skills", "contact_email",
		"visible", "is_active", "posted_date", "deadline",
		"c_id", "c_name", "c_email", "c_image",
	}
	mock.ExpectQuery(`LOWER\(j\.category\) = LOWER\(\$2\)`).
		WithArgs(sqlmock.AnyArg(), "IT").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("b1d2c3e4-0000-4000-8000-000000000001", testCompanyID, "Backend Engineer", "<p>Go</p>",
				"Westlands", "Nairobi", "IT", nil, "full-time", "mid", "{go}", "",
				true, true, testNow.Add(-time.Hour), testNow.Add(48*time.Hour),
				testCompanyID, "Acme", "hr@acme.com", ""))

	upper, err := service.ListJobs(ctx, models.JobFilter{Category: "IT"})
	require.NoError(t, err)
	require.Len(t, upper, 1)

	lower, err := service.ListJobs(ctx, models.JobFilter{Category: "it"})
	require.NoError(t, err)
	assert.Equal(t, listedIDs(upper), listedIDs(lower))

	// The lowercase request is served from the entry the first one filled.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobService_PostJob_InvalidatesListingCache(t *testing.T) {
	memory := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { memory.Close() })

	f := newJobFixture(t, memory)
	ctx := context.Background()

	first := f.post(t, "First", testNow.Add(48*time.Hour))
	jobs, err := f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, listedIDs(jobs))

	f.clock.Advance(time.Minute)
	second := f.post(t, "Second", testNow.Add(48*time.Hour))

	jobs, err = f.service.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, listedIDs(jobs))
}

func TestJobService_GetJob_NotFound(t *testing.T) {
	f := newJobFixture(t, nil)

	tests := []struct {
		name string
		id   string
	}{
		{"malformed id", "not-a-uuid"},
		{"unknown id", "0b0e7a9c-1c2d-4e5f-8a9b-0c1d2e3f4a5b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.GetJob(context.Background(), tt.id)
			require.Error(t, err)
			assert.True(t, IsNotFoundError(err))
		})
	}
}

func TestJobService_ChangeVisibility(t *testing.T) {
	f := newJobFixture(t, nil)
	ctx := context.Background()

	job := f.post(t, "Designer", testNow.Add(48*time.Hour))

	t.Run("owner toggles off", func(t *testing.T) {
		updated, err := f.service.ChangeVisibility(ctx, testCompanyID, job.ID)
		require.NoError(t, err)
		assert.False(t, updated.Visible)

		_, err = f.service.GetJob(ctx, job.ID)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("owner toggles back on", func(t *testing.T) {
		updated, err := f.service.ChangeVisibility(ctx, testCompanyID, job.ID)
		require.NoError(t, err)
		assert.True(t, updated.Visible)
	})

	t.Run("other company is forbidden", func(t *testing.T) {
		_, err := f.service.ChangeVisibility(ctx, "7a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", job.ID)
		require.Error(t, err)
		assert.True(t, IsErrorType(err, ErrTypeForbidden))
		assert.True(t, f.repo.stored(job.ID).Visible)
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := f.service.ChangeVisibility(ctx, testCompanyID, "0b0e7a9c-1c2d-4e5f-8a9b-0c1d2e3f4a5b")
		assert.True(t, IsNotFoundError(err))
	})
}

func TestJobService_ListCompanyJobs_ReportsListed(t *testing.T) {
	f := newJobFixture(t, nil)
	ctx := context.Background()

	open := f.post(t, "Open", testNow.Add(10*24*time.Hour))
	closing := f.post(t, "Closing", testNow.Add(time.Hour))
	f.clock.Advance(5 * 24 * time.Hour)

	jobs, err := f.service.ListCompanyJobs(ctx, testCompanyID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	listed := map[string]bool{}
	for _, j := range jobs {
		listed[j.ID] = j.Listed
		assert.True(t, j.Visible, "owner view keeps the stored toggle")
	}
	assert.True(t, listed[open.ID])
	assert.False(t, listed[closing.ID])
}

func TestJobService_StoreFailureIsSystemFault(t *testing.T) {
	f := newJobFixture(t, nil)
	f.repo.err = errors.New("connection refused")

	_, err := f.service.ListJobs(context.Background(), models.JobFilter{})
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrTypeServiceUnavailable))
	assert.False(t, IsClientError(err))
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-03-20", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), false},
		{"2025-03-20T12:30:00Z", time.Date(2025, 3, 20, 12, 30, 0, 0, time.UTC), false},
		{" 2025-03-20 ", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), false},
		{"20/03/2025", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeadline(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}
