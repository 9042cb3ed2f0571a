package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jobWithCompanyColumns = []string{
	"id", "company_id", "title", "description", "district", "location", "category",
	"salary", "job_type", "experience_required", "skills", "contact_email",
	"visible", "is_active", "posted_date", "deadline",
	"c_id", "c_name", "c_email", "c_image",
}

func TestJobRepository_ListVisible(t *testing.T) {
	ctx := context.Background()
	threshold := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC)
	posted := threshold.Add(-48 * time.Hour)
	deadline := threshold.Add(10 * 24 * time.Hour)

	t.Run("filters by visibility predicate", func(t *testing.T) {
		db, mock := newMockManager(t)
		repo := NewJobRepository(db, zap.NewNop())

		mock.ExpectQuery(`WHERE j\.visible AND j\.deadline >= \$1\s+ORDER BY j\.posted_date DESC`).
			WithArgs(threshold).
			WillReturnRows(sqlmock.NewRows(jobWithCompanyColumns).
				AddRow("j-1", "c-1", "Backend Engineer", "<p>Go</p>", "Kandy", "Kandy", "IT",
					int64(150000), "full-time", "mid", "{go,sql}", "",
					true, true, posted, deadline,
					"c-1", "Acme", "a@acme.com", "img"))

		jobs, err := repo.ListVisible(ctx, models.JobFilter{}, threshold)
		require.NoError(t, err)
		require.Len(t, jobs, 1)

		job := jobs[0]
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, models.JobTypeFullTime, job.JobType)
		assert.Equal(t, []string{"go", "sql"}, job.Skills)
		require.NotNil(t, job.Salary)
		assert.Equal(t, 150000, *job.Salary)
		require.NotNil(t, job.Company)
		assert.Equal(t, "Acme", job.Company.Name)
	})

	t.Run("adds filter arguments in order", func(t *testing.T) {
		db, mock := newMockManager(t)
		repo := NewJobRepository(db, zap.NewNop())

		mock.ExpectQuery(`LOWER\(j\.category\) = LOWER\(\$2\) AND LOWER\(j\.district\) = LOWER\(\$3\) AND j\.title ILIKE \$4`).
			WithArgs(threshold, "IT", "Colombo", `%100\%%`).
			WillReturnRows(sqlmock.NewRows(jobWithCompanyColumns))

		jobs, err := repo.ListVisible(ctx, models.JobFilter{
			Category: "IT",
			District: "Colombo",
			Query:    " 100% ",
		}, threshold)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}

func TestJobRepository_HideExpired(t *testing.T) {
	db, mock := newMockManager(t)
	repo := NewJobRepository(db, zap.NewNop())
	threshold := time.Now().Add(-96 * time.Hour)

	mock.ExpectExec(`UPDATE jobs SET visible = FALSE WHERE visible AND deadline < \$1`).
		WithArgs(threshold).
		WillReturnResult(sqlmock.NewResult(0, 3))

	hidden, err := repo.HideExpired(context.Background(), threshold)
	require.NoError(t, err)
	assert.Equal(t, int64(3), hidden)
}

func TestJobRepository_ToggleVisible(t *testing.T) {
	ctx := context.Background()

	t.Run("flips the stored flag in one transaction", func(t *testing.T) {
		db, mock := newMockManager(t)
		repo := NewJobRepository(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT visible FROM jobs WHERE id = \$1 AND company_id = \$2 FOR UPDATE`).
			WithArgs("j-1", "c-1").
			WillReturnRows(sqlmock.NewRows([]string{"visible"}).AddRow(true))
		mock.ExpectExec(`UPDATE jobs SET visible = \$3 WHERE id = \$1 AND company_id = \$2`).
			WithArgs("j-1", "c-1", false).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		visible, err := repo.ToggleVisible(ctx, "j-1", "c-1")
		require.NoError(t, err)
		assert.False(t, visible)
	})

	t.Run("job of another company", func(t *testing.T) {
		db, mock := newMockManager(t)
		repo := NewJobRepository(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT visible FROM jobs`).
			WithArgs("j-1", "c-2").
			WillReturnRows(sqlmock.NewRows([]string{"visible"}))
		mock.ExpectRollback()

		_, err := repo.ToggleVisible(ctx, "j-1", "c-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("failed write rolls back", func(t *testing.T) {
		db, mock := newMockManager(t)
		repo := NewJobRepository(db, zap.NewNop())
		dbErr := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT visible FROM jobs`).
			WillReturnRows(sqlmock.NewRows([]string{"visible"}).AddRow(false))
		mock.ExpectExec(`UPDATE jobs SET visible`).WillReturnError(dbErr)
		mock.ExpectRollback()

		_, err := repo.ToggleVisible(ctx, "j-1", "c-1")
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestJobRepository_ListByCompany(t *testing.T) {
	db, mock := newMockManager(t)
	repo := NewJobRepository(db, zap.NewNop())
	now := time.Now()

	columns := append(append([]string{}, jobWithCompanyColumns[:16]...), "applicants")
	mock.ExpectQuery(`LEFT JOIN job_applications a ON a\.job_id = j\.id\s+WHERE j\.company_id = \$1`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("j-1", "c-1", "Designer", "desc", "Galle", "Galle", "Design",
				nil, "contract", "senior", "{}", "hr@acme.com",
				false, true, now, now.Add(time.Hour), int64(2)))

	jobs, err := repo.ListByCompany(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 2, jobs[0].Applicants)
	assert.Nil(t, jobs[0].Salary)
	assert.False(t, jobs[0].Visible)
}
