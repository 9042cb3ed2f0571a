package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"jobboard/internal/events"
	"jobboard/internal/models"
	"jobboard/internal/repositories"
	"jobboard/internal/storage"

	"github.com/stretchr/testify/require"
)

var (
	pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	pngContent = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
)

func newFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	t.Cleanup(func() { req.MultipartForm.RemoveAll() })

	return req.MultipartForm.File[field][0]
}

// fakeClock is a settable clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ===============================
// REPOSITORIES
// ===============================

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*models.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]*models.Company)}
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if strings.EqualFold(c.Email, company.Email) {
			return repositories.ErrDuplicate
		}
	}
	company.ID = repositories.NewID()
	stored := *company
	r.companies[company.ID] = &stored
	return nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.companies[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (r *fakeCompanyRepo) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if strings.EqualFold(c.Email, email) {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.ID != company.ID && strings.EqualFold(c.Email, company.Email) {
			return repositories.ErrDuplicate
		}
	}
	stored := *company
	r.companies[company.ID] = &stored
	return nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	deleted map[string]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*models.User),
		deleted: make(map[string]bool),
	}
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		user.Resume = existing.Resume
	}
	stored := *user
	r.users[user.ID] = &stored
	delete(r.deleted, user.ID)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return false, nil
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Image = user.Image
	return true, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	if !ok || r.deleted[id] {
		return false, nil
	}
	r.deleted[id] = true
	return true, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && !r.deleted[id] {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateResume(ctx context.Context, id, resumeURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || r.deleted[id] {
		return errors.New("user not found")
	}
	u.Resume = resumeURL
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
	err  error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*models.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if job.ID == "" {
		job.ID = repositories.NewID()
	}
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if j, ok := r.jobs[id]; ok {
		out := *j
		return &out, nil
	}
	return nil, nil
}

func (r *fakeJobRepo) ListVisible(ctx context.Context, filter models.JobFilter, threshold time.Time) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Job
	for _, j := range r.jobs {
		if !j.Visible || j.DeadlineDate.Before(threshold) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(filter.Category, j.Category) {
			continue
		}
		if filter.Location != "" && !strings.EqualFold(filter.Location, j.Location) {
			continue
		}
		if filter.District != "" && !strings.EqualFold(filter.District, j.District) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(filter.Query)) {
			continue
		}
		job := *j
		out = append(out, &job)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].PostedDate.After(out[b].PostedDate) })
	return out, nil
}

func (r *fakeJobRepo) ListByCompany(ctx context.Context, companyID string) ([]*models.CompanyJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CompanyJob
	for _, j := range r.jobs {
		if j.CompanyID == companyID {
			out = append(out, &models.CompanyJob{Job: *j})
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ToggleVisible(ctx context.Context, id, companyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.CompanyID != companyID {
		return false, repositories.ErrNotFound
	}
	j.Visible = !j.Visible
	return j.Visible, nil
}

func (r *fakeJobRepo) HideExpired(ctx context.Context, threshold time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var hidden int64
	for _, j := range r.jobs {
		if j.Visible && j.DeadlineDate.Before(threshold) {
			j.Visible = false
			hidden++
		}
	}
	return hidden, nil
}

// stored returns the row as persisted, without any read-time policy
func (r *fakeJobRepo) stored(id string) models.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.jobs[id]
}

type fakeApplicationRepo struct {
	mu           sync.Mutex
	applications map[string]*models.JobApplication
	createErr    error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: make(map[string]*models.JobApplication)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, application *models.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, a := range r.applications {
		if a.UserID == application.UserID && a.JobID == application.JobID {
			return repositories.ErrDuplicate
		}
	}
	application.ID = repositories.NewID()
	stored := *application
	r.applications[application.ID] = &stored
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.applications[id]; ok {
		out := *a
		return &out, nil
	}
	return nil, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id, companyID string, status models.ApplicationStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok || a.CompanyID != companyID {
		return errors.New("application not found or not owned by company")
	}
	a.Status = status
	a.UpdatedAt = at
	return nil
}

func (r *fakeApplicationRepo) ListByCompany(ctx context.Context, companyID string) ([]*models.JobApplication, error) {
	return r.list(func(a *models.JobApplication) bool { return a.CompanyID == companyID }), nil
}

func (r *fakeApplicationRepo) ListByUser(ctx context.Context, userID string) ([]*models.JobApplication, error) {
	return r.list(func(a *models.JobApplication) bool { return a.UserID == userID }), nil
}

func (r *fakeApplicationRepo) list(keep func(*models.JobApplication) bool) []*models.JobApplication {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.JobApplication
	for _, a := range r.applications {
		if keep(a) {
			application := *a
			out = append(out, &application)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SubmittedDate.After(out[b].SubmittedDate) })
	return out
}

func (r *fakeApplicationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applications)
}

// ===============================
// INFRASTRUCTURE
// ===============================

type fakeStorage struct {
	mu        sync.Mutex
	uploads   []string
	deleted   []string
	uploadErr error
	seq       int
}

func (s *fakeStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.seq++
	publicID := fmt.Sprintf("%s/%d-%s", folder, s.seq, file.Filename)
	s.uploads = append(s.uploads, publicID)
	return &storage.UploadResult{
		URL:      "https://res.cloudinary.com/demo/" + publicID,
		PublicID: publicID,
	}, nil
}

func (s *fakeStorage) DeleteFile(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, publicID)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) IssueCompanyToken(companyID string) (string, error) {
	return "token-" + companyID, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type stubVerifier struct {
	err error
}

func (v stubVerifier) Verify(payload []byte, headers http.Header) error {
	return v.err
}

// testConfig keeps bcrypt fast in tests
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BCryptCost = 4
	return cfg
}
