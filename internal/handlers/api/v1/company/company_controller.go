package company

import (
	"net/http"

	"jobboard/internal/contextutils"
	"jobboard/internal/response"
	"jobboard/internal/services"
	"jobboard/internal/utils"

	"go.uber.org/zap"
)

// CompanyController serves the recruiter side of the API
type CompanyController struct {
	serviceCollection *services.ServiceCollection
	feed              *Feed
	logger            *zap.Logger
	maxUploadSize     int64
}

// NewCompanyController creates a new company controller
func NewCompanyController(serviceCollection *services.ServiceCollection, feed *Feed, maxUploadSize int64, logger *zap.Logger) *CompanyController {
	if maxUploadSize <= 0 {
		maxUploadSize = 2 << 20
	}
	return &CompanyController{
		serviceCollection: serviceCollection,
		feed:              feed,
		logger:            logger,
		maxUploadSize:     maxUploadSize,
	}
}

// ===============================
// ACCOUNT
// ===============================

// Register creates a company account from a multipart form
// @Summary Register a company
// @Tags company
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Company name"
// @Param email formData string true "Login email"
// @Param password formData string true "Password"
// @Param image formData file true "Logo"
// @Success 201 {object} docs.AuthResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/company/register [post]
func (c *CompanyController) Register(w http.ResponseWriter, r *http.Request) {
	cleanup, err := utils.ParseMultipart(w, r, c.maxUploadSize)
	defer cleanup()
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	result, err := c.serviceCollection.CompanyService.Register(r.Context(), &services.RegisterCompanyRequest{
		Name:     utils.FormValue(r, "name"),
		Email:    utils.FormValue(r, "email"),
		Password: r.FormValue("password"),
		Logo:     utils.FormFile(r, "image"),
	})
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickCreated(w, r, "", response.Payload{
		"company": result.Company,
		"token":   result.Token,
	})
}

// Login exchanges credentials for a token
// @Summary Company login
// @Tags company
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Credentials"
// @Success 200 {object} docs.AuthResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/company/login [post]
func (c *CompanyController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		response.QuickError(w, r, err)
		return
	}

	result, err := c.serviceCollection.CompanyService.Login(r.Context(), &req)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{
		"company": result.Company,
		"token":   result.Token,
	})
}

// GetProfile returns the authenticated company
// @Summary Company profile
// @Tags company
// @Produce json
// @Security CompanyToken
// @Success 200 {object} docs.CompanyResponse
// @Router /api/company/company [get]
func (c *CompanyController) GetProfile(w http.ResponseWriter, r *http.Request) {
	company, err := c.serviceCollection.CompanyService.GetProfile(r.Context(), contextutils.GetCompanyID(r.Context()))
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"company": company})
}

// UpdateProfile replaces the name, email or logo of the company
// @Summary Update company profile
// @Tags company
// @Accept multipart/form-data
// @Produce json
// @Security CompanyToken
// @Param name formData string false "Company name"
// @Param email formData string false "Login email"
// @Param image formData file false "New logo"
// @Success 200 {object} docs.CompanyResponse
// @Router /api/company/update [post]
func (c *CompanyController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	cleanup, err := utils.ParseMultipart(w, r, c.maxUploadSize)
	defer cleanup()
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	company, err := c.serviceCollection.CompanyService.UpdateProfile(r.Context(), contextutils.GetCompanyID(r.Context()), &services.UpdateCompanyRequest{
		Name:  utils.FormValue(r, "name"),
		Email: utils.FormValue(r, "email"),
		Logo:  utils.FormFile(r, "image"),
	})
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "Company profile updated", response.Payload{"company": company})
}

// ===============================
// JOBS
// ===============================

// PostJob creates a job owned by the authenticated company
// @Summary Post a job
// @Tags company
// @Accept json
// @Produce json
// @Security CompanyToken
// @Param job body services.PostJobRequest true "Job"
// @Success 201 {object} docs.JobResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/company/post-job [post]
func (c *CompanyController) PostJob(w http.ResponseWriter, r *http.Request) {
	var req services.PostJobRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		response.QuickError(w, r, err)
		return
	}

	job, err := c.serviceCollection.JobService.PostJob(r.Context(), contextutils.GetCompanyID(r.Context()), &req)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickCreated(w, r, "Job Added", response.Payload{"job": job})
}

// ListJobs returns every job of the company with applicant counts
// @Summary List company jobs
// @Tags company
// @Produce json
// @Security CompanyToken
// @Success 200 {object} docs.CompanyJobsResponse
// @Router /api/company/list-jobs [get]
func (c *CompanyController) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := c.serviceCollection.JobService.ListCompanyJobs(r.Context(), contextutils.GetCompanyID(r.Context()))
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"jobsData": jobs})
}

// ChangeVisibility toggles the visible flag of a job
// @Summary Toggle job visibility
// @Tags company
// @Accept json
// @Produce json
// @Security CompanyToken
// @Param request body services.ChangeVisibilityRequest true "Job id"
// @Success 200 {object} docs.JobResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/company/change-visibility [post]
func (c *CompanyController) ChangeVisibility(w http.ResponseWriter, r *http.Request) {
	var req services.ChangeVisibilityRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		response.QuickError(w, r, err)
		return
	}
	if req.ID == "" {
		response.QuickError(w, r, services.NewValidationError("Job id is required", nil))
		return
	}

	job, err := c.serviceCollection.JobService.ChangeVisibility(r.Context(), contextutils.GetCompanyID(r.Context()), req.ID)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "Visibility Changed", response.Payload{"job": job})
}

// ===============================
// APPLICATIONS
// ===============================

// ListApplicants returns the applications for the company's jobs
// @Summary List applicants
// @Tags company
// @Produce json
// @Security CompanyToken
// @Success 200 {object} docs.ApplicationsResponse
// @Router /api/company/applicants [get]
func (c *CompanyController) ListApplicants(w http.ResponseWriter, r *http.Request) {
	applications, err := c.serviceCollection.ApplicationService.ListApplicants(r.Context(), contextutils.GetCompanyID(r.Context()))
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"applications": applications})
}

// ChangeStatus records a hiring decision on an application
// @Summary Change application status
// @Tags company
// @Accept json
// @Produce json
// @Security CompanyToken
// @Param request body services.ChangeStatusRequest true "Application id and status"
// @Success 200 {object} docs.ApplicationResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/company/change-status [post]
func (c *CompanyController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req services.ChangeStatusRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		response.QuickError(w, r, err)
		return
	}

	application, err := c.serviceCollection.ApplicationService.ChangeStatus(r.Context(), contextutils.GetCompanyID(r.Context()), &req)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "Status Changed", response.Payload{"application": application})
}
