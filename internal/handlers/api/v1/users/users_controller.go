package users

import (
	"net/http"

	"jobboard/internal/contextutils"
	"jobboard/internal/response"
	"jobboard/internal/services"
	"jobboard/internal/utils"

	"go.uber.org/zap"
)

// UserController serves the job seeker side of the API
type UserController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	maxUploadSize     int64
}

// NewUserController creates a new user controller
func NewUserController(serviceCollection *services.ServiceCollection, maxUploadSize int64, logger *zap.Logger) *UserController {
	if maxUploadSize <= 0 {
		maxUploadSize = 5 << 20
	}
	return &UserController{
		serviceCollection: serviceCollection,
		logger:            logger,
		maxUploadSize:     maxUploadSize,
	}
}

// GetUser returns the authenticated user
// @Summary Current user
// @Tags users
// @Produce json
// @Security SessionToken
// @Success 200 {object} docs.UserResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/users/user [get]
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := c.serviceCollection.UserService.GetUser(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"user": user})
}

// Apply submits an application to a job
// @Summary Apply for a job
// @Tags users
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body services.ApplyRequest true "Job id"
// @Success 201 {object} docs.ApplicationResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/users/apply [post]
func (c *UserController) Apply(w http.ResponseWriter, r *http.Request) {
	var req services.ApplyRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		response.QuickError(w, r, err)
		return
	}

	application, err := c.serviceCollection.ApplicationService.Apply(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickCreated(w, r, "Applied Successfully", response.Payload{"application": application})
}

// ListApplications returns the applications of the authenticated user
// @Summary List my applications
// @Tags users
// @Produce json
// @Security SessionToken
// @Success 200 {object} docs.ApplicationsResponse
// @Router /api/users/applications [get]
func (c *UserController) ListApplications(w http.ResponseWriter, r *http.Request) {
	applications, err := c.serviceCollection.ApplicationService.ListUserApplications(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"applications": applications})
}

// UpdateResume replaces the resume of the authenticated user
// @Summary Upload resume
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security SessionToken
// @Param resume formData file true "PDF resume"
// @Success 200 {object} docs.UserResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/users/update-resume [post]
func (c *UserController) UpdateResume(w http.ResponseWriter, r *http.Request) {
	cleanup, err := utils.ParseMultipart(w, r, c.maxUploadSize)
	defer cleanup()
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	file := utils.FormFile(r, "resume")
	if file == nil {
		response.QuickError(w, r, services.NewValidationError("Resume file is required", nil))
		return
	}

	user, err := c.serviceCollection.UserService.UpdateResume(r.Context(), contextutils.GetUserID(r.Context()), file)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "Resume Updated", response.Payload{"user": user})
}
