package jobs

import (
	"net/http"
	"strings"

	"jobboard/internal/models"
	"jobboard/internal/response"
	"jobboard/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// JobController serves the public job catalogue
type JobController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
}

// NewJobController creates a new job controller
func NewJobController(serviceCollection *services.ServiceCollection, logger *zap.Logger) *JobController {
	return &JobController{
		serviceCollection: serviceCollection,
		logger:            logger,
	}
}

// ListJobs returns the publicly listed jobs
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Param category query string false "Category"
// @Param location query string false "Location"
// @Param district query string false "District"
// @Param q query string false "Title search"
// @Success 200 {object} docs.JobsResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/jobs [get]
func (c *JobController) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := models.JobFilter{
		Category: c.getQueryParam(r, "category"),
		Location: c.getQueryParam(r, "location"),
		District: c.getQueryParam(r, "district"),
		Query:    c.getQueryParam(r, "q"),
	}

	jobs, err := c.serviceCollection.JobService.ListJobs(r.Context(), filter)
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"jobs": jobs})
}

// GetJob returns one listed job
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} docs.JobResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/jobs/{id} [get]
func (c *JobController) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := c.serviceCollection.JobService.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "", response.Payload{"job": job})
}

func (c *JobController) getQueryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
