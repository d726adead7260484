package handler

import (
	"learnpath/internal/dto"
	"learnpath/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PathHandler handles learning path HTTP requests
type PathHandler struct {
	curation service.CurationService
	batch    service.BatchService
}

// NewPathHandler creates a new PathHandler instance
func NewPathHandler(curation service.CurationService, batch service.BatchService) *PathHandler {
	return &PathHandler{
		curation: curation,
		batch:    batch,
	}
}

// GetPath godoc
// @Summary Get a student's learning path
// @Description Returns the persisted individualized path for a student
// @Tags path
// @Produce json
// @Param studentID path string true "Student ID (ULID)"
// @Success 200 {object} dto.StudentPathResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /students/{studentID}/path [get]
func (h *PathHandler) GetPath(c *fiber.Ctx) error {
	studentID := c.Params("studentID")

	path, err := h.curation.GetPath(c.Context(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(path)
}

// RegeneratePath godoc
// @Summary Regenerate a student's learning path
// @Description Recomputes the path from the current catalog and classification, replacing the previous assignment
// @Tags path
// @Produce json
// @Param studentID path string true "Student ID (ULID)"
// @Success 200 {object} dto.StudentPathResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /students/{studentID}/path/regenerate [post]
func (h *PathHandler) RegeneratePath(c *fiber.Ctx) error {
	studentID := c.Params("studentID")

	if _, err := h.curation.RegeneratePath(c.Context(), studentID); err != nil {
		return err
	}

	path, err := h.curation.GetPath(c.Context(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(path)
}

// RegenerateAllPaths godoc
// @Summary Regenerate all learning paths
// @Description Runs batch regeneration for every classified student and reports per-student outcomes
// @Tags admin
// @Produce json
// @Success 200 {object} dto.RegenerateReportResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /admin/paths/regenerate [post]
func (h *PathHandler) RegenerateAllPaths(c *fiber.Ctx) error {
	report, err := h.batch.RegenerateAll(c.Context())
	if err != nil {
		return err
	}
	if report.Failed == nil {
		report.Failed = []dto.BatchFailureResponse{}
	}
	return c.JSON(report)
}
