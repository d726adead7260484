package handler

import (
	"learnpath/internal/domain"
	"learnpath/internal/dto"
	"learnpath/internal/service"
	"learnpath/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DiagnosticHandler handles diagnostic test HTTP requests
type DiagnosticHandler struct {
	service   service.DiagnosticService
	validator *validation.Validator
}

// NewDiagnosticHandler creates a new DiagnosticHandler instance
func NewDiagnosticHandler(service service.DiagnosticService) *DiagnosticHandler {
	return &DiagnosticHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SubmitDiagnostic godoc
// @Summary Submit diagnostic test answers
// @Description Scores the diagnostic submission, determines the learner type and difficulty band. Single-attempt: a second submission returns 409.
// @Tags diagnostic
// @Accept json
// @Produce json
// @Param studentID path string true "Student ID (ULID)"
// @Param request body dto.SubmitDiagnosticRequest true "Answers per section"
// @Success 200 {object} dto.DiagnosticResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /students/{studentID}/diagnostic [post]
func (h *DiagnosticHandler) SubmitDiagnostic(c *fiber.Ctx) error {
	studentID := c.Params("studentID")

	var req dto.SubmitDiagnosticRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", "malformed JSON")}
	}

	if errs := h.validator.ValidateSubmitDiagnostic(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.service.SubmitAnswers(c.Context(), studentID, &req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetDiagnosticResult godoc
// @Summary Get a student's diagnostic result
// @Description Returns the stored scoring outcome for a student
// @Tags diagnostic
// @Produce json
// @Param studentID path string true "Student ID (ULID)"
// @Success 200 {object} dto.DiagnosticResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /students/{studentID}/diagnostic [get]
func (h *DiagnosticHandler) GetDiagnosticResult(c *fiber.Ctx) error {
	studentID := c.Params("studentID")

	result, err := h.service.GetResult(c.Context(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
