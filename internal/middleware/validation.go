package middleware

import (
	"learnpath/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateStudentID validates the studentID path parameter before the
// handler runs.
func (vm *ValidationMiddleware) ValidateStudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID := c.Params("studentID")
		if errors := vm.validator.ValidateStudentID(studentID); len(errors) > 0 {
			return errors // Handled by the ErrorHandler middleware
		}
		c.Locals("validated_student_id", studentID)
		return c.Next()
	}
}
