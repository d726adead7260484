package validation

import (
	"regexp"

	"learnpath/internal/domain"
	"learnpath/internal/dto"
)

// maxSectionAnswers bounds submission payloads well above any realistic
// question bank size.
const maxSectionAnswers = 100

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStudentID validates a studentID path parameter.
func (v *Validator) ValidateStudentID(studentID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if studentID == "" {
		errors = append(errors, domain.NewMissingFieldError("studentID"))
	} else if !isValidULID(studentID) {
		errors = append(errors, domain.NewInvalidFormatError("studentID", studentID))
	}
	return errors
}

// ValidateSubmitDiagnostic performs the structural checks on a diagnostic
// submission. Per-question index validation happens against the question
// bank in the scorer.
func (v *Validator) ValidateSubmitDiagnostic(req *dto.SubmitDiagnosticRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	sections := []struct {
		field   string
		answers []int
	}{
		{"section1", req.Section1},
		{"section2", req.Section2},
		{"section3", req.Section3},
	}
	for _, s := range sections {
		if len(s.answers) == 0 {
			errors = append(errors, domain.NewMissingFieldError(s.field))
		} else if len(s.answers) > maxSectionAnswers {
			errors = append(errors, domain.NewOutOfRangeError(s.field, len(s.answers), 1, maxSectionAnswers))
		}
	}
	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
