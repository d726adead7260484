package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnpath/internal/domain"
	"learnpath/internal/dto"
	"learnpath/internal/handler"
	"learnpath/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStudentID = "01HQ3KTV9XW2N5R8M4P6B7C9D1"

// --- Manual Mocks ---

// MockDiagnosticService
type MockDiagnosticService struct {
	SubmitAnswersFunc func(ctx context.Context, studentID string, req *dto.SubmitDiagnosticRequest) (*dto.DiagnosticResultResponse, error)
	GetResultFunc     func(ctx context.Context, studentID string) (*dto.DiagnosticResultResponse, error)
}

func (m *MockDiagnosticService) SubmitAnswers(ctx context.Context, studentID string, req *dto.SubmitDiagnosticRequest) (*dto.DiagnosticResultResponse, error) {
	if m.SubmitAnswersFunc != nil {
		return m.SubmitAnswersFunc(ctx, studentID, req)
	}
	panic("MockDiagnosticService.SubmitAnswersFunc not implemented")
}
func (m *MockDiagnosticService) GetResult(ctx context.Context, studentID string) (*dto.DiagnosticResultResponse, error) {
	if m.GetResultFunc != nil {
		return m.GetResultFunc(ctx, studentID)
	}
	panic("MockDiagnosticService.GetResultFunc not implemented")
}

// MockCurationService
type MockCurationService struct {
	RegeneratePathFunc func(ctx context.Context, studentID string) (*domain.StudentPath, error)
	GetPathFunc        func(ctx context.Context, studentID string) (*dto.StudentPathResponse, error)
}

func (m *MockCurationService) RegeneratePath(ctx context.Context, studentID string) (*domain.StudentPath, error) {
	if m.RegeneratePathFunc != nil {
		return m.RegeneratePathFunc(ctx, studentID)
	}
	panic("MockCurationService.RegeneratePathFunc not implemented")
}
func (m *MockCurationService) GetPath(ctx context.Context, studentID string) (*dto.StudentPathResponse, error) {
	if m.GetPathFunc != nil {
		return m.GetPathFunc(ctx, studentID)
	}
	panic("MockCurationService.GetPathFunc not implemented")
}

// MockBatchService
type MockBatchService struct {
	RegenerateAllFunc func(ctx context.Context) (*dto.RegenerateReportResponse, error)
}

func (m *MockBatchService) RegenerateAll(ctx context.Context) (*dto.RegenerateReportResponse, error) {
	if m.RegenerateAllFunc != nil {
		return m.RegenerateAllFunc(ctx)
	}
	panic("MockBatchService.RegenerateAllFunc not implemented")
}

func setupApp(diagnostic *MockDiagnosticService, curation *MockCurationService, batch *MockBatchService, adminKey string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})

	diagnosticHandler := handler.NewDiagnosticHandler(diagnostic)
	pathHandler := handler.NewPathHandler(curation, batch)
	validationMiddleware := middleware.NewValidationMiddleware()

	api := app.Group("/api/v1")
	students := api.Group("/students/:studentID", validationMiddleware.ValidateStudentID())
	students.Post("/diagnostic", diagnosticHandler.SubmitDiagnostic)
	students.Get("/diagnostic", diagnosticHandler.GetDiagnosticResult)
	students.Get("/path", pathHandler.GetPath)
	students.Post("/path/regenerate", middleware.RequireAdminKey(adminKey), pathHandler.RegeneratePath)

	admin := api.Group("/admin", middleware.RequireAdminKey(adminKey))
	admin.Post("/paths/regenerate", pathHandler.RegenerateAllPaths)
	return app
}

func TestSubmitDiagnostic_Success(t *testing.T) {
	diagnostic := &MockDiagnosticService{
		SubmitAnswersFunc: func(ctx context.Context, studentID string, req *dto.SubmitDiagnosticRequest) (*dto.DiagnosticResultResponse, error) {
			assert.Equal(t, testStudentID, studentID)
			return &dto.DiagnosticResultResponse{
				StudentType:       "autism",
				AutismScore:       9,
				DownSyndromeScore: 3,
				Accuracy:          50,
				CurrentDifficulty: "medium",
			}, nil
		},
	}
	app := setupApp(diagnostic, &MockCurationService{}, &MockBatchService{}, "")

	body, _ := json.Marshal(dto.SubmitDiagnosticRequest{
		Section1: []int{0, 1}, Section2: []int{1}, Section3: []int{2},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+testStudentID+"/diagnostic", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.DiagnosticResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "autism", result.StudentType)
	assert.Equal(t, 50, result.Accuracy)
}

func TestSubmitDiagnostic_SecondAttemptMapsTo409(t *testing.T) {
	diagnostic := &MockDiagnosticService{
		SubmitAnswersFunc: func(ctx context.Context, studentID string, req *dto.SubmitDiagnosticRequest) (*dto.DiagnosticResultResponse, error) {
			return nil, domain.NewAlreadyCompletedError(studentID)
		},
	}
	app := setupApp(diagnostic, &MockCurationService{}, &MockBatchService{}, "")

	body, _ := json.Marshal(dto.SubmitDiagnosticRequest{
		Section1: []int{0}, Section2: []int{1}, Section3: []int{2},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+testStudentID+"/diagnostic", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "ALREADY_COMPLETED", errResp.Code)
}

func TestSubmitDiagnostic_MalformedBodyRejected(t *testing.T) {
	app := setupApp(&MockDiagnosticService{}, &MockCurationService{}, &MockBatchService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+testStudentID+"/diagnostic",
		bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp middleware.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, string(domain.CodeValidation), errResp.Code)
	require.Len(t, errResp.Errors, 1)
	assert.Equal(t, "body", errResp.Errors[0].Field)
	assert.Equal(t, domain.CodeInvalidFormat, errResp.Errors[0].Code)
}

func TestSubmitDiagnostic_EmptySectionRejected(t *testing.T) {
	app := setupApp(&MockDiagnosticService{}, &MockCurationService{}, &MockBatchService{}, "")

	body, _ := json.Marshal(dto.SubmitDiagnosticRequest{Section1: []int{0}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+testStudentID+"/diagnostic", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitDiagnostic_MalformedStudentIDRejected(t *testing.T) {
	app := setupApp(&MockDiagnosticService{}, &MockCurationService{}, &MockBatchService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/not-a-ulid/diagnostic", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPath_NotFoundMapsTo404(t *testing.T) {
	curation := &MockCurationService{
		GetPathFunc: func(ctx context.Context, studentID string) (*dto.StudentPathResponse, error) {
			return nil, domain.NewNotFoundError("no learning path for student " + studentID)
		},
	}
	app := setupApp(&MockDiagnosticService{}, curation, &MockBatchService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/"+testStudentID+"/path", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegeneratePath_ReturnsFreshPath(t *testing.T) {
	regenerated := false
	curation := &MockCurationService{
		RegeneratePathFunc: func(ctx context.Context, studentID string) (*domain.StudentPath, error) {
			regenerated = true
			return &domain.StudentPath{StudentID: studentID}, nil
		},
		GetPathFunc: func(ctx context.Context, studentID string) (*dto.StudentPathResponse, error) {
			return &dto.StudentPathResponse{
				CurriculumPathID: "cp-autism",
				Status:           "in_progress",
				AssignedContent: []dto.AssignedContentEntryResponse{
					{ContentID: "c1", Status: "pending", Priority: "normal"},
				},
			}, nil
		},
	}
	app := setupApp(&MockDiagnosticService{}, curation, &MockBatchService{}, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+testStudentID+"/path/regenerate", nil)
	req.Header.Set(middleware.AdminKeyHeader, "secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, regenerated)

	var path dto.StudentPathResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&path))
	assert.Len(t, path.AssignedContent, 1)
}

func TestRegenerateAllPaths_RequiresAdminKey(t *testing.T) {
	batch := &MockBatchService{
		RegenerateAllFunc: func(ctx context.Context) (*dto.RegenerateReportResponse, error) {
			return &dto.RegenerateReportResponse{Succeeded: 3, Skipped: 1}, nil
		},
	}
	app := setupApp(&MockDiagnosticService{}, &MockCurationService{}, batch, "secret")

	// Missing key
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/paths/regenerate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Correct key
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/paths/regenerate", nil)
	req.Header.Set(middleware.AdminKeyHeader, "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report dto.RegenerateReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Skipped)
	assert.NotNil(t, report.Failed)
}

func TestRegenerateAllPaths_DisabledWithoutConfiguredKey(t *testing.T) {
	app := setupApp(&MockDiagnosticService{}, &MockCurationService{}, &MockBatchService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/paths/regenerate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
