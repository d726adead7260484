package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnpath/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for repository testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func testResultColumns() []string {
	return []string{"ID", "STUDENT_ID", "AUTISM_SCORE", "DOWN_SYNDROME_SCORE", "ACCURACY", "DETERMINED_TYPE", "COMPLETED_AT"}
}

func TestTestResultSave_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXTestResultRepository(db)

	mock.ExpectExec(`INSERT INTO test_results`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &domain.TestResult{
		ID:                "result-1",
		StudentID:         "student-1",
		AutismScore:       9,
		DownSyndromeScore: 3,
		Accuracy:          0.5,
		DeterminedType:    domain.LearnerTypeAutism,
		CompletedAt:       time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestResultSave_UniqueViolationMapsToAlreadyCompleted(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXTestResultRepository(db)

	mock.ExpectExec(`INSERT INTO test_results`).
		WillReturnError(errors.New("ORA-00001: unique constraint (LEARNPATH.UQ_TEST_RESULTS_STUDENT) violated"))

	err := repo.Save(context.Background(), &domain.TestResult{
		ID:             "result-2",
		StudentID:      "student-1",
		DeterminedType: domain.LearnerTypeAutism,
		CompletedAt:    time.Now(),
	})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAlreadyCompleted, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestResultSave_OtherDBErrorNotMapped(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXTestResultRepository(db)

	mock.ExpectExec(`INSERT INTO test_results`).
		WillReturnError(errors.New("ORA-12170: TNS:Connect timeout occurred"))

	err := repo.Save(context.Background(), &domain.TestResult{
		ID:        "result-3",
		StudentID: "student-1",
	})
	require.Error(t, err)

	var domainErr *domain.DomainError
	assert.False(t, errors.As(err, &domainErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestResultGetByStudentID_Found(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXTestResultRepository(db)

	completedAt := time.Now().Truncate(time.Second)
	rows := sqlmock.NewRows(testResultColumns()).
		AddRow("result-1", "student-1", 9, 3, 0.5, "autism", completedAt)

	mock.ExpectPrepare(`SELECT \* FROM test_results WHERE student_id`).
		ExpectQuery().
		WithArgs("student-1").
		WillReturnRows(rows)

	result, err := repo.GetByStudentID(context.Background(), "student-1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "result-1", result.ID)
	assert.Equal(t, 9, result.AutismScore)
	assert.Equal(t, 3, result.DownSyndromeScore)
	assert.InDelta(t, 0.5, result.Accuracy, 1e-9)
	assert.Equal(t, domain.LearnerTypeAutism, result.DeterminedType)
	assert.True(t, completedAt.Equal(result.CompletedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestResultGetByStudentID_NotFoundReturnsNil(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXTestResultRepository(db)

	mock.ExpectPrepare(`SELECT \* FROM test_results WHERE student_id`).
		ExpectQuery().
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows(testResultColumns()))

	result, err := repo.GetByStudentID(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMissingDifficulty(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXTestResultRepository(db)

	rows := sqlmock.NewRows(testResultColumns()).
		AddRow("result-1", "student-1", 9, 3, 0.5, "autism", time.Now()).
		AddRow("result-2", "student-2", 2, 7, 0.25, "down_syndrome", time.Now())

	mock.ExpectQuery(`SELECT tr\.\* FROM test_results tr`).
		WillReturnRows(rows)

	results, err := repo.ListMissingDifficulty(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "student-1", results[0].StudentID)
	assert.Equal(t, domain.LearnerTypeDownSyndrome, results[1].DeterminedType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
