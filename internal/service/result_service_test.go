package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// ============================================================================
// Моки для ResultService
// Для ResultRepository используем мок из submission_service_test.go,
// для UserRepository мок из auth_service_test.go.
// ============================================================================

func createTestResultService(
	resultRepo *MockResultRepoForSubmissionService,
	userRepo *MockUserRepoForAuthService,
) *ResultService {
	return &ResultService{
		resultRepo: resultRepo,
		userRepo:   userRepo,
	}
}

// ============================================================================
// Тесты для ResultService
// ============================================================================

func TestResultService_GetUserResult_Success(t *testing.T) {
	// Arrange
	mockResultRepo := new(MockResultRepoForSubmissionService)
	mockUserRepo := new(MockUserRepoForAuthService)

	assessmentID := uuid.New()
	userID := uuid.New()
	resultID := uuid.New()

	stored := &entity.AssessmentResult{
		ID:             resultID,
		AssessmentID:   assessmentID,
		UserID:         userID,
		Score:          10,
		MaxScore:       15,
		TotalQuestions: 2,
		CorrectAnswers: 1,
		AttemptDate:    time.Now(),
	}
	responses := []entity.QuestionResponse{
		{ResultID: resultID, QuestionIndex: 0, SelectedOption: 0, IsCorrect: false, MarksAwarded: 0},
		{ResultID: resultID, QuestionIndex: 1, SelectedOption: 0, IsCorrect: true, MarksAwarded: 10},
	}

	mockResultRepo.On("GetByAssessmentAndUser", assessmentID, userID).Return(stored, nil)
	mockResultRepo.On("GetResponses", resultID).Return(responses, nil)

	resultService := createTestResultService(mockResultRepo, mockUserRepo)

	// Act
	result, err := resultService.GetUserResult(assessmentID, userID)

	// Assert
	require.NoError(t, err, "Получение результата должно быть успешным")
	assert.Equal(t, 10, result.Score)
	require.Len(t, result.Responses, 2, "Ответы на вопросы должны подгружаться")
	assert.Equal(t, 0, result.Responses[0].QuestionIndex)
	assert.Equal(t, 1, result.Responses[1].QuestionIndex)
	mockResultRepo.AssertExpectations(t)
}

func TestResultService_GetUserResult_NotFound(t *testing.T) {
	// Arrange
	mockResultRepo := new(MockResultRepoForSubmissionService)
	mockUserRepo := new(MockUserRepoForAuthService)

	assessmentID := uuid.New()
	userID := uuid.New()
	mockResultRepo.On("GetByAssessmentAndUser", assessmentID, userID).Return(nil, apperrors.ErrNotFound)

	resultService := createTestResultService(mockResultRepo, mockUserRepo)

	// Act
	result, err := resultService.GetUserResult(assessmentID, userID)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Отсутствие результата должно давать ErrNotFound")
	assert.Nil(t, result)
	mockResultRepo.AssertNotCalled(t, "GetResponses", mock.Anything)
}

func TestResultService_GetAssessmentResults_AttachesStudents(t *testing.T) {
	// Arrange
	mockResultRepo := new(MockResultRepoForSubmissionService)
	mockUserRepo := new(MockUserRepoForAuthService)

	assessmentID := uuid.New()
	student1 := entity.User{ID: uuid.New(), Name: "Иван", Email: "ivan@example.com"}
	student2 := entity.User{ID: uuid.New(), Name: "Мария", Email: "maria@example.com"}

	stored := []entity.AssessmentResult{
		{ID: uuid.New(), AssessmentID: assessmentID, UserID: student1.ID, Score: 15, MaxScore: 15},
		{ID: uuid.New(), AssessmentID: assessmentID, UserID: student2.ID, Score: 10, MaxScore: 15},
	}

	// page=1, pageSize=10 -> offset=0, limit=10
	mockResultRepo.On("GetAssessmentResults", assessmentID, 10, 0).Return(stored, int64(2), nil)
	mockUserRepo.On("GetByIDs", mock.AnythingOfType("[]uuid.UUID")).Return([]entity.User{student1, student2}, nil)

	resultService := createTestResultService(mockResultRepo, mockUserRepo)

	// Act
	results, total, err := resultService.GetAssessmentResults(assessmentID, 1, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, results, 2)
	assert.Equal(t, "Иван", results[0].StudentName, "Имя студента должно подставляться")
	assert.Equal(t, "maria@example.com", results[1].StudentEmail)
	mockResultRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestResultService_GetAssessmentResults_PageValidation(t *testing.T) {
	// Тест: невалидные параметры пагинации корректируются
	mockResultRepo := new(MockResultRepoForSubmissionService)
	mockUserRepo := new(MockUserRepoForAuthService)

	assessmentID := uuid.New()

	// page < 1 корректируется до 1, pageSize > 100 корректируется до 100
	mockResultRepo.On("GetAssessmentResults", assessmentID, 100, 0).Return([]entity.AssessmentResult{}, int64(0), nil)
	mockUserRepo.On("GetByIDs", mock.Anything).Return([]entity.User{}, nil)

	resultService := createTestResultService(mockResultRepo, mockUserRepo)

	// Act
	_, _, err := resultService.GetAssessmentResults(assessmentID, 0, 500)

	// Assert
	require.NoError(t, err)
	mockResultRepo.AssertExpectations(t)
}

func TestResultService_GetAssessmentResultsAll_MissingStudent(t *testing.T) {
	// Тест: результат с удаленным пользователем не ломает отчет
	mockResultRepo := new(MockResultRepoForSubmissionService)
	mockUserRepo := new(MockUserRepoForAuthService)

	assessmentID := uuid.New()
	student := entity.User{ID: uuid.New(), Name: "Иван", Email: "ivan@example.com"}
	ghostID := uuid.New()

	stored := []entity.AssessmentResult{
		{ID: uuid.New(), AssessmentID: assessmentID, UserID: student.ID, Score: 15, MaxScore: 15},
		{ID: uuid.New(), AssessmentID: assessmentID, UserID: ghostID, Score: 5, MaxScore: 15},
	}

	mockResultRepo.On("GetAllAssessmentResults", assessmentID).Return(stored, nil)
	mockUserRepo.On("GetByIDs", mock.Anything).Return([]entity.User{student}, nil)

	resultService := createTestResultService(mockResultRepo, mockUserRepo)

	// Act
	results, err := resultService.GetAssessmentResultsAll(assessmentID)

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Иван", results[0].StudentName)
	assert.Empty(t, results[1].StudentName, "Для отсутствующего пользователя имя остается пустым")
	assert.Equal(t, 5, results[1].Score, "Сам результат при этом сохраняется в отчете")
}
