package service

import (
	"errors"
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
// Моки для SubmissionService
// ============================================================================

// MockAssessmentRepoForSubmissionService реализует repository.AssessmentRepository
type MockAssessmentRepoForSubmissionService struct {
	mock.Mock
}

func (m *MockAssessmentRepoForSubmissionService) Create(assessment *entity.Assessment) error {
	args := m.Called(assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepoForSubmissionService) GetByID(id uuid.UUID) (*entity.Assessment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Assessment), args.Error(1)
}

func (m *MockAssessmentRepoForSubmissionService) List(limit, offset int) ([]entity.Assessment, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Assessment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssessmentRepoForSubmissionService) ListByCourse(courseID uuid.UUID) ([]entity.Assessment, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Assessment), args.Error(1)
}

// MockResultRepoForSubmissionService реализует repository.ResultRepository
type MockResultRepoForSubmissionService struct {
	mock.Mock
}

func (m *MockResultRepoForSubmissionService) CreateWithResponses(result *entity.AssessmentResult, responses []entity.QuestionResponse) error {
	args := m.Called(result, responses)
	return args.Error(0)
}

func (m *MockResultRepoForSubmissionService) GetByAssessmentAndUser(assessmentID, userID uuid.UUID) (*entity.AssessmentResult, error) {
	args := m.Called(assessmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AssessmentResult), args.Error(1)
}

func (m *MockResultRepoForSubmissionService) ExistsForUser(assessmentID, userID uuid.UUID) (bool, error) {
	args := m.Called(assessmentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResultRepoForSubmissionService) GetAssessmentResults(assessmentID uuid.UUID, limit, offset int) ([]entity.AssessmentResult, int64, error) {
	args := m.Called(assessmentID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.AssessmentResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepoForSubmissionService) GetAllAssessmentResults(assessmentID uuid.UUID) ([]entity.AssessmentResult, error) {
	args := m.Called(assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AssessmentResult), args.Error(1)
}

func (m *MockResultRepoForSubmissionService) GetResponses(resultID uuid.UUID) ([]entity.QuestionResponse, error) {
	args := m.Called(resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuestionResponse), args.Error(1)
}

// ============================================================================
// createTestSubmissionService создаёт SubmissionService для тестирования
// ============================================================================

func createTestSubmissionService(
	assessmentRepo *MockAssessmentRepoForSubmissionService,
	resultRepo *MockResultRepoForSubmissionService,
) *SubmissionService {
	return &SubmissionService{
		assessmentRepo: assessmentRepo,
		resultRepo:     resultRepo,
		userRepo:       nil, // nil для этих тестов
		emailService:   nil, // уведомления отключены
	}
}

// submissionTestAssessment возвращает тест из двух вопросов:
// вопрос 0 стоит 5 баллов (верный вариант 1), вопрос 1 стоит 10 баллов (верный вариант 0)
func submissionTestAssessment() *entity.Assessment {
	return &entity.Assessment{
		ID:       uuid.New(),
		CourseID: uuid.New(),
		Title:    "Алгебра, контрольная 1",
		Questions: entity.QuestionList{
			{Text: "2+2?", Options: []string{"3", "4"}, CorrectOptionIndex: 1, Marks: 5},
			{Text: "3*3?", Options: []string{"9", "6"}, CorrectOptionIndex: 0, Marks: 10},
		},
		MaxScore:  15,
		CreatedAt: time.Now(),
	}
}

// ============================================================================
// Тесты для SubmissionService
// ============================================================================

func TestSubmissionService_Submit_AllCorrect(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	userID := uuid.New()

	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)
	mockResultRepo.On("ExistsForUser", assessment.ID, userID).Return(false, nil)
	mockResultRepo.On("CreateWithResponses", mock.AnythingOfType("*entity.AssessmentResult"), mock.AnythingOfType("[]entity.QuestionResponse")).Return(nil)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act: оба ответа верные
	result, err := submissionService.Submit(assessment.ID, userID, []int{1, 0})

	// Assert
	require.NoError(t, err, "Сдача теста должна быть успешной")
	assert.Equal(t, 15, result.Score, "Оба верных ответа дают 5+10=15 баллов")
	assert.Equal(t, 15, result.MaxScore, "Максимум баллов копируется из теста в результат")
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, userID, result.UserID)
	require.Len(t, result.Responses, 2, "Должен быть ответ на каждый вопрос")
	assert.Equal(t, 0, result.Responses[0].QuestionIndex)
	assert.Equal(t, 1, result.Responses[1].QuestionIndex)
	mockResultRepo.AssertExpectations(t)
}

func TestSubmissionService_Submit_PartialScore(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	userID := uuid.New()

	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)
	mockResultRepo.On("ExistsForUser", assessment.ID, userID).Return(false, nil)
	mockResultRepo.On("CreateWithResponses", mock.AnythingOfType("*entity.AssessmentResult"), mock.AnythingOfType("[]entity.QuestionResponse")).Return(nil)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act: первый ответ неверный, второй верный
	result, err := submissionService.Submit(assessment.ID, userID, []int{0, 0})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, result.Score, "Засчитывается только второй вопрос на 10 баллов")
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.False(t, result.Responses[0].IsCorrect)
	assert.Equal(t, 0, result.Responses[0].MarksAwarded)
	assert.True(t, result.Responses[1].IsCorrect)
	assert.Equal(t, 10, result.Responses[1].MarksAwarded)
	mockResultRepo.AssertExpectations(t)
}

func TestSubmissionService_Submit_MaxScoreSnapshot(t *testing.T) {
	// Тест: максимум баллов фиксируется в результате в момент сдачи.
	// Правка теста после сдачи не должна менять записанный результат.
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	userID := uuid.New()

	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)
	mockResultRepo.On("ExistsForUser", assessment.ID, userID).Return(false, nil)
	mockResultRepo.On("CreateWithResponses", mock.Anything, mock.Anything).Return(nil)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act
	result, err := submissionService.Submit(assessment.ID, userID, []int{0, 0})
	require.NoError(t, err)

	// Имитируем последующую правку теста преподавателем
	assessment.MaxScore = 100

	// Assert: записанный результат хранит максимум на момент сдачи
	assert.Equal(t, 15, result.MaxScore, "Записанный максимум не меняется при правке теста")
	mockResultRepo.AssertExpectations(t)
}

func TestSubmissionService_Submit_AssessmentNotFound(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessmentID := uuid.New()
	mockAssessmentRepo.On("GetByID", assessmentID).Return(nil, apperrors.ErrNotFound)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act
	result, err := submissionService.Submit(assessmentID, uuid.New(), []int{1, 0})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Несуществующий тест должен давать ErrNotFound")
	assert.Nil(t, result)
	mockResultRepo.AssertNotCalled(t, "CreateWithResponses", mock.Anything, mock.Anything)
}

func TestSubmissionService_Submit_AnswerCountMismatch(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act: один ответ на тест из двух вопросов
	result, err := submissionService.Submit(assessment.ID, uuid.New(), []int{1})

	// Assert: ошибка валидации, ничего не сохраняется
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, result)
	mockResultRepo.AssertNotCalled(t, "ExistsForUser", mock.Anything, mock.Anything)
	mockResultRepo.AssertNotCalled(t, "CreateWithResponses", mock.Anything, mock.Anything)
}

func TestSubmissionService_Submit_NilAnswers(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act
	result, err := submissionService.Submit(assessment.ID, uuid.New(), nil)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "nil вместо ответов это ошибка валидации")
	assert.Nil(t, result)
	mockResultRepo.AssertNotCalled(t, "CreateWithResponses", mock.Anything, mock.Anything)
}

func TestSubmissionService_Submit_AlreadySubmitted(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	userID := uuid.New()

	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)
	mockResultRepo.On("ExistsForUser", assessment.ID, userID).Return(true, nil)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act
	result, err := submissionService.Submit(assessment.ID, userID, []int{1, 0})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubmitted, "Повторная сдача должна отклоняться")
	assert.Nil(t, result)
	mockResultRepo.AssertNotCalled(t, "CreateWithResponses", mock.Anything, mock.Anything)
}

func TestSubmissionService_Submit_ConcurrentDuplicate(t *testing.T) {
	// Тест: предварительная проверка не увидела дубль, но уникальный индекс
	// БД сработал при вставке. Сервис должен вернуть ErrAlreadySubmitted.
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	userID := uuid.New()

	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)
	mockResultRepo.On("ExistsForUser", assessment.ID, userID).Return(false, nil)
	mockResultRepo.On("CreateWithResponses", mock.Anything, mock.Anything).
		Return(apperrors.ErrAlreadySubmitted)

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act
	result, err := submissionService.Submit(assessment.ID, userID, []int{1, 0})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubmitted)
	assert.Nil(t, result)
	mockResultRepo.AssertExpectations(t)
}

func TestSubmissionService_Submit_PersistenceFailure(t *testing.T) {
	// Arrange
	mockAssessmentRepo := new(MockAssessmentRepoForSubmissionService)
	mockResultRepo := new(MockResultRepoForSubmissionService)

	assessment := submissionTestAssessment()
	userID := uuid.New()

	mockAssessmentRepo.On("GetByID", assessment.ID).Return(assessment, nil)
	mockResultRepo.On("ExistsForUser", assessment.ID, userID).Return(false, nil)
	mockResultRepo.On("CreateWithResponses", mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	submissionService := createTestSubmissionService(mockAssessmentRepo, mockResultRepo)

	// Act
	result, err := submissionService.Submit(assessment.ID, userID, []int{1, 0})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal, "Сбой хранилища должен маппиться в ErrInternal")
	assert.Nil(t, result)
	mockResultRepo.AssertExpectations(t)
}
