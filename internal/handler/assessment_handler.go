package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	"github.com/yourusername/edusync-api/internal/handler/dto"
	"github.com/yourusername/edusync-api/internal/middleware"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
	"github.com/yourusername/edusync-api/internal/service"
)

// AssessmentHandler обрабатывает запросы, связанные с тестами
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
	submissionService *service.SubmissionService
}

// NewAssessmentHandler создает новый обработчик тестов
func NewAssessmentHandler(
	assessmentService *service.AssessmentService,
	submissionService *service.SubmissionService,
) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
		submissionService: submissionService,
	}
}

// CreateAssessmentRequest представляет запрос на создание теста
type CreateAssessmentRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
	Title    string    `json:"title" binding:"required,min=3,max=200"`
	// Duration - время на прохождение в минутах
	Duration  int `json:"duration" binding:"min=0"`
	Questions []struct {
		Text               string   `json:"text" binding:"required,min=1,max=500"`
		Options            []string `json:"options" binding:"required,min=1,max=10"`
		CorrectOptionIndex int      `json:"correct_option_index" binding:"min=0"`
		Marks              int      `json:"marks" binding:"min=0"`
	} `json:"questions" binding:"required,min=1"`
}

// SubmitAssessmentRequest представляет запрос на сдачу теста.
// Указатель на слайс отличает отсутствующее поле answers от пустого списка.
type SubmitAssessmentRequest struct {
	Answers *[]int `json:"answers" binding:"required"`
}

// CreateAssessment обрабатывает запрос на создание теста с вопросами
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, entity.Question{
			Text:               q.Text,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			Marks:              q.Marks,
		})
	}

	assessment, err := h.assessmentService.CreateAssessment(req.CourseID, req.Title, req.Duration, questions)
	if err != nil {
		h.handleAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAssessmentDetailResponse(assessment))
}

// ListAssessments возвращает список тестов с пагинацией
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	assessments, total, err := h.assessmentService.ListAssessments(page, pageSize)
	if err != nil {
		h.handleAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": dto.NewListAssessmentResponse(assessments),
		"total":       total,
		"page":        page,
		"per_page":    pageSize,
	})
}

// GetAssessment возвращает тест с ключами ответов. Только для преподавателей.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	assessmentID := c.MustGet("assessmentID").(uuid.UUID) // Получаем из контекста

	assessment, err := h.assessmentService.GetAssessment(assessmentID)
	if err != nil {
		h.handleAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAssessmentDetailResponse(assessment))
}

// StartAssessment возвращает тест студенту для прохождения.
// Вопросы отдаются без правильных вариантов, запись о попытке не создается.
func (h *AssessmentHandler) StartAssessment(c *gin.Context) {
	assessmentID := c.MustGet("assessmentID").(uuid.UUID)
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.StartAssessment(assessmentID, userID)
	if err != nil {
		h.handleAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAssessmentResponse(assessment, true))
}

// SubmitAssessment принимает ответы студента и возвращает результат оценки
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	assessmentID := c.MustGet("assessmentID").(uuid.UUID)
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answers cannot be null"})
		return
	}

	result, err := h.submissionService.Submit(assessmentID, userID, *req.Answers)
	if err != nil {
		h.handleAssessmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewResultResponse(result))
}

// currentUserID извлекает ID пользователя из контекста Gin
func (h *AssessmentHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDRaw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		h.handleAssessmentError(c, apperrors.ErrUnauthorized)
		return uuid.Nil, false
	}
	userID, ok := userIDRaw.(uuid.UUID)
	if !ok {
		h.handleAssessmentError(c, errors.New("invalid user ID in context"))
		return uuid.Nil, false
	}
	return userID, true
}

// handleAssessmentError обрабатывает ошибки сервисов тестов
// и отправляет соответствующий HTTP ответ.
// Повторная сдача и ошибки валидации намеренно отдаются как 400.
func (h *AssessmentHandler) handleAssessmentError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrAlreadySubmitted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrExpiredToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AssessmentHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
