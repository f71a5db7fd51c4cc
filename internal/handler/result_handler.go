package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/edusync-api/internal/handler/dto"
	"github.com/yourusername/edusync-api/internal/middleware"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
	"github.com/yourusername/edusync-api/internal/service"
)

// ResultHandler обрабатывает запросы, связанные с результатами сдачи тестов
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// GetMyResult возвращает результат текущего пользователя для теста
func (h *ResultHandler) GetMyResult(c *gin.Context) {
	assessmentID := c.MustGet("assessmentID").(uuid.UUID) // Получаем из контекста

	userIDRaw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		h.handleResultError(c, apperrors.ErrUnauthorized)
		return
	}
	userID, ok := userIDRaw.(uuid.UUID)
	if !ok {
		h.handleResultError(c, errors.New("invalid user ID in context"))
		return
	}

	result, err := h.resultService.GetUserResult(assessmentID, userID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultResponse(result))
}

// GetAssessmentResults возвращает пагинированные результаты теста
func (h *ResultHandler) GetAssessmentResults(c *gin.Context) {
	assessmentID := c.MustGet("assessmentID").(uuid.UUID)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	results, total, err := h.resultService.GetAssessmentResults(assessmentID, page, pageSize)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	list := make([]*dto.ResultResponse, len(results))
	for i := range results {
		list[i] = dto.NewResultWithStudentResponse(&results[i].AssessmentResult, results[i].StudentName, results[i].StudentEmail)
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultResponse(list, total, page, pageSize))
}

// ExportAssessmentResults экспортирует результаты теста в CSV или Excel формате
// GET /api/v1/assessments/:id/results/export?format=csv|xlsx
func (h *ResultHandler) ExportAssessmentResults(c *gin.Context) {
	assessmentID := c.MustGet("assessmentID").(uuid.UUID)
	format := c.DefaultQuery("format", "csv")

	// Для экспорта берем ВСЕ результаты без пагинации
	results, err := h.resultService.GetAssessmentResultsAll(assessmentID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	filename := fmt.Sprintf("assessment_%s_results_%s", assessmentID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *ResultHandler) exportCSV(c *gin.Context, results []service.ResultWithStudent, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Студент", "Email", "Баллы", "Максимум", "Правильных", "Всего вопросов", "Дата сдачи"})

	// Данные
	for _, r := range results {
		writer.Write([]string{
			sanitizeForExcel(r.StudentName),
			sanitizeForExcel(r.StudentEmail),
			strconv.Itoa(r.Score),
			// Максимум берется из записанного результата, а не из текущей версии теста
			strconv.Itoa(r.MaxScore),
			strconv.Itoa(r.CorrectAnswers),
			strconv.Itoa(r.TotalQuestions),
			r.AttemptDate.Format(time.RFC3339),
		})
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *ResultHandler) exportXLSX(c *gin.Context, results []service.ResultWithStudent, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ResultHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Студент", "Email", "Баллы", "Максимум", "Правильных", "Всего вопросов", "Дата сдачи"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ResultHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, r := range results {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(r.StudentName),
			sanitizeForExcel(r.StudentEmail),
			r.Score,
			r.MaxScore,
			r.CorrectAnswers,
			r.TotalQuestions,
			r.AttemptDate.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ResultHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ResultHandler] Ошибка при Flush: %v", err)
	}

	// Записываем в response
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ResultHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleResultError обрабатывает ошибки сервиса результатов
// и отправляет соответствующий HTTP ответ
func (h *ResultHandler) handleResultError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrExpiredToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ResultHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
