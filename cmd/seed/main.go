package main

import (
	"errors"
	"log"
	"os"

	"github.com/yourusername/edusync-api/internal/config"
	"github.com/yourusername/edusync-api/internal/domain/entity"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
	pgRepo "github.com/yourusername/edusync-api/internal/repository/postgres"
	"github.com/yourusername/edusync-api/pkg/database"
)

// Наполняет базу демонстрационными данными: преподаватель, студенты,
// курс и тест по нему. Повторный запуск безопасен, существующие
// пользователи не пересоздаются.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	userRepo := pgRepo.NewUserRepo(db)
	courseRepo := pgRepo.NewCourseRepo(db)
	assessmentRepo := pgRepo.NewAssessmentRepo(db)

	// Преподаватель и студенты
	instructor := seedUser(userRepo, &entity.User{
		Name:     "Демо Преподаватель",
		Email:    "instructor@example.com",
		Password: "instructor123",
		Role:     entity.RoleInstructor,
	})

	seedUser(userRepo, &entity.User{
		Name:     "Иван Студентов",
		Email:    "student1@example.com",
		Password: "student123",
		Role:     entity.RoleStudent,
	})
	seedUser(userRepo, &entity.User{
		Name:     "Мария Студентова",
		Email:    "student2@example.com",
		Password: "student123",
		Role:     entity.RoleStudent,
	})

	// Курс
	course := &entity.Course{
		Title:        "Основы программирования",
		Description:  "Демонстрационный курс",
		InstructorID: instructor.ID,
	}
	if err := courseRepo.Create(course); err != nil {
		log.Printf("Failed to create course: %v", err)
		os.Exit(1)
	}
	log.Printf("[Seed] Создан курс %q (ID=%s)", course.Title, course.ID)

	// Тест с вопросами
	assessment := &entity.Assessment{
		CourseID: course.ID,
		Title:    "Вводный тест",
		Duration: 30,
		Questions: entity.QuestionList{
			{
				Text:               "Что выведет 2+2 в большинстве языков?",
				Options:            []string{"22", "4", "ошибку"},
				CorrectOptionIndex: 1,
				Marks:              5,
			},
			{
				Text:               "Какой тип у значения true?",
				Options:            []string{"boolean", "string", "int"},
				CorrectOptionIndex: 0,
				Marks:              10,
			},
		},
	}
	if err := assessment.Validate(); err != nil {
		log.Printf("Seed assessment is invalid: %v", err)
		os.Exit(1)
	}
	assessment.MaxScore = assessment.TotalMarks()

	if err := assessmentRepo.Create(assessment); err != nil {
		log.Printf("Failed to create assessment: %v", err)
		os.Exit(1)
	}
	log.Printf("[Seed] Создан тест %q (ID=%s), вопросов: %d, максимум баллов: %d",
		assessment.Title, assessment.ID, assessment.QuestionCount(), assessment.MaxScore)

	log.Println("[Seed] Готово")
}

// seedUser создает пользователя, если он еще не существует
func seedUser(userRepo *pgRepo.UserRepo, user *entity.User) *entity.User {
	existing, err := userRepo.GetByEmail(user.Email)
	if err == nil {
		log.Printf("[Seed] Пользователь %s уже существует, пропускаем", user.Email)
		return existing
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("Failed to check user %s: %v", user.Email, err)
		os.Exit(1)
	}

	if err := userRepo.Create(user); err != nil {
		log.Printf("Failed to create user %s: %v", user.Email, err)
		os.Exit(1)
	}
	log.Printf("[Seed] Создан пользователь %s (роль %s)", user.Email, user.Role)
	return user
}
