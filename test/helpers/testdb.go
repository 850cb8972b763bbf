package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"artnuggets/internal/models"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser создает пользователя с автоматическим хешированием пароля.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if user.Role == "" {
		user.Role = models.UserRoleRegular
	}
	user.IsActive = true

	result := db.Create(user)
	if result.Error != nil {
		t.Logf("ОШИБКА: не удалось создать пользователя %s: %v", user.Email, result.Error)
		return result.Error
	}
	return nil
}

// CreateAndLoginUser создает пользователя и логинит его через API.
func CreateAndLoginUser(t *testing.T, ts *TestServer, db *gorm.DB, fullName, email, password string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: password, // сырой пароль, CreateUser захеширует
		Role:         role,
	}
	err := CreateUser(t, db, user)
	assert.NoError(t, err, "Создание тестового пользователя не должно вызывать ошибку")

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	err = json.Unmarshal([]byte(bodyStr), &loginResponse)
	assert.NoError(t, err, "Не удалось распарсить JSON")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	return loginResponse.Token, user
}

// CreateAndLoginRegular создает обычного пользователя с уникальным email.
func CreateAndLoginRegular(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("user_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, db, "Test User", email, "password123", models.UserRoleRegular)
}

// CreateAndLoginAdmin создает администратора с уникальным email.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, db, "Test Admin", email, "password123", models.UserRoleAdmin)
}

// CreateIndustryWithNiches создает индустрию и набор ниш.
func CreateIndustryWithNiches(t *testing.T, db *gorm.DB, name string, nicheNames ...string) (*models.Industry, []models.Niche) {
	industry := &models.Industry{
		Name: name,
		Slug: fmt.Sprintf("%s-%d", strings.ToLower(name), time.Now().UnixNano()),
	}
	if err := db.Create(industry).Error; err != nil {
		t.Fatalf("Не удалось создать индустрию: %v", err)
	}

	niches := make([]models.Niche, 0, len(nicheNames))
	for i, nicheName := range nicheNames {
		niche := models.Niche{
			IndustryID: industry.ID,
			Name:       nicheName,
			Slug:       fmt.Sprintf("%s-%d-%d", strings.ToLower(nicheName), time.Now().UnixNano(), i),
			SortOrder:  i,
		}
		if err := db.Create(&niche).Error; err != nil {
			t.Fatalf("Не удалось создать нишу: %v", err)
		}
		niches = append(niches, niche)
	}
	return industry, niches
}

// CreateCourse создает опубликованный курс.
func CreateCourse(t *testing.T, db *gorm.DB, industryID, title string) *models.Course {
	course := &models.Course{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(title, " ", "-")), time.Now().UnixNano()),
		Summary:     "Test course summary",
		Content:     "Test course content",
		Level:       models.CourseLevelBeginner,
		DurationMin: 30,
		IsPublished: true,
		IndustryID:  industryID,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("Не удалось создать курс: %v", err)
	}
	return course
}
