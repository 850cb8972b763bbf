package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена Art Nuggets.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters long",
	http.StatusBadRequest,
)

var ErrInvalidRefreshToken = New(
	CodeInvalidToken,
	"auth",
	"Refresh token is invalid or expired",
	http.StatusUnauthorized,
)

var ErrInvalidVerificationToken = New(
	CodeInvalidToken,
	"auth",
	"Verification token is invalid",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Taxonomy ---

// ErrNicheIndustryMismatch - ниша не принадлежит выбранной индустрии.
var ErrNicheIndustryMismatch = New(
	CodeInvalidOperation,
	"taxonomy",
	"Niche does not belong to the selected industry",
	http.StatusBadRequest,
)

// --- AI chat / contract analysis ---

// ErrNothingToAnalyze - нет ни файла, ни текста, ни сохраненного контракта.
var ErrNothingToAnalyze = New(
	CodeValidationFailed,
	"ai_chat",
	"Either a PDF file or text input must be provided, or this chat must have a previously uploaded contract",
	http.StatusBadRequest,
)

// ErrFileTooLarge - файл превышает максимальный размер для одного запроса.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - только PDF файлы поддерживаются.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"Only PDF files are supported",
	http.StatusUnsupportedMediaType,
)

// ErrAnalyzerUnavailable - внешний AI сервис недоступен или вернул ошибку.
func ErrAnalyzerUnavailable(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "ai_chat", "Contract analysis service is unavailable", http.StatusBadGateway)
}
