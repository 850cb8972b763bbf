package models

type UserRole string
type MessageRole string
type CourseLevel string

const (
	UserRoleRegular UserRole = "regular"
	UserRoleAdmin   UserRole = "admin"

	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"

	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)
