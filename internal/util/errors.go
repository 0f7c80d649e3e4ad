package util

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrTokenRevoked           = errors.New("token revoked")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrCourseNotFound         = errors.New("course not found")
	ErrTopicNotFound          = errors.New("topic not found")
	ErrLessonNotFound         = errors.New("lesson not found")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrChoiceNotFound         = errors.New("choice not found")
	ErrProgressNotFound       = errors.New("progress not found")
	ErrQuizExists             = errors.New("lesson already has a quiz")
	ErrSlugTaken              = errors.New("slug already taken")
	ErrInvalidSlug            = errors.New("invalid slug")
	ErrInvalidQuestionType    = errors.New("invalid question type")
	ErrMultipleCorrectChoices = errors.New("question already has a correct choice")
	ErrInvalidCatalog         = errors.New("invalid catalog file")
	ErrInvalidRole            = errors.New("invalid role")
)

// IsNotFound 判断是否为任一资源不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrTopicNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrChoiceNotFound)
}
