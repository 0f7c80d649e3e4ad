package model

import "time"

type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	TrueFalse      QuestionType = "tf"
	CodeFill       QuestionType = "code"
)

func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, TrueFalse, CodeFill:
		return true
	}
	return false
}

// SingleAnswer 表示该题型最多只能有一个正确选项
func (t QuestionType) SingleAnswer() bool {
	return t == MultipleChoice || t == TrueFalse
}

// Quiz 仅作为课程小节的测验标记，题目直接挂在 Lesson 上
type Quiz struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LessonID  uint      `gorm:"not null;uniqueIndex" json:"lessonId"`
	Title     string    `gorm:"size:200" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	ID        uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	LessonID  uint         `gorm:"not null;index" json:"lessonId"`
	Text      string       `gorm:"type:text;not null" json:"text"`
	QType     QuestionType `gorm:"column:qtype;size:10;not null" json:"qtype"`
	Points    int          `gorm:"not null" json:"points"`
	Choices   []Choice     `gorm:"constraint:OnDelete:CASCADE" json:"choices,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoice 返回已加载选项中第一个标记为正确的选项（按加载顺序）
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

type Choice struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"questionId"`
	Text       string    `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null" json:"isCorrect"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Choice) TableName() string {
	return "choices"
}
