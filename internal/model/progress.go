package model

import "time"

// UserProgress 每个 (user, lesson) 只有一行，重复提交时原地更新
type UserProgress struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"userId"`
	LessonID    uint      `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"lessonId"`
	Completed   bool      `gorm:"not null" json:"completed"`
	Score       int       `gorm:"not null" json:"score"`
	LastAttempt time.Time `gorm:"autoUpdateTime" json:"lastAttempt"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Lesson      *Lesson   `gorm:"constraint:OnDelete:CASCADE" json:"lesson,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// Attempt 用户对单个题目的作答记录，按创建时间倒序
type Attempt struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"userId"`
	QuestionID       uint      `gorm:"not null;index" json:"questionId"`
	AnswerText       *string   `gorm:"type:text" json:"answerText,omitempty"`
	SelectedChoiceID *uint     `gorm:"index" json:"selectedChoiceId"`
	IsCorrect        bool      `gorm:"not null" json:"isCorrect"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Question         *Question `gorm:"constraint:OnDelete:CASCADE" json:"question,omitempty"`
	SelectedChoice   *Choice   `gorm:"foreignKey:SelectedChoiceID;constraint:OnDelete:SET NULL" json:"selectedChoice,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}
