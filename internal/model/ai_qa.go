package model

import (
	"time"
)

const (
	QASourceModel = "model"
	QASourceError = "error"
)

// AIQAHistory 记录每次 AI 助手问答，定期按保留天数清理
type AIQAHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"` // 0 表示匿名
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Source    string    `gorm:"size:20" json:"source"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (AIQAHistory) TableName() string {
	return "ai_qa_histories"
}
