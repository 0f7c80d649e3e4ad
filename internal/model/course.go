package model

import "time"

const (
	// SlugMaxLen 课程与主题 slug 列的长度上限
	SlugMaxLen = 220
	// TopicDerivedSlugLen 由标题生成主题 slug 时的截断长度，显式传入的 slug 仍按 SlugMaxLen 校验
	TopicDerivedSlugLen = 200
)

// swagger:model Course
type Course struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Topics      []Topic   `gorm:"constraint:OnDelete:CASCADE" json:"topics,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Course) TableName() string {
	return "courses"
}

// Topic 的 slug 在所属课程内唯一
type Topic struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_topics_course_slug" json:"courseId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	Slug      string    `gorm:"size:220;not null;uniqueIndex:idx_topics_course_slug" json:"slug"`
	Course    *Course   `gorm:"-:migration" json:"course,omitempty"`
	Lessons   []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Topic) TableName() string {
	return "topics"
}

type Lesson struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TopicID     uint       `gorm:"not null;index" json:"topicId"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Order       int        `gorm:"column:sort_order;not null" json:"order"`
	CodeExample string     `gorm:"type:text" json:"codeExample"`
	Topic       *Topic     `gorm:"-:migration" json:"topic,omitempty"`
	Quiz        *Quiz      `gorm:"constraint:OnDelete:CASCADE" json:"quiz,omitempty"`
	Questions   []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Lesson) TableName() string {
	return "lessons"
}
