package util

const (
	// 表单提交时题目字段的前缀，如 question_12=34
	QuestionFieldPrefix = "question_"

	CatalogCacheKey = "catalog:courses"
	RevokedTokenKey = "auth:revoked:"
)
