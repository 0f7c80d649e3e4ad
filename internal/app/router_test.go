package app

import (
	"ai_learn_backend/internal/config"
	"ai_learn_backend/internal/model"
	"ai_learn_backend/internal/testutil"
	"ai_learn_backend/internal/util"
	"ai_learn_backend/pkg/cache"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const routerTestSecret = "router-test-secret"

type routerFixture struct {
	app *App
	db  *gorm.DB
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: routerTestSecret, ExpireTime: time.Hour}

	db := testutil.NewDB(t)
	a := newApp(cfg, db)
	t.Cleanup(a.stopBackground)
	a.Cache = cache.NewMemoryCache()
	require.NoError(t, a.buildRouter())
	return &routerFixture{app: a, db: db}
}

func (f *routerFixture) token(t *testing.T, username string, role model.UserRole) string {
	t.Helper()
	user := testutil.SeedUser(t, f.db, username, role)
	tok, err := util.GenerateJWT(user, routerTestSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.app.Router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestAdminRoutesRequireTeacherRole(t *testing.T) {
	f := newRouterFixture(t)
	student := f.token(t, "student", model.Student)
	teacher := f.token(t, "teacher", model.Teacher)
	course := gin.H{"title": "Go Basics"}

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/admin/courses/", "", course).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/admin/courses/", student, course).Code)

	w := f.do(http.MethodPost, "/api/admin/courses/", teacher, course)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Course
	decodeData(t, w, &created)
	assert.Equal(t, "go-basics", created.Slug)

	// 角色修改只允许管理员
	w = f.do(http.MethodPost, "/api/admin/users/1/role/", teacher, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSlugValidatorIsRegistered(t *testing.T) {
	f := newRouterFixture(t)
	teacher := f.token(t, "teacher", model.Teacher)

	w := f.do(http.MethodPost, "/api/admin/courses/", teacher, gin.H{"title": "Go", "slug": "Not A Slug"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"rule":"slug"`)
}

func TestAdminCreateTopicAcceptsFullLengthSlug(t *testing.T) {
	f := newRouterFixture(t)
	teacher := f.token(t, "teacher", model.Teacher)
	course := testutil.SeedCourse(t, f.db, "Go", "go")

	slug := strings.Repeat("t", 210)
	w := f.do(http.MethodPost, "/api/admin/topics/", teacher, gin.H{"courseId": course.ID, "title": "Long", "slug": slug})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var topic model.Topic
	decodeData(t, w, &topic)
	assert.Equal(t, slug, topic.Slug)
}

func TestSubmitThenProgressThroughRouter(t *testing.T) {
	f := newRouterFixture(t)
	student := f.token(t, "student", model.Student)
	_, _, lesson := testutil.SeedLessonTree(t, f.db, "python")
	q := testutil.SeedQuestion(t, f.db, lesson.ID, "1+1?", 2, []string{"2", "3"}, 0)

	submission := gin.H{"answers": map[uint]uint{q.ID: q.Choices[0].ID}}
	w := f.do(http.MethodPost, fmt.Sprintf("/api/quiz/%d/", lesson.ID), student, submission)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/progress/", student, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		Items []struct {
			LessonID uint `json:"lessonId"`
			Score    int  `json:"score"`
		} `json:"items"`
		CompletedCount int `json:"completedCount"`
		TotalScore     int `json:"totalScore"`
	}
	decodeData(t, w, &summary)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, lesson.ID, summary.Items[0].LessonID)
	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 2, summary.TotalScore)
}
