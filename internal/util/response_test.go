package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type payload struct {
		Username string `json:"username" binding:"required,min=3"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			BindError(c, err)
			return
		}
		Success(c, p)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ab"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string       `json:"message"`
		Data    []FieldError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Message)
	assert.Equal(t, []FieldError{{Field: "Username", Rule: "min", Param: "3"}}, resp.Data)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "validation failed")
}
