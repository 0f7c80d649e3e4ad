package service

import (
	"ai_learn_backend/internal/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIServiceGenerate(t *testing.T) {
	var got generationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gpt2", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"generated_text":"Hello there\nfriend"}]`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AssistantConfig{BaseURL: srv.URL + "/", APIKey: "secret", Model: "gpt2"})
	texts, err := svc.Generate(context.Background(), "Hello", GenerateOptions{MaxLength: 50})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello there\nfriend"}, texts)
	assert.Equal(t, "Hello", got.Inputs)
	assert.Equal(t, 50, got.Parameters.MaxLength)
	assert.Equal(t, 1, got.Parameters.NumReturnSequences)
}

func TestAIServiceGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model gpt2 is currently loading"}`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AssistantConfig{BaseURL: srv.URL, Model: "gpt2"})
	_, err := svc.Generate(context.Background(), "Hello", GenerateOptions{MaxLength: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "currently loading")
}

func TestAIServiceGenerateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AssistantConfig{BaseURL: srv.URL, Model: "gpt2"})
	_, err := svc.Generate(context.Background(), "Hello", GenerateOptions{MaxLength: 50})
	assert.ErrorIs(t, err, ErrEmptyGeneration)
}
