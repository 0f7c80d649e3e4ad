package util

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugValidator(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterSlugValidator(v))

	type payload struct {
		Slug string `validate:"omitempty,slug"`
	}

	assert.NoError(t, v.Struct(payload{Slug: "intro-to-go"}))
	assert.NoError(t, v.Struct(payload{}))
	assert.Error(t, v.Struct(payload{Slug: "Intro To Go"}))
}
