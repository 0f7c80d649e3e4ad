package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Intro to Go", 0, "intro-to-go"},
		{"  Pointers & Memory  ", 0, "pointers-memory"},
		{"Café Déjà Vu", 0, "cafe-deja-vu"},
		{"already-a-slug", 0, "already-a-slug"},
		{"multi   space -- dash", 0, "multi-space-dash"},
		{"数组", 0, ""},
		{"abcdef", 3, "abc"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in, c.max), "input %q", c.in)
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("intro-to-go"))
	assert.True(t, IsSlug("go_101"))
	assert.False(t, IsSlug("Intro"))
	assert.False(t, IsSlug("-lead"))
	assert.False(t, IsSlug(""))
}
