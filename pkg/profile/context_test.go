package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext_SeedsDemoHandles(t *testing.T) {
	c := NewContext()

	assert.True(t, strings.HasPrefix(c.GitHub, "github.com/dev"))
	assert.True(t, strings.HasPrefix(c.Portfolio, "portfolio.dev"))
	assert.True(t, strings.HasSuffix(c.Portfolio, ".com"))
	assert.Equal(t, "Go, TypeScript, React, AWS", c.TechStack)

	// Identity fields start empty and get filled in by tools
	assert.Empty(t, c.Name)
	assert.Empty(t, c.Email)
	assert.Empty(t, c.Phone)
	assert.Empty(t, c.Projects)
}

func TestContext_MapRoundTrip(t *testing.T) {
	c := &Context{
		Name:      "Hong",
		Email:     "hong@example.com",
		Phone:     "010-1234-5678",
		GitHub:    "github.com/dev1234",
		Portfolio: "portfolio.dev1234.com",
		TechStack: "Go, React",
		Projects:  "chatbot: a triage chatbot",
	}

	m := c.ToMap()
	assert.Equal(t, "Hong", m[KeyName])
	assert.Equal(t, "chatbot: a triage chatbot", m[KeyProjects])

	got := FromMap(m)
	assert.Equal(t, c, got)
}

func TestFromMap_IgnoresUnknownKeys(t *testing.T) {
	got := FromMap(map[string]string{
		KeyName:    "Hong",
		"whatever": "extra",
	})

	require.NotNil(t, got)
	assert.Equal(t, "Hong", got.Name)
	assert.NotContains(t, got.ToMap(), "whatever")
}
