package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAQLookupTool(t *testing.T) {
	tool := FAQLookupTool()
	ctx := context.Background()

	tests := []struct {
		question string
		contains string
	}{
		{"Where can I see your GitHub?", "GitHub account"},
		{"What is in your portfolio?", "representative projects"},
		{"What is your tech stack?", "languages, frameworks"},
		{"Do you have any hobbies?", "open source"},
		{"What is the meaning of life?", "don't have an answer"},
	}

	for _, tt := range tests {
		out, err := tool.Execute(ctx, map[string]interface{}{"question": tt.question}, map[string]string{})
		require.NoError(t, err)
		assert.Contains(t, out, tt.contains)
	}
}

func TestUpdateProfileTool(t *testing.T) {
	tool := UpdateProfileTool()
	bag := map[string]string{}

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"name":  "Hong",
		"email": "hong@example.com",
	}, bag)
	require.NoError(t, err)
	assert.Contains(t, out, "updated")
	assert.Equal(t, "Hong", bag[KeyName])
	assert.Equal(t, "hong@example.com", bag[KeyEmail])

	// Omitted fields stay untouched
	assert.NotContains(t, bag, KeyPhone)
}

func TestUpdateProfileTool_NoFields(t *testing.T) {
	tool := UpdateProfileTool()
	bag := map[string]string{KeyName: "Hong"}

	out, err := tool.Execute(context.Background(), map[string]interface{}{}, bag)
	require.NoError(t, err)
	assert.Contains(t, out, "No profile fields")
	assert.Equal(t, "Hong", bag[KeyName])
}

func TestAddProjectTool_Accumulates(t *testing.T) {
	tool := AddProjectTool()
	bag := map[string]string{}
	ctx := context.Background()

	_, err := tool.Execute(ctx, map[string]interface{}{
		"project_name": "chatbot",
		"description":  "a triage chatbot",
	}, bag)
	require.NoError(t, err)
	assert.Equal(t, "chatbot: a triage chatbot", bag[KeyProjects])

	_, err = tool.Execute(ctx, map[string]interface{}{
		"project_name": "crawler",
		"description":  "a web crawler",
	}, bag)
	require.NoError(t, err)
	assert.Equal(t, "chatbot: a triage chatbot; crawler: a web crawler", bag[KeyProjects])
}

func TestListProjectsTool(t *testing.T) {
	tool := ListProjectsTool()
	ctx := context.Background()

	out, err := tool.Execute(ctx, nil, map[string]string{})
	require.NoError(t, err)
	assert.Contains(t, out, "No projects")

	out, err = tool.Execute(ctx, nil, map[string]string{KeyProjects: "chatbot: a triage chatbot"})
	require.NoError(t, err)
	assert.Equal(t, "chatbot: a triage chatbot", out)
}

func TestShowTechStackTool(t *testing.T) {
	tool := ShowTechStackTool()
	ctx := context.Background()

	out, err := tool.Execute(ctx, nil, map[string]string{KeyTechStack: "Go, React"})
	require.NoError(t, err)
	assert.Equal(t, "Go, React", out)

	out, err = tool.Execute(ctx, nil, map[string]string{})
	require.NoError(t, err)
	assert.Contains(t, out, "No tech stack")
}

func TestShowPortfolioTool(t *testing.T) {
	tool := ShowPortfolioTool()

	out, err := tool.Execute(context.Background(), nil, map[string]string{
		KeyPortfolio: "portfolio.dev1234.com",
		KeyGitHub:    "github.com/dev1234",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "portfolio.dev1234.com")
	assert.Contains(t, out, "github.com/dev1234")
}

func TestAboutMeTool(t *testing.T) {
	tool := AboutMeTool()
	ctx := context.Background()

	out, err := tool.Execute(ctx, nil, map[string]string{KeyName: "Hong"})
	require.NoError(t, err)
	assert.Contains(t, out, "Hong")

	out, err = tool.Execute(ctx, nil, map[string]string{})
	require.NoError(t, err)
	assert.Contains(t, out, "the developer")
}
