package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanbyul/triago/pkg/agent"
)

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// FAQLookupTool answers frequently asked questions about developer
// profiles from a fixed lookup, without relying on model knowledge.
func FAQLookupTool() agent.Tool {
	return agent.Tool{
		Name:        "faq_lookup_tool",
		Description: "Lookup answers to frequently asked questions about the developer's profile.",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to look up.",
				},
			},
			"required": []interface{}{"question"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			q := strings.ToLower(stringArg(args, "question"))
			switch {
			case strings.Contains(q, "github"):
				return "The GitHub account is the core of a developer portfolio. Recent projects and activity are kept up to date there.", nil
			case strings.Contains(q, "portfolio"):
				return "The portfolio includes representative projects, the tech stack, an introduction, and contact details.", nil
			case strings.Contains(q, "stack"):
				return "The tech stack lists languages, frameworks, and tools with real hands-on experience.", nil
			case strings.Contains(q, "hobby") || strings.Contains(q, "hobbies"):
				return "Reading and contributing to open source.", nil
			default:
				return "I'm sorry, I don't have an answer for that question.", nil
			}
		},
	}
}

// UpdateProfileTool mutates profile fields on the conversation context.
func UpdateProfileTool() agent.Tool {
	fields := []string{KeyName, KeyEmail, KeyPhone, KeyGitHub, KeyPortfolio}
	props := map[string]interface{}{}
	for _, f := range fields {
		props[f] = map[string]interface{}{"type": "string"}
	}
	return agent.Tool{
		Name:        "update_profile",
		Description: "Update developer profile information. Only the provided fields are changed.",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": props,
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			updated := 0
			for _, f := range fields {
				if v := stringArg(args, f); v != "" {
					bag[f] = v
					updated++
				}
			}
			if updated == 0 {
				return "No profile fields were provided.", nil
			}
			return "Profile information has been updated.", nil
		},
	}
}

// AddProjectTool appends a project to the profile.
func AddProjectTool() agent.Tool {
	return agent.Tool{
		Name:        "add_project",
		Description: "Add a new project to the developer's profile.",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"project_name": map[string]interface{}{"type": "string"},
				"description":  map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"project_name", "description"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			name := stringArg(args, "project_name")
			desc := stringArg(args, "description")
			entry := fmt.Sprintf("%s: %s", name, desc)
			if bag[KeyProjects] == "" {
				bag[KeyProjects] = entry
			} else {
				bag[KeyProjects] += "; " + entry
			}
			return fmt.Sprintf("Project %q has been added to the profile. Description: %s", name, desc), nil
		},
	}
}

// ListProjectsTool lists the projects stored on the profile.
func ListProjectsTool() agent.Tool {
	return agent.Tool{
		Name:        "list_projects",
		Description: "List the developer's projects with their descriptions.",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			if bag[KeyProjects] == "" {
				return "No projects are on the profile yet.", nil
			}
			return bag[KeyProjects], nil
		},
	}
}

// ShowTechStackTool reports the developer's tech stack.
func ShowTechStackTool() agent.Tool {
	return agent.Tool{
		Name:        "show_tech_stack",
		Description: "Show the developer's primary tech stack.",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			if bag[KeyTechStack] == "" {
				return "No tech stack is on the profile yet.", nil
			}
			return bag[KeyTechStack], nil
		},
	}
}

// ShowPortfolioTool reports the portfolio and GitHub links.
func ShowPortfolioTool() agent.Tool {
	return agent.Tool{
		Name:        "show_portfolio",
		Description: "Show the developer's portfolio and GitHub links.",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			return fmt.Sprintf("Portfolio: %s\nGitHub: %s", bag[KeyPortfolio], bag[KeyGitHub]), nil
		},
	}
}

// AboutMeTool provides the developer's self-introduction.
func AboutMeTool() agent.Tool {
	return agent.Tool{
		Name:        "about_me",
		Description: "Provide the developer's self-introduction.",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			name := bag[KeyName]
			if name == "" {
				name = "the developer"
			}
			return fmt.Sprintf("Hello, this is %s, a backend/full-stack developer with hands-on experience at startups and IT companies, who enjoys problem solving and collaboration.", name), nil
		},
	}
}

// ListExperiencesTool describes work history.
func ListExperiencesTool() agent.Tool {
	return agent.Tool{
		Name:        "list_experiences",
		Description: "List the developer's work experience and past companies.",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error) {
			return "- ABC Tech (2021-2023): backend developer, built and operated AI/data pipelines\n- Startup XYZ (2019-2021): full-stack developer", nil
		},
	}
}
