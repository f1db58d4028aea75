// Package profile defines the developer-profile domain: the typed context
// attached to every conversation, the tools that read and mutate it, the
// input guardrails, and the agent graph rooted at the triage agent.
package profile

import (
	"math/rand"
	"strconv"
)

// Context bag keys. The persisted form of the context is a flat
// string-to-string map using these keys.
const (
	KeyName      = "name"
	KeyEmail     = "email"
	KeyPhone     = "phone"
	KeyGitHub    = "github"
	KeyPortfolio = "portfolio"
	KeyTechStack = "tech_stack"
	KeyProjects  = "projects"
)

// Context holds the profile fields for one conversation.
type Context struct {
	Name      string
	Email     string
	Phone     string
	GitHub    string
	Portfolio string
	TechStack string
	Projects  string
}

// NewContext is the factory for a fresh conversation context. Demo github
// and portfolio handles are generated; real deployments would seed these
// from user data.
func NewContext() *Context {
	n := strconv.Itoa(1000 + rand.Intn(9000))
	return &Context{
		GitHub:    "github.com/dev" + n,
		Portfolio: "portfolio.dev" + n + ".com",
		TechStack: "Go, TypeScript, React, AWS",
	}
}

// ToMap converts the context to its persisted string-map form.
func (c *Context) ToMap() map[string]string {
	return map[string]string{
		KeyName:      c.Name,
		KeyEmail:     c.Email,
		KeyPhone:     c.Phone,
		KeyGitHub:    c.GitHub,
		KeyPortfolio: c.Portfolio,
		KeyTechStack: c.TechStack,
		KeyProjects:  c.Projects,
	}
}

// FromMap rebuilds a context from its persisted form. Unknown keys are
// dropped; missing keys become zero values.
func FromMap(m map[string]string) *Context {
	return &Context{
		Name:      m[KeyName],
		Email:     m[KeyEmail],
		Phone:     m[KeyPhone],
		GitHub:    m[KeyGitHub],
		Portfolio: m[KeyPortfolio],
		TechStack: m[KeyTechStack],
		Projects:  m[KeyProjects],
	}
}
