package profile

import (
	"fmt"

	"github.com/hanbyul/triago/pkg/agent"
)

// Agent names. TriageAgent is the entry point for new conversations.
const (
	TriageAgent       = "Triage Agent"
	IntroductionAgent = "Introduction Agent"
	CareerAgent       = "Career Agent"
	ProjectAgent      = "Project Agent"
	TechStackAgent    = "Tech Stack Agent"
	FAQAgent          = "FAQ Agent"
)

// promptPrefix frames every specialist prompt for the handoff system.
const promptPrefix = "You are part of a multi-agent system. Agents transfer conversations between each other " +
	"using handoff tools; handoffs happen in the background, so never mention them to the user. "

// Models selects the models used by the agents and the guardrails.
type Models struct {
	// Agent is the model specialists run on.
	Agent string

	// Guardrail is the (typically cheaper) model guardrail checks run on.
	Guardrail string
}

// BuildRegistry assembles the developer-profile agent graph: the triage
// agent hands off to every specialist and each specialist hands back to
// triage. Every agent carries the relevance and jailbreak guardrails.
func BuildRegistry(provider agent.LLMProvider, models Models) (*agent.Registry, error) {
	guardrails := []agent.Guardrail{
		RelevanceGuardrail(provider, models.Guardrail),
		JailbreakGuardrail(provider, models.Guardrail),
	}

	static := func(text string) func(map[string]string) string {
		return func(map[string]string) string { return promptPrefix + text }
	}

	agents := []*agent.Agent{
		{
			Name:               TriageAgent,
			Model:              models.Agent,
			HandoffDescription: "A triage agent that routes the visitor's question to the appropriate specialist.",
			Instructions: static("You are a helpful triage agent for a developer's profile chatbot. " +
				"Analyze the visitor's question and transfer it to the right specialist: introduction, career, " +
				"projects, tech stack, or FAQ. Answer directly only for greetings and small talk."),
			InputGuardrails: guardrails,
			Handoffs: []string{
				IntroductionAgent,
				CareerAgent,
				ProjectAgent,
				TechStackAgent,
				FAQAgent,
			},
		},
		{
			Name:               IntroductionAgent,
			Model:              models.Agent,
			HandoffDescription: "Provides the developer's self-introduction and updates profile details.",
			Instructions: func(bag map[string]string) string {
				name := bag[KeyName]
				if name == "" {
					name = "[unknown]"
				}
				return promptPrefix + fmt.Sprintf(
					"You introduce the developer naturally. The developer's name on file is %s. "+
						"Use the about_me tool for the introduction and the update_profile tool when the visitor "+
						"supplies contact or profile details. If the question is out of your area, transfer back to the triage agent.",
					name)
			},
			Tools:           []agent.Tool{AboutMeTool(), UpdateProfileTool()},
			InputGuardrails: guardrails,
			Handoffs:        []string{TriageAgent},
		},
		{
			Name:               CareerAgent,
			Model:              models.Agent,
			HandoffDescription: "Explains the developer's work experience and past companies.",
			Instructions: static("You present the developer's career: companies, roles, and duties. " +
				"Use the list_experiences tool for the facts; do not invent history. " +
				"If the question is out of your area, transfer back to the triage agent."),
			Tools:           []agent.Tool{ListExperiencesTool()},
			InputGuardrails: guardrails,
			Handoffs:        []string{TriageAgent},
		},
		{
			Name:               ProjectAgent,
			Model:              models.Agent,
			HandoffDescription: "Describes the developer's projects in detail and records new ones.",
			Instructions: static("You describe the developer's notable projects. " +
				"Use the list_projects tool to enumerate them and the add_project tool to record a new one. " +
				"If the question is out of your area, transfer back to the triage agent."),
			Tools:           []agent.Tool{ListProjectsTool(), AddProjectTool()},
			InputGuardrails: guardrails,
			Handoffs:        []string{TriageAgent},
		},
		{
			Name:               TechStackAgent,
			Model:              models.Agent,
			HandoffDescription: "Presents the developer's tech stack, portfolio, and GitHub.",
			Instructions: static("You present the developer's tech stack and portfolio. " +
				"Use the show_tech_stack and show_portfolio tools; do not rely on your own knowledge. " +
				"If the question is out of your area, transfer back to the triage agent."),
			Tools:           []agent.Tool{ShowTechStackTool(), ShowPortfolioTool()},
			InputGuardrails: guardrails,
			Handoffs:        []string{TriageAgent},
		},
		{
			Name:               FAQAgent,
			Model:              models.Agent,
			HandoffDescription: "Answers frequently asked questions about the developer.",
			Instructions: static("You answer frequently asked questions about the developer. Routine: " +
				"1. Identify the last question asked. 2. Use the faq_lookup_tool to get the answer; do not rely " +
				"on your own knowledge. 3. Respond with the answer. " +
				"If the question is out of your area, transfer back to the triage agent."),
			Tools:           []agent.Tool{FAQLookupTool()},
			InputGuardrails: guardrails,
			Handoffs:        []string{TriageAgent},
		},
	}

	registry := agent.NewRegistry()
	for _, a := range agents {
		if err := registry.Register(a); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
