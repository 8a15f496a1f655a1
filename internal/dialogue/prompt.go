package dialogue

import (
	"fmt"
	"strings"

	"github.com/lmarchetti/voicesim/internal/persona"
)

// Prompt building is the single source of truth for how personas are framed
// to the text provider, so every runner produces consistent behavior.

// BuildCustomerPrompt frames a customer persona plus the bounded conversation
// context as a generation request. The system prompt may be empty.
func BuildCustomerPrompt(p persona.Persona, context string) (system, prompt string) {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s receiving a call from customer support.\n", p.Name)
	fmt.Fprintf(&b, "Your personality: %s\n", p.Personality)
	fmt.Fprintf(&b, "Your issue/situation: %s\n", p.Issue)
	fmt.Fprintf(&b, "Your goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "Emotional state: %s\n\n", p.EmotionalState)
	fmt.Fprintf(&b, "Conversation so far:\n%s\n\n", context)
	b.WriteString("Respond naturally based on your personality and situation.\n")
	if p.SpecialBehavior != "" {
		b.WriteString(p.SpecialBehavior)
		b.WriteByte('\n')
	}
	b.WriteString("Keep your response under 2 sentences. Do not use any formatting or quotation marks. Just speak naturally.")
	if len(p.Guardrails) > 0 {
		fmt.Fprintf(&b, "\nGuardrails: %s", strings.Join(p.Guardrails, ", "))
	}
	return p.SystemPrompt, b.String()
}

// BuildSupportPrompt frames a support persona for an opening greeting, a
// closing courtesy turn, or a normal in-progress reply.
func BuildSupportPrompt(p persona.Persona, context string, opening, closing bool) (system, prompt string) {
	system = p.SystemPrompt
	if system == "" {
		system = "You are a helpful customer support agent."
	}
	if p.CompanyName != "" {
		system = fmt.Sprintf("You work for %s. %s", p.CompanyName, system)
	}
	if p.AgentName != "" {
		system = fmt.Sprintf("Your name is %s. %s", p.AgentName, system)
	}
	if len(p.Policies) > 0 {
		system += "\n\nPolicies to follow:\n" + bulleted(p.Policies)
	}
	if len(p.Guardrails) > 0 {
		system += "\n\nGuardrails:\n" + bulleted(p.Guardrails)
	}

	switch {
	case opening:
		prompt = "This is the start of a new call. Greet the customer warmly and introduce yourself.\n" +
			"Follow your guidelines for the opening script. State your name, company, and the purpose of the call.\n" +
			"Keep it natural and conversational. Do not use any formatting or quotation marks."
	case closing:
		prompt = fmt.Sprintf("Conversation so far:\n%s\n\n"+
			"The customer seems satisfied. Provide a warm closing to end the conversation.\n"+
			"Keep it under 2 sentences. Do not use any formatting or quotation marks.", context)
	default:
		prompt = fmt.Sprintf("Conversation so far:\n%s\n\n"+
			"Respond professionally to help the customer. Keep it under 2 sentences.\n"+
			"Follow your guidelines and policies. Do not use any formatting or quotation marks.", context)
	}
	return system, prompt
}

func bulleted(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
