package dialogue

import (
	"strings"
	"testing"
)

func TestBuildCustomerPrompt(t *testing.T) {
	p := customerPersona()
	p.SpecialBehavior = "Occasionally mix in Hindi phrases."
	p.Guardrails = []string{"never share the full card number"}
	p.SystemPrompt = "Stay in character."

	system, prompt := BuildCustomerPrompt(p, "support: Hello.")

	if system != "Stay in character." {
		t.Fatalf("system = %q", system)
	}
	for _, want := range []string{
		"You are Priya Sharma",
		"Your personality: polite and patient",
		"Your issue/situation: card blocked after travel",
		"Your goal: unblock the card",
		"Emotional state: calm",
		"support: Hello.",
		"Occasionally mix in Hindi phrases.",
		"Guardrails: never share the full card number",
		"under 2 sentences",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSupportPromptOpening(t *testing.T) {
	p := supportPersona()
	p.Policies = []string{"verify identity before account changes"}
	p.Guardrails = []string{"never promise a refund"}

	system, prompt := BuildSupportPrompt(p, "", true, false)

	for _, want := range []string{
		"Your name is Asha.",
		"You work for Meridian Bank.",
		"Policies to follow:\n- verify identity before account changes",
		"Guardrails:\n- never promise a refund",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system missing %q", want)
		}
	}
	if !strings.Contains(prompt, "start of a new call") {
		t.Errorf("opening prompt = %q", prompt)
	}
}

func TestBuildSupportPromptClosing(t *testing.T) {
	_, prompt := BuildSupportPrompt(supportPersona(), "customer: thank you", false, true)
	if !strings.Contains(prompt, "customer seems satisfied") {
		t.Errorf("closing prompt = %q", prompt)
	}
	if !strings.Contains(prompt, "customer: thank you") {
		t.Errorf("closing prompt missing context")
	}
}

func TestBuildSupportPromptDefaultSystem(t *testing.T) {
	p := supportPersona()
	p.AgentName = ""
	p.CompanyName = ""

	system, prompt := BuildSupportPrompt(p, "customer: hi", false, false)
	if system != "You are a helpful customer support agent." {
		t.Fatalf("system = %q", system)
	}
	if !strings.Contains(prompt, "Respond professionally") {
		t.Errorf("in-progress prompt = %q", prompt)
	}
}
