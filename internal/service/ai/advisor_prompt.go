package ai

import (
	"strings"
)

// AdvisorPrompt describes how the model should behave as the course advisor.
type AdvisorPrompt struct {
	Role     string
	Rules    []string
	Language string
}

// DefaultAdvisorPrompt mirrors the questions the widget greeting asks.
func DefaultAdvisorPrompt() AdvisorPrompt {
	return AdvisorPrompt{
		Role: "Ты консультант, который подбирает курсы повышения квалификации для педагогов.",
		Rules: []string{
			"Уточни должность собеседника (учитель, воспитатель, логопед и т.д.), если она не названа.",
			"Уточни тему курса (например, ФГОС, ОВЗ, ИКТ, воспитательная работа), если она не названа.",
			"Когда известны должность и тема, предложи 2-3 подходящие программы кратким списком.",
			"Отвечай коротко и дружелюбно, без выдуманных цен и сроков.",
		},
		Language: "русском",
	}
}

// Build renders the system prompt text.
func (p AdvisorPrompt) Build() string {
	var b strings.Builder
	b.WriteString(p.Role)
	if len(p.Rules) > 0 {
		b.WriteString("\n\nПравила:")
		for _, rule := range p.Rules {
			b.WriteString("\n- ")
			b.WriteString(rule)
		}
	}
	if p.Language != "" {
		b.WriteString("\n\nВсегда отвечай на ")
		b.WriteString(p.Language)
		b.WriteString(" языке.")
	}
	return b.String()
}
