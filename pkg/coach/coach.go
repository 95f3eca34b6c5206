// Package coach produces the three-section coaching summary for a Team
// Leader: Ponto Forte, Ponto de Atenção and Ação Recomendada.
//
// Two generators are provided. GeminiClient sends a prompt to Google's
// Gemini API; RuleBased derives the text locally from the same leader
// fields and needs no credential.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abrezinsky/spwtrack/internal/models"
)

// Section headings, in output order
const (
	SectionStrength  = "1. Ponto Forte"
	SectionAttention = "2. Ponto de Atenção"
	SectionAction    = "3. Ação Recomendada"
)

var (
	// ErrNoCredential is returned when a remote generator has no API key
	ErrNoCredential = errors.New("no API key configured")
	// ErrEmptyResponse is returned when the remote service answers with no text
	ErrEmptyResponse = errors.New("empty response from text generation service")
)

// Generator turns one leader snapshot into coaching text.
// Implementations must not retain or modify the leader.
type Generator interface {
	Generate(ctx context.Context, leader models.TeamLeader) (string, error)
	// Name identifies the strategy in reports and logs
	Name() string
}

// BuildPrompt renders the supervisor prompt sent to the remote generator
func BuildPrompt(leader models.TeamLeader) string {
	var done, pending []string
	for _, k := range leader.KAIs {
		if k.IsDone {
			done = append(done, k.Description)
		} else {
			pending = append(pending, k.Description)
		}
	}

	kpis := make([]string, len(leader.KPIs))
	for i, k := range leader.KPIs {
		kpis[i] = fmt.Sprintf("%s: Alvo %s, Real %s", k.Name, formatNumber(k.Target), formatNumber(k.Actual))
	}

	var b strings.Builder
	b.WriteString("Aja como um Supervisor de Produção Sênior especialista na metodologia SPW (Stellantis Production Way).\n")
	b.WriteString("Analise o desempenho do Team Leader abaixo e escreva um feedback curto, profissional e direto (no máximo 3 parágrafos).\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", leader.Name)
	fmt.Fprintf(&b, "Turno: %s\n", leader.Shift)
	fmt.Fprintf(&b, "Eficiência de Rotina (KAI): %d%%\n\n", leader.EfficiencyScore)
	fmt.Fprintf(&b, "Tarefas Realizadas (KAIs): %s\n", joinOrNone(done))
	fmt.Fprintf(&b, "Tarefas Não Realizadas (KAIs): %s\n\n", joinOrNone(pending))
	fmt.Fprintf(&b, "Resultados (KPIs): %s\n\n", strings.Join(kpis, "; "))
	b.WriteString("Estruture a resposta em:\n")
	b.WriteString(SectionStrength + " (destaque o que foi bom)\n")
	b.WriteString(SectionAttention + " (baseado nos KPIs ruins ou KAIs não feitos)\n")
	b.WriteString(SectionAction + " (sugestão prática baseada em Lean Manufacturing/SPW)\n\n")
	b.WriteString("Use tom motivador mas exigente, focado em alta performance.\n")
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "nenhuma"
	}
	return strings.Join(items, ", ")
}

// formatNumber prints 2 as "2" and 1.5 as "1.5"
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
