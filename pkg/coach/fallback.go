package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abrezinsky/spwtrack/internal/metrics"
	"github.com/abrezinsky/spwtrack/internal/models"
)

// RuleBased builds the coaching text from templates. Output depends only on
// the leader fields, so the same leader always yields the same text.
type RuleBased struct {
	// Delay is waited before answering so the client sees the same
	// pending state it would with a remote call. Zero disables it.
	Delay time.Duration
}

// NewRuleBased creates a rule-based generator
func NewRuleBased(delay time.Duration) *RuleBased {
	return &RuleBased{Delay: delay}
}

// Name returns the generator name
func (r *RuleBased) Name() string {
	return "rule-based"
}

// Generate renders the three sections for leader
func (r *RuleBased) Generate(ctx context.Context, leader models.TeamLeader) (string, error) {
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return Fallback(leader), nil
}

// Fallback renders the rule-based summary without any delay
func Fallback(leader models.TeamLeader) string {
	pending := firstPendingKAI(leader.KAIs)
	offTarget := firstOutOfTarget(leader.KPIs)

	var b strings.Builder
	b.WriteString(SectionStrength + "\n")
	b.WriteString(strengthText(leader) + "\n\n")
	b.WriteString(SectionAttention + "\n")
	b.WriteString(attentionText(pending, offTarget) + "\n\n")
	b.WriteString(SectionAction + "\n")
	b.WriteString(actionText(leader, pending, offTarget))
	return b.String()
}

func strengthText(leader models.TeamLeader) string {
	score := leader.EfficiencyScore
	switch metrics.StatusFor(score) {
	case metrics.StatusExcellent:
		return fmt.Sprintf("%s mantém uma rotina padronizada exemplar no turno %s, com %d%% dos KAIs concluídos. Essa disciplina é a base para sustentar os resultados da linha.",
			leader.Name, leader.Shift, score)
	case metrics.StatusAttention:
		return fmt.Sprintf("%s cumpre a maior parte da rotina no turno %s (%d%% dos KAIs), o que já dá uma base sólida para evoluir.",
			leader.Name, leader.Shift, score)
	default:
		return fmt.Sprintf("%s está presente na rotina do turno %s, mas a aderência aos KAIs (%d%%) ainda está abaixo do padrão esperado.",
			leader.Name, leader.Shift, score)
	}
}

func attentionText(pending *models.KAI, offTarget *models.KPI) string {
	var lines []string
	if pending != nil {
		lines = append(lines, fmt.Sprintf("KAI pendente: \"%s\" (%s).", pending.Description, pending.Category))
	}
	if offTarget != nil {
		lines = append(lines, fmt.Sprintf("KPI fora da meta: %s (alvo %s%s, real %s%s).",
			offTarget.Name, formatNumber(offTarget.Target), offTarget.Unit, formatNumber(offTarget.Actual), offTarget.Unit))
	}
	if len(lines) == 0 {
		return "Nenhum desvio relevante: todos os KAIs foram concluídos e os KPIs estão dentro da meta."
	}
	return strings.Join(lines, "\n")
}

func actionText(leader models.TeamLeader, pending *models.KAI, offTarget *models.KPI) string {
	switch {
	case offTarget != nil:
		return fmt.Sprintf("Abrir uma análise de causa raiz (5 Porquês) para %s e acompanhar o plano de ação diariamente no quadro de gestão à vista.", offTarget.Name)
	case pending != nil:
		return fmt.Sprintf("Incluir \"%s\" no checklist de início de turno e validar a execução no Gemba junto ao Team Leader.", pending.Description)
	default:
		return fmt.Sprintf("Compartilhar as boas práticas do turno %s com os demais Team Leaders em um Kaizen de padronização.", leader.Shift)
	}
}

func firstPendingKAI(kais []models.KAI) *models.KAI {
	for i := range kais {
		if !kais[i].IsDone {
			k := kais[i]
			return &k
		}
	}
	return nil
}

func firstOutOfTarget(kpis []models.KPI) *models.KPI {
	for i := range kpis {
		if metrics.IsOutOfTarget(kpis[i]) {
			k := kpis[i]
			return &k
		}
	}
	return nil
}
