package metrics

import "github.com/abrezinsky/spwtrack/internal/models"

// Sync rebuilds every leader's metric instances from the catalogs.
//
// Instances follow catalog order and take their definitional fields
// (category/description, name/target/unit) from the catalog. A leader keeps
// its own IsDone/Actual for ids it already held; new ids start at false/0
// and ids missing from the catalog are dropped. Efficiency is recomputed.
//
// The returned roster shares no slices with the inputs.
func Sync(kais []models.KAI, kpis []models.KPI, leaders []models.TeamLeader) []models.TeamLeader {
	out := make([]models.TeamLeader, len(leaders))
	for i, leader := range leaders {
		out[i] = SyncLeader(kais, kpis, leader)
	}
	return out
}

// SyncLeader rebuilds a single leader against the catalogs
func SyncLeader(kais []models.KAI, kpis []models.KPI, leader models.TeamLeader) models.TeamLeader {
	done := make(map[string]bool, len(leader.KAIs))
	for _, k := range leader.KAIs {
		done[k.ID] = k.IsDone
	}
	actual := make(map[string]float64, len(leader.KPIs))
	for _, k := range leader.KPIs {
		actual[k.ID] = k.Actual
	}

	synced := leader
	synced.KAIs = make([]models.KAI, len(kais))
	for i, def := range kais {
		synced.KAIs[i] = models.KAI{
			ID:          def.ID,
			Category:    def.Category,
			Description: def.Description,
			IsDone:      done[def.ID],
		}
	}

	synced.KPIs = make([]models.KPI, len(kpis))
	for i, def := range kpis {
		synced.KPIs[i] = models.KPI{
			ID:     def.ID,
			Name:   def.Name,
			Target: def.Target,
			Actual: actual[def.ID],
			Unit:   def.Unit,
		}
	}

	synced.EfficiencyScore = Efficiency(synced.KAIs)
	return synced
}

// Instantiate builds fresh per-leader instances from the catalogs:
// completion reset to false and actual values reset to 0.
func Instantiate(kais []models.KAI, kpis []models.KPI) ([]models.KAI, []models.KPI) {
	outKAIs := make([]models.KAI, len(kais))
	for i, k := range kais {
		k.IsDone = false
		outKAIs[i] = k
	}
	outKPIs := make([]models.KPI, len(kpis))
	for i, k := range kpis {
		k.Actual = 0
		outKPIs[i] = k
	}
	return outKAIs, outKPIs
}
