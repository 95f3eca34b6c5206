// Package metrics holds the pure calculations behind the dashboard: the
// efficiency score, the KPI out-of-target rule and the catalog
// synchronizer. Nothing here touches state or storage.
package metrics

import (
	"math"

	"github.com/abrezinsky/spwtrack/internal/models"
)

// InvertedKPIName is the one KPI where falling below target is the failure.
// Every other KPI fails when the actual value exceeds the target.
const InvertedKPIName = "OPE (Eficiência)"

// CriticalThreshold is the score below which a leader counts as critical
// on the dashboard header.
const CriticalThreshold = 70

// Score bands used for leader status
const (
	ExcellentThreshold = 80
	AttentionThreshold = 60
)

// Status is a leader's efficiency band
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusAttention Status = "attention"
	StatusCritical  Status = "critical"
)

// Efficiency returns round(100 * done / total), rounding half away from
// zero. An empty collection scores 0.
func Efficiency(kais []models.KAI) int {
	if len(kais) == 0 {
		return 0
	}
	done := 0
	for _, k := range kais {
		if k.IsDone {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(kais))))
}

// Average returns the rounded mean efficiency score of the roster, 0 when empty
func Average(leaders []models.TeamLeader) int {
	if len(leaders) == 0 {
		return 0
	}
	sum := 0
	for _, l := range leaders {
		sum += l.EfficiencyScore
	}
	return int(math.Round(float64(sum) / float64(len(leaders))))
}

// CountCritical counts leaders scoring below CriticalThreshold
func CountCritical(leaders []models.TeamLeader) int {
	n := 0
	for _, l := range leaders {
		if l.EfficiencyScore < CriticalThreshold {
			n++
		}
	}
	return n
}

// StatusFor maps a score to its band
func StatusFor(score int) Status {
	switch {
	case score >= ExcellentThreshold:
		return StatusExcellent
	case score >= AttentionThreshold:
		return StatusAttention
	default:
		return StatusCritical
	}
}

// IsOutOfTarget applies the asymmetric deviation rule. For InvertedKPIName
// an actual below target is bad; for every other name an actual above
// target is bad. Equality is never flagged.
func IsOutOfTarget(kpi models.KPI) bool {
	if kpi.Name == InvertedKPIName {
		return kpi.Actual < kpi.Target
	}
	return kpi.Actual > kpi.Target
}

// CountOutOfTarget counts flagged KPIs
func CountOutOfTarget(kpis []models.KPI) int {
	n := 0
	for _, k := range kpis {
		if IsOutOfTarget(k) {
			n++
		}
	}
	return n
}
