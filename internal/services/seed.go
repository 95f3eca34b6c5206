package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/spwtrack/internal/metrics"
	"github.com/abrezinsky/spwtrack/internal/models"
)

// SeedData is the dataset used when storage holds nothing usable
type SeedData struct {
	KAIs    []models.KAI        `yaml:"kais"`
	KPIs    []models.KPI        `yaml:"kpis"`
	Leaders []models.TeamLeader `yaml:"leaders"`
}

// Snapshot converts the seed into a state snapshot with no selection
func (d SeedData) Snapshot() Snapshot {
	return Snapshot{
		Leaders: models.CloneLeaders(d.Leaders),
		KAIs:    models.CloneKAIs(d.KAIs),
		KPIs:    models.CloneKPIs(d.KPIs),
	}
}

var seedKAIs = []models.KAI{
	{ID: "k1", Category: models.CategorySafety, Description: "Realizar Briefing Diário de Segurança (5 min)"},
	{ID: "k2", Category: models.CategorySafety, Description: "Auditoria de EPIs da equipe"},
	{ID: "k3", Category: models.CategoryQuality, Description: "Realizar Gemba Walk focado em Qualidade"},
	{ID: "k4", Category: models.CategoryQuality, Description: `Verificar Posto "Red Rabbit" (Dispositivo de erro)`},
	{ID: "k5", Category: models.CategoryPeople, Description: "Atualizar Matriz de Polivalência"},
	{ID: "k6", Category: models.CategoryCost, Description: "Verificar desperdícios (Muda) na linha"},
	{ID: "k7", Category: models.CategoryDelivery, Description: "Preencher Quadro de Produção Hora a Hora"},
}

var seedKPIs = []models.KPI{
	{ID: "p1", Name: "Absenteísmo", Target: 2, Unit: "%"},
	{ID: "p2", Name: "Segurança (Atos Inseguros)", Target: 0, Unit: "#"},
	{ID: "p3", Name: "Qualidade (Defeitos)", Target: 0, Unit: "#"},
	{ID: "p4", Name: metrics.InvertedKPIName, Target: 85, Unit: "%"},
}

type seedLeader struct {
	id, name, registration string
	shift                  models.Shift
	avatar                 string
	done                   []string
	actuals                map[string]float64
}

var seedLeaders = []seedLeader{
	{
		id: "tl-001", name: "Carlos Mendes", registration: "SPW-8821", shift: models.ShiftA,
		avatar:  "https://picsum.photos/200/200?random=1",
		done:    []string{"k1", "k2", "k3", "k5", "k7"},
		actuals: map[string]float64{"p1": 1.5, "p2": 0, "p3": 2, "p4": 82},
	},
	{
		id: "tl-002", name: "Ana Souza", registration: "SPW-9934", shift: models.ShiftB,
		avatar:  "https://picsum.photos/200/200?random=2",
		done:    []string{"k1", "k2", "k3", "k4", "k5", "k7"},
		actuals: map[string]float64{"p1": 0, "p2": 0, "p3": 0, "p4": 88},
	},
	{
		id: "tl-003", name: "Roberto Dias", registration: "SPW-7741", shift: models.ShiftA,
		avatar:  "https://picsum.photos/200/200?random=3",
		done:    []string{"k1", "k3", "k5", "k7"},
		actuals: map[string]float64{"p1": 5, "p2": 1, "p3": 4, "p4": 75},
	},
}

// DefaultSeed returns the built-in dataset: seven routine tasks, four
// indicators and three leaders with fixed completion patterns.
func DefaultSeed() SeedData {
	leaders := make([]models.TeamLeader, len(seedLeaders))
	for i, s := range seedLeaders {
		kais, kpis := metrics.Instantiate(seedKAIs, seedKPIs)
		done := make(map[string]bool, len(s.done))
		for _, id := range s.done {
			done[id] = true
		}
		for j := range kais {
			kais[j].IsDone = done[kais[j].ID]
		}
		for j := range kpis {
			kpis[j].Actual = s.actuals[kpis[j].ID]
		}
		leaders[i] = models.TeamLeader{
			ID:                 s.id,
			Name:               s.name,
			RegistrationNumber: s.registration,
			Shift:              s.shift,
			AvatarURL:          s.avatar,
			KAIs:               kais,
			KPIs:               kpis,
			EfficiencyScore:    metrics.Efficiency(kais),
		}
	}

	return SeedData{
		KAIs:    models.CloneKAIs(seedKAIs),
		KPIs:    models.CloneKPIs(seedKPIs),
		Leaders: leaders,
	}
}

// LoadSeedFile reads a YAML seed dataset. Catalog entries are reset to
// isDone=false and actual=0, and leaders are synchronized against the
// catalogs so every leader carries exactly the catalog's metrics.
func LoadSeedFile(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes and normalizes a YAML seed dataset
func ParseSeed(raw []byte) (SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("parse seed file: %w", err)
	}
	if err := data.validate(); err != nil {
		return SeedData{}, err
	}

	data.KAIs, data.KPIs = metrics.Instantiate(data.KAIs, data.KPIs)
	data.Leaders = metrics.Sync(data.KAIs, data.KPIs, data.Leaders)
	return data, nil
}

func (d SeedData) validate() error {
	seen := make(map[string]bool)
	for _, k := range d.KAIs {
		if k.ID == "" || seen[k.ID] {
			return fmt.Errorf("seed: missing or duplicate KAI id %q", k.ID)
		}
		if !k.Category.Valid() {
			return fmt.Errorf("seed: KAI %s has unknown category %q", k.ID, k.Category)
		}
		seen[k.ID] = true
	}

	seen = make(map[string]bool)
	for _, k := range d.KPIs {
		if k.ID == "" || seen[k.ID] {
			return fmt.Errorf("seed: missing or duplicate KPI id %q", k.ID)
		}
		seen[k.ID] = true
	}

	seen = make(map[string]bool)
	for _, l := range d.Leaders {
		if l.ID == "" || seen[l.ID] {
			return fmt.Errorf("seed: missing or duplicate leader id %q", l.ID)
		}
		if !l.Shift.Valid() {
			return fmt.Errorf("seed: leader %s has unknown shift %q", l.ID, l.Shift)
		}
		seen[l.ID] = true
	}
	return nil
}
