package models

// Category groups KAIs on the dashboard
type Category string

const (
	CategorySafety   Category = "Safety"
	CategoryQuality  Category = "Quality"
	CategoryPeople   Category = "People"
	CategoryCost     Category = "Cost"
	CategoryDelivery Category = "Delivery"
)

// Categories lists every valid KAI category in display order
var Categories = []Category{
	CategorySafety,
	CategoryQuality,
	CategoryPeople,
	CategoryCost,
	CategoryDelivery,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Shift is the production shift a Team Leader works
type Shift string

const (
	ShiftA Shift = "A"
	ShiftB Shift = "B"
	ShiftC Shift = "C"
)

// Valid reports whether s is A, B or C
func (s Shift) Valid() bool {
	return s == ShiftA || s == ShiftB || s == ShiftC
}

// KAI is a Key Activity Indicator: a routine checklist task.
// Catalog entries always carry IsDone=false; each leader holds its own copy.
type KAI struct {
	ID          string   `json:"id" yaml:"id"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	IsDone      bool     `json:"isDone" yaml:"isDone"`
}

// KPI is a Key Performance Indicator: a numeric target and measured value
type KPI struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Target float64 `json:"target" yaml:"target"`
	Actual float64 `json:"actual" yaml:"actual"`
	Unit   string  `json:"unit" yaml:"unit"`
}

// TeamLeader is a supervised leader with per-leader metric instances
type TeamLeader struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	RegistrationNumber string `json:"registrationNumber" yaml:"registrationNumber"`
	Shift              Shift  `json:"shift" yaml:"shift"`
	AvatarURL          string `json:"avatarUrl" yaml:"avatarUrl"`
	KAIs               []KAI  `json:"kais" yaml:"kais"`
	KPIs               []KPI  `json:"kpis" yaml:"kpis"`
	EfficiencyScore    int    `json:"efficiencyScore" yaml:"efficiencyScore"`
}

// Clone returns a deep copy that shares no slices with l
func (l TeamLeader) Clone() TeamLeader {
	out := l
	out.KAIs = CloneKAIs(l.KAIs)
	out.KPIs = CloneKPIs(l.KPIs)
	return out
}

// CloneKAIs copies a KAI slice. A nil input yields an empty, non-nil slice
// so JSON encodes it as [] rather than null.
func CloneKAIs(kais []KAI) []KAI {
	out := make([]KAI, len(kais))
	copy(out, kais)
	return out
}

// CloneKPIs copies a KPI slice, never returning nil
func CloneKPIs(kpis []KPI) []KPI {
	out := make([]KPI, len(kpis))
	copy(out, kpis)
	return out
}

// CloneLeaders deep-copies a roster
func CloneLeaders(leaders []TeamLeader) []TeamLeader {
	out := make([]TeamLeader, len(leaders))
	for i, l := range leaders {
		out[i] = l.Clone()
	}
	return out
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket message types
const (
	MessageRosterUpdated  = "roster_updated"
	MessageCatalogUpdated = "catalog_updated"
	MessageSnapshot       = "snapshot"
)
