package engine

import "encoding/json"

// Grade is the organizational letter grade, A (best) to F.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

var gradeLabels = map[Grade]string{
	GradeA: "EXCELLENT",
	GradeB: "GOOD",
	GradeC: "FAIR",
	GradeD: "POOR",
	GradeF: "CRITICAL",
}

// Label is the human-readable name shown next to the grade.
func (g Grade) Label() string {
	if l, ok := gradeLabels[g]; ok {
		return l
	}
	return "UNKNOWN"
}

// ExecutionPlan is the engine's only output. It is built once by the scorer
// and is read-only afterwards; accessors return copies.
type ExecutionPlan struct {
	tiers       [tierCount][]PlanItem
	tierHours   [tierCount]int
	grade       Grade
	totalEffort int
	kevCount    int
	duplicates  int
	skipped     []FieldError
}

// Tier returns the findings of one tier in first-seen order.
func (p *ExecutionPlan) Tier(l RiskLevel) []PlanItem {
	if !l.valid() {
		return nil
	}
	return append([]PlanItem(nil), p.tiers[l]...)
}

// TierEffortHours sums the effort of one tier.
func (p *ExecutionPlan) TierEffortHours(l RiskLevel) int {
	if !l.valid() {
		return 0
	}
	return p.tierHours[l]
}

func (p *ExecutionPlan) Grade() Grade { return p.grade }

// TotalEffortHours covers FULL_TABLE_SCAN and INDEX_RANGE_SCAN only.
func (p *ExecutionPlan) TotalEffortHours() int { return p.totalEffort }

// KEVCount counts known-exploited findings across all tiers.
func (p *ExecutionPlan) KEVCount() int { return p.kevCount }

// Total is the number of findings after deduplication.
func (p *ExecutionPlan) Total() int {
	n := 0
	for _, t := range p.tiers {
		n += len(t)
	}
	return n
}

// Duplicates is the number of findings dropped as repeats of an earlier (id, package).
func (p *ExecutionPlan) Duplicates() int { return p.duplicates }

// Skipped is the number of malformed source elements left out of the plan.
func (p *ExecutionPlan) Skipped() int { return len(p.skipped) }

// Diagnostics lists the skipped elements in source order.
func (p *ExecutionPlan) Diagnostics() []FieldError {
	return append([]FieldError(nil), p.skipped...)
}

type tierJSON struct {
	Count          int        `json:"count"`
	EstimatedHours int        `json:"estimated_hours"`
	Items          []PlanItem `json:"items"`
}

type summaryJSON struct {
	TotalFindings int `json:"total_findings"`
	Critical      int `json:"critical"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	CisaKEVCount  int `json:"cisa_kev_count"`
	Duplicates    int `json:"duplicates"`
	Skipped       int `json:"skipped"`
}

type planJSON struct {
	Grade            Grade               `json:"grade"`
	GradeLabel       string              `json:"grade_label"`
	TotalEffortHours int                 `json:"total_effort_hours"`
	Summary          summaryJSON         `json:"summary"`
	ExecutionPlan    map[string]tierJSON `json:"execution_plan"`
}

func (p *ExecutionPlan) MarshalJSON() ([]byte, error) {
	out := planJSON{
		Grade:            p.grade,
		GradeLabel:       p.grade.Label(),
		TotalEffortHours: p.totalEffort,
		Summary: summaryJSON{
			TotalFindings: p.Total(),
			Critical:      len(p.tiers[FullTableScan]),
			High:          len(p.tiers[IndexRangeScan]),
			Medium:        len(p.tiers[NestedLoop]),
			Low:           len(p.tiers[SequentialRead]),
			CisaKEVCount:  p.kevCount,
			Duplicates:    p.duplicates,
			Skipped:       len(p.skipped),
		},
		ExecutionPlan: make(map[string]tierJSON, tierCount),
	}
	for _, l := range Levels() {
		items := p.tiers[l]
		if items == nil {
			items = []PlanItem{}
		}
		out.ExecutionPlan[riskLevelSections[l]] = tierJSON{
			Count:          len(items),
			EstimatedHours: p.tierHours[l],
			Items:          items,
		}
	}
	return json.Marshal(out)
}
