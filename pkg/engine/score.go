package engine

func gradeFor(criticals int, b GradeBounds) Grade {
	switch {
	case criticals <= b.A:
		return GradeA
	case criticals <= b.B:
		return GradeB
	case criticals <= b.C:
		return GradeC
	case criticals <= b.D:
		return GradeD
	default:
		return GradeF
	}
}

// score assembles the plan from already-classified, deduplicated tiers.
func score(tiers [tierCount][]PlanItem, duplicates int, skipped []FieldError, b GradeBounds) *ExecutionPlan {
	plan := &ExecutionPlan{
		tiers:      tiers,
		grade:      gradeFor(len(tiers[FullTableScan]), b),
		duplicates: duplicates,
		skipped:    skipped,
	}
	for _, l := range Levels() {
		for _, it := range tiers[l] {
			plan.tierHours[l] += it.hours
			if it.f.cisaKev {
				plan.kevCount++
			}
		}
		if l.MustFixSoon() {
			plan.totalEffort += plan.tierHours[l]
		}
	}
	return plan
}
