package engine

// aggregate drops later duplicates by (id, package) and buckets the
// survivors by tier, keeping first-seen order within each tier.
func aggregate(items []PlanItem) (tiers [tierCount][]PlanItem, duplicates int) {
	seen := make(map[findingKey]struct{}, len(items))
	for _, it := range items {
		k := it.f.key()
		if _, dup := seen[k]; dup {
			duplicates++
			continue
		}
		seen[k] = struct{}{}
		tiers[it.level] = append(tiers[it.level], it)
	}
	return tiers, duplicates
}
