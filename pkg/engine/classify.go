package engine

import "strings"

// classify assigns exactly one tier. Thresholds are lower-bound-inclusive,
// evaluated top-down; a KEV flag forces FULL_TABLE_SCAN.
func classify(f finding, t Thresholds) RiskLevel {
	switch {
	case f.cisaKev || f.cvssScore >= t.FullTableScan:
		return FullTableScan
	case f.cvssScore >= t.IndexRangeScan:
		return IndexRangeScan
	case f.cvssScore >= t.NestedLoop:
		return NestedLoop
	default:
		return SequentialRead
	}
}

// estimateEffort returns remediation hours. Core packages outrank patch availability.
func estimateEffort(f finding, e EffortHours, core map[string]struct{}) int {
	if _, ok := core[strings.ToLower(f.pkg)]; ok && f.pkg != "" {
		return e.CorePackage
	}
	if f.fixedVersion != "" {
		return e.PatchAvailable
	}
	return e.NoPatch
}
