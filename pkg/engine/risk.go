package engine

import "fmt"

// RiskLevel is one of the four ordered execution-plan tiers.
// Lower values are more severe.
type RiskLevel int

const (
	FullTableScan RiskLevel = iota
	IndexRangeScan
	NestedLoop
	SequentialRead
)

const tierCount = int(SequentialRead) + 1

var riskLevelNames = [tierCount]string{
	FullTableScan:  "FULL_TABLE_SCAN",
	IndexRangeScan: "INDEX_RANGE_SCAN",
	NestedLoop:     "NESTED_LOOP",
	SequentialRead: "SEQUENTIAL_READ",
}

// section names used in the JSON execution_plan object
var riskLevelSections = [tierCount]string{
	FullTableScan:  "full_table_scans",
	IndexRangeScan: "index_scans",
	NestedLoop:     "nested_loops",
	SequentialRead: "low_priority",
}

// Levels returns every tier, most severe first.
func Levels() []RiskLevel {
	return []RiskLevel{FullTableScan, IndexRangeScan, NestedLoop, SequentialRead}
}

func (l RiskLevel) valid() bool {
	return l >= FullTableScan && l <= SequentialRead
}

func (l RiskLevel) String() string {
	if !l.valid() {
		return fmt.Sprintf("RiskLevel(%d)", int(l))
	}
	return riskLevelNames[l]
}

// MustFixSoon reports whether the tier counts toward the plan's total effort.
func (l RiskLevel) MustFixSoon() bool {
	return l == FullTableScan || l == IndexRangeScan
}

func (l RiskLevel) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("invalid risk level %d", int(l))
	}
	return []byte(riskLevelNames[l]), nil
}

func (l *RiskLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseRiskLevel parses the canonical tier name, e.g. "NESTED_LOOP".
func ParseRiskLevel(s string) (RiskLevel, error) {
	for i, name := range riskLevelNames {
		if name == s {
			return RiskLevel(i), nil
		}
	}
	return SequentialRead, fmt.Errorf("invalid risk level: %s", s)
}
