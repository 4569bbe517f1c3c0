package engine

import "math"

// SourceFormat tags the scanner schema a finding was normalized from.
type SourceFormat string

const (
	FormatTrivy SourceFormat = "trivy"
	FormatSARIF SourceFormat = "sarif"
)

// finding is one normalized vulnerability instance. It never leaves the
// package unclassified; consumers see it only wrapped in a PlanItem.
type finding struct {
	id               string
	pkg              string
	installedVersion string
	fixedVersion     string
	cvssScore        float64
	cisaKev          bool
	title            string
	description      string
	source           SourceFormat
}

type findingKey struct {
	id  string
	pkg string
}

func (f finding) key() findingKey {
	return findingKey{id: f.id, pkg: f.pkg}
}

func clampScore(s float64) float64 {
	switch {
	case math.IsNaN(s):
		return 0
	case s < 0:
		return 0
	case s > 10:
		return 10
	default:
		return s
	}
}
