package engine

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// UpgradeKind describes the version jump needed to reach the fixed version.
type UpgradeKind string

const (
	UpgradeNone    UpgradeKind = "none" // no fixed version published
	UpgradePatch   UpgradeKind = "patch"
	UpgradeMinor   UpgradeKind = "minor"
	UpgradeMajor   UpgradeKind = "major"
	UpgradeUnknown UpgradeKind = "unknown"
)

// upgradeKind compares installed and fixed versions. Trivy may list several
// fixed versions separated by commas; the first one is used.
func upgradeKind(installed, fixed string) UpgradeKind {
	if fixed == "" {
		return UpgradeNone
	}
	first, _, _ := strings.Cut(fixed, ",")
	from, err := semver.NewVersion(strings.TrimSpace(installed))
	if err != nil {
		return UpgradeUnknown
	}
	to, err := semver.NewVersion(strings.TrimSpace(first))
	if err != nil || !to.GreaterThan(from) {
		return UpgradeUnknown
	}
	switch {
	case to.Major() != from.Major():
		return UpgradeMajor
	case to.Minor() != from.Minor():
		return UpgradeMinor
	default:
		return UpgradePatch
	}
}
