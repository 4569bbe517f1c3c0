package engine

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Thresholds are the lower-bound-inclusive CVSS scores for each tier.
// Anything below NestedLoop lands in SEQUENTIAL_READ.
type Thresholds struct {
	FullTableScan  float64 `yaml:"full_table_scan"`
	IndexRangeScan float64 `yaml:"index_range_scan"`
	NestedLoop     float64 `yaml:"nested_loop"`
}

// EffortHours are the remediation estimates per finding.
type EffortHours struct {
	CorePackage    int `yaml:"core_package"`
	PatchAvailable int `yaml:"patch_available"`
	NoPatch        int `yaml:"no_patch"`
}

// GradeBounds hold the highest FULL_TABLE_SCAN count still awarded each grade.
// Counts above D are graded F.
type GradeBounds struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
	C int `yaml:"c"`
	D int `yaml:"d"`
}

// Policy is the swappable data behind classification, effort and grading.
type Policy struct {
	Thresholds       Thresholds         `yaml:"thresholds"`
	CorePackages     []string           `yaml:"core_packages"`
	Effort           EffortHours        `yaml:"effort"`
	Grades           GradeBounds        `yaml:"grades"`
	SARIFLevels      map[string]float64 `yaml:"sarif_levels"`
	MisconfigScores  map[string]float64 `yaml:"misconfig_severities"`
	VendorPreference []string           `yaml:"vendor_preference"`
}

// Score map keys are matched case-insensitively; these are their canonical forms.
func sarifLevelKey(s string) string   { return strings.ToLower(strings.TrimSpace(s)) }
func misconfigSevKey(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// DefaultPolicy returns the stock policy. Each call returns fresh slices and maps.
func DefaultPolicy() Policy {
	return Policy{
		Thresholds: Thresholds{
			FullTableScan:  9.0,
			IndexRangeScan: 7.0,
			NestedLoop:     4.0,
		},
		CorePackages: []string{
			"kernel", "linux", "linux-libc-dev",
			"glibc", "libc6", "musl",
			"openssl", "libssl", "libssl3",
			"openssh", "systemd", "zlib",
		},
		Effort: EffortHours{
			CorePackage:    24,
			PatchAvailable: 4,
			NoPatch:        8,
		},
		Grades: GradeBounds{A: 0, B: 2, C: 5, D: 10},
		SARIFLevels: map[string]float64{
			"error":   9.0,
			"warning": 5.0,
			"note":    2.0,
		},
		MisconfigScores: map[string]float64{
			"CRITICAL": 9.5,
			"HIGH":     7.5,
			"MEDIUM":   5.0,
			"LOW":      2.5,
		},
		VendorPreference: []string{"nvd", "redhat", "ghsa"},
	}
}

// ParsePolicy overlays YAML onto the default policy; omitted keys keep their
// defaults. Score map entries are merged onto the default entries.
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	levels, severities := p.SARIFLevels, p.MisconfigScores
	p.SARIFLevels, p.MisconfigScores = nil, nil
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("failed to parse policy: %w", err)
	}

	var err error
	if p.SARIFLevels, err = mergeScores("sarif_levels", levels, p.SARIFLevels, sarifLevelKey); err != nil {
		return Policy{}, err
	}
	if p.MisconfigScores, err = mergeScores("misconfig_severities", severities, p.MisconfigScores, misconfigSevKey); err != nil {
		return Policy{}, err
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// LoadPolicy reads a YAML policy file.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, err
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate rejects policies that would break the tier ordering or grading.
func (p Policy) Validate() error {
	t := p.Thresholds
	if !(t.FullTableScan > t.IndexRangeScan && t.IndexRangeScan > t.NestedLoop) {
		return fmt.Errorf("thresholds must be strictly descending: full_table_scan=%v index_range_scan=%v nested_loop=%v",
			t.FullTableScan, t.IndexRangeScan, t.NestedLoop)
	}
	if t.NestedLoop < 0 || t.FullTableScan > 10 {
		return fmt.Errorf("thresholds must lie within 0.0-10.0")
	}
	e := p.Effort
	if e.CorePackage <= 0 || e.PatchAvailable <= 0 || e.NoPatch <= 0 {
		return fmt.Errorf("effort hours must be positive: core_package=%d patch_available=%d no_patch=%d",
			e.CorePackage, e.PatchAvailable, e.NoPatch)
	}
	g := p.Grades
	if !(g.A >= 0 && g.A < g.B && g.B < g.C && g.C < g.D) {
		return fmt.Errorf("grade bounds must be strictly ascending from zero: a=%d b=%d c=%d d=%d", g.A, g.B, g.C, g.D)
	}
	if err := checkScores("sarif_levels", p.SARIFLevels, sarifLevelKey); err != nil {
		return err
	}
	return checkScores("misconfig_severities", p.MisconfigScores, misconfigSevKey)
}

// mergeScores copies base and applies overrides on top, both under canonical keys.
func mergeScores(name string, base, overrides map[string]float64, canon func(string) string) (map[string]float64, error) {
	out := make(map[string]float64, len(base)+len(overrides))
	for k, v := range base {
		out[canon(k)] = v
	}
	seen := make(map[string]string, len(overrides))
	for _, k := range sortedKeys(overrides) {
		c := canon(k)
		if prev, dup := seen[c]; dup {
			return nil, fmt.Errorf("%s: keys %q and %q differ only by case", name, prev, k)
		}
		seen[c] = k
		out[c] = overrides[k]
	}
	return out, nil
}

func checkScores(name string, scores map[string]float64, canon func(string) string) error {
	seen := make(map[string]string, len(scores))
	for _, k := range sortedKeys(scores) {
		score := scores[k]
		if math.IsNaN(score) || score < 0 || score > 10 {
			return fmt.Errorf("%s: %q score %v outside 0.0-10.0", name, k, score)
		}
		c := canon(k)
		if prev, dup := seen[c]; dup {
			return fmt.Errorf("%s: keys %q and %q differ only by case", name, prev, k)
		}
		seen[c] = k
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clone deep-copies the policy so an Engine never shares state with its caller.
func (p Policy) clone() Policy {
	out := p
	out.CorePackages = append([]string(nil), p.CorePackages...)
	out.VendorPreference = append([]string(nil), p.VendorPreference...)
	out.SARIFLevels = canonicalScores(p.SARIFLevels, sarifLevelKey)
	out.MisconfigScores = canonicalScores(p.MisconfigScores, misconfigSevKey)
	return out
}

// canonicalScores rekeys a validated score map; Validate guarantees no two
// keys share a canonical form.
func canonicalScores(m map[string]float64, canon func(string) string) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[canon(k)] = v
	}
	return out
}

// misconfigScore maps a severity to a score; unknown severities score as MEDIUM.
func (p Policy) misconfigScore(severity string) float64 {
	if s, ok := p.MisconfigScores[misconfigSevKey(severity)]; ok {
		return s
	}
	return p.MisconfigScores["MEDIUM"]
}

func (p Policy) corePackageSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.CorePackages))
	for _, name := range p.CorePackages {
		set[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return set
}

// vendorOrder lists the vendors present in scores: preferred ones first,
// then the rest by name.
func (p Policy) vendorOrder(present map[string]trivyCVSS) []string {
	order := make([]string, 0, len(present))
	seen := make(map[string]bool, len(present))
	for _, v := range p.VendorPreference {
		if _, ok := present[v]; ok && !seen[v] {
			order = append(order, v)
			seen[v] = true
		}
	}
	var rest []string
	for v := range present {
		if !seen[v] {
			rest = append(rest, v)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// YAML renders the policy in the same shape ParsePolicy accepts.
func (p Policy) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}
