package engine

import (
	"fmt"
	"strings"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
	"github.com/package-url/packageurl-go"
)

// Typed subset of the Trivy JSON report.

type trivyReport struct {
	Results []trivyResult
}

type trivyResult struct {
	Target            string
	Vulnerabilities   []trivyVulnerability
	Misconfigurations []trivyMisconfiguration
}

type trivyVulnerability struct {
	VulnerabilityID  string
	PkgName          string
	InstalledVersion string
	FixedVersion     string
	Title            string
	Description      string
	CVSS             map[string]trivyCVSS
	Score            float64 // top-level numeric score, 0 when absent
	KnownExploited   bool
}

type trivyCVSS struct {
	V2Score   float64
	V3Score   float64
	V3Vector  string
	V40Vector string
}

type trivyMisconfiguration struct {
	ID          string
	Type        string
	Title       string
	Description string
	Severity    string
}

var kevFields = []string{"CisaKnownExploited", "KnownExploited", "cisaKev"}

var scoreFields = []string{"CVSSScore", "Score"}

func parseTrivy(raw any) (*trivyReport, []FieldError, error) {
	results, ok := asArray(raw)
	if !ok {
		return nil, nil, &FormatError{Format: FormatTrivy, Reason: "Results is not an array"}
	}

	report := &trivyReport{Results: make([]trivyResult, 0, len(results))}
	var skipped []FieldError
	for i, r := range results {
		path := fmt.Sprintf("Results[%d]", i)
		obj, ok := asObject(r)
		if !ok {
			skipped = append(skipped, FieldError{Format: FormatTrivy, Path: path, Reason: "is not an object"})
			continue
		}
		result := trivyResult{Target: optString(obj, "Target")}

		vulns, ok := asArray(obj["Vulnerabilities"])
		if !ok {
			skipped = append(skipped, FieldError{Format: FormatTrivy, Path: path, Field: "Vulnerabilities", Reason: "is not an array"})
		}
		for j, v := range vulns {
			vuln, ferr := parseTrivyVulnerability(v, fmt.Sprintf("%s.Vulnerabilities[%d]", path, j))
			if ferr != nil {
				skipped = append(skipped, *ferr)
				continue
			}
			result.Vulnerabilities = append(result.Vulnerabilities, vuln)
		}

		misconfigs, ok := asArray(obj["Misconfigurations"])
		if !ok {
			skipped = append(skipped, FieldError{Format: FormatTrivy, Path: path, Field: "Misconfigurations", Reason: "is not an array"})
		}
		for j, m := range misconfigs {
			mc, ferr := parseTrivyMisconfiguration(m, fmt.Sprintf("%s.Misconfigurations[%d]", path, j))
			if ferr != nil {
				skipped = append(skipped, *ferr)
				continue
			}
			result.Misconfigurations = append(result.Misconfigurations, mc)
		}

		report.Results = append(report.Results, result)
	}
	return report, skipped, nil
}

func parseTrivyVulnerability(raw any, path string) (trivyVulnerability, *FieldError) {
	obj, ok := asObject(raw)
	if !ok {
		return trivyVulnerability{}, &FieldError{Format: FormatTrivy, Path: path, Reason: "is not an object"}
	}
	id, ok := stringField(obj, "VulnerabilityID")
	if !ok || strings.TrimSpace(id) == "" {
		return trivyVulnerability{}, &FieldError{Format: FormatTrivy, Path: path, Field: "VulnerabilityID", Reason: "is missing or not a non-empty string"}
	}

	v := trivyVulnerability{
		VulnerabilityID:  id,
		PkgName:          optString(obj, "PkgName"),
		InstalledVersion: optString(obj, "InstalledVersion"),
		FixedVersion:     strings.TrimSpace(optString(obj, "FixedVersion")),
		Title:            optString(obj, "Title"),
		Description:      optString(obj, "Description"),
	}
	if v.PkgName == "" {
		v.PkgName = purlName(nestedString(obj, "PkgIdentifier", "PURL"))
	}
	if cvss, ok := asObject(obj["CVSS"]); ok {
		v.CVSS = make(map[string]trivyCVSS, len(cvss))
		for vendor, entry := range cvss {
			e, ok := asObject(entry)
			if !ok {
				continue
			}
			var c trivyCVSS
			c.V3Score, _ = numberValue(e["V3Score"])
			c.V2Score, _ = numberValue(e["V2Score"])
			c.V3Vector = optString(e, "V3Vector")
			c.V40Vector = optString(e, "V40Vector")
			v.CVSS[vendor] = c
		}
	}
	for _, key := range scoreFields {
		if s, ok := numberValue(obj[key]); ok && s > 0 {
			v.Score = s
			break
		}
	}
	for _, key := range kevFields {
		if boolValue(obj[key]) {
			v.KnownExploited = true
			break
		}
	}
	return v, nil
}

func parseTrivyMisconfiguration(raw any, path string) (trivyMisconfiguration, *FieldError) {
	obj, ok := asObject(raw)
	if !ok {
		return trivyMisconfiguration{}, &FieldError{Format: FormatTrivy, Path: path, Reason: "is not an object"}
	}
	id, ok := stringField(obj, "ID")
	if !ok || strings.TrimSpace(id) == "" {
		return trivyMisconfiguration{}, &FieldError{Format: FormatTrivy, Path: path, Field: "ID", Reason: "is missing or not a non-empty string"}
	}
	return trivyMisconfiguration{
		ID:          id,
		Type:        optString(obj, "Type"),
		Title:       optString(obj, "Title"),
		Description: optString(obj, "Description"),
		Severity:    optString(obj, "Severity"),
	}, nil
}

func (r *trivyReport) findings(p *Policy) []finding {
	var out []finding
	for _, result := range r.Results {
		for _, v := range result.Vulnerabilities {
			out = append(out, finding{
				id:               v.VulnerabilityID,
				pkg:              v.PkgName,
				installedVersion: v.InstalledVersion,
				fixedVersion:     v.FixedVersion,
				cvssScore:        clampScore(v.score(p)),
				cisaKev:          v.KnownExploited,
				title:            v.Title,
				description:      v.Description,
				source:           FormatTrivy,
			})
		}
		for _, m := range result.Misconfigurations {
			out = append(out, finding{
				id:          m.ID,
				pkg:         m.Type,
				cvssScore:   clampScore(p.misconfigScore(m.Severity)),
				title:       m.Title,
				description: m.Description,
				source:      FormatTrivy,
			})
		}
	}
	return out
}

// score prefers vendor numeric scores, then vendor vectors, then any
// top-level numeric score. Zero means no CVSS data.
func (v trivyVulnerability) score(p *Policy) float64 {
	vendors := p.vendorOrder(v.CVSS)
	for _, vendor := range vendors {
		c := v.CVSS[vendor]
		if c.V3Score > 0 {
			return c.V3Score
		}
		if c.V2Score > 0 {
			return c.V2Score
		}
	}
	for _, vendor := range vendors {
		if s := vectorScore(v.CVSS[vendor]); s > 0 {
			return s
		}
	}
	return v.Score
}

func vectorScore(c trivyCVSS) float64 {
	switch {
	case strings.HasPrefix(c.V3Vector, "CVSS:3.1"):
		if cvss31, err := gocvss31.ParseVector(c.V3Vector); err == nil {
			return cvss31.BaseScore()
		}
	case strings.HasPrefix(c.V3Vector, "CVSS:3.0"):
		if cvss30, err := gocvss30.ParseVector(c.V3Vector); err == nil {
			return cvss30.BaseScore()
		}
	}
	if strings.HasPrefix(c.V40Vector, "CVSS:4.0") {
		if cvss40, err := gocvss40.ParseVector(c.V40Vector); err == nil {
			return cvss40.Score()
		}
	}
	return 0
}

func purlName(purl string) string {
	if purl == "" {
		return ""
	}
	parsed, err := packageurl.FromString(purl)
	if err != nil {
		return ""
	}
	return parsed.Name
}
