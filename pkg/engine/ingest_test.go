package engine

import (
	"errors"
	"math"
	"testing"
)

func TestParseDocument_Detection(t *testing.T) {
	doc, _, err := parseDocument(decode(t, `{"runs": []}`))
	if err != nil {
		t.Fatalf("sarif: %v", err)
	}
	if _, ok := doc.(*sarifLog); !ok {
		t.Errorf("expected *sarifLog, got %T", doc)
	}

	doc, _, err = parseDocument(decode(t, `{"Results": []}`))
	if err != nil {
		t.Fatalf("trivy: %v", err)
	}
	if _, ok := doc.(*trivyReport); !ok {
		t.Errorf("expected *trivyReport, got %T", doc)
	}

	// runs takes precedence over Results
	doc, _, err = parseDocument(decode(t, `{"runs": [], "Results": "garbage"}`))
	if err != nil {
		t.Fatalf("both keys: %v", err)
	}
	if _, ok := doc.(*sarifLog); !ok {
		t.Errorf("expected runs to win, got %T", doc)
	}
}

func TestParseDocument_FormatErrors(t *testing.T) {
	cases := map[string]string{
		"no known key":       `{"SchemaVersion": 2}`,
		"top-level array":    `[{"Results": []}]`,
		"results not array":  `{"Results": {"Vulnerabilities": []}}`,
		"runs not array":     `{"runs": "none"}`,
		"lowercase results":  `{"results": []}`,
		"empty object input": `{}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseDocument(decode(t, doc))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
		})
	}

	_, _, err := parseDocument(decode(t, `{"foo": 1}`))
	if err == nil || err.Error() != "unrecognized scan format" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestNormalize_TrivyFixture(t *testing.T) {
	p := DefaultPolicy()
	findings, skipped, err := normalize(loadFixture(t, "trivy_output.json"), &p)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(findings) != 6 {
		t.Fatalf("expected 6 findings, got %d", len(findings))
	}
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped element, got %d", len(skipped))
	}
	if skipped[0].Path != "Results[0].Vulnerabilities[3]" || skipped[0].Field != "VulnerabilityID" {
		t.Errorf("unexpected skip diagnostic: %+v", skipped[0])
	}

	f0 := findings[0]
	if f0.id != "CVE-2021-36159" || f0.pkg != "apk-tools" || f0.cvssScore != 9.1 {
		t.Errorf("unexpected first finding: %+v", f0)
	}
	if f0.fixedVersion != "2.12.6-r1" || f0.installedVersion != "2.12.6-r0" {
		t.Errorf("versions not carried: %+v", f0)
	}
	if f0.title != "libfetch: out-of-bounds read" || f0.source != FormatTrivy {
		t.Errorf("title/source not carried: %+v", f0)
	}

	lodash := findings[3]
	if lodash.pkg != "lodash" {
		t.Errorf("expected package from PURL, got %q", lodash.pkg)
	}
	if lodash.cvssScore != 9.8 {
		t.Errorf("expected vector-derived score 9.8, got %v", lodash.cvssScore)
	}

	if findings[4].cvssScore != 0 {
		t.Errorf("finding without CVSS data should score 0, got %v", findings[4].cvssScore)
	}

	mc := findings[5]
	if mc.id != "DS002" || mc.pkg != "dockerfile" || mc.cvssScore != 7.5 || mc.fixedVersion != "" {
		t.Errorf("unexpected misconfiguration finding: %+v", mc)
	}
}

func TestTrivy_VendorPreference(t *testing.T) {
	p := DefaultPolicy()
	doc := decode(t, `{"Results": [{"Vulnerabilities": [
		{"VulnerabilityID": "CVE-A", "CVSS": {"redhat": {"V3Score": 6.1}, "nvd": {"V3Score": 8.8}}},
		{"VulnerabilityID": "CVE-B", "CVSS": {"redhat": {"V3Score": 6.1}, "ghsa": {"V3Score": 5.0}}},
		{"VulnerabilityID": "CVE-C", "CVSS": {"zeta": {"V2Score": 4.3}, "alpha": {"V3Score": 3.3}}},
		{"VulnerabilityID": "CVE-D", "CVSS": {"nvd": {"V2Score": 5.0}}},
		{"VulnerabilityID": "CVE-E", "CVSSScore": 7.2},
		{"VulnerabilityID": "CVE-F", "CVSS": {"nvd": {"V3Score": "9.4"}}},
		{"VulnerabilityID": "CVE-G", "CVSS": {"nvd": {"V3Score": 14}}},
		{"VulnerabilityID": "CVE-H", "CVSS": {"nvd": {"V3Vector": "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}}},
		{"VulnerabilityID": "CVE-I", "CVSS": {"ghsa": {"V40Vector": "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N"}}},
		{"VulnerabilityID": "CVE-J", "CVSS": {"nvd": {"V3Vector": "CVSS:3.0/AV:N/bogus"}}}
	]}]}`)
	findings, _, err := normalize(doc, &p)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{
		"CVE-A": 8.8,
		"CVE-B": 6.1,
		"CVE-C": 3.3,
		"CVE-D": 5.0,
		"CVE-E": 7.2,
		"CVE-F": 9.4,
		"CVE-G": 10,
		"CVE-H": 9.8,
		"CVE-I": 9.3,
		"CVE-J": 0,
	}
	if len(findings) != len(want) {
		t.Fatalf("expected %d findings, got %d", len(want), len(findings))
	}
	for _, f := range findings {
		if math.Abs(f.cvssScore-want[f.id]) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", f.id, want[f.id], f.cvssScore)
		}
	}
}

func TestTrivy_KEVFlag(t *testing.T) {
	p := DefaultPolicy()
	doc := decode(t, `{"Results": [{"Vulnerabilities": [
		{"VulnerabilityID": "CVE-1", "CisaKnownExploited": true},
		{"VulnerabilityID": "CVE-2", "KnownExploited": "true"},
		{"VulnerabilityID": "CVE-3", "cisaKev": true},
		{"VulnerabilityID": "CVE-4"},
		{"VulnerabilityID": "CVE-5", "CisaKnownExploited": false}
	]}]}`)
	findings, _, err := normalize(doc, &p)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, true, true, false, false}
	for i, f := range findings {
		if f.cisaKev != want[i] {
			t.Errorf("%s: expected kev=%v", f.id, want[i])
		}
	}
}

func TestTrivy_SkipsMalformedElements(t *testing.T) {
	p := DefaultPolicy()
	doc := decode(t, `{"Results": [
		"not-an-object",
		{"Vulnerabilities": "oops"},
		{"Vulnerabilities": [42, {"VulnerabilityID": 7}, {"VulnerabilityID": ""}, {"VulnerabilityID": "CVE-OK"}]},
		{"Vulnerabilities": null},
		{}
	]}`)
	findings, skipped, err := normalize(doc, &p)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 || findings[0].id != "CVE-OK" {
		t.Fatalf("expected only CVE-OK, got %+v", findings)
	}
	if len(skipped) != 5 {
		t.Fatalf("expected 5 skipped elements, got %d: %+v", len(skipped), skipped)
	}
	for _, s := range skipped {
		if s.Format != FormatTrivy || s.Error() == "" {
			t.Errorf("unexpected diagnostic: %+v", s)
		}
	}
}

func TestNormalize_SARIFFixture(t *testing.T) {
	p := DefaultPolicy()
	findings, skipped, err := normalize(loadFixture(t, "sarif_output.json"), &p)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 5 {
		t.Fatalf("expected 5 findings, got %d", len(findings))
	}
	if len(skipped) != 1 || skipped[0].Path != "runs[0].results[4]" {
		t.Fatalf("unexpected skipped: %+v", skipped)
	}

	wantScores := []float64{9.0, 5.0, 2.0, 0.0, 9.0}
	for i, f := range findings {
		if f.cvssScore != wantScores[i] {
			t.Errorf("%s: expected %v, got %v", f.id, wantScores[i], f.cvssScore)
		}
		if f.pkg != "" || f.cisaKev || f.source != FormatSARIF {
			t.Errorf("%s: sarif findings carry no package or kev: %+v", f.id, f)
		}
	}
	if findings[0].title != "SQL injection" || findings[0].description != "tainted query in handler.go" {
		t.Errorf("rule title/message not carried: %+v", findings[0])
	}
	if findings[1].title != "unused-variable" {
		t.Errorf("expected rule name fallback, got %q", findings[1].title)
	}
}

func TestSARIF_SkipsRunWithoutResultsArray(t *testing.T) {
	p := DefaultPolicy()
	findings, skipped, err := normalize(decode(t, `{"runs": [{"results": {}}, {"results": [{"ruleId": "R1", "level": "ERROR"}]}]}`), &p)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 || skipped[0].Field != "results" {
		t.Fatalf("unexpected skipped: %+v", skipped)
	}
	if len(findings) != 1 || findings[0].cvssScore != 9.0 {
		t.Fatalf("expected one error-level finding, got %+v", findings)
	}
}

func TestTrivy_MisconfigSeverities(t *testing.T) {
	doc := decode(t, `{"Results": [{"Misconfigurations": [
		{"ID": "DS001", "Type": "dockerfile", "Severity": "CRITICAL"},
		{"ID": "DS002", "Type": "dockerfile", "Severity": "low"},
		{"ID": "DS003", "Type": "dockerfile"},
		{"ID": "DS004", "Type": "dockerfile", "Severity": "SEVERE"}
	]}]}`)

	p := DefaultPolicy()
	findings, _, err := normalize(doc, &p)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"DS001": 9.5, "DS002": 2.5, "DS003": 5.0, "DS004": 5.0}
	for _, f := range findings {
		if f.cvssScore != want[f.id] {
			t.Errorf("%s: expected %v, got %v", f.id, want[f.id], f.cvssScore)
		}
	}

	custom, err := ParsePolicy([]byte("misconfig_severities:\n  Low: 1.0\n  medium: 4.0\n"))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	findings, _, err = normalize(doc, &custom)
	if err != nil {
		t.Fatal(err)
	}
	want = map[string]float64{"DS001": 9.5, "DS002": 1.0, "DS003": 4.0, "DS004": 4.0}
	for _, f := range findings {
		if f.cvssScore != want[f.id] {
			t.Errorf("custom %s: expected %v, got %v", f.id, want[f.id], f.cvssScore)
		}
	}
}

func TestClampScore(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{7.5, 7.5},
		{12, 10},
		{math.Inf(1), 10},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		if got := clampScore(c.in); got != c.want {
			t.Errorf("clampScore(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestUnrecognizedFormat_FreshError(t *testing.T) {
	_, _, err := parseDocument(decode(t, `{"matches": []}`))
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	fe.Reason = "changed by caller"

	_, _, err = parseDocument(decode(t, `[]`))
	if err == nil || err.Error() != "unrecognized scan format" {
		t.Errorf("later calls must not see caller mutations, got %v", err)
	}
}
