package engine

import (
	"fmt"
	"strings"
)

// Typed subset of a SARIF 2.1 log.

type sarifLog struct {
	Runs []sarifRun
}

type sarifRun struct {
	Rules   map[string]sarifRule
	Results []sarifResult
}

type sarifRule struct {
	ID    string
	Title string
}

type sarifResult struct {
	RuleID  string
	Level   string
	Message string
}

func parseSARIF(raw any) (*sarifLog, []FieldError, error) {
	runs, ok := asArray(raw)
	if !ok {
		return nil, nil, &FormatError{Format: FormatSARIF, Reason: "runs is not an array"}
	}

	log := &sarifLog{Runs: make([]sarifRun, 0, len(runs))}
	var skipped []FieldError
	for i, r := range runs {
		path := fmt.Sprintf("runs[%d]", i)
		obj, ok := asObject(r)
		if !ok {
			skipped = append(skipped, FieldError{Format: FormatSARIF, Path: path, Reason: "is not an object"})
			continue
		}
		results, ok := asArray(obj["results"])
		if !ok {
			skipped = append(skipped, FieldError{Format: FormatSARIF, Path: path, Field: "results", Reason: "is not an array"})
			continue
		}

		run := sarifRun{Rules: sarifRules(obj)}
		for j, res := range results {
			result, ferr := parseSARIFResult(res, fmt.Sprintf("%s.results[%d]", path, j))
			if ferr != nil {
				skipped = append(skipped, *ferr)
				continue
			}
			run.Results = append(run.Results, result)
		}
		log.Runs = append(log.Runs, run)
	}
	return log, skipped, nil
}

// sarifRules indexes tool.driver.rules by id; malformed rules are ignored
// since they only contribute titles.
func sarifRules(run map[string]any) map[string]sarifRule {
	tool, _ := asObject(run["tool"])
	driver, _ := asObject(tool["driver"])
	list, _ := asArray(driver["rules"])
	rules := make(map[string]sarifRule, len(list))
	for _, r := range list {
		obj, ok := asObject(r)
		if !ok {
			continue
		}
		id := optString(obj, "id")
		if id == "" {
			continue
		}
		title := nestedString(obj, "shortDescription", "text")
		if title == "" {
			title = optString(obj, "name")
		}
		rules[id] = sarifRule{ID: id, Title: title}
	}
	return rules
}

func parseSARIFResult(raw any, path string) (sarifResult, *FieldError) {
	obj, ok := asObject(raw)
	if !ok {
		return sarifResult{}, &FieldError{Format: FormatSARIF, Path: path, Reason: "is not an object"}
	}
	id, _ := stringField(obj, "ruleId")
	if strings.TrimSpace(id) == "" {
		id = nestedString(obj, "rule", "id")
	}
	if strings.TrimSpace(id) == "" {
		return sarifResult{}, &FieldError{Format: FormatSARIF, Path: path, Field: "ruleId", Reason: "is missing or not a non-empty string"}
	}
	return sarifResult{
		RuleID:  id,
		Level:   sarifLevelKey(optString(obj, "level")),
		Message: nestedString(obj, "message", "text"),
	}, nil
}

// SARIF findings are never package-scoped and carry no KEV concept.
func (l *sarifLog) findings(p *Policy) []finding {
	var out []finding
	for _, run := range l.Runs {
		for _, r := range run.Results {
			out = append(out, finding{
				id:          r.RuleID,
				cvssScore:   p.SARIFLevels[r.Level],
				title:       run.Rules[r.RuleID].Title,
				description: r.Message,
				source:      FormatSARIF,
			})
		}
	}
	return out
}
