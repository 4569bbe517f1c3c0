package engine

// scanDocument is a typed scan tree, either *trivyReport or *sarifLog.
type scanDocument interface {
	findings(p *Policy) []finding
}

// parseDocument detects the schema by top-level key and types the tree.
// "runs" wins over "Results" when both are present.
func parseDocument(raw any) (scanDocument, []FieldError, error) {
	root, ok := asObject(raw)
	if !ok {
		return nil, nil, errUnrecognizedFormat()
	}
	if runs, ok := root["runs"]; ok {
		doc, skipped, err := parseSARIF(runs)
		if err != nil {
			return nil, nil, err
		}
		return doc, skipped, nil
	}
	if results, ok := root["Results"]; ok {
		doc, skipped, err := parseTrivy(results)
		if err != nil {
			return nil, nil, err
		}
		return doc, skipped, nil
	}
	return nil, nil, errUnrecognizedFormat()
}

// normalize runs the ingestion stage: raw tree in, ordered findings out.
func normalize(raw any, p *Policy) ([]finding, []FieldError, error) {
	doc, skipped, err := parseDocument(raw)
	if err != nil {
		return nil, nil, err
	}
	return doc.findings(p), skipped, nil
}
