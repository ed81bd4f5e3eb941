package tools

import "encoding/json"

// ESLint JSON formatter output (simplified)
type eslintMessage struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"` // 1 warn, 2 error
	Message  string `json:"message"`
	Line     int    `json:"line"`
	EndLine  int    `json:"endLine"`
}
type eslintFile struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

func normalizeESLint(raw []byte) ([]Finding, error) {
	var files []eslintFile
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, err
	}
	var out []Finding
	for _, f := range files {
		for _, m := range f.Messages {
			sev := "low"
			if m.Severity >= 2 {
				sev = "medium"
			}
			end := m.EndLine
			if end == 0 {
				end = m.Line
			}
			rule := m.RuleID
			if rule == "" {
				rule = "parse"
			}
			out = append(out, Finding{
				RuleID:     rule,
				Severity:   sev,
				Confidence: 0.6,
				File:       f.FilePath,
				StartLine:  m.Line,
				EndLine:    end,
				Message:    m.Message,
			})
		}
	}
	return out, nil
}
