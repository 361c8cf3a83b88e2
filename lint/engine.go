package lint

// Check runs rules against every target and returns the issues that pass
// the config filters. A nil cfg reports everything.
func Check(targets []Target, rules []Rule, cfg *Config) []Issue {
	var issues []Issue
	for _, t := range targets {
		if t.Spec == nil {
			continue
		}
		for _, rule := range rules {
			if cfg != nil && cfg.IsRuleDisabled(rule.ID()) {
				continue
			}
			for _, issue := range rule.Check(t) {
				if issue.Rule == "" {
					issue.Rule = rule.ID()
				}
				if issue.Command == "" {
					issue.Command = t.Spec.Name
				}
				if cfg != nil && !cfg.ShouldReport(issue) {
					continue
				}
				issues = append(issues, issue)
			}
		}
	}
	return issues
}
