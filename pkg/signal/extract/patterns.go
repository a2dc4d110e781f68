package extract

import "regexp"

// patternTemplates is the curated library of domain phrase shapes. Each
// pattern captures one candidate phrase from lowercased text.
var patternTemplates = []string{
	// AI/ML
	`\b(agentic\s+\w+)\b`,
	`\b(\w+\s+ai)\b`,
	`\b(ai\s+\w+)\b`,
	`\b(\w+\s+learning)\b`,
	`\b(generative\s+\w+)\b`,

	// infrastructure
	`\b(\w+\s+computing)\b`,
	`\b(\w+\s+infrastructure)\b`,
	`\b(\w+\s+platform)\b`,
	`\b(\w+\s+as\s+a\s+service)\b`,

	// business models
	`\b(\w+\s+saas)\b`,
	`\b(vertical\s+\w+)\b`,
	`\b(\w+\s+marketplace)\b`,
	`\b(embedded\s+\w+)\b`,

	// fintech
	`\b(\w+\s+payments)\b`,
	`\b(\w+\s+banking)\b`,
	`\b(\w+\s+fintech)\b`,

	// enterprise
	`\b(\w+\s+automation)\b`,
	`\b(\w+\s+observability)\b`,
	`\b(\w+\s+orchestration)\b`,

	// industry
	`\b(digital\s+twin\w*)\b`,
	`\b(supply\s+chain\s+\w+)\b`,
	`\b(predictive\s+\w+)\b`,
}

var compiledPatterns = compilePatterns(patternTemplates)

func compilePatterns(templates []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(templates))
	for _, t := range templates {
		out = append(out, regexp.MustCompile(t))
	}
	return out
}

// patternMatches returns every captured phrase in the lowercased text.
func patternMatches(lower string) []string {
	var phrases []string
	for _, re := range compiledPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if len(m) > 1 && m[1] != "" {
				phrases = append(phrases, m[1])
			}
		}
	}
	return phrases
}
