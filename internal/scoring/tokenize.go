package scoring

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/upliftlabs/insights/pkg/models"
)

// TokenizeRequirements splits a job's free-text requirements string on
// commas and whitespace, lower-cases each token, and drops tokens shorter
// than cfg.MinTokenLen runes.
func TokenizeRequirements(requirements string, cfg Config) []string {
	fields := strings.FieldsFunc(requirements, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(f)
		if utf8.RuneCountInString(tok) < cfg.MinTokenLen {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// DemandHistogram counts requirement-token occurrences across all postings.
func DemandHistogram(jobs []models.JobPosting, cfg Config) map[string]int {
	demand := make(map[string]int)
	for _, job := range jobs {
		for _, tok := range TokenizeRequirements(job.Requirements, cfg) {
			demand[tok]++
		}
	}
	return demand
}

// SupplyHistogram counts assessed-skill-name token occurrences across all
// assessments, using the same tokenizer as the demand side so the two
// histograms share a key space.
func SupplyHistogram(assessments []models.SkillAssessment, cfg Config) map[string]int {
	supply := make(map[string]int)
	for _, a := range assessments {
		for _, tok := range TokenizeRequirements(a.SkillName, cfg) {
			supply[tok]++
		}
	}
	return supply
}

// TopDemand returns the n most demanded skill tokens, highest count first.
// Ties are broken alphabetically so the order is stable across runs.
func TopDemand(demand map[string]int, n int) []string {
	skills := make([]string, 0, len(demand))
	for s := range demand {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool {
		if demand[skills[i]] != demand[skills[j]] {
			return demand[skills[i]] > demand[skills[j]]
		}
		return skills[i] < skills[j]
	})
	if len(skills) > n {
		skills = skills[:n]
	}
	return skills
}
