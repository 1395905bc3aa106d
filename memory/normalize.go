package memory

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// questionTemplate pairs a wh-word with its compiled extraction pattern.
type questionTemplate struct {
	name    string
	pattern *regexp.Regexp
}

// questionTemplates is ordered; the first template whose pattern matches
// decides the outcome. Patterns run against a lower-cased copy, so they are
// written lower-case only.
var questionTemplates = buildQuestionTemplates("what", "who", "where", "when", "how")

func buildQuestionTemplates(words ...string) []questionTemplate {
	templates := make([]questionTemplate, 0, len(words))
	for _, word := range words {
		templates = append(templates, questionTemplate{
			name:    word,
			pattern: regexp.MustCompile(`\b` + word + `\s+(?:is|are|was|were)\s+(?:my|the|your)\s+(.+)`),
		})
	}
	return templates
}

const nounTrimCutset = " \t\r\n?!."

// NormalizeQuery rewrites a question-shaped utterance into the noun phrase it
// asks about, so retrieval matches stored statements ("my name is Alice")
// instead of the question's own words. Utterances that match no template, or
// whose extracted noun trims to 2 characters or fewer, pass through unchanged.
func NormalizeQuery(utterance string) string {
	lowered := strings.ToLower(utterance)
	for _, qt := range questionTemplates {
		m := qt.pattern.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		noun := strings.Trim(m[1], nounTrimCutset)
		if utf8.RuneCountInString(noun) > 2 {
			return noun
		}
		return utterance
	}
	return utterance
}
