package memory

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const defaultRankLimit = 3

// metadataPrefixes are the header prefixes written at ingestion (see
// composeContent) plus historical variants; lines starting with any of them
// never reach the prompt.
var metadataPrefixes = []string{"title:", "labels:", "tags:", "extracted:"}

// copulaMarkers classify a snippet as a factual statement when one appears
// space-padded in its lower-cased form.
var copulaMarkers = []string{" is ", " was ", " are ", " were ", " has ", " have "}

// FilterAndRank cleans raw hits, drops near-duplicates of the user's own
// utterance, classifies the survivors and orders them factual-first, then by
// descending score. Ties keep store order. A limit of zero or less means the
// default of 3. It never fails; hits without a score rank as zero.
func FilterAndRank(hits []Hit, originalUtterance string, limit int) []RankedHit {
	if limit <= 0 {
		limit = defaultRankLimit
	}
	loweredUtterance := strings.ToLower(strings.TrimSpace(originalUtterance))

	ranked := make([]RankedHit, 0, len(hits))
	for _, hit := range hits {
		snippet := cleanSnippet(resolveText(hit))
		if snippet == "" {
			continue
		}
		if isNearDuplicate(snippet, loweredUtterance) {
			continue
		}
		ranked = append(ranked, RankedHit{
			Hit:           hit,
			Snippet:       snippet,
			Factual:       isFactualStatement(snippet),
			HasProperNoun: hasProperNoun(snippet),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Factual != ranked[j].Factual {
			return ranked[i].Factual
		}
		return ranked[i].Hit.Score > ranked[j].Hit.Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FormatSnippets renders ranked snippets as the bullet list the prompt layer
// appends under its memories heading.
func FormatSnippets(ranked []RankedHit) string {
	if len(ranked) == 0 {
		return ""
	}
	lines := make([]string, 0, len(ranked))
	for _, r := range ranked {
		lines = append(lines, "- "+r.Snippet)
	}
	return strings.Join(lines, "\n")
}

// resolveText picks the hit's text from its alternate carriers.
func resolveText(h Hit) string {
	if h.Snippet != "" {
		return h.Snippet
	}
	if h.Text != "" {
		return h.Text
	}
	return h.Preview
}

func cleanSnippet(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isMetadataLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isMetadataLine(line string) bool {
	normalized := strings.ToLower(strings.TrimSpace(line))
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}

// isNearDuplicate reports whether a cleaned snippet is just the user's own
// utterance coming back: an echoed first line, a thin superstring, or a
// snippet whose words the utterance already contains.
func isNearDuplicate(snippet, loweredUtterance string) bool {
	loweredSnippet := strings.ToLower(snippet)

	firstLine := loweredSnippet
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)
	if firstLine == loweredUtterance || firstLine == strings.TrimRight(loweredUtterance, "?!") {
		return true
	}

	if strings.Contains(loweredSnippet, loweredUtterance) {
		snippetRunes := utf8.RuneCountInString(loweredSnippet)
		utteranceRunes := utf8.RuneCountInString(loweredUtterance)
		if float64(snippetRunes) < 1.5*float64(utteranceRunes) {
			return true
		}
	}

	snippetWords := wordSet(loweredSnippet)
	utteranceWords := wordSet(loweredUtterance)
	if isSubset(snippetWords, utteranceWords) && len(snippetWords) <= len(utteranceWords)+1 {
		return true
	}

	return false
}

func isFactualStatement(snippet string) bool {
	lowered := strings.ToLower(snippet)
	for _, marker := range copulaMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// hasProperNoun reports whether any token longer than one rune starts with an
// upper-case letter.
func hasProperNoun(snippet string) bool {
	for _, token := range strings.Fields(snippet) {
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(token)
		if unicode.IsUpper(first) {
			return true
		}
	}
	return false
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func isSubset(sub, super map[string]struct{}) bool {
	for w := range sub {
		if _, ok := super[w]; !ok {
			return false
		}
	}
	return true
}
