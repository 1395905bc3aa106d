package memory

import (
	"strings"
	"unicode"
)

const defaultChunkChars = 800

// SentenceSplitter segments text into sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// RuleSentenceSplitter is a dependency-free splitter used when NLP-backed
// segmentation is unavailable. It breaks on . ! ? followed by whitespace and
// keeps runs of terminators ("...") attached to their sentence.
type RuleSentenceSplitter struct{}

func NewRuleSentenceSplitter() RuleSentenceSplitter {
	return RuleSentenceSplitter{}
}

func (RuleSentenceSplitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var sentences []string
	runes := []rune(trimmed)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isSentenceBoundary(runes[i]) {
			continue
		}
		next := i + 1
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		if next >= len(runes) || isSentenceBoundary(runes[next]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	if len(sentences) == 0 {
		return []string{trimmed}
	}
	return sentences
}

func isSentenceBoundary(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}

// PackSentences greedily packs sentences into chunks of at most maxChars
// runes, joining with single spaces. A sentence longer than maxChars is
// hard-split on rune boundaries.
func PackSentences(sentences []string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = defaultChunkChars
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		runes := []rune(sentence)
		if len(runes) > maxChars {
			flush()
			for start := 0; start < len(runes); start += maxChars {
				end := min(start+maxChars, len(runes))
				if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
					chunks = append(chunks, piece)
				}
			}
			continue
		}
		if currentLen > 0 && currentLen+1+len(runes) > maxChars {
			flush()
		}
		if currentLen > 0 {
			current.WriteString(" ")
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += len(runes)
	}
	flush()

	return chunks
}

// ChunkDocument splits text on sentence boundaries and packs the sentences
// into chunks of at most maxChars runes.
func ChunkDocument(text string, maxChars int) []string {
	return PackSentences(NewRuleSentenceSplitter().Split(text), maxChars)
}
