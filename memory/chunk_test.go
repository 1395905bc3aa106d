package memory

import (
	"strings"
	"testing"
)

func TestRuleSentenceSplitterSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple_sentences",
			text: "The sky is blue. Grass is green.",
			want: []string{"The sky is blue.", "Grass is green."},
		},
		{
			name: "mixed_terminators",
			text: "Really? Yes! Good.",
			want: []string{"Really?", "Yes!", "Good."},
		},
		{
			name: "ellipsis_stays_attached",
			text: "Wait... Then go.",
			want: []string{"Wait...", "Then go."},
		},
		{
			name: "no_terminator_returns_whole_text",
			text: "just a fragment",
			want: []string{"just a fragment"},
		},
		{
			name: "surrounding_whitespace_trimmed",
			text: "  First one. Second one.  ",
			want: []string{"First one.", "Second one."},
		},
		{
			name: "empty_text",
			text: "   ",
			want: nil,
		},
	}

	splitter := NewRuleSentenceSplitter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitter.Split(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Split(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Split(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPackSentences(t *testing.T) {
	tests := []struct {
		name      string
		sentences []string
		maxChars  int
		want      []string
	}{
		{
			name:      "fills_up_to_limit",
			sentences: []string{"aaa", "bbb", "ccc"},
			maxChars:  7,
			want:      []string{"aaa bbb", "ccc"},
		},
		{
			name:      "single_chunk_when_everything_fits",
			sentences: []string{"One two.", "Three four.", "Five six."},
			maxChars:  40,
			want:      []string{"One two. Three four. Five six."},
		},
		{
			name:      "oversized_sentence_hard_split",
			sentences: []string{"abcdefghij"},
			maxChars:  4,
			want:      []string{"abcd", "efgh", "ij"},
		},
		{
			name:      "blank_sentences_skipped",
			sentences: []string{"", "  ", "real content"},
			maxChars:  40,
			want:      []string{"real content"},
		},
		{
			name:      "no_sentences",
			sentences: nil,
			maxChars:  40,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PackSentences(tt.sentences, tt.maxChars)
			if len(got) != len(tt.want) {
				t.Fatalf("PackSentences() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PackSentences()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkDocument(t *testing.T) {
	text := "One two. Three four. Five six."

	got := ChunkDocument(text, 20)
	want := []string{"One two. Three four.", "Five six."}
	if len(got) != len(want) {
		t.Fatalf("ChunkDocument() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("ChunkDocument()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunkDocumentRespectsLimit(t *testing.T) {
	sentence := strings.Repeat("word ", 30)
	text := strings.TrimSpace(sentence) + ". " + strings.TrimSpace(sentence) + "."

	for _, chunk := range ChunkDocument(text, 100) {
		if n := len([]rune(chunk)); n > 100 {
			t.Errorf("chunk length = %d runes, want <= 100", n)
		}
	}
}
