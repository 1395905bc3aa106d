package memory

import "testing"

func TestFilterAndRank(t *testing.T) {
	tests := []struct {
		name      string
		hits      []Hit
		utterance string
		limit     int
		want      []string
	}{
		{
			name: "echoed_question_dropped_factual_answer_kept",
			hits: []Hit{
				{Snippet: "My favorite color is blue.", Score: 0.8},
				{Snippet: "What is my favorite color?", Score: 0.95},
			},
			utterance: "What is my favorite color?",
			limit:     3,
			want:      []string{"My favorite color is blue."},
		},
		{
			name: "metadata_header_lines_stripped",
			hits: []Hit{
				{Snippet: "title: Sky Note\nlabels: nature, outdoors\nThe sky is blue", Score: 0.7},
			},
			utterance: "tell me about the weather",
			limit:     3,
			want:      []string{"The sky is blue"},
		},
		{
			name: "tags_and_extracted_lines_stripped",
			hits: []Hit{
				{Snippet: "tags: people\nextracted: chat exchange\nAlice works at Initech", Score: 0.6},
			},
			utterance: "where does alice work",
			limit:     3,
			want:      []string{"Alice works at Initech"},
		},
		{
			name: "metadata_only_hit_dropped",
			hits: []Hit{
				{Snippet: "title: Empty Note\nlabels: misc", Score: 0.9},
			},
			utterance: "anything",
			limit:     3,
			want:      []string{},
		},
		{
			name: "echo_with_punctuation_stripped_still_dropped",
			hits: []Hit{
				{Snippet: "What is my favorite color\nAsked on Tuesday", Score: 0.9},
			},
			utterance: "what is my favorite color?",
			limit:     3,
			want:      []string{},
		},
		{
			name: "utterance_whitespace_trimmed_before_comparison",
			hits: []Hit{
				{Snippet: "What is my favorite color?", Score: 0.9},
			},
			utterance: "  What is my favorite color?  ",
			limit:     3,
			want:      []string{},
		},
		{
			name: "thin_superstring_dropped",
			hits: []Hit{
				{Snippet: "My favorite color!", Score: 0.5},
			},
			utterance: "my favorite color",
			limit:     3,
			want:      []string{},
		},
		{
			name: "superstring_at_exact_length_ratio_kept",
			hits: []Hit{
				{Snippet: "my cat is", Score: 0.5},
			},
			utterance: "my cat",
			limit:     3,
			want:      []string{"my cat is"},
		},
		{
			name: "superstring_past_length_ratio_kept",
			hits: []Hit{
				{Snippet: "my color is carmine, always", Score: 0.5},
			},
			utterance: "my color",
			limit:     3,
			want:      []string{"my color is carmine, always"},
		},
		{
			name: "word_subset_dropped",
			hits: []Hit{
				{Snippet: "name is", Score: 0.9},
			},
			utterance: "What is my name",
			limit:     3,
			want:      []string{},
		},
		{
			name: "snippet_with_new_information_kept",
			hits: []Hit{
				{Snippet: "My name is Alice.", Score: 0.9},
			},
			utterance: "What is my name",
			limit:     3,
			want:      []string{"My name is Alice."},
		},
		{
			name: "factual_ranks_before_higher_scored_chatter",
			hits: []Hit{
				{Snippet: "Great weather today", Score: 0.9},
				{Snippet: "The sky is blue", Score: 0.2},
			},
			utterance: "what did we talk about",
			limit:     3,
			want:      []string{"The sky is blue", "Great weather today"},
		},
		{
			name: "score_descends_within_factual_group",
			hits: []Hit{
				{Snippet: "Alice is an engineer", Score: 0.1},
				{Snippet: "Bob is a doctor", Score: 0.9},
				{Snippet: "Cara is a pilot", Score: 0.5},
			},
			utterance: "who do i know",
			limit:     3,
			want:      []string{"Bob is a doctor", "Cara is a pilot", "Alice is an engineer"},
		},
		{
			name: "tied_scores_keep_store_order",
			hits: []Hit{
				{Snippet: "Dog has fleas", Score: 0.5},
				{Snippet: "Cat has stripes", Score: 0.5},
			},
			utterance: "pets",
			limit:     3,
			want:      []string{"Dog has fleas", "Cat has stripes"},
		},
		{
			name: "unscored_hit_ranks_as_zero",
			hits: []Hit{
				{Snippet: "Eve is here"},
				{Snippet: "Mallory is there", Score: 0.3},
			},
			utterance: "unrelated question entirely",
			limit:     3,
			want:      []string{"Mallory is there", "Eve is here"},
		},
		{
			name: "zero_limit_defaults_to_three",
			hits: []Hit{
				{Snippet: "One is first", Score: 0.9},
				{Snippet: "Two is second", Score: 0.8},
				{Snippet: "Three is third", Score: 0.7},
				{Snippet: "Four is fourth", Score: 0.6},
			},
			utterance: "completely different",
			limit:     0,
			want:      []string{"One is first", "Two is second", "Three is third"},
		},
		{
			name: "negative_limit_defaults_to_three",
			hits: []Hit{
				{Snippet: "One is first", Score: 0.9},
				{Snippet: "Two is second", Score: 0.8},
				{Snippet: "Three is third", Score: 0.7},
				{Snippet: "Four is fourth", Score: 0.6},
			},
			utterance: "completely different",
			limit:     -1,
			want:      []string{"One is first", "Two is second", "Three is third"},
		},
		{
			name: "positive_limit_truncates",
			hits: []Hit{
				{Snippet: "One is first", Score: 0.9},
				{Snippet: "Two is second", Score: 0.8},
				{Snippet: "Three is third", Score: 0.7},
			},
			utterance: "completely different",
			limit:     2,
			want:      []string{"One is first", "Two is second"},
		},
		{
			name: "text_field_used_when_snippet_empty",
			hits: []Hit{
				{Text: "Paris is lovely", Score: 0.4},
			},
			utterance: "travel plans",
			limit:     3,
			want:      []string{"Paris is lovely"},
		},
		{
			name: "preview_field_used_last",
			hits: []Hit{
				{Preview: "Rome has history", Score: 0.4},
			},
			utterance: "travel plans",
			limit:     3,
			want:      []string{"Rome has history"},
		},
		{
			name: "snippet_field_takes_precedence",
			hits: []Hit{
				{Snippet: "From the snippet field", Text: "from text", Preview: "from preview", Score: 0.4},
			},
			utterance: "unrelated completely",
			limit:     3,
			want:      []string{"From the snippet field"},
		},
		{
			name: "empty_utterance_keeps_hits",
			hits: []Hit{
				{Snippet: "The sky is blue", Score: 0.4},
			},
			utterance: "",
			limit:     3,
			want:      []string{"The sky is blue"},
		},
		{
			name:      "no_hits",
			hits:      nil,
			utterance: "what is my name",
			limit:     3,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndRank(tt.hits, tt.utterance, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterAndRank() returned %d hits, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].Snippet != want {
					t.Errorf("FilterAndRank()[%d].Snippet = %q, want %q", i, got[i].Snippet, want)
				}
			}
		})
	}
}

func TestFilterAndRankClassification(t *testing.T) {
	tests := []struct {
		name              string
		snippet           string
		wantFactual       bool
		wantHasProperNoun bool
	}{
		{
			name:              "copula_and_proper_noun",
			snippet:           "Alice is an engineer",
			wantFactual:       true,
			wantHasProperNoun: true,
		},
		{
			name:              "copula_without_proper_noun",
			snippet:           "the sky is blue",
			wantFactual:       true,
			wantHasProperNoun: false,
		},
		{
			name:              "no_copula_no_proper_noun",
			snippet:           "great weather today",
			wantFactual:       false,
			wantHasProperNoun: false,
		},
		{
			name:              "proper_noun_without_copula",
			snippet:           "Works at Initech daily",
			wantFactual:       false,
			wantHasProperNoun: true,
		},
		{
			name:              "single_letter_token_not_a_proper_noun",
			snippet:           "I run daily",
			wantFactual:       false,
			wantHasProperNoun: false,
		},
		{
			name:              "past_tense_copula",
			snippet:           "the meeting was long",
			wantFactual:       true,
			wantHasProperNoun: false,
		},
		{
			name:              "possessive_copula",
			snippet:           "they have two dogs",
			wantFactual:       true,
			wantHasProperNoun: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndRank([]Hit{{Snippet: tt.snippet}}, "zz unrelated zz", 3)
			if len(got) != 1 {
				t.Fatalf("FilterAndRank() returned %d hits, want 1", len(got))
			}
			if got[0].Factual != tt.wantFactual {
				t.Errorf("Factual = %v, want %v", got[0].Factual, tt.wantFactual)
			}
			if got[0].HasProperNoun != tt.wantHasProperNoun {
				t.Errorf("HasProperNoun = %v, want %v", got[0].HasProperNoun, tt.wantHasProperNoun)
			}
		})
	}
}

func TestHasProperNounIgnoredInRanking(t *testing.T) {
	hits := []Hit{
		{Snippet: "bob is tall", Score: 0.9},
		{Snippet: "Alice is smart", Score: 0.1},
	}

	got := FilterAndRank(hits, "something else entirely", 3)
	if len(got) != 2 {
		t.Fatalf("FilterAndRank() returned %d hits, want 2", len(got))
	}
	if got[0].Snippet != "bob is tall" {
		t.Errorf("FilterAndRank()[0].Snippet = %q, want %q", got[0].Snippet, "bob is tall")
	}
	if got[0].HasProperNoun {
		t.Errorf("HasProperNoun = true for %q, want false", got[0].Snippet)
	}
	if !got[1].HasProperNoun {
		t.Errorf("HasProperNoun = false for %q, want true", got[1].Snippet)
	}
}

func TestFormatSnippets(t *testing.T) {
	tests := []struct {
		name   string
		ranked []RankedHit
		want   string
	}{
		{
			name:   "empty",
			ranked: nil,
			want:   "",
		},
		{
			name:   "single_snippet",
			ranked: []RankedHit{{Snippet: "The sky is blue"}},
			want:   "- The sky is blue",
		},
		{
			name: "multiple_snippets",
			ranked: []RankedHit{
				{Snippet: "My name is Alice."},
				{Snippet: "My favorite color is blue."},
			},
			want: "- My name is Alice.\n- My favorite color is blue.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSnippets(tt.ranked)
			if got != tt.want {
				t.Errorf("FormatSnippets() = %q, want %q", got, tt.want)
			}
		})
	}
}
