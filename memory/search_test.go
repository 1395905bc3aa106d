package memory

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

var (
	hitIDA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	hitIDB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	hitIDC = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func TestMergeHybrid(t *testing.T) {
	tests := []struct {
		name       string
		semantic   []Hit
		lexical    []Hit
		wantIDs    []uuid.UUID
		wantScores []float64
	}{
		{
			name:       "empty_inputs",
			semantic:   nil,
			lexical:    nil,
			wantIDs:    []uuid.UUID{},
			wantScores: []float64{},
		},
		{
			name:     "lexical_only_normalized_by_its_max",
			semantic: nil,
			lexical: []Hit{
				{ID: hitIDA, Score: 2.0},
				{ID: hitIDB, Score: 1.0},
			},
			wantIDs:    []uuid.UUID{hitIDA, hitIDB},
			wantScores: []float64{1.0, 0.5},
		},
		{
			name: "single_signal_max_renormalizes_to_full_score",
			semantic: []Hit{
				{ID: hitIDA, Score: 0.8},
				{ID: hitIDB, Score: 0.4},
			},
			lexical: []Hit{
				{ID: hitIDA, Score: 1.0},
				{ID: hitIDC, Score: 2.0},
			},
			wantIDs:    []uuid.UUID{hitIDC, hitIDA, hitIDB},
			wantScores: []float64{1.0, 0.85, 0.5},
		},
		{
			name: "tied_scores_break_by_id",
			semantic: []Hit{
				{ID: hitIDB, Score: 0.5},
				{ID: hitIDA, Score: 0.5},
			},
			lexical:    nil,
			wantIDs:    []uuid.UUID{hitIDA, hitIDB},
			wantScores: []float64{1.0, 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeHybrid(tt.semantic, tt.lexical)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("mergeHybrid() returned %d hits, want %d", len(got), len(tt.wantIDs))
			}
			for i := range got {
				if got[i].ID != tt.wantIDs[i] {
					t.Errorf("mergeHybrid()[%d].ID = %v, want %v", i, got[i].ID, tt.wantIDs[i])
				}
				if math.Abs(got[i].Score-tt.wantScores[i]) > 1e-9 {
					t.Errorf("mergeHybrid()[%d].Score = %v, want %v", i, got[i].Score, tt.wantScores[i])
				}
			}
		})
	}
}

func TestMergeHybridCombinesHitFields(t *testing.T) {
	semantic := []Hit{
		{ID: hitIDA, Title: "Sky note", Text: "The sky is blue", Score: 0.9},
	}
	lexical := []Hit{
		{ID: hitIDA, Snippet: "The sky is...", Text: "The sky is blue", Score: 1.5},
	}

	got := mergeHybrid(semantic, lexical)
	if len(got) != 1 {
		t.Fatalf("mergeHybrid() returned %d hits, want 1", len(got))
	}
	if got[0].Title != "Sky note" {
		t.Errorf("Title = %q, want %q", got[0].Title, "Sky note")
	}
	if got[0].Snippet != "The sky is..." {
		t.Errorf("Snippet = %q, want %q", got[0].Snippet, "The sky is...")
	}
	if got[0].Text != "The sky is blue" {
		t.Errorf("Text = %q, want %q", got[0].Text, "The sky is blue")
	}
	if math.Abs(got[0].Score-1.0) > 1e-9 {
		t.Errorf("Score = %v, want 1.0", got[0].Score)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "short_string_unchanged",
			in:   "short",
			max:  10,
			want: "short",
		},
		{
			name: "long_string_truncated_with_ellipsis",
			in:   "abcdefghij",
			max:  4,
			want: "abcd...",
		},
		{
			name: "trailing_space_trimmed_before_ellipsis",
			in:   "abc defghi",
			max:  4,
			want: "abc...",
		},
		{
			name: "zero_max_disables_truncation",
			in:   "anything at all",
			max:  0,
			want: "anything at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
