package handlers

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "plain_name_unchanged",
			filename: "report.pdf",
			want:     "report.pdf",
		},
		{
			name:     "spaces_kept",
			filename: "annual report 2025.pdf",
			want:     "annual report 2025.pdf",
		},
		{
			name:     "traversal_stripped",
			filename: "../../etc/passwd",
			want:     "etcpasswd",
		},
		{
			name:     "shell_characters_stripped",
			filename: "notes;rm -rf.txt",
			want:     "notesrm -rf.txt",
		},
		{
			name:     "leading_dot_trimmed",
			filename: ".hidden.md",
			want:     "hidden.md",
		},
		{
			name:     "only_junk_becomes_empty",
			filename: "///",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.filename); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
