package weeklypodcast

import (
	"strings"
	"testing"
)

func TestStripShowNotes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "Notes section removed",
			text: "Narration body.\n\n=== SHOW NOTES ===\n- Genesis 1\n- Moses 2",
			want: "Narration body.",
		},
		{
			name: "No notes section",
			text: "Narration only.",
			want: "Narration only.",
		},
		{
			name: "Whitespace trimmed",
			text: "  Narration.  \n\n",
			want: "Narration.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripShowNotes(tt.text); got != tt.want {
				t.Errorf("StripShowNotes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkForSpeechShortText(t *testing.T) {
	chunks := ChunkForSpeech("A short narration.", 3900)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "A short narration." {
		t.Errorf("Short text must be a single untouched chunk, got %q", chunks[0])
	}
}

func TestChunkForSpeechParagraphPacking(t *testing.T) {
	// Three 40-char paragraphs with a 90-char limit: the first two pack into
	// one chunk (40+2+40 = 82), the third starts a new one.
	p := strings.Repeat("x", 40)
	text := p + "\n\n" + p + "\n\n" + p

	chunks := ChunkForSpeech(text, 90)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != p+"\n\n"+p {
		t.Errorf("First chunk should pack two paragraphs, got %d chars", len(chunks[0]))
	}
	if chunks[1] != p {
		t.Errorf("Second chunk should be the last paragraph, got %d chars", len(chunks[1]))
	}
}

func TestChunkForSpeechOversizeParagraph(t *testing.T) {
	long := strings.Repeat("y", 250)
	text := "intro paragraph\n\n" + long + "\n\nclosing paragraph"

	chunks := ChunkForSpeech(text, 100)
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("Chunk %d exceeds limit: %d chars", i, len(c))
		}
	}

	// The oversize paragraph hard-wraps into 100+100+50.
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, strings.Repeat("y", 50)) {
		t.Errorf("Hard-wrapped slices lost content")
	}
	if got := strings.Count(joined, "y"); got != 250 {
		t.Errorf("Expected 250 y's across chunks, got %d", got)
	}
}

func TestChunkForSpeechCoversWithoutGaps(t *testing.T) {
	// 10,000 chars as twenty 500-char paragraphs with a 3900 limit: every
	// chunk fits and the full text is covered in order.
	paragraph := strings.Repeat("z", 500)
	parts := make([]string, 20)
	for i := range parts {
		parts[i] = paragraph
	}
	text := strings.Join(parts, "\n\n")

	chunks := ChunkForSpeech(text, 3900)
	if len(chunks) == 0 {
		t.Fatal("Expected chunks, got none")
	}

	total := 0
	for i, c := range chunks {
		if len(c) > 3900 {
			t.Errorf("Chunk %d exceeds limit: %d chars", i, len(c))
		}
		total += strings.Count(c, "z")
	}
	if total != 20*500 {
		t.Errorf("Expected %d content chars across chunks, got %d", 20*500, total)
	}

	// Paragraph boundaries preserved: concatenating with separators restores
	// the original text.
	if got := strings.Join(chunks, "\n\n"); got != text {
		t.Errorf("Chunks do not reconstruct the input (got %d chars, want %d)", len(got), len(text))
	}
}

func TestChunkForSpeechEmpty(t *testing.T) {
	if chunks := ChunkForSpeech("   \n\n  ", 100); chunks != nil {
		t.Errorf("Expected nil for blank input, got %v", chunks)
	}
}
