package weeklypodcast

import (
	"strings"
	"testing"
)

func TestSplitEpisodesAllAnchors(t *testing.T) {
	text := episodeAnchors[0] + "\nIn the beginning was the big picture.\n\n" +
		episodeAnchors[1] + "\nVerse by verse we walk.\n\n" +
		episodeAnchors[2] + "\nThree doctrines stand out.\n\n" +
		episodeAnchors[3] + "\nAnd here is how it applies today."

	episodes := SplitEpisodes(text)
	if len(episodes) != ExpectedEpisodes {
		t.Fatalf("Expected %d episodes, got %d", ExpectedEpisodes, len(episodes))
	}

	for i, ep := range episodes {
		if ep.Index != i+1 {
			t.Errorf("Episode %d has index %d", i, ep.Index)
		}
		if !strings.HasPrefix(ep.Text, ep.Header) {
			t.Errorf("Episode %d text does not start with its header", ep.Index)
		}
	}

	if !strings.Contains(episodes[3].Text, "applies today") {
		t.Errorf("Last episode lost its tail: %q", episodes[3].Text)
	}
}

func TestSplitEpisodesRoundTrip(t *testing.T) {
	// Spans abut exactly, so trimming is the identity and positional
	// concatenation must reconstruct the input.
	spans := []string{
		episodeAnchors[0] + "\nalpha",
		episodeAnchors[1] + "\nbravo",
		episodeAnchors[2] + "\ncharlie",
		episodeAnchors[3] + "\ndelta",
	}
	text := strings.Join(spans, "")

	episodes := SplitEpisodes(text)
	if len(episodes) != ExpectedEpisodes {
		t.Fatalf("Expected %d episodes, got %d", ExpectedEpisodes, len(episodes))
	}

	var rebuilt strings.Builder
	for _, ep := range episodes {
		rebuilt.WriteString(ep.Text)
	}
	if rebuilt.String() != text {
		t.Errorf("Round trip mismatch:\nwant %q\ngot  %q", text, rebuilt.String())
	}
}

func TestSplitEpisodesOutOfOrderAnchors(t *testing.T) {
	// The generator emitted headers out of declaration order; the split must
	// still produce positionally correct contiguous spans.
	text := episodeAnchors[2] + "\ncharlie\n" +
		episodeAnchors[0] + "\nalpha\n" +
		episodeAnchors[3] + "\ndelta\n" +
		episodeAnchors[1] + "\nbravo"

	episodes := SplitEpisodes(text)
	if len(episodes) != ExpectedEpisodes {
		t.Fatalf("Expected %d episodes, got %d", ExpectedEpisodes, len(episodes))
	}

	wantHeaders := []string{episodeAnchors[2], episodeAnchors[0], episodeAnchors[3], episodeAnchors[1]}
	for i, ep := range episodes {
		if ep.Header != wantHeaders[i] {
			t.Errorf("Position %d: expected header %q, got %q", i, wantHeaders[i], ep.Header)
		}
	}
}

func TestSplitEpisodesPartialAnchors(t *testing.T) {
	tests := []struct {
		name    string
		anchors []string
	}{
		{"no anchors", nil},
		{"one anchor", episodeAnchors[:1]},
		{"three of four", episodeAnchors[:3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			b.WriteString("Some preamble.\n")
			for _, a := range tt.anchors {
				b.WriteString(a + "\nbody text\n")
			}

			if episodes := SplitEpisodes(b.String()); episodes != nil {
				t.Errorf("Expected nil for partial split, got %d episodes", len(episodes))
			}
		})
	}
}
