package weeklypodcast

import (
	"errors"
	"sort"
	"strings"

	"github.com/bur98022/cfm-personal-podcast/internal/models"
)

// episodeAnchors are the literal headers the master prompt instructs the
// model to emit, one per episode. The splitter depends on these exact
// strings appearing in the generated text.
var episodeAnchors = []string{
	"=== EPISODE 1: BIG PICTURE & CONTEXT ===",
	"=== EPISODE 2: SCRIPTURE WALKTHROUGH ===",
	"=== EPISODE 3: DOCTRINES & PRINCIPLES ===",
	"=== EPISODE 4: MODERN LIFE APPLICATION ===",
}

// ErrSplitMismatch signals that the generated text did not contain all
// episode anchors. A partial split is never accepted; it would pair episode
// audio with the wrong text.
var ErrSplitMismatch = errors.New("generated text did not split into the expected episodes")

// ExpectedEpisodes is the fixed number of episodes per week, one per anchor.
const ExpectedEpisodes = 4

// SplitEpisodes cuts the combined generation output into one segment per
// anchor. It returns nil unless every anchor is found exactly — a 3-of-4
// split is treated identically to a 0-of-4 split. Segments are ordered by
// anchor position in the text, not anchor declaration order, so out-of-order
// headers still yield positionally correct, contiguous spans.
func SplitEpisodes(allText string) []models.EpisodeScript {
	type mark struct {
		pos    int
		header string
	}

	var marks []mark
	for _, anchor := range episodeAnchors {
		if idx := strings.Index(allText, anchor); idx != -1 {
			marks = append(marks, mark{pos: idx, header: anchor})
		}
	}

	if len(marks) != ExpectedEpisodes {
		return nil
	}

	sort.Slice(marks, func(i, j int) bool { return marks[i].pos < marks[j].pos })

	episodes := make([]models.EpisodeScript, 0, len(marks))
	for i, m := range marks {
		end := len(allText)
		if i+1 < len(marks) {
			end = marks[i+1].pos
		}
		episodes = append(episodes, models.EpisodeScript{
			Index:  i + 1,
			Header: m.header,
			Text:   strings.TrimSpace(allText[m.pos:end]),
		})
	}

	return episodes
}
