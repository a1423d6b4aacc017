package models

import "fmt"

// EpisodeScript is one episode's text, cut from the combined generation
// output at its anchor header. Index is 1-based and follows the position
// of the anchor in the text, not the order the anchors were declared in.
type EpisodeScript struct {
	Index  int
	Header string
	Text   string
	// WordCount is the count after length normalization. Zero until the
	// normalizer has run.
	WordCount int
}

// ScriptFileName returns the published name of the episode's final script,
// e.g. "W02_E01.txt".
func (e *EpisodeScript) ScriptFileName(week int) string {
	return fmt.Sprintf("W%02d_E%02d.txt", week, e.Index)
}

// AudioFileName returns the published name of the episode's audio,
// e.g. "W02_E01.mp3".
func (e *EpisodeScript) AudioFileName(week int) string {
	return fmt.Sprintf("W%02d_E%02d.mp3", week, e.Index)
}

// AudioArtifact is one finished episode recording, ready to publish.
type AudioArtifact struct {
	WeekTag      string
	EpisodeIndex int
	FileName     string
	Data         []byte
}
