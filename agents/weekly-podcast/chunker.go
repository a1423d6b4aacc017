package weeklypodcast

import "strings"

// showNotesMarker introduces the trailing notes section of an episode
// script. Notes are written for readers and never voiced.
const showNotesMarker = "=== SHOW NOTES ==="

// StripShowNotes returns the narration portion of an episode script: the
// text with any trailing show-notes section removed.
func StripShowNotes(text string) string {
	if idx := strings.Index(text, showNotesMarker); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ChunkForSpeech splits narration text into chunks no longer than maxChars,
// preferring blank-line paragraph boundaries. Paragraphs are packed greedily:
// a chunk grows while the next paragraph (plus its separating blank line)
// still fits, then closes and the paragraph starts the next chunk. A single
// paragraph longer than maxChars is hard-wrapped into maxChars-size slices
// with no attempt at sentence boundaries.
func ChunkForSpeech(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current string

	flush := func() {
		if c := strings.TrimSpace(current); c != "" {
			chunks = append(chunks, c)
		}
		current = ""
	}

	for _, p := range paragraphs {
		if len(p) > maxChars {
			flush()
			for start := 0; start < len(p); start += maxChars {
				end := start + maxChars
				if end > len(p) {
					end = len(p)
				}
				chunks = append(chunks, strings.TrimSpace(p[start:end]))
			}
			continue
		}

		switch {
		case current == "":
			current = p
		case len(current)+2+len(p) <= maxChars:
			current = current + "\n\n" + p
		default:
			flush()
			current = p
		}
	}

	flush()
	return chunks
}
