package weeklypodcast

import (
	"fmt"
	"os"
	"strings"
)

// LoadMasterPrompt reads the master prompt template from disk.
func LoadMasterPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read master prompt %s: %w", path, err)
	}
	return string(data), nil
}

// BuildPrompt substitutes the four named placeholders into the master
// template. Substitution happens exactly once per run; the result is the
// single opaque payload sent to the generation service.
func BuildPrompt(master, weekTitle, weekDates, scriptureBlocks, sourceText string) string {
	r := strings.NewReplacer(
		"{WEEK_TITLE}", weekTitle,
		"{WEEK_DATES}", weekDates,
		"{SCRIPTURE_BLOCKS}", scriptureBlocks,
		"{CFM_TEXT}", sourceText,
	)
	return r.Replace(master)
}
