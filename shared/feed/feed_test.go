package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/bur98022/cfm-personal-podcast/internal/models"
)

func testArtifacts() []models.AudioArtifact {
	return []models.AudioArtifact{
		{WeekTag: "week-2026-01-05", EpisodeIndex: 1, FileName: "W02_E01.mp3", Data: []byte("audio-one")},
		{WeekTag: "week-2026-01-05", EpisodeIndex: 2, FileName: "W02_E02.mp3", Data: []byte("audio-two!")},
		{WeekTag: "week-2026-01-05", EpisodeIndex: 3, FileName: "W02_E03.mp3", Data: []byte("audio-three")},
		{WeekTag: "week-2026-01-05", EpisodeIndex: 4, FileName: "W02_E04.mp3", Data: []byte("audio-four")},
	}
}

func newTestDocument(t *testing.T) (*Document, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "podcast.xml")
	doc, err := Load(path, "CFM Personal Podcast", "Weekly companion episodes.", "https://example.com", "https://example.com/releases")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return doc, path
}

func TestAppendWeekOrdering(t *testing.T) {
	doc, _ := newTestDocument(t)
	now := time.Date(2026, 1, 3, 6, 0, 0, 0, time.UTC)

	added := doc.AppendWeek("week-2026-01-05", "2026-01-05 to 2026-01-11", testArtifacts(), now)
	if added != 4 {
		t.Fatalf("Expected 4 items added, got %d", added)
	}

	// Head insertion in filename-descending order leaves the document
	// ascending: episode 1 first.
	items := doc.rss.Channel.Items
	for i, item := range items {
		want := []string{"W02_E01", "W02_E02", "W02_E03", "W02_E04"}[i]
		if !strings.Contains(item.Title, want) {
			t.Errorf("Item %d: expected title containing %s, got %q", i, want, item.Title)
		}
	}

	// All items of one run share a pubDate.
	for _, item := range items {
		if item.PubDate != items[0].PubDate {
			t.Errorf("Items in one run must share a pubDate: %q vs %q", item.PubDate, items[0].PubDate)
		}
	}
}

func TestAppendWeekNewBlockPrecedesOldItems(t *testing.T) {
	doc, _ := newTestDocument(t)
	now := time.Date(2026, 1, 3, 6, 0, 0, 0, time.UTC)

	doc.AppendWeek("week-2026-01-05", "2026-01-05 to 2026-01-11", testArtifacts(), now)

	later := []models.AudioArtifact{
		{WeekTag: "week-2026-01-12", EpisodeIndex: 1, FileName: "W03_E01.mp3", Data: []byte("a")},
		{WeekTag: "week-2026-01-12", EpisodeIndex: 2, FileName: "W03_E02.mp3", Data: []byte("b")},
	}
	doc.AppendWeek("week-2026-01-12", "2026-01-12 to 2026-01-18", later, now.AddDate(0, 0, 7))

	items := doc.rss.Channel.Items
	if len(items) != 6 {
		t.Fatalf("Expected 6 items, got %d", len(items))
	}
	if !strings.Contains(items[0].GUID.Value, "W03_E01") || !strings.Contains(items[1].GUID.Value, "W03_E02") {
		t.Errorf("Newest run's items must precede all older items: %q, %q", items[0].GUID.Value, items[1].GUID.Value)
	}
	if !strings.Contains(items[2].GUID.Value, "W02_E01") {
		t.Errorf("Older block must follow the new one, got %q", items[2].GUID.Value)
	}
}

func TestAppendWeekIdempotent(t *testing.T) {
	doc, path := newTestDocument(t)
	now := time.Now()

	if added := doc.AppendWeek("week-2026-01-05", "2026-01-05 to 2026-01-11", testArtifacts(), now); added != 4 {
		t.Fatalf("First append: expected 4, got %d", added)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Reload and append the same artifact set again.
	doc2, err := Load(path, "CFM Personal Podcast", "Weekly companion episodes.", "https://example.com", "https://example.com/releases")
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if added := doc2.AppendWeek("week-2026-01-05", "2026-01-05 to 2026-01-11", testArtifacts(), now.Add(time.Hour)); added != 0 {
		t.Errorf("Second append must be a no-op, got %d items added", added)
	}
	if doc2.ItemCount() != 4 {
		t.Errorf("Item count must not grow on re-append, got %d", doc2.ItemCount())
	}
}

func TestSavedFeedParsesAsRSS(t *testing.T) {
	doc, path := newTestDocument(t)
	doc.AppendWeek("week-2026-01-05", "2026-01-05 to 2026-01-11", testArtifacts(), time.Now())
	if err := doc.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		t.Fatalf("Emitted feed does not parse as RSS: %v", err)
	}

	if parsed.Title != "CFM Personal Podcast" {
		t.Errorf("Expected channel title, got %q", parsed.Title)
	}
	if len(parsed.Items) != 4 {
		t.Fatalf("Expected 4 parsed items, got %d", len(parsed.Items))
	}

	first := parsed.Items[0]
	if first.GUID != "week-2026-01-05:W02_E01.mp3" {
		t.Errorf("Unexpected guid: %q", first.GUID)
	}
	if len(first.Enclosures) != 1 {
		t.Fatalf("Expected 1 enclosure, got %d", len(first.Enclosures))
	}
	enc := first.Enclosures[0]
	if enc.URL != "https://example.com/releases/week-2026-01-05/W02_E01.mp3" {
		t.Errorf("Unexpected enclosure URL: %q", enc.URL)
	}
	if enc.Type != "audio/mpeg" {
		t.Errorf("Unexpected enclosure type: %q", enc.Type)
	}
	if enc.Length != "9" { // len("audio-one")
		t.Errorf("Unexpected enclosure length: %q", enc.Length)
	}
}

func TestLoadRejectsCorruptFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podcast.xml")
	if err := os.WriteFile(path, []byte("not xml at all"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, "t", "d", "l", "b"); err == nil {
		t.Fatal("Expected error for corrupt feed; overwriting it would orphan published episodes")
	}
}
