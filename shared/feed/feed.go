// Package feed maintains the published podcast RSS document. The document is
// append-only: items are inserted at the head of the channel, keyed by a
// "weekTag:filename" GUID, and once written are never edited or removed.
package feed

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bur98022/cfm-personal-podcast/internal/models"
)

const rfc2822GMT = "Mon, 02 Jan 2006 15:04:05 GMT"

type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel *Channel `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Items       []Item `xml:"item"`
}

type Item struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Link        string    `xml:"link"`
	GUID        GUID      `xml:"guid"`
	PubDate     string    `xml:"pubDate"`
	Enclosure   Enclosure `xml:"enclosure"`
}

type GUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Document is the persisted feed plus the metadata needed to build new items.
type Document struct {
	path     string
	baseURL  string
	showLink string
	rss      *RSS
}

// Load reads the feed document at path. A missing file starts a new document
// with the given channel metadata; a present but unparseable one is an error
// (overwriting an existing feed would orphan published episodes).
func Load(path, title, description, showLink, baseURL string) (*Document, error) {
	doc := &Document{
		path:     path,
		baseURL:  baseURL,
		showLink: showLink,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read feed %s: %w", path, err)
		}
		doc.rss = &RSS{
			Version: "2.0",
			Channel: &Channel{
				Title:       title,
				Link:        showLink,
				Description: description,
			},
		}
		return doc, nil
	}

	var rss RSS
	if err := xml.Unmarshal(data, &rss); err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", path, err)
	}
	if rss.Channel == nil {
		return nil, fmt.Errorf("feed %s has no channel", path)
	}
	doc.rss = &rss
	return doc, nil
}

// ItemCount returns the number of items currently in the channel.
func (d *Document) ItemCount() int {
	return len(d.rss.Channel.Items)
}

// HasGUID reports whether an item with the given identity key is already
// published.
func (d *Document) HasGUID(guid string) bool {
	for _, item := range d.rss.Channel.Items {
		if item.GUID.Value == guid {
			return true
		}
	}
	return false
}

// AppendWeek inserts one item per artifact at the head of the channel,
// skipping artifacts whose GUID is already present. Artifacts are processed
// in filename-descending order so the final document reads ascending: the
// lowest episode number leads the new block, and the whole block precedes all
// prior entries. Every item added in one call shares the same pubDate.
// Returns the number of items actually added.
func (d *Document) AppendWeek(weekTag, weekLabel string, artifacts []models.AudioArtifact, now time.Time) int {
	sorted := make([]models.AudioArtifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FileName > sorted[j].FileName
	})

	pubDate := now.UTC().Format(rfc2822GMT)
	added := 0

	for _, a := range sorted {
		guid := weekTag + ":" + a.FileName
		if d.HasGUID(guid) {
			continue
		}

		item := Item{
			Title:       fmt.Sprintf("Week %s – %s", weekLabel, trimExt(a.FileName)),
			Description: fmt.Sprintf("Come, Follow Me companion episode (%s).", weekLabel),
			Link:        d.showLink,
			GUID:        GUID{IsPermaLink: "false", Value: guid},
			PubDate:     pubDate,
			Enclosure: Enclosure{
				URL:    fmt.Sprintf("%s/%s/%s", d.baseURL, weekTag, a.FileName),
				Length: int64(len(a.Data)),
				Type:   "audio/mpeg",
			},
		}

		d.rss.Channel.Items = append([]Item{item}, d.rss.Channel.Items...)
		added++
	}

	return added
}

// Save rewrites the feed document in one shot via a temp-file rename, so a
// crash mid-write can't leave a truncated feed behind.
func (d *Document) Save() error {
	data, err := xml.MarshalIndent(d.rss, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create feed directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "podcast-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temp feed file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close feed file: %w", err)
	}

	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace feed %s: %w", d.path, err)
	}
	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
