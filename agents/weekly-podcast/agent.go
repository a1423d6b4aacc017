package weeklypodcast

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bur98022/cfm-personal-podcast/internal/models"
	"github.com/bur98022/cfm-personal-podcast/shared/ai"
	"github.com/bur98022/cfm-personal-podcast/shared/config"
	"github.com/bur98022/cfm-personal-podcast/shared/feed"
	"github.com/bur98022/cfm-personal-podcast/shared/fetch"
	"github.com/bur98022/cfm-personal-podcast/shared/scheduler"
	"github.com/bur98022/cfm-personal-podcast/shared/storage"
)

// ScriptWriter generates and rewrites episode scripts.
type ScriptWriter interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Expand(ctx context.Context, text string, minWords, maxWords int) (string, error)
	Shorten(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// SpeechSynthesizer renders one chunk of narration text as audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Publisher is the remote storage the run publishes into.
type Publisher interface {
	FindOrCreateFolder(ctx context.Context, name, parentID string) (string, error)
	UploadBytes(ctx context.Context, parentID, name string, content []byte, mimeType string) (string, error)
	UploadText(ctx context.Context, parentID, name, text string) (string, error)
	Exists(ctx context.Context, parentID, name string) (bool, error)
}

// SourceFetcher retrieves the week's source curriculum text.
type SourceFetcher interface {
	FetchWeekText(ctx context.Context, url string) (string, error)
}

// PodcastMetrics represents the outcome of one weekly run
type PodcastMetrics struct {
	WeekNumber        int   `json:"week_number"`
	Skipped           bool  `json:"skipped"`
	EpisodesPublished int   `json:"episodes_published"`
	FeedItemsAdded    int   `json:"feed_items_added"`
	WordCounts        []int `json:"word_counts"`
	AudioBytes        int   `json:"audio_bytes"`
	DegradedPublish   bool  `json:"degraded_publish"`
}

// GetSummary implements the scheduler.Metrics interface
func (m PodcastMetrics) GetSummary() string {
	if m.Skipped {
		return fmt.Sprintf("week %d already published, nothing to do", m.WeekNumber)
	}
	summary := fmt.Sprintf("week %d: %d episodes, %d feed items, %d audio bytes (word counts %v)",
		m.WeekNumber, m.EpisodesPublished, m.FeedItemsAdded, m.AudioBytes, m.WordCounts)
	if m.DegradedPublish {
		summary += " [local output only, Drive unavailable]"
	}
	return summary
}

// PodcastAgent implements the scheduler.Agent interface. One run converts one
// week's source text into narrated episodes and publishes them idempotently.
type PodcastAgent struct {
	config *config.Config
	// Force permits regenerating a week whose audio already exists.
	Force bool

	writer    ScriptWriter
	speech    SpeechSynthesizer
	publisher Publisher
	fetcher   SourceFetcher

	catalog  []models.WeekRecord
	location *time.Location
	weekday  time.Weekday
	now      func() time.Time
}

func NewPodcastAgent(cfg *config.Config) *PodcastAgent {
	return &PodcastAgent{
		config: cfg,
		now:    time.Now,
	}
}

func (a *PodcastAgent) Name() string {
	return "Weekly Podcast Agent"
}

func (a *PodcastAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	loc, err := time.LoadLocation(a.config.Podcast.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}
	a.location = loc

	weekday, err := config.ParseWeekday(a.config.Podcast.ReleaseWeekday)
	if err != nil {
		return err
	}
	a.weekday = weekday

	catalog, err := LoadCatalog(a.config.Podcast.CatalogFile)
	if err != nil {
		return err
	}
	a.catalog = catalog
	log.Printf("Loaded catalog with %d weeks", len(catalog))

	if a.writer == nil {
		writer, err := ai.NewWriter(a.config)
		if err != nil {
			return fmt.Errorf("failed to create script writer: %w", err)
		}
		a.writer = writer
		log.Println("Script writer initialized")
	}

	if a.speech == nil {
		speech, err := ai.NewSpeech(a.config)
		if err != nil {
			return fmt.Errorf("failed to create speech client: %w", err)
		}
		a.speech = speech
		log.Println("Speech client initialized")
	}

	if a.publisher == nil {
		client, err := storage.NewDriveClient(&a.config.Drive)
		if err != nil {
			return fmt.Errorf("failed to create Drive client: %w", err)
		}
		a.publisher = client
		log.Println("Drive client initialized")
	}

	if a.fetcher == nil {
		a.fetcher = fetch.New(time.Duration(a.config.Podcast.FetchTimeout) * time.Second)
	}

	return nil
}

func (a *PodcastAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := PodcastMetrics{}

	fail := func(err error) error {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, time.Since(startTime))
		}
		return err
	}
	degrade := func(err error) {
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(err, time.Since(startTime))
		}
	}

	// Select the week to process
	now := a.now().In(a.location)
	week, err := SelectWeek(a.catalog, now, a.weekday)
	if err != nil {
		return fail(err)
	}
	metrics.WeekNumber = week.Week
	log.Printf("Selected Week %d: %s (%s)", week.Week, week.Title, week.Label())

	// Resolve the Drive layout. Failure here degrades to local-only output
	// rather than aborting: forward progress beats strict publishing.
	folders, err := a.resolveFolders(ctx, week)
	if err != nil {
		log.Printf("Warning: Drive folder resolution failed, continuing with local output only: %v", err)
		degrade(fmt.Errorf("drive folder resolution failed: %w", err))
		folders = nil
		metrics.DegradedPublish = true
	}

	// Publish gate: probe for the first episode's audio before any paid
	// generation work. A probe failure is treated as "not yet published".
	firstAudio := fmt.Sprintf("W%02d_E01.mp3", week.Week)
	if folders != nil {
		exists, err := a.publisher.Exists(ctx, folders.audio, firstAudio)
		if err != nil {
			log.Printf("Warning: publish probe for %s failed, assuming not yet published: %v", firstAudio, err)
			degrade(fmt.Errorf("publish probe failed: %w", err))
		} else if exists {
			if !a.Force {
				log.Printf("Week %d already published (%s exists); skipping. Use --force to regenerate.", week.Week, firstAudio)
				metrics.Skipped = true
				if events != nil && events.OnSuccess != nil {
					events.OnSuccess(metrics, time.Since(startTime))
				}
				return nil
			}
			log.Printf("Week %d already published but force is set; regenerating", week.Week)
		}
	}

	// Fetch source text
	log.Printf("Fetching source text: %s", week.URL)
	sourceText, err := a.fetcher.FetchWeekText(ctx, week.URL)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch source text: %w", err))
	}

	// Build the prompt and generate the combined script. One call, no retry.
	master, err := LoadMasterPrompt(a.config.Podcast.PromptFile)
	if err != nil {
		return fail(err)
	}
	prompt := BuildPrompt(master,
		fmt.Sprintf("Week %d: %s", week.Week, week.Title),
		week.Label(),
		week.ScriptureBlocks,
		sourceText,
	)

	log.Printf("Generating scripts (%d episodes)...", ExpectedEpisodes)
	allText, err := a.writer.Generate(ctx, prompt)
	if err != nil {
		return fail(fmt.Errorf("script generation failed: %w", err))
	}

	// Preserve the combined output before splitting so a bad split can be
	// inspected manually.
	if err := a.saveLocal(week.Tag(), "all_episodes.txt", []byte(allText)); err != nil {
		return fail(err)
	}
	if folders != nil {
		if _, err := a.publisher.UploadText(ctx, folders.scripts, "all_episodes.txt", allText); err != nil {
			log.Printf("Warning: failed to upload combined script: %v", err)
			degrade(fmt.Errorf("combined script upload failed: %w", err))
		}
	}

	episodes := SplitEpisodes(allText)
	if episodes == nil {
		return fail(fmt.Errorf("%w: check all_episodes.txt and adjust the prompt or splitter", ErrSplitMismatch))
	}

	// Per episode: normalize length, synthesize, publish.
	normalizer := NewNormalizer(a.writer, a.config.Podcast.MinWords, a.config.Podcast.MaxWords)
	artifacts := make([]models.AudioArtifact, 0, len(episodes))

	for i := range episodes {
		ep := &episodes[i]

		text, wordCount, err := normalizer.Normalize(ctx, ep.Text)
		if err != nil {
			return fail(fmt.Errorf("episode %d length normalization failed: %w", ep.Index, err))
		}
		ep.Text = text
		ep.WordCount = wordCount
		metrics.WordCounts = append(metrics.WordCounts, wordCount)
		log.Printf("Episode %d word count: %d", ep.Index, wordCount)

		scriptName := ep.ScriptFileName(week.Week)
		if err := a.saveLocal(week.Tag(), scriptName, []byte(ep.Text)); err != nil {
			return fail(err)
		}
		if folders != nil {
			if _, err := a.publisher.UploadText(ctx, folders.scripts, scriptName, ep.Text); err != nil {
				log.Printf("Warning: failed to upload %s: %v", scriptName, err)
				degrade(fmt.Errorf("script upload failed: %w", err))
			}
		}

		audio, err := a.synthesizeEpisode(ctx, ep)
		if err != nil {
			return fail(fmt.Errorf("episode %d audio generation failed: %w", ep.Index, err))
		}

		audioName := ep.AudioFileName(week.Week)
		if err := a.saveLocal(week.Tag(), audioName, audio); err != nil {
			return fail(err)
		}
		if folders != nil {
			if _, err := a.publisher.UploadBytes(ctx, folders.audio, audioName, audio, "audio/mpeg"); err != nil {
				return fail(fmt.Errorf("failed to upload %s: %w", audioName, err))
			}
		}

		artifacts = append(artifacts, models.AudioArtifact{
			WeekTag:      week.Tag(),
			EpisodeIndex: ep.Index,
			FileName:     audioName,
			Data:         audio,
		})
		metrics.AudioBytes += len(audio)
		log.Printf("Published %s (%d bytes)", audioName, len(audio))
	}
	metrics.EpisodesPublished = len(artifacts)

	// Append the week's items to the feed, deduplicated by GUID.
	added, err := a.appendToFeed(week, artifacts)
	if err != nil {
		return fail(err)
	}
	metrics.FeedItemsAdded = added

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	log.Printf("Weekly run complete: %s", metrics.GetSummary())

	return nil
}

// driveFolders holds the resolved Drive layout for one week:
// root → year → "Week NN - Title" → scripts/ and audio/.
type driveFolders struct {
	scripts string
	audio   string
}

func (a *PodcastAgent) resolveFolders(ctx context.Context, week *models.WeekRecord) (*driveFolders, error) {
	yearID, err := a.publisher.FindOrCreateFolder(ctx, a.config.Drive.YearFolder, a.config.Drive.RootFolderID)
	if err != nil {
		return nil, err
	}
	weekID, err := a.publisher.FindOrCreateFolder(ctx, week.FolderName(), yearID)
	if err != nil {
		return nil, err
	}
	scriptsID, err := a.publisher.FindOrCreateFolder(ctx, "scripts", weekID)
	if err != nil {
		return nil, err
	}
	audioID, err := a.publisher.FindOrCreateFolder(ctx, "audio", weekID)
	if err != nil {
		return nil, err
	}
	return &driveFolders{scripts: scriptsID, audio: audioID}, nil
}

// synthesizeEpisode converts one episode's narration into a single audio
// artifact. The narration is chunked under the provider's input ceiling;
// chunk audio is concatenated in order. Byte concatenation of independently
// encoded segments is a known approximation, playable in common podcast
// clients.
func (a *PodcastAgent) synthesizeEpisode(ctx context.Context, ep *models.EpisodeScript) ([]byte, error) {
	narration := StripShowNotes(ep.Text)
	chunks := ChunkForSpeech(narration, a.config.Podcast.MaxSpeechChars)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("episode %d has no narration text", ep.Index)
	}

	var audio []byte
	for i, chunk := range chunks {
		data, err := a.speech.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio = append(audio, data...)
	}

	return audio, nil
}

func (a *PodcastAgent) appendToFeed(week *models.WeekRecord, artifacts []models.AudioArtifact) (int, error) {
	doc, err := feed.Load(
		a.config.Feed.Path,
		"CFM Personal Podcast",
		"A weekly Come, Follow Me companion podcast.",
		a.config.Feed.ShowLink,
		a.config.Feed.BaseURL,
	)
	if err != nil {
		return 0, err
	}

	added := doc.AppendWeek(week.Tag(), week.Label(), artifacts, a.now())
	if err := doc.Save(); err != nil {
		return 0, err
	}

	log.Printf("Feed updated: %d new items, %d total", added, doc.ItemCount())
	return added, nil
}

// saveLocal writes an artifact under the run's output directory, grouped by
// week tag. Local copies survive even when Drive publishing is degraded.
func (a *PodcastAgent) saveLocal(weekTag, name string, data []byte) error {
	dir := filepath.Join(a.config.Podcast.OutputDir, weekTag)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
