package application

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// Section names, in document order.
const (
	SectionRSS     = "rss"
	SectionComics  = "comics"
	SectionWeather = "weather"
)

// SectionsFile is the generated markup file inside the build directory.
const SectionsFile = "sections.sil"

// BuildSources lists what the sections pull from.
type BuildSources struct {
	RSSFeeds      []string
	RSSTTL        time.Duration
	ComicFeeds    []string
	ComicFeedTTL  time.Duration
	ComicsPerFeed int
	ComicsTotal   int
}

// BuildOptions configures a single build
type BuildOptions struct {
	Official    bool
	SkipTypeset bool
	Sections    []string // subset of enabled sections, empty for all
	BuildDir    string
	Entrypoint  string
	Output      string
	DataJSON    string
}

// SectionResult reports how one section went.
type SectionResult struct {
	Name     string
	Markup   string
	Data     any
	Err      error // set when the section fell back to a placeholder
	Duration time.Duration
}

// BuildResult summarizes a finished build
type BuildResult struct {
	RunID        string
	GeneratedAt  time.Time
	Cutoff       time.Time
	Official     bool
	Sections     []SectionResult
	SectionsPath string
	DataJSON     string
	Output       string
	Typeset      bool // the PDF was compiled
	Recorded     bool // the run was recorded as official
}

// Failed returns the sections that fell back to a placeholder.
func (r *BuildResult) Failed() []SectionResult {
	var out []SectionResult
	for _, s := range r.Sections {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// ProgressSink receives section updates. Methods may be called from
// several goroutines at once.
type ProgressSink interface {
	SectionStarted(name string)
	SectionFinished(result SectionResult)
}

type nopSink struct{}

func (nopSink) SectionStarted(string)        {}
func (nopSink) SectionFinished(SectionResult) {}

type sectionBuilder struct {
	name  string
	title string
	build func(ctx context.Context, cutoff time.Time) (markup string, data any, err error)
}

// BuildService assembles the brief: sections, data JSON and PDF.
type BuildService struct {
	cutoff     *CutoffService
	feeds      *FeedService
	comics     *ComicsService
	weather    *WeatherService
	renderer   ports.Renderer
	typesetter ports.Typesetter
	sources    BuildSources

	fs       afero.Fs
	now      func() time.Time
	newRunID func() string
}

// NewBuildService creates a build service. comics and weather may be nil to
// disable those sections.
func NewBuildService(
	cutoff *CutoffService,
	feeds *FeedService,
	comics *ComicsService,
	weather *WeatherService,
	renderer ports.Renderer,
	typesetter ports.Typesetter,
	sources BuildSources,
) *BuildService {
	return &BuildService{
		cutoff:     cutoff,
		feeds:      feeds,
		comics:     comics,
		weather:    weather,
		renderer:   renderer,
		typesetter: typesetter,
		sources:    sources,
		fs:         afero.NewOsFs(),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

func (s *BuildService) builders() []sectionBuilder {
	var out []sectionBuilder

	if s.feeds != nil && len(s.sources.RSSFeeds) > 0 {
		out = append(out, sectionBuilder{name: SectionRSS, title: "News", build: s.buildRSS})
	}
	if s.feeds != nil && s.comics != nil && len(s.sources.ComicFeeds) > 0 {
		out = append(out, sectionBuilder{name: SectionComics, title: "Comics", build: s.buildComics})
	}
	if s.weather != nil {
		out = append(out, sectionBuilder{name: SectionWeather, title: "Weather", build: s.buildWeather})
	}
	return out
}

// SectionNames returns the sections this service can build, in order.
func (s *BuildService) SectionNames() []string {
	var names []string
	for _, b := range s.builders() {
		names = append(names, b.name)
	}
	return names
}

func (s *BuildService) selected(names []string) ([]sectionBuilder, error) {
	all := s.builders()
	if len(names) == 0 {
		return all, nil
	}

	var out []sectionBuilder
	for _, name := range names {
		if !slices.ContainsFunc(all, func(b sectionBuilder) bool { return b.name == name }) {
			return nil, fmt.Errorf("unknown or disabled section %q", name)
		}
	}
	for _, b := range all {
		if slices.Contains(names, b.name) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Build runs every selected section, writes the markup and data JSON, and
// compiles the PDF unless opts.SkipTypeset. Section failures degrade to
// placeholders; only IO and typesetting failures are returned. An official
// build that completes is recorded so the next brief starts after it.
func (s *BuildService) Build(ctx context.Context, opts BuildOptions, sink ProgressSink) (*BuildResult, error) {
	if sink == nil {
		sink = nopSink{}
	}

	builders, err := s.selected(opts.Sections)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		RunID:       s.newRunID(),
		GeneratedAt: s.now().UTC(),
		Official:    opts.Official,
	}

	result.Cutoff, err = s.cutoff.Cutoff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cutoff: %w", err)
	}

	logger.Info("build started", "run_id", result.RunID, "official", opts.Official,
		"cutoff", result.Cutoff, "sections", len(builders))

	result.Sections = s.runSections(ctx, builders, result.Cutoff, sink)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.SectionsPath = filepath.Join(opts.BuildDir, SectionsFile)
	if err := s.writeSections(result); err != nil {
		return result, err
	}

	result.DataJSON = opts.DataJSON
	if err := s.writeData(result); err != nil {
		return result, err
	}

	if !opts.SkipTypeset {
		err := s.typesetter.Compile(ctx, ports.CompileOpts{
			Entrypoint: opts.Entrypoint,
			Output:     opts.Output,
			DataJSON:   opts.DataJSON,
		})
		if err != nil {
			return result, err
		}
		result.Output = opts.Output
		result.Typeset = true
	}

	if opts.Official {
		if err := s.cutoff.Record(ctx, result.GeneratedAt, result.RunID); err != nil {
			return result, fmt.Errorf("failed to record official run: %w", err)
		}
		result.Recorded = true
	}

	logger.Info("build finished", "run_id", result.RunID, "failed_sections", len(result.Failed()))
	return result, nil
}

func (s *BuildService) runSections(ctx context.Context, builders []sectionBuilder, cutoff time.Time, sink ProgressSink) []SectionResult {
	results := make([]SectionResult, len(builders))

	var g errgroup.Group
	for i, b := range builders {
		g.Go(func() error {
			sink.SectionStarted(b.name)
			start := time.Now()

			markup, data, err := b.build(ctx, cutoff)
			if err != nil {
				logger.Warn("section failed", "section", b.name, "error", err)
				markup = s.renderer.Placeholder(b.name, b.title, err)
				data = map[string]string{"error": err.Error()}
			}

			results[i] = SectionResult{
				Name:     b.name,
				Markup:   markup,
				Data:     data,
				Err:      err,
				Duration: time.Since(start),
			}
			sink.SectionFinished(results[i])
			return nil // failures become placeholders
		})
	}
	_ = g.Wait()

	return results
}

func (s *BuildService) buildRSS(ctx context.Context, cutoff time.Time) (string, any, error) {
	sections, err := s.feeds.Sections(ctx, s.sources.RSSFeeds, FeedOptions{
		Prefix: RSSFeedPrefix,
		TTL:    s.sources.RSSTTL,
		Since:  cutoff,
	})
	if err != nil {
		return "", nil, err
	}
	return s.renderer.RSS(sections), sections, nil
}

func (s *BuildService) buildComics(ctx context.Context, cutoff time.Time) (string, any, error) {
	sections, err := s.feeds.Sections(ctx, s.sources.ComicFeeds, FeedOptions{
		Prefix:       ComicFeedPrefix,
		TTL:          s.sources.ComicFeedTTL,
		Since:        cutoff,
		PerFeedLimit: s.sources.ComicsPerFeed,
		TotalLimit:   s.sources.ComicsTotal,
	})
	if err != nil {
		return "", nil, err
	}

	entries, err := s.comics.Entries(ctx, Items(sections))
	if err != nil {
		return "", nil, err
	}
	return s.renderer.Comics(entries), entries, nil
}

func (s *BuildService) buildWeather(ctx context.Context, _ time.Time) (string, any, error) {
	f, err := s.weather.Forecast(ctx)
	if err != nil {
		return "", nil, err
	}
	data := struct {
		Forecast *domain.Forecast       `json:"forecast"`
		Summary  domain.ForecastSummary `json:"summary"`
	}{f, f.Summary()}
	return s.renderer.Weather(f), data, nil
}

func (s *BuildService) writeSections(result *BuildResult) error {
	blocks := make([]string, len(result.Sections))
	for i, sec := range result.Sections {
		blocks[i] = sec.Markup
	}
	return s.writeFile(result.SectionsPath, []byte(s.renderer.Document(blocks...)))
}

func (s *BuildService) writeData(result *BuildResult) error {
	if result.DataJSON == "" {
		return nil
	}

	sections := make(map[string]any, len(result.Sections))
	for _, sec := range result.Sections {
		sections[sec.Name] = sec.Data
	}

	doc := map[string]any{
		"generated_at": result.GeneratedAt.Format(time.RFC3339),
		"run_id":       result.RunID,
		"official":     result.Official,
		"cutoff":       result.Cutoff.Format(time.RFC3339),
		"sections":     sections,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data json: %w", err)
	}
	return s.writeFile(result.DataJSON, data)
}

func (s *BuildService) writeFile(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
