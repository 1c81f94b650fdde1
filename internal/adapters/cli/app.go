package cli

import (
	"fmt"
	"strconv"

	"github.com/devbush/daybrief/internal/adapters/cache"
	"github.com/devbush/daybrief/internal/adapters/feeds"
	"github.com/devbush/daybrief/internal/adapters/imaging"
	"github.com/devbush/daybrief/internal/adapters/official"
	"github.com/devbush/daybrief/internal/adapters/openmeteo"
	"github.com/devbush/daybrief/internal/adapters/openrouter"
	"github.com/devbush/daybrief/internal/adapters/sile"
	"github.com/devbush/daybrief/internal/adapters/web"
	"github.com/devbush/daybrief/internal/application"
	"github.com/devbush/daybrief/internal/config"
	"github.com/devbush/daybrief/internal/ports"
)

// AppOptions are command-line overrides applied on top of the config file
type AppOptions struct {
	ConfigPath string
	FeedsFile  string
	Sile       string
}

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Durations  *config.Durations
	Cache      ports.CacheStore
	Official   *official.Store
	Typesetter *sile.Typesetter
	RSSFeeds   []string
	ComicFeeds []string

	CacheSvc  *application.CacheService
	CutoffSvc *application.CutoffService
	BuildSvc  *application.BuildService
}

// NewApp creates and wires up all dependencies
func NewApp(opts AppOptions) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.FeedsFile != "" {
		cfg.Feeds.File = opts.FeedsFile
	}
	if opts.Sile != "" {
		cfg.Paths.Sile = opts.Sile
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	dur, err := cfg.Durations()
	if err != nil {
		return nil, err
	}

	rssFeeds, err := config.CollectFeeds(cfg.Feeds.RSS, cfg.Feeds.File)
	if err != nil {
		return nil, err
	}
	comicFeeds, err := config.CollectFeeds(cfg.Feeds.Comics, "")
	if err != nil {
		return nil, err
	}

	// Adapters
	cacheStore := cache.NewFileCache(cfg.Paths.CacheDir)
	officialStore := official.NewStore(cfg.Paths.CacheDir)
	fetcher := web.NewFetcher()
	extractor := openrouter.NewExtractor(cfg.LLM.Token, cfg.LLM.BaseURL, cfg.LLM.Model)
	typesetter := sile.NewTypesetter(cfg.Paths.Sile)

	// Services
	cacheSvc := application.NewCacheService(cacheStore)
	cutoffSvc := application.NewCutoffService(officialStore, dur.CutoffWindow)
	feedSvc := application.NewFeedService(cacheSvc, fetcher, feeds.NewParser(), cfg.Build.Concurrency)
	imageSvc := application.NewImageService(cacheSvc, fetcher, imaging.NewConverter(), cfg.Paths.ImagesDir, dur.Image)
	comicsSvc := application.NewComicsService(cacheSvc, fetcher, extractor, imageSvc, dur.ComicsExtraction, cfg.Build.Concurrency)

	var weatherSvc *application.WeatherService
	if cfg.Weather.Enabled {
		weatherSvc = application.NewWeatherService(cacheSvc, openmeteo.NewClient(fetcher),
			cfg.Weather.Latitude, cfg.Weather.Longitude, dur.Weather)
	}

	buildSvc := application.NewBuildService(cutoffSvc, feedSvc, comicsSvc, weatherSvc, sile.Markup{}, typesetter,
		application.BuildSources{
			RSSFeeds:      rssFeeds,
			RSSTTL:        dur.RSSFeed,
			ComicFeeds:    comicFeeds,
			ComicFeedTTL:  dur.ComicsFeed,
			ComicsPerFeed: cfg.Build.ComicsPerFeed,
			ComicsTotal:   cfg.Build.ComicsTotal,
		})

	return &App{
		Config:     cfg,
		Durations:  dur,
		Cache:      cacheStore,
		Official:   officialStore,
		Typesetter: typesetter,
		RSSFeeds:   rssFeeds,
		ComicFeeds: comicFeeds,
		CacheSvc:   cacheSvc,
		CutoffSvc:  cutoffSvc,
		BuildSvc:   buildSvc,
	}, nil
}

// SectionHint describes what a section pulls from, for pickers and status
func (a *App) SectionHint(name string) string {
	switch name {
	case application.SectionRSS:
		return fmt.Sprintf("%d feeds", len(a.RSSFeeds))
	case application.SectionComics:
		return fmt.Sprintf("%d feeds", len(a.ComicFeeds))
	case application.SectionWeather:
		return strconv.FormatFloat(a.Config.Weather.Latitude, 'f', -1, 64) + ", " +
			strconv.FormatFloat(a.Config.Weather.Longitude, 'f', -1, 64)
	}
	return ""
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed
func GetApp() (*App, error) {
	if globalApp == nil {
		app, err := NewApp(AppOptions{
			ConfigPath: configFlag,
			FeedsFile:  feedsFileFlag,
			Sile:       sileFlag,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize: %w", err)
		}
		globalApp = app
	}
	return globalApp, nil
}
