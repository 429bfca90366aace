package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-ssg/internal/config"
	"github.com/goliatone/go-ssg/internal/content"
	"github.com/goliatone/go-ssg/internal/index"
	"github.com/goliatone/go-ssg/internal/logging"
	"github.com/goliatone/go-ssg/internal/markdown"
	"github.com/goliatone/go-ssg/internal/templates"
	"github.com/goliatone/go-ssg/pkg/interfaces"
)

const codePathCollision = "PATH_COLLISION"

var (
	// ErrContentRequired indicates no content filesystem was supplied.
	ErrContentRequired = errors.New("generator: content filesystem is required")
	// ErrLayoutsRequired indicates no layouts filesystem was supplied.
	ErrLayoutsRequired = errors.New("generator: layouts filesystem is required")
	// ErrWriterRequired indicates no artifact writer was supplied.
	ErrWriterRequired = errors.New("generator: artifact writer is required")
)

// Service describes the static site build contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// Dependencies lists the collaborators required by the builder. Content and
// Layouts are mandatory; the rest default to working implementations.
type Dependencies struct {
	Content  fs.FS
	Layouts  fs.FS
	Assets   fs.FS
	Writer   ArtifactWriter
	Renderer interfaces.TemplateRenderer
	Logger   interfaces.LoggerProvider
}

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	// Drafts includes posts marked draft in front matter.
	Drafts bool
	// Clean removes the output tree before writing.
	Clean bool
	// DryRun renders everything but writes nothing.
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID     string
	PagesBuilt  int
	IndexPages  int
	AssetsBuilt int
	Duration    time.Duration
	Rendered    []RenderedPage
	Diagnostics []RenderDiagnostic
	DryRun      bool
}

// NewService wires a builder with the provided site configuration and
// dependencies. Template filters register against pongo2's process-wide
// registry, so the first service's excerpt length and base URL apply to
// every later service in the same process.
func NewService(site config.Site, deps Dependencies) (Service, error) {
	if deps.Content == nil {
		return nil, ErrContentRequired
	}
	if deps.Layouts == nil {
		return nil, ErrLayoutsRequired
	}
	renderer := deps.Renderer
	if renderer == nil {
		engine := templates.NewEngine()
		if err := templates.RegisterSiteFilters(engine, templates.FilterOptions{
			ExcerptLength: site.Excerpt.Length,
			BaseURL:       site.NormalizedBaseURL(),
		}); err != nil {
			return nil, err
		}
		renderer = engine
	}

	return &service{
		site:     site,
		deps:     deps,
		renderer: renderer,
		parser:   markdown.NewGoldmarkParser(markdown.ParseOptions{}),
		themes:   newThemeSelector(themingConfig(site), nil),
		logger:   logging.BuildLogger(deps.Logger),
	}, nil
}

type service struct {
	site     config.Site
	deps     Dependencies
	renderer interfaces.TemplateRenderer
	parser   *markdown.GoldmarkParser
	themes   *themeSelector
	logger   interfaces.Logger
}

// Build runs the whole pipeline: load, index, resolve layouts, derive paths,
// render, and write. The build is a pure function of the source tree: the
// same inputs produce byte-identical outputs.
func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	start := time.Now()

	units, err := s.loadUnits(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Layout chains validate up front so cycles and dangling parents abort
	// before a single byte is written.
	store, err := templates.LoadLayoutsWithLogger(s.deps.Layouts, logging.TemplatesLogger(s.deps.Logger))
	if err != nil {
		return nil, err
	}

	posts := make([]*content.Unit, 0, len(units))
	for _, unit := range units {
		if unit.IsPost() {
			posts = append(posts, unit)
		}
	}
	sorted := index.Sort(posts)

	urls, err := newURLBuilder(s.site.Pagination.Path)
	if err != nil {
		return nil, err
	}

	pages, err := index.Paginate(sorted, s.site.Pagination.Size, urls.PageURL)
	if err != nil {
		return nil, err
	}
	logging.IndexLogger(s.deps.Logger).Debug("posts indexed",
		"posts", len(sorted),
		"index_pages", len(pages),
		"page_size", s.site.Pagination.Size,
	)

	routes, err := s.deriveRoutes(units, pages)
	if err != nil {
		return nil, err
	}

	generatedAt := deterministicBuildTime(units)

	if err := s.installGlobalContext(generatedAt); err != nil {
		return nil, err
	}

	rendered, diagnostics, err := s.renderAll(ctx, units, sorted, pages, routes, store, generatedAt)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		BuildID:     buildID(rendered),
		PagesBuilt:  len(units),
		IndexPages:  len(pages),
		Rendered:    rendered,
		Diagnostics: diagnostics,
		DryRun:      opts.DryRun,
	}

	if !opts.DryRun {
		if s.deps.Writer == nil {
			return nil, ErrWriterRequired
		}
		if opts.Clean {
			if err := s.deps.Writer.Clean(ctx); err != nil {
				return nil, fmt.Errorf("generator: clean output: %w", err)
			}
		}
		if err := s.deps.Writer.EnsureDir(ctx, "."); err != nil {
			return nil, fmt.Errorf("generator: ensure output root: %w", err)
		}

		if err := s.writePages(ctx, rendered); err != nil {
			return nil, err
		}

		assetsBuilt, err := copyAssets(ctx, s.deps.Assets, s.deps.Writer)
		if err != nil {
			return nil, err
		}
		result.AssetsBuilt = assetsBuilt

		if err := s.writeFeed(ctx, sorted, routes, generatedAt); err != nil {
			return nil, err
		}
		if err := s.writeSitemap(ctx, rendered, generatedAt); err != nil {
			return nil, err
		}
		if err := s.writeManifest(ctx, result.BuildID, generatedAt, rendered); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("build complete",
		"pages", result.PagesBuilt,
		"index_pages", result.IndexPages,
		"assets", result.AssetsBuilt,
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (s *service) loadUnits(ctx context.Context, opts BuildOptions) ([]*content.Unit, error) {
	loader := content.NewLoader(s.deps.Content, content.LoaderConfig{
		PostsDir:          s.site.Content.PostsDir,
		DefaultPostLayout: s.site.Layouts.Post,
		DefaultPageLayout: s.site.Layouts.Page,
		Logger:            logging.ContentLogger(s.deps.Logger),
	})

	units, err := loader.LoadTree(ctx)
	if err != nil {
		return nil, err
	}

	if opts.Drafts {
		return units, nil
	}

	published := units[:0]
	for _, unit := range units {
		if unit.FrontMatter.Draft {
			s.logger.Debug("skipping draft", "source", unit.SourcePath)
			continue
		}
		published = append(published, unit)
	}
	return published, nil
}

// deriveRoutes computes every output location up front and rejects
// collisions before rendering begins. Silent overwrites lose content.
func (s *service) deriveRoutes(units []*content.Unit, pages []*index.Page) (map[string]string, error) {
	routes := make(map[string]string, len(units))
	owners := make(map[string]string, len(units)+len(pages))

	claim := func(output, owner string) error {
		if existing, ok := owners[output]; ok {
			err := fmt.Errorf("generator: output path %q claimed by both %s and %s", output, existing, owner)
			return goerrors.Wrap(err, goerrors.CategoryValidation, "output path collision").
				WithTextCode(codePathCollision)
		}
		owners[output] = owner
		return nil
	}

	// Generated artifacts reserve their outputs first so a permalink aimed
	// at feed.xml or the sitemap fails instead of being overwritten.
	if s.site.Feed.Enabled {
		if err := claim(s.feedOutputPath(), "rss feed"); err != nil {
			return nil, err
		}
	}
	if s.site.Sitemap {
		if err := claim(sitemapFileName, "sitemap"); err != nil {
			return nil, err
		}
	}
	if err := claim(manifestFileName, "build manifest"); err != nil {
		return nil, err
	}

	for _, unit := range units {
		route, err := routeForUnit(unit)
		if err != nil {
			return nil, err
		}
		routes[unit.SourcePath] = route
		if err := claim(outputPathForRoute(route), unit.SourcePath); err != nil {
			return nil, err
		}
	}

	for _, page := range pages {
		output := outputPathForRoute(page.URL)
		if err := claim(output, fmt.Sprintf("blog index page %d", page.Number)); err != nil {
			return nil, err
		}
	}

	return routes, nil
}

func (s *service) installGlobalContext(generatedAt time.Time) error {
	selection, err := s.themes.Selection(s.site.Theme.Dir, s.site.Theme.Name, s.site.Theme.Variant)
	if err != nil {
		return err
	}

	// The build id derives from the rendered output, so templates only see
	// the generation timestamp here.
	return s.renderer.GlobalContext(map[string]any{
		"site":  s.site.TemplateContext(),
		"theme": themeContextData(selection, themingConfig(s.site)),
		"build": buildContextData("", generatedAt),
	})
}

func (s *service) renderAll(
	ctx context.Context,
	units []*content.Unit,
	sorted []*content.Unit,
	pages []*index.Page,
	routes map[string]string,
	store *templates.Store,
	generatedAt time.Time,
) ([]RenderedPage, []RenderDiagnostic, error) {
	rendered := make([]RenderedPage, 0, len(units)+len(pages))
	diagnostics := make([]RenderDiagnostic, 0, len(units)+len(pages))

	// Post contexts render once and feed both post pages and listings.
	postEntries := make(map[string]map[string]any, len(sorted))
	unitHTML := make(map[string]string, len(units))
	unitExcerpt := make(map[string]string, len(units))

	for _, unit := range units {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}

		html, err := s.parser.Parse(unit.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("generator: render markdown %s: %w", unit.SourcePath, err)
		}
		unitHTML[unit.SourcePath] = string(html)
		unitExcerpt[unit.SourcePath] = s.excerptFor(unit, string(html))
	}

	for _, post := range sorted {
		postEntries[post.SourcePath] = pageContext(
			post,
			routes[post.SourcePath],
			unitHTML[post.SourcePath],
			unitExcerpt[post.SourcePath],
		)
	}

	for _, unit := range units {
		page, diag, err := s.renderUnit(unit, routes[unit.SourcePath], unitHTML[unit.SourcePath], unitExcerpt[unit.SourcePath], store)
		diagnostics = append(diagnostics, diag)
		if err != nil {
			return nil, nil, err
		}
		rendered = append(rendered, page)
	}

	indexPages, indexDiags, err := s.renderIndexPages(pages, postEntries, store, generatedAt)
	diagnostics = append(diagnostics, indexDiags...)
	if err != nil {
		return nil, nil, err
	}
	rendered = append(rendered, indexPages...)

	return rendered, diagnostics, nil
}

func (s *service) renderUnit(
	unit *content.Unit,
	route string,
	bodyHTML string,
	excerpt string,
	store *templates.Store,
) (RenderedPage, RenderDiagnostic, error) {
	started := time.Now()
	diag := RenderDiagnostic{
		SourcePath: unit.SourcePath,
		Route:      route,
		Layout:     unit.FrontMatter.Layout,
	}

	chain, err := store.Resolve(unit.FrontMatter.Layout)
	if err != nil {
		diag.Err = err
		diag.Duration = time.Since(started)
		return RenderedPage{}, diag, err
	}

	page := pageContext(unit, route, bodyHTML, excerpt)
	html := bodyHTML
	for _, layout := range chain {
		out, err := s.renderer.RenderString(layout.Source, map[string]any{
			"page":    page,
			"content": html,
		})
		if err != nil {
			wrapped := fmt.Errorf("generator: render %s through layout %s: %w", unit.SourcePath, layout.Name, err)
			diag.Err = wrapped
			diag.Duration = time.Since(started)
			return RenderedPage{}, diag, wrapped
		}
		html = out
	}

	diag.Duration = time.Since(started)
	logging.WithUnitContext(s.logger, unit.SourcePath, outputPathForRoute(route), unit.FrontMatter.Layout).
		Debug("unit rendered", "duration", diag.Duration.String())
	return RenderedPage{
		SourcePath: unit.SourcePath,
		Route:      route,
		Output:     outputPathForRoute(route),
		Layout:     unit.FrontMatter.Layout,
		HTML:       html,
		Checksum:   checksumString(html),
		Duration:   diag.Duration,
		LastMod:    unit.LastModified,
	}, diag, nil
}

func (s *service) renderIndexPages(
	pages []*index.Page,
	postEntries map[string]map[string]any,
	store *templates.Store,
	generatedAt time.Time,
) ([]RenderedPage, []RenderDiagnostic, error) {
	layoutName := s.site.Layouts.Index

	rendered := make([]RenderedPage, 0, len(pages))
	diagnostics := make([]RenderDiagnostic, 0, len(pages))

	for _, page := range pages {
		started := time.Now()
		diag := RenderDiagnostic{
			SourcePath: fmt.Sprintf("blog index page %d", page.Number),
			Route:      page.URL,
			Layout:     layoutName,
		}

		chain, err := store.Resolve(layoutName)
		if err != nil {
			diag.Err = err
			diag.Duration = time.Since(started)
			diagnostics = append(diagnostics, diag)
			return nil, diagnostics, err
		}

		entries := make([]map[string]any, 0, len(page.Posts))
		for _, post := range page.Posts {
			entries = append(entries, postEntries[post.SourcePath])
		}

		data := map[string]any{
			"paginator": paginatorContext(page, entries),
			"page": map[string]any{
				"title": s.site.Title,
				"url":   page.URL,
				"kind":  "index",
			},
		}

		html := ""
		for _, layout := range chain {
			payload := map[string]any{"content": html}
			for key, value := range data {
				payload[key] = value
			}
			out, err := s.renderer.RenderString(layout.Source, payload)
			if err != nil {
				wrapped := fmt.Errorf("generator: render blog index page %d through layout %s: %w", page.Number, layout.Name, err)
				diag.Err = wrapped
				diag.Duration = time.Since(started)
				diagnostics = append(diagnostics, diag)
				return nil, diagnostics, wrapped
			}
			html = out
		}

		diag.Duration = time.Since(started)
		diagnostics = append(diagnostics, diag)
		rendered = append(rendered, RenderedPage{
			SourcePath: diag.SourcePath,
			Route:      page.URL,
			Output:     outputPathForRoute(page.URL),
			Layout:     layoutName,
			HTML:       html,
			Checksum:   checksumString(html),
			Duration:   diag.Duration,
			LastMod:    generatedAt,
		})
	}

	return rendered, diagnostics, nil
}

// feedOutputPath is the writer-relative location of the RSS feed.
func (s *service) feedOutputPath() string {
	feedPath := strings.TrimPrefix(strings.TrimSpace(s.site.Feed.Path), "/")
	if feedPath == "" {
		return "feed.xml"
	}
	return feedPath
}

func (s *service) excerptFor(unit *content.Unit, bodyHTML string) string {
	if explicit := strings.TrimSpace(unit.FrontMatter.Excerpt); explicit != "" {
		return explicit
	}
	length := s.site.Excerpt.Length
	if length <= 0 {
		length = 200
	}
	return markdown.Excerpt(bodyHTML, length)
}

func (s *service) writePages(ctx context.Context, rendered []RenderedPage) error {
	for _, page := range rendered {
		category := categoryPage
		if strings.HasPrefix(page.SourcePath, "blog index") {
			category = categoryIndex
		}
		if err := s.deps.Writer.WriteFile(ctx, WriteRequest{
			Path:        page.Output,
			Content:     strings.NewReader(page.HTML),
			Size:        int64(len(page.HTML)),
			Category:    category,
			ContentType: "text/html; charset=utf-8",
			Checksum:    page.Checksum,
		}); err != nil {
			return fmt.Errorf("generator: write %s: %w", page.Output, err)
		}
	}
	return nil
}

func (s *service) writeFeed(ctx context.Context, sorted []*content.Unit, routes map[string]string, generatedAt time.Time) error {
	if !s.site.Feed.Enabled {
		return nil
	}

	maxItems := s.site.Feed.MaxItems
	if maxItems <= 0 {
		maxItems = 20
	}

	items := make([]feedItem, 0, min(len(sorted), maxItems))
	for _, post := range sorted {
		if len(items) == maxItems {
			break
		}
		link := absoluteURL(s.site.NormalizedBaseURL(), routes[post.SourcePath])
		items = append(items, feedItem{
			Title:       post.Title(),
			Summary:     strings.TrimSpace(post.FrontMatter.Excerpt),
			Link:        link,
			GUID:        link,
			PublishedAt: post.Date(),
		})
	}

	feed := buildRSSFeed(s.site.Title, s.site.Description, s.site.NormalizedBaseURL(), items, generatedAt)

	return s.deps.Writer.WriteFile(ctx, WriteRequest{
		Path:        s.feedOutputPath(),
		Content:     strings.NewReader(feed),
		Size:        int64(len(feed)),
		Category:    categoryFeed,
		ContentType: "application/rss+xml",
		Checksum:    checksumString(feed),
	})
}

func (s *service) writeSitemap(ctx context.Context, rendered []RenderedPage, generatedAt time.Time) error {
	if !s.site.Sitemap {
		return nil
	}

	sitemap := buildSitemap(s.site.NormalizedBaseURL(), rendered, generatedAt)
	return s.deps.Writer.WriteFile(ctx, WriteRequest{
		Path:        sitemapFileName,
		Content:     strings.NewReader(sitemap),
		Size:        int64(len(sitemap)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    checksumString(sitemap),
	})
}

func (s *service) writeManifest(ctx context.Context, buildID string, generatedAt time.Time, rendered []RenderedPage) error {
	manifest := newBuildManifest(buildID, generatedAt, rendered)
	data, err := manifest.marshal()
	if err != nil {
		return err
	}

	return s.deps.Writer.WriteFile(ctx, WriteRequest{
		Path:        manifestFileName,
		Content:     strings.NewReader(string(data)),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    checksumString(string(data)),
	})
}

func themingConfig(site config.Site) ThemingConfig {
	return ThemingConfig{
		Dir:               site.Theme.Dir,
		Name:              site.Theme.Name,
		Variant:           site.Theme.Variant,
		CSSVariablePrefix: site.Theme.CSSVariablePrefix,
		PartialFallbacks:  site.Theme.PartialFallbacks,
	}
}

// deterministicBuildTime derives the build timestamp from the newest source
// file so identical inputs always produce identical outputs.
func deterministicBuildTime(units []*content.Unit) time.Time {
	var newest time.Time
	for _, unit := range units {
		if unit.LastModified.After(newest) {
			newest = unit.LastModified
		}
	}
	if newest.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return newest.UTC()
}

// buildID derives a stable identifier from the rendered output checksums.
func buildID(rendered []RenderedPage) string {
	checksums := make([]string, 0, len(rendered))
	for _, page := range rendered {
		checksums = append(checksums, page.Output+":"+page.Checksum)
	}
	sort.Strings(checksums)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(checksums, "\n"))).String()
}

func checksumString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
