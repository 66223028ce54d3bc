// Package pipeline orchestrates the full per-site flow (fetch -> discover
// -> select -> fetch image -> normalize -> fingerprint) and the
// cross-site flow (pairwise similarity -> union-find -> report),
// generalizing the teacher's crawler.Crawler worker pool (an unbounded
// sync.WaitGroup over a channel) into the bounded errgroup+semaphore
// concurrency model of SPEC_FULL.md §5.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ashish-patro/logo-grouper/internal/collab"
	"github.com/ashish-patro/logo-grouper/internal/colorfeat"
	"github.com/ashish-patro/logo-grouper/internal/config"
	"github.com/ashish-patro/logo-grouper/internal/discover"
	"github.com/ashish-patro/logo-grouper/internal/errs"
	"github.com/ashish-patro/logo-grouper/internal/fetchimg"
	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/normalize"
	"github.com/ashish-patro/logo-grouper/internal/pairwise"
	"github.com/ashish-patro/logo-grouper/internal/phash"
	"github.com/ashish-patro/logo-grouper/internal/report"
	"github.com/ashish-patro/logo-grouper/internal/selector"
	"github.com/ashish-patro/logo-grouper/internal/unionfind"
)

// Options configures a single pipeline run, mapping 1:1 onto the CLI
// flags of spec.md §6.
type Options struct {
	AssetsDir     string
	LazySelection bool
	Concurrency   int64
	DebugFetch    bool
	DebugPairs    int
}

// DefaultConcurrency bounds how many sites are processed concurrently
// when Options.Concurrency is unset.
const DefaultConcurrency = 8

// SiteResult is the per-site outcome: either Features is populated, or
// Err explains why not. A failed site never aborts the run.
type SiteResult struct {
	Site     string
	Features *model.LogoFeatures
	Err      *errs.Error
}

// Result is the full pipeline run's output, ready to hand to the report
// package.
type Result struct {
	RunID    string
	Features []model.LogoFeatures
	Failures []SiteResult
	Edges    []model.Edge
	Groups   []model.Group
	Metrics  report.Metrics
}

// Run executes the pipeline over sites end to end.
func Run(ctx context.Context, sites []string, cfg config.Config, opts Options, client interface {
	collab.HTMLFetcher
	collab.ImageFetcher
}, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	start := time.Now()

	if opts.AssetsDir != "" {
		if err := os.MkdirAll(opts.AssetsDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating assets directory: %w", err)
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	sem := semaphore.NewWeighted(concurrency)

	results := make([]SiteResult, len(sites))
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	for i, site := range sites {
		i, site := i, site
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil // context cancellation; individual sites never fail the group
			}
			defer sem.Release(1)

			res := processSite(gctx, site, cfg, opts, client, logger)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	// errgroup.Wait's error is always nil here since per-site failures are
	// captured in SiteResult rather than returned, per spec.md §5's never-
	// abort guarantee.
	_ = g.Wait()

	var features []model.LogoFeatures
	var failures []SiteResult
	for _, res := range results {
		if res.Features != nil {
			features = append(features, *res.Features)
		} else if res.Err != nil {
			if res.Err.Kind == errs.KindSelectionEmpty {
				logger.Info("site produced no features", zap.String("site", res.Site), zap.Error(res.Err))
			} else {
				logger.Warn("site produced no features", zap.String("site", res.Site), zap.Error(res.Err))
			}
			failures = append(failures, res)
		}
	}

	featureByWebsite := make(map[string]model.LogoFeatures, len(features))
	for _, f := range features {
		featureByWebsite[f.Website] = f
	}

	loader := func(website string) (*image.RGBA, error) {
		f, ok := featureByWebsite[website]
		if !ok || f.NormalizedPath == "" {
			return nil, fmt.Errorf("no normalized image for %s", website)
		}
		return loadPNG(f.NormalizedPath)
	}

	edges := pairwise.ComputeEdges(features, cfg, loader)

	keys := make([]string, len(features))
	for i, f := range features {
		keys[i] = f.Website
	}
	uf := unionfind.New(keys)
	for _, e := range edges {
		uf.Union(e.Left, e.Right)
	}
	ufGroups := uf.Groups()
	groups := make([]model.Group, len(ufGroups))
	for i, g := range ufGroups {
		groups[i] = model.Group{GroupID: g.ID, Members: g.Members}
	}

	metrics := buildMetrics(sites, features, failures, edges, groups, time.Since(start))

	logger.Info("pipeline run complete",
		zap.Int("total_sites", metrics.TotalSites),
		zap.Int("sites_with_logos", metrics.SitesWithLogos),
		zap.Int("failed_sites", metrics.FailedSites),
		zap.Int("groups_found", metrics.GroupsFound),
	)

	return Result{
		RunID:    runID,
		Features: features,
		Failures: failures,
		Edges:    edges,
		Groups:   groups,
		Metrics:  metrics,
	}, nil
}

func buildMetrics(sites []string, features []model.LogoFeatures, failures []SiteResult, edges []model.Edge, groups []model.Group, duration time.Duration) report.Metrics {
	confirmed := 0
	for _, e := range edges {
		if e.Confirmed {
			confirmed++
		}
	}
	singletons := 0
	for _, g := range groups {
		if len(g.Members) == 1 {
			singletons++
		}
	}
	return report.Metrics{
		TotalSites:      len(sites),
		SitesWithLogos:  len(features),
		FailedSites:     len(failures),
		EdgesLinked:     len(edges),
		EdgesConfirmed:  confirmed,
		GroupsFound:     len(groups),
		SingletonGroups: singletons,
		Duration:        duration,
	}
}

// processSite runs the single-site flow: fetch HTML, discover candidates,
// select the best one, fetch/normalize its image, and compute features.
// It never returns an error directly; all failure modes are captured in
// the returned SiteResult's Err per spec.md's per-site error taxonomy.
func processSite(ctx context.Context, site string, cfg config.Config, opts Options, client interface {
	collab.HTMLFetcher
	collab.ImageFetcher
}, logger *zap.Logger) SiteResult {
	logger = logger.With(zap.String("site", site))

	finalURL, html, ok := client.FetchHTML(ctx, site)
	if !ok {
		return SiteResult{Site: site, Err: errs.New(errs.KindFetchError, site, "failed to fetch HTML after retries", nil)}
	}

	candidates := discover.Discover(html, finalURL, logger)
	for _, c := range candidates {
		logger.Debug("candidate", zap.String("src", c.ResolvedSrc), zap.String("source", string(c.Source)), zap.Float64("confidence", c.Confidence))
	}
	if len(candidates) == 0 {
		return SiteResult{Site: site, Err: errs.New(errs.KindNoCandidates, site, "no logo candidates discovered", nil)}
	}

	mode := selector.Eager
	if opts.LazySelection {
		mode = selector.Lazy
	}
	best := selector.SelectBest(ctx, candidates, finalURL, mode, client)
	if best == nil {
		return SiteResult{Site: site, Err: errs.New(errs.KindNoCandidates, site, "selector returned no candidate", nil)}
	}

	imageBytes := best.ImageBytes
	if len(imageBytes) == 0 && !opts.LazySelection {
		return SiteResult{Site: site, Err: errs.New(errs.KindSelectionEmpty, site, "selected candidate has no fetchable bytes", nil)}
	}
	if len(imageBytes) == 0 {
		// lazy mode never fetched bytes during selection; fetch the one
		// chosen candidate now.
		data, fetched := fetchimg.FetchImageBytes(ctx, client, best.ResolvedSrc, finalURL)
		if !fetched {
			return SiteResult{Site: site, Err: errs.New(errs.KindSelectionEmpty, site, "lazy-selected candidate could not be fetched", nil)}
		}
		imageBytes = data
	}

	mimeHint := ""
	if best.ImageInfo != nil && best.ImageInfo.MIME != nil {
		mimeHint = *best.ImageInfo.MIME
	}

	normalized, err := normalize.Normalize(imageBytes, mimeHint)
	if err != nil {
		return SiteResult{Site: site, Err: errs.New(errs.KindInvalidImage, site, "failed to normalize logo image", err)}
	}

	hashes := phash.Compute(normalized)
	colors := colorfeat.Compute(normalized)

	features := model.LogoFeatures{
		Website: finalURL,
		Perceptual: model.PerceptualHashes{
			AHash: hashes.AHash,
			PHash: hashes.PHash,
			DHash: hashes.DHash,
		},
		HSVHistogram: colors.Histogram,
		DominantHues: roundHues(colors.DominantHues),
	}

	if opts.AssetsDir != "" {
		if err := persistAssets(opts.AssetsDir, finalURL, imageBytes, normalized, &features); err != nil {
			logger.Debug("pipeline: failed to persist assets", zap.Error(err))
		}
	}

	return SiteResult{Site: site, Features: &features}
}

func roundHues(hues []float64) []int {
	out := make([]int, len(hues))
	for i, h := range hues {
		out[i] = int(h + 0.5)
	}
	return out
}

// persistAssets writes the original and normalized/preview images under
// opts.AssetsDir and records their paths on features, per spec.md §6's
// asset directory layout.
func persistAssets(assetsDir, website string, original []byte, normalized *image.RGBA, features *model.LogoFeatures) error {
	originalDir := filepath.Join(assetsDir, "original")
	normalizedDir := filepath.Join(assetsDir, "normalized")
	previewDir := filepath.Join(assetsDir, "preview")
	for _, dir := range []string{originalDir, normalizedDir, previewDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	origPath, err := report.AssetPath(originalDir, website, ".bin")
	if err == nil {
		if writeErr := os.WriteFile(origPath, original, 0o644); writeErr == nil {
			features.OriginalPath = origPath
		}
	}

	normPath, err := report.AssetPath(normalizedDir, website, ".png")
	if err == nil {
		if writeErr := writePNG(normPath, normalized); writeErr == nil {
			features.NormalizedPath = normPath
		}
	}

	previewPath, err := report.AssetPath(previewDir, website, ".png")
	if err == nil {
		composited := normalize.CompositeOnBackground(normalized, color.White)
		if writeErr := writePNG(previewPath, composited); writeErr == nil {
			features.PreviewPath = previewPath
		}
	}

	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out, nil
}
