// Command logogrouper crawls a list of websites, extracts each one's best
// logo candidate, fingerprints it, and partitions the sites into visually
// similar groups. The CLI surface is adapted from the pack's
// jmylchreest-tvarr cobra/pflag style; the startup/console flow follows
// the teacher's internal/app.LogoCrawlerApp.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashish-patro/logo-grouper/internal/collab"
	"github.com/ashish-patro/logo-grouper/internal/config"
	"github.com/ashish-patro/logo-grouper/internal/ioutil"
	"github.com/ashish-patro/logo-grouper/internal/logging"
	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/pipeline"
	"github.com/ashish-patro/logo-grouper/internal/progress"
	"github.com/ashish-patro/logo-grouper/internal/report"
)

type cliFlags struct {
	input           string
	out             string
	assets          string
	configPath      string
	lazySelection   bool
	debugFetch      bool
	debugCandidates bool
	debugPairs      int
	concurrency     int64
}

func main() {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "logogrouper",
		Short: "Group websites by their visual logo similarity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
	}

	root.Flags().StringVar(&flags.input, "input", "", "path to the newline-delimited site list (required)")
	root.Flags().StringVar(&flags.out, "out", "", "output directory for reports (required)")
	root.Flags().StringVar(&flags.assets, "assets", "out/extracted", "directory for extracted logo assets")
	root.Flags().StringVar(&flags.configPath, "config", "", "optional YAML config overriding the defaults")
	root.Flags().BoolVar(&flags.lazySelection, "lazy-selection", false, "never fetch candidate bytes during selection")
	root.Flags().BoolVar(&flags.debugFetch, "debug-fetch", false, "log every HTML/image fetch attempt")
	root.Flags().BoolVar(&flags.debugCandidates, "debug-candidates", false, "log every discovered candidate")
	root.Flags().IntVar(&flags.debugPairs, "debug-pairs", 0, "number of uncertain-band pairs to debug; stored in the pipeline options, no pairs are logged")
	root.Flags().Int64Var(&flags.concurrency, "concurrency", pipeline.DefaultConcurrency, "maximum concurrently processed sites")
	_ = root.MarkFlagRequired("input")
	_ = root.MarkFlagRequired("out")

	if err := root.Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, flags *cliFlags) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️  No .env file found, using system environment variables")
	}

	logger, err := logging.New(flags.debugFetch || flags.debugCandidates)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sites, err := ioutil.ReadSites(flags.input)
	if err != nil {
		// an unreadable input file ends the run before any site is processed.
		return fmt.Errorf("reading input sites: %w", err)
	}
	if len(sites) == 0 {
		return fmt.Errorf("no sites found in %s", flags.input)
	}
	fmt.Printf("✅ Loaded %d sites\n", len(sites))

	if err := os.MkdirAll(flags.out, 0o755); err != nil {
		// an uncreatable output directory ends the run before any site is
		// processed.
		return fmt.Errorf("creating output directory: %w", err)
	}

	fmt.Printf("🚀 Starting logo grouping for %d sites (concurrency=%d)\n", len(sites), flags.concurrency)

	bar := progress.NewBar(len(sites), "Processing sites")
	opts := pipeline.Options{
		AssetsDir:     flags.assets,
		LazySelection: flags.lazySelection,
		Concurrency:   flags.concurrency,
		DebugFetch:    flags.debugFetch,
		DebugPairs:    flags.debugPairs,
	}

	client := newDebugClient(collab.NewDefaultClient(), logger, flags.debugFetch)

	result, err := pipeline.Run(ctx, sites, cfg, opts, client, logger)
	bar.Done()
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	if err := writeReports(flags.out, result); err != nil {
		logger.Error("writing reports", zap.Error(err))
	}

	report.PrintSummary(result.Metrics)
	return nil
}

func writeReports(outDir string, result pipeline.Result) error {
	return errors.Join(
		report.WriteGroupsJSON(result.Groups, filepath.Join(outDir, "groups.json")),
		report.WriteMetricsJSON(result.Metrics, filepath.Join(outDir, "metrics.json")),
		report.WritePairsSampleCSV(result.Edges, filepath.Join(outDir, "pairs_sample.csv")),
		report.WriteFeaturesCSV(result.Features, filepath.Join(outDir, "features.csv")),
		report.WriteHTMLPreview(result.Groups, indexFeatures(result.Features), filepath.Join(outDir, "preview.html")),
	)
}

func indexFeatures(features []model.LogoFeatures) map[string]model.LogoFeatures {
	byWebsite := make(map[string]model.LogoFeatures, len(features))
	for _, f := range features {
		byWebsite[f.Website] = f
	}
	return byWebsite
}

// debugClient wraps the default HTML/image collaborator, logging every
// attempt when --debug-fetch is set.
type debugClient struct {
	inner interface {
		collab.HTMLFetcher
		collab.ImageFetcher
	}
	logger *zap.Logger
	debug  bool
}

func newDebugClient(inner interface {
	collab.HTMLFetcher
	collab.ImageFetcher
}, logger *zap.Logger, debug bool) debugClient {
	return debugClient{inner: inner, logger: logger, debug: debug}
}

func (c debugClient) FetchHTML(ctx context.Context, url string) (string, string, bool) {
	finalURL, html, ok := c.inner.FetchHTML(ctx, url)
	if c.debug {
		c.logger.Debug("fetch_html", zap.String("url", url), zap.Bool("ok", ok), zap.Int("html_len", len(html)))
	}
	return finalURL, html, ok
}

func (c debugClient) FetchImageBytes(ctx context.Context, url, referer string) ([]byte, bool) {
	data, ok := c.inner.FetchImageBytes(ctx, url, referer)
	if c.debug {
		c.logger.Debug("fetch_image", zap.String("url", url), zap.Bool("ok", ok), zap.Int("bytes", len(data)))
	}
	return data, ok
}
