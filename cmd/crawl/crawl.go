// Package crawl implements the crawl command: fetch seed pages, extract
// news items, and write the surviving set to the configured sinks.
package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/polibrief/newscrawl/cmd/common"
	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/engine"
	"github.com/polibrief/newscrawl/internal/engine/events"
	"github.com/polibrief/newscrawl/internal/extract"
	"github.com/polibrief/newscrawl/internal/fetch"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/sources"
	"github.com/polibrief/newscrawl/internal/storage"
)

// target is one engine run: seed URLs sharing a selector set and fetcher.
type target struct {
	name      string
	urls      []string
	selectors extract.SelectorSet
	render    bool
}

// Command builds the crawl command.
func Command() *cobra.Command {
	var (
		sourceName string
		all        bool
		output     string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl pages and collect news items",
		Long: `Crawl fetches the given URLs, extracts news items with the generic
selector chains, deduplicates them, and writes the result to the output
file. With --source or --all it crawls configured sources with their own
selectors instead of explicit URLs.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), deps, options{
				urls:       args,
				sourceName: sourceName,
				all:        all,
				output:     output,
				workers:    workers,
			})
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "crawl one configured source by name")
	cmd.Flags().BoolVar(&all, "all", false, "crawl every configured source")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for collected items (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent fetches (default from config)")

	return cmd
}

type options struct {
	urls       []string
	sourceName string
	all        bool
	output     string
	workers    int
}

func run(ctx context.Context, out io.Writer, deps common.Deps, opts options) error {
	cfg, log := deps.Config, deps.Logger

	targets, err := resolveTargets(cfg.Sources.File, opts)
	if err != nil {
		return err
	}

	store, err := common.NewArticleStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("store close failed", "error", closeErr.Error())
		}
	}()

	workers := cfg.Crawl.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	var (
		items   []domain.NewsItem
		visited int
		dups    int
		failed  int
	)
	start := time.Now()

	for _, tgt := range targets {
		result, runErr := crawlTarget(ctx, out, tgt, workers, cfg.Crawl.Timeout, cfg.Crawl.MaxBodyBytes, log)
		if result != nil {
			items = append(items, result.Items...)
			visited += result.Visited
			dups += result.Duplicates
			failed += result.Failed
		}
		if runErr != nil {
			return fmt.Errorf("crawl %s: %w", tgt.name, runErr)
		}
	}

	persistItems(ctx, store, items, log)

	outputFile := cfg.Crawl.OutputFile
	if opts.output != "" {
		outputFile = opts.output
	}
	if err := writeItems(outputFile, items); err != nil {
		return err
	}

	fmt.Fprintf(out, "\ncollected %d items from %d pages (%d duplicates, %d failed) in %s\n",
		len(items), visited, dups, failed, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "wrote %s\n", outputFile)
	return nil
}

// resolveTargets turns the command arguments into engine runs. Explicit
// URLs crawl with the generic selector chains; named sources bring their
// own selectors and render mode.
func resolveTargets(sourcesFile string, opts options) ([]target, error) {
	if opts.sourceName == "" && !opts.all {
		if len(opts.urls) == 0 {
			return nil, errors.New("nothing to crawl: pass URLs, --source, or --all")
		}
		return []target{{name: "urls", urls: opts.urls}}, nil
	}

	registry, err := sources.NewLoader(sourcesFile).Load()
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	if opts.all {
		all := registry.All()
		targets := make([]target, 0, len(all))
		for _, src := range all {
			targets = append(targets, sourceTarget(src))
		}
		return targets, nil
	}

	src, ok := registry.Find(opts.sourceName)
	if !ok {
		return nil, fmt.Errorf("unknown source %q", opts.sourceName)
	}
	return []target{sourceTarget(src)}, nil
}

func sourceTarget(src sources.Source) target {
	return target{
		name:      src.Name,
		urls:      []string{src.PoliticsURL},
		selectors: src.Selectors,
		render:    src.Render,
	}
}

// crawlTarget runs one engine over one target and prints per-URL progress.
func crawlTarget(
	ctx context.Context,
	out io.Writer,
	tgt target,
	workers int,
	timeout time.Duration,
	maxBody int64,
	log logger.Interface,
) (*domain.CrawlResult, error) {
	var fetcher fetch.Fetcher
	if tgt.render {
		fetcher = fetch.NewRenderFetcher(timeout, log)
	} else {
		fetcher = fetch.NewHTTPFetcher(fetch.Config{Timeout: timeout, MaxBodyBytes: maxBody}, log)
	}

	eng := engine.New(
		engine.Config{Workers: workers, Categorize: sources.CategoryForURL},
		fetcher,
		extract.NewExtractor(tgt.selectors),
		log,
	)
	eng.Subscribe(events.HandlerFunc(func(_ context.Context, evt events.Event) {
		if evt.Err != nil {
			fmt.Fprintf(out, "%s: failed: %v\n", evt.URL, evt.Err)
			return
		}
		fmt.Fprintf(out, "%s: %d items, %d duplicates\n", evt.URL, evt.Items, evt.Duplicates)
	}))

	return eng.Run(ctx, tgt.urls)
}

// persistItems writes items through the store. Failures are logged and
// skipped; the output file is still the authoritative sink.
func persistItems(ctx context.Context, store storage.ArticleStore, items []domain.NewsItem, log logger.Interface) {
	for i := range items {
		article := domain.NewArticleFromItem(items[i])
		if err := store.SaveArticle(ctx, article); err != nil {
			log.Warn("article save failed", "link", article.Link, "error", err.Error())
		}
	}
}

// writeItems writes the flat JSON array of collected items. An empty run
// still writes a valid array.
func writeItems(path string, items []domain.NewsItem) error {
	if items == nil {
		items = []domain.NewsItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
