package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"panorama-downloader/internal/config"
	"panorama-downloader/internal/model"
	"panorama-downloader/internal/pipeline"
	"panorama-downloader/internal/source"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	// Command line flags
	var (
		urlsFlag    = flag.String("url", "", "Panorama URL(s) to download (comma-separated or newline-separated)")
		idFlag      = flag.String("id", "", "Panorama identifier when the URL doesn't carry one")
		nameFlag    = flag.String("name", "", "Output name (saves as <name>_panorama.jpg)")
		modeFlag    = flag.String("mode", "full", "Pipeline mode: full, download, normalize, stitch")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		zoomFlag    = flag.Int("zoom", -1, "Force a Street View zoom level (-1 for auto with fallback)")
		workersFlag = flag.Int("workers", 0, "Concurrent tile downloads (overrides config)")
		keepFlag    = flag.Bool("keep-tiles", false, "Keep the tile directory after stitching")
		previewFlag = flag.Bool("preview", false, "Also write a downscaled preview image")
		verboseFlag = flag.Bool("verbose", false, "Show progress percentages")
	)

	flag.Parse()

	// CLI mode - require URL
	if *urlsFlag == "" && flag.NArg() == 0 {
		fmt.Println("Panorama Downloader - Download and stitch panorama tiles")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  pano-dl -url <URL> [options]")
		fmt.Println("  pano-dl <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: pano-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *zoomFlag >= 0 {
		settings.ZoomMode = "fixed"
		settings.ZoomLevel = *zoomFlag
	}
	if *workersFlag > 0 {
		settings.DownloadWorkers = *workersFlag
	}
	if *keepFlag {
		settings.DeleteTilesAfterStitch = false
	}
	if *previewFlag {
		settings.GeneratePreview = true
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	mode := pipeline.Mode(*modeFlag)
	switch mode {
	case pipeline.ModeFull, pipeline.ModeDownload, pipeline.ModeNormalize, pipeline.ModeStitch:
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q\n", *modeFlag)
		os.Exit(1)
	}

	// Get URLs
	urls := *urlsFlag
	if urls == "" && flag.NArg() > 0 {
		urls = flag.Arg(0)
	}
	reqs := buildRequests(urls, *idFlag, *nameFlag, mode)
	if len(reqs) == 0 {
		fmt.Fprintln(os.Stderr, "No usable URLs given")
		os.Exit(1)
	}

	// Single-job runs may prompt for a missing identifier before starting.
	if len(reqs) == 1 {
		if err := resolveIdentifier(&reqs[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	runner := pipeline.New(settings)
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumeEvents(runner.Events(), settings.Verbose)
	}()

	fmt.Println("Panorama Downloader")
	fmt.Println()

	failed := 0
	if len(reqs) == 1 {
		if err := runner.Run(ctx, reqs[0]); err != nil {
			failed = 1
		}
	} else {
		for _, err := range runner.RunBatch(ctx, reqs) {
			if err != nil {
				failed++
			}
		}
	}
	<-done

	if ctx.Err() != nil {
		fmt.Println("\nCancelled.")
		os.Exit(130)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d jobs failed\n", failed, len(reqs))
		os.Exit(1)
	}
	fmt.Printf("\nComplete! %d panorama(s) finished.\n", len(reqs))
}

// buildRequests splits the URL input on commas and newlines.
func buildRequests(input, id, name string, mode pipeline.Mode) []pipeline.Request {
	var reqs []pipeline.Request
	for _, part := range strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		reqs = append(reqs, pipeline.Request{
			RawURL:     part,
			Identifier: id,
			Name:       name,
			Mode:       mode,
		})
	}
	return reqs
}

// resolveIdentifier prompts for a panorama id when the URL carries none
// and none was given on the command line. Batch runs skip the prompt and
// let the affected job fail.
func resolveIdentifier(req *pipeline.Request) error {
	if req.Identifier != "" {
		return nil
	}
	desc, err := source.Classify(req.RawURL)
	if err != nil {
		return err
	}
	if desc.Kind != model.SourceStreetView || desc.HasIdentifier() {
		return nil
	}

	fmt.Print("No panorama identifier found in the URL. Enter one: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading identifier: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return model.ErrIdentifierMissing
	}
	req.Identifier = line
	return nil
}

// consumeEvents prints the pipeline's event stream. Log lines always
// print; progress percentages only with -verbose.
func consumeEvents(events <-chan pipeline.Event, verbose bool) {
	lastPercent := -1
	for ev := range events {
		switch ev := ev.(type) {
		case pipeline.LogLine:
			if ev.IsError {
				fmt.Fprintln(os.Stderr, "! "+ev.Text)
			} else {
				fmt.Println("  " + ev.Text)
			}
		case pipeline.Progress:
			if !verbose {
				continue
			}
			// Whole percents only, to keep the output readable.
			p := int(ev.Percent)
			if p != lastPercent {
				lastPercent = p
				fmt.Printf("  [%s] %d%%\n", ev.Label, p)
			}
		case pipeline.Finished:
			if ev.Err != nil {
				fmt.Fprintf(os.Stderr, "! Finished with error: %v\n", ev.Err)
			}
		}
	}
}
