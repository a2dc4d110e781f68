package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/internal/feeds"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/config"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/report"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store/sqlite"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "Database path (required)")
		dataPath   = flag.String("data", "", "Input JSONL file (required)")
		configPath = flag.String("config", "", "Config YAML file (optional, built-in defaults otherwise)")
		outDir     = flag.String("out", "", "Directory for report artifacts (optional)")
		workers    = flag.Int("workers", 4, "Extraction worker count")
		skipScore  = flag.Bool("no-score", false, "Ingest only, skip the scoring pass")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *dataPath == "" {
		log.Fatal("--data required")
	}

	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load config:", err)
		}
		cfg = loaded
	}

	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	engine := signal.New(signal.Options{
		Store:   st,
		Config:  cfg,
		Workers: *workers,
	})
	defer engine.Close()

	log.Println("Term intelligence pipeline started")

	docs, err := feeds.LoadFromJSONL(*dataPath)
	if err != nil {
		log.Fatal("Failed to load documents:", err)
	}
	log.Printf("Loaded %d documents from %s", len(docs), *dataPath)

	res, err := engine.ProcessBatch(ctx, docs)
	if err != nil {
		log.Fatal("Batch processing failed:", err)
	}
	for _, procErr := range res.Errors {
		log.Printf("Warning: %v", procErr)
	}
	log.Printf("Processed %d documents (%d skipped, %d term mentions, %d errors)",
		res.Documents, res.Skipped, res.Terms, len(res.Errors))

	if *skipScore {
		return
	}

	period := signal.WeekStart(time.Now())
	scored, err := engine.ScoreAll(ctx, period)
	if err != nil {
		log.Fatal("Scoring failed:", err)
	}
	tiers := engine.Classify(scored)
	log.Printf("Scored %d terms: %d validated, %d emerging, %d mainstream",
		len(scored), len(tiers.Validated), len(tiers.Emerging), len(tiers.Mainstream))

	if *outDir == "" {
		return
	}

	digest := report.New().BuildDigest(period, len(scored), tiers)
	data, err := report.JSON(digest)
	if err != nil {
		log.Fatal("Failed to render report:", err)
	}

	stamp := time.Now().Format("2006-01-02")
	jsonPath := filepath.Join(*outDir, "report_"+stamp+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		log.Fatal("Failed to write report:", err)
	}
	mdPath := filepath.Join(*outDir, "report_"+stamp+".md")
	if err := os.WriteFile(mdPath, []byte(digest.Markdown()), 0o644); err != nil {
		log.Fatal("Failed to write report:", err)
	}
	log.Printf("Reports written: %s, %s", jsonPath, mdPath)
}
