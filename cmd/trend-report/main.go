package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/config"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/report"
	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store/sqlite"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "Database path (required)")
		configPath = flag.String("config", "", "Config YAML file (optional)")
		days       = flag.Int("days", 7, "Lookback window in days")
		limit      = flag.Int("limit", 30, "Max terms in the report")
		term       = flag.String("term", "", "Show velocity detail for one term")
		outDir     = flag.String("out", "", "Directory for report artifacts (optional)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
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

	engine := signal.New(signal.Options{Store: st, Config: cfg})
	defer engine.Close()

	now := time.Now().UTC()

	if *term != "" {
		rep, err := engine.Velocity(ctx, *term, now)
		if err != nil {
			log.Fatal("Velocity lookup failed:", err)
		}
		fmt.Printf("%s: %s (recent %d, older %d, velocity %.2f)\n",
			rep.Term, rep.Trend, rep.RecentCount, rep.OlderCount, rep.Velocity)
		return
	}

	emerging, err := engine.EmergingTerms(ctx, now, *days, *limit)
	if err != nil {
		log.Fatal("Emerging terms query failed:", err)
	}
	early, err := engine.EarlySignalTerms(ctx, now, *days, *limit)
	if err != nil {
		log.Fatal("Early signal query failed:", err)
	}

	digest := report.New().BuildEmerging(*days, emerging, early)

	fmt.Printf("Emerging terms (last %d days)\n", *days)
	fmt.Printf("%-30s %6s %6s %8s %5s\n", "Term", "Score", "Count", "Sources", "New")
	for _, t := range digest.Terms {
		marker := ""
		if t.IsNew {
			marker = "*"
		}
		fmt.Printf("%-30s %6d %6d %8d %5s\n", t.Term, t.Score, t.Count, t.SourceCount, marker)
	}
	if len(digest.EarlySignal) > 0 {
		fmt.Println("\nAcademic-only terms (earliest signals)")
		for _, t := range digest.EarlySignal {
			fmt.Printf("  %-30s %6d\n", t.Term, t.Count)
		}
	}

	if *outDir == "" {
		return
	}
	stamp := now.Format("2006-01-02")
	mdPath := filepath.Join(*outDir, "emerging_"+stamp+".md")
	if err := os.WriteFile(mdPath, []byte(digest.Markdown()), 0o644); err != nil {
		log.Fatal("Failed to write report:", err)
	}
	data, err := report.JSON(digest)
	if err != nil {
		log.Fatal("Failed to render report:", err)
	}
	jsonPath := filepath.Join(*outDir, "emerging_"+stamp+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		log.Fatal("Failed to write report:", err)
	}
	log.Printf("Reports written: %s, %s", mdPath, jsonPath)
}
