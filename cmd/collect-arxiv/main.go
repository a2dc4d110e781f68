package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/internal/feeds"
)

const apiURL = "http://export.arxiv.org/api/query"

// arxivFeed is the Atom response from the arXiv API.
type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Category  []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
	Link []struct {
		Href string `xml:"href,attr"`
		Type string `xml:"type,attr"`
	} `xml:"link"`
}

func main() {
	var (
		category   = flag.String("category", "cs.AI", "arXiv category (cs.AI, cs.CL, cs.LG, econ.EM, q-fin)")
		maxResults = flag.Int("max", 200, "Maximum papers to fetch")
		outDir     = flag.String("out", "testdata/arxiv", "Output directory")
	)
	flag.Parse()

	log.Printf("Downloading %d papers from arXiv category %s", *maxResults, *category)

	params := url.Values{}
	params.Set("search_query", "cat:"+*category)
	params.Set("max_results", fmt.Sprintf("%d", *maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	resp, err := http.Get(apiURL + "?" + params.Encode())
	if err != nil {
		log.Fatal("Failed to fetch:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		log.Fatalf("HTTP error: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal("Failed to read response:", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		log.Fatal("Failed to parse XML:", err)
	}
	log.Printf("Received %d papers", len(feed.Entries))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}
	outPath := filepath.Join(*outDir, "docs.jsonl")
	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	written := 0

	for _, entry := range feed.Entries {
		title := strings.Join(strings.Fields(entry.Title), " ")
		if title == "" {
			continue
		}

		published := ""
		if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
			published = t.UTC().Format("2006-01-02")
		}

		link := entry.ID
		for _, l := range entry.Link {
			if l.Type == "text/html" {
				link = l.Href
				break
			}
		}

		doc := feeds.Item{
			Title:      title,
			Content:    strings.Join(strings.Fields(entry.Summary), " "),
			SourceType: "arxiv",
			SourceName: *category,
			Published:  published,
			URL:        link,
			Identifier: arxivID(entry.ID),
		}
		if err := encoder.Encode(doc); err != nil {
			log.Printf("Failed to encode doc: %v", err)
			continue
		}
		written++
	}

	log.Printf("Wrote %d papers to %s", written, outPath)
}

// arxivID extracts the bare paper ID from the Atom entry URL.
func arxivID(id string) string {
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		return "arxiv-" + id[i+len("/abs/"):]
	}
	return id
}
