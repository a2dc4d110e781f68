package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/internal/feeds"
)

// Hacker News API endpoints
const (
	apiBase       = "https://hacker-news.firebaseio.com/v0"
	topStoriesURL = apiBase + "/topstories.json"
	itemURL       = apiBase + "/item/%d.json"
)

// hnItem is a Hacker News story as returned by the Firebase API.
type hnItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Time  int64  `json:"time"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

func main() {
	var (
		count  = flag.Int("count", 100, "Number of top stories to fetch")
		outDir = flag.String("out", "testdata/hn", "Output directory")
	)
	flag.Parse()

	log.Printf("Downloading top %d Hacker News stories...", *count)

	storyIDs, err := getTopStories()
	if err != nil {
		log.Fatal("Failed to get top stories:", err)
	}
	if *count < len(storyIDs) {
		storyIDs = storyIDs[:*count]
	}

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
	downloaded := 0

	for i, id := range storyIDs {
		item, err := getItem(id)
		if err != nil {
			log.Printf("Failed to get item %d: %v", id, err)
			continue
		}
		if item.Type != "story" || item.Title == "" {
			continue
		}

		doc := feeds.Item{
			Title:      item.Title,
			Content:    item.Text,
			SourceType: "hackernews",
			SourceName: "hn_top",
			Published:  time.Unix(item.Time, 0).UTC().Format("2006-01-02"),
			URL:        fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID),
			Identifier: fmt.Sprintf("hn-%d", item.ID),
		}
		if err := encoder.Encode(doc); err != nil {
			log.Printf("Failed to encode doc: %v", err)
			continue
		}

		downloaded++
		if (i+1)%10 == 0 {
			log.Printf("Downloaded %d/%d stories...", downloaded, len(storyIDs))
		}

		// Be nice to the API
		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("Downloaded %d stories to %s", downloaded, outPath)
}

func getTopStories() ([]int64, error) {
	resp, err := http.Get(topStoriesURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func getItem(id int64) (*hnItem, error) {
	resp, err := http.Get(fmt.Sprintf(itemURL, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var item hnItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
