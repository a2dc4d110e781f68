// Package feeds loads collected documents from JSONL files. Collectors
// run out of process and hand the pipeline finished batches; this is the
// boundary where their output enters the engine.
package feeds

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal"
)

// Item is one collected document as serialized by a collector.
type Item struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceType string `json:"source_type"`
	SourceName string `json:"source_name"`
	Published  string `json:"published_date"`
	URL        string `json:"url"`
	Identifier string `json:"identifier"`
}

// LoadFromJSONL loads documents from a JSONL file. Malformed lines are
// logged and skipped; an entirely empty file is an error.
func LoadFromJSONL(path string) ([]signal.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var docs []signal.Document
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		docs = append(docs, toDocument(item))
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}
	return docs, nil
}

func toDocument(item Item) signal.Document {
	doc := signal.Document{
		Title:      item.Title,
		Content:    item.Content,
		SourceType: item.SourceType,
		SourceName: item.SourceName,
		URL:        item.URL,
		Identifier: item.Identifier,
	}
	if item.Published != "" {
		if t, err := time.Parse("2006-01-02", item.Published); err == nil {
			doc.Published = t
		} else if t, err := time.Parse(time.RFC3339, item.Published); err == nil {
			doc.Published = t
		}
	}
	return doc
}
