// download-hn fetches current Hacker News headlines and writes them as a
// CSV ready for concreteness scoring: the headline and abstract columns line
// up with concrete-cli's default field list.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Hacker News API endpoints
const (
	apiBase       = "https://hacker-news.firebaseio.com/v0"
	topStoriesURL = apiBase + "/topstories.json"
	itemURL       = apiBase + "/item/%d.json"
)

// HNItem represents a Hacker News story
type HNItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Time  int64  `json:"time"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

func main() {
	var (
		count   = flag.Int("count", 100, "Number of top stories to download")
		outPath = flag.String("output", "testdata/hn/stories.csv", "Output CSV path")
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

	if dir := filepath.Dir(*outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create output directory:", err)
		}
	}

	outFile, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	defer outFile.Close()

	w := csv.NewWriter(outFile)
	if err := w.Write([]string{"headline", "abstract", "url", "published_at"}); err != nil {
		log.Fatal("Failed to write header:", err)
	}

	downloaded := 0
	for _, id := range storyIDs {
		item, err := getItem(id)
		if err != nil {
			log.Printf("Failed to get item %d: %v", id, err)
			continue
		}

		// Only stories carry a headline worth scoring
		if item.Type != "story" || item.Title == "" {
			continue
		}

		row := []string{
			item.Title,
			stripHTML(item.Text),
			fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID),
			time.Unix(item.Time, 0).UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			log.Printf("Failed to write row for item %d: %v", item.ID, err)
			continue
		}

		downloaded++
		if downloaded%10 == 0 {
			log.Printf("Downloaded %d stories...", downloaded)
		}

		// Be nice to the API
		time.Sleep(50 * time.Millisecond)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal("Failed to flush output:", err)
	}

	log.Printf("✓ Successfully downloaded %d stories to %s", downloaded, *outPath)
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

func getItem(id int64) (*HNItem, error) {
	url := fmt.Sprintf(itemURL, id)
	resp, err := http.Get(url)
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

	var item HNItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// stripHTML extracts the text content of an HTML fragment. HN story text is
// HTML-encoded; scoring wants plain words.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
