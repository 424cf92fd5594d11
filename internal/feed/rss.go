// Package feed reads monthly talk announcement feeds (RSS 2.0) and turns their
// items into documents for vectorization.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"talkrec/internal/domain"
)

// Talk is one announcement item from a feed.
type Talk struct {
	ID       string
	URL      string
	Title    string
	Speaker  string
	Date     string
	Location string
	Detail   string
	PubDate  string
	Author   string
}

// Document returns the talk as a vectorizable document: title and detail.
func (t Talk) Document() domain.Document {
	return domain.Document{ID: t.ID, Fields: []string{t.Title, t.Detail}}
}

func (t Talk) String() string {
	return fmt.Sprintf("%s\n  Speaker: %s\n  Location: %s\n  Date: %s\n  URL: %s\n", t.Title, t.Speaker, t.Location, t.Date, t.URL)
}

type rssDoc struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Link        string `xml:"link"`
	Title       string `xml:"title"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Author      string `xml:"author"`
}

var (
	trailingIDRe   = regexp.MustCompile(`([0-9]+)$`)
	descriptionRe  = regexp.MustCompile(`(?s)Speaker:(.+)Date:(.+)Location:(.+)Detail:(.+)`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	markupTags     = regexp.MustCompile(`<[^>]*>`)
)

// Parse decodes an RSS document. The charset declared in the XML header is
// honored. Items whose link does not end in a numeric id are skipped.
func Parse(r io.Reader) ([]Talk, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var doc rssDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}
	talks := make([]Talk, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		link := strings.TrimSpace(it.Link)
		m := trailingIDRe.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		t := Talk{
			ID:      m[1],
			URL:     link,
			Title:   clean(it.Title),
			PubDate: clean(it.PubDate),
			Author:  clean(it.Author),
		}
		if parts := descriptionRe.FindStringSubmatch(it.Description); parts != nil {
			t.Speaker = clean(parts[1])
			t.Date = clean(parts[2])
			t.Location = clean(parts[3])
			t.Detail = clean(parts[4])
		} else {
			t.Detail = clean(it.Description)
		}
		talks = append(talks, t)
	}
	return talks, nil
}

func clean(s string) string {
	s = markupTags.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}
