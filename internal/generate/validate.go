package generate

import (
	"strings"

	"github.com/dgallion1/onthisday/internal/history"
)

const (
	maxTitleLen = 200
	maxYearLen  = 20
)

// validateEvent converts a wire event into the domain model. It fails on an
// unknown region, a missing title or year, or a source URL that is not https.
// Body and teaser may be empty; the layout handles both.
func validateEvent(we wireEvent) (history.Event, bool) {
	region, ok := history.ParseRegion(we.Region)
	if !ok {
		return history.Event{}, false
	}

	title := strings.TrimSpace(we.Title)
	if title == "" || len(title) > maxTitleLen {
		return history.Event{}, false
	}
	year := strings.TrimSpace(we.Year)
	if year == "" || len(year) > maxYearLen {
		return history.Event{}, false
	}

	wikiURL := strings.TrimSpace(we.WikipediaURL)
	if wikiURL != "" && !strings.HasPrefix(wikiURL, "https://") {
		wikiURL = ""
	}

	return history.Event{
		Region:       region,
		Title:        title,
		Year:         year,
		Teaser:       strings.TrimSpace(we.Teaser),
		Body:         we.Body,
		WikipediaURL: wikiURL,
		SearchQuery:  strings.TrimSpace(we.SearchQuery),
	}, true
}
