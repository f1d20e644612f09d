package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/onthisday/internal/history"
)

const systemPrompt = `You are a historian and writer in the style of Dan Jones. Your writing is clear,
grounded, and vivid without being dramatic. You focus on concrete human details, specific numbers,
dates, and the texture of daily life. You avoid purple prose, sweeping generalizations, and
breathless superlatives.

Good: "On 15 March 44 BC, Julius Caesar walked to the Theatre of Pompey for a Senate meeting.
He had been warned."

Bad: "In a moment that would echo through the ages, the fate of the Roman world hung in the
balance."

You always return valid JSON and nothing else.`

// userPrompt builds the per-date request. The region list is the same closed
// set the layout iterates, so every generated event has a home in the
// document.
func userPrompt(date time.Time) string {
	dateLabel := date.Format("January 2")

	var regions strings.Builder
	for _, r := range history.RegionOrder {
		fmt.Fprintf(&regions, "- %s\n", r)
	}

	return fmt.Sprintf(`Today is %[1]s. Generate a historical digest for this date.

Find real historical events that happened on %[1]s (any year) in these regions:
%[2]s
Return a JSON object with this exact structure:
{
  "events": [
    {
      "region": "Ancient Rome",
      "title": "Short, punchy title — do not include the year in the title",
      "year": "44 BC",
      "teaser": "One sentence. Concrete, specific. Slightly surprising or human in scale.",
      "body": "3 to 5 paragraphs of narrative. Dan Jones style. No bullet points, no headers — actual paragraphs separated by double newlines. Focus on human-scale details, real names, real numbers, real places. Give enough context that someone unfamiliar with the period can follow it without it becoming a lecture.",
      "wikipedia_url": "https://en.wikipedia.org/wiki/REAL_ARTICLE_TITLE",
      "wikimedia_search_query": "3-4 keywords describing the visual you would want — e.g. 'Roman Senate ancient fresco' or 'medieval castle siege painting'"
    }
  ]
}

Rules:
- Only include events that genuinely happened on or within 2 days of %[1]s (any year)
- The "region" field must be exactly one of the region names listed above
- If a region has no notable events near this date, include zero events for that region — do NOT fabricate
- If a region has multiple genuinely interesting events on this date, include all of them
- Wikipedia URLs must be real, well-known articles — not stubs or obscure pages
- Keep body text grounded and human: specific dates, names, numbers. No vague drama.
- wikimedia_search_query should describe a photograph, painting, or illustration — not a map or diagram

Return only the JSON object. No markdown fences, no commentary.`, dateLabel, regions.String())
}
