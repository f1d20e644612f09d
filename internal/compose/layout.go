package compose

import (
	"time"

	"github.com/dgallion1/onthisday/internal/history"
)

// BuildPlan lays out the digest for one date. The traversal is deterministic:
// title block, then each region in history.RegionOrder (regions with no
// events are skipped), then per event a heading, an optional image slot, the
// justified body paragraphs, and either a link paragraph or a single blank
// filler.
func BuildPlan(date time.Time, events []history.Event) *Plan {
	a := NewAssembler()
	title := "On This Day — " + date.Format("January 2, 2006")

	a.Append(title+"\n", Style{Named: StyleTitle, Alignment: AlignCenter, SpaceBelow: 10})
	a.Append("\n", Style{}) // visual gap under the title

	grouped := history.GroupByRegion(events)
	for _, region := range history.RegionOrder {
		regionEvents := grouped[region]
		if len(regionEvents) == 0 {
			continue
		}

		h1 := ColorHeading1
		a.Append(string(region)+"\n", Style{
			Named:      StyleHeading1,
			Color:      &h1,
			SpaceAbove: 20,
			SpaceBelow: 6,
		})

		for _, ev := range regionEvents {
			h2 := ColorHeading2
			a.Append(ev.Title+" · "+ev.Year+"\n", Style{
				Named:      StyleHeading2,
				Color:      &h2,
				SpaceAbove: 16,
				SpaceBelow: 4,
			})

			a.ReserveImage(ev.ImageURL)

			for _, para := range ev.BodyParagraphs() {
				a.Append(para+"\n", Style{
					Named:      StyleNormal,
					Alignment:  AlignJustified,
					SpaceBelow: 8,
				})
			}

			if ev.WikipediaURL != "" {
				a.Append("Read more →\n", Style{
					Named:      StyleNormal,
					Link:       ev.WikipediaURL,
					Italic:     true,
					SpaceAbove: 4,
					SpaceBelow: 18,
				})
			} else {
				a.Append("\n", Style{}) // gap where the link would be
			}
		}

		a.Append("\n", Style{}) // gap between regions
	}

	return a.Build(title)
}
