package history

import "strings"

// Region is one of the fixed set of regions a digest covers. Events whose
// region is not in the set never enter the pipeline.
type Region string

const (
	AncientRome    Region = "Ancient Rome"
	AncientGreece  Region = "Ancient Greece"
	MedievalEurope Region = "Medieval Europe"
	UnitedStates   Region = "United States"
	Japan          Region = "Japan"
)

// RegionOrder is the order regions appear in the document and in summaries,
// independent of the order events arrive in.
var RegionOrder = []Region{
	AncientRome,
	AncientGreece,
	MedievalEurope,
	UnitedStates,
	Japan,
}

// ParseRegion maps a free-text region name onto the closed set.
func ParseRegion(s string) (Region, bool) {
	r := Region(strings.TrimSpace(s))
	for _, known := range RegionOrder {
		if r == known {
			return known, true
		}
	}
	return "", false
}

// Event is one historical event in a digest. Immutable once handed to the
// composer; the image URL is attached by the pipeline before composition.
type Event struct {
	Region       Region
	Title        string
	Year         string
	Teaser       string
	Body         string
	WikipediaURL string
	ImageURL     string
	SearchQuery  string
}

// BodyParagraphs splits the body on blank-line boundaries, trimming each
// segment and dropping empty ones.
func (e Event) BodyParagraphs() []string {
	var paras []string
	for _, p := range strings.Split(strings.TrimSpace(e.Body), "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// GroupByRegion buckets events by region, preserving input order within each
// region. Every known region has an entry, possibly empty.
func GroupByRegion(events []Event) map[Region][]Event {
	grouped := make(map[Region][]Event, len(RegionOrder))
	for _, r := range RegionOrder {
		grouped[r] = nil
	}
	for _, e := range events {
		if _, ok := grouped[e.Region]; ok {
			grouped[e.Region] = append(grouped[e.Region], e)
		}
	}
	return grouped
}
