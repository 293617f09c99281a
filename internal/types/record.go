package types

import "strings"

// ArticleReference is one candidate article found on a listing page. Only
// the URL is required for processing; the listing date is advisory, the
// authoritative date comes from the detail record.
type ArticleReference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

// DetailRecord is the structured extraction result for one article page.
// Every field is optional; a record without a parseable date is unusable
// for the cutoff comparison.
type DetailRecord struct {
	Title           *string `json:"title"`
	Date            *string `json:"date"`
	Content         *string `json:"content"`
	SuspectName     *string `json:"suspect_name"`
	Age             *int    `json:"age"`
	OfficerInvolved *string `json:"officer_involved"`
	Location        *string `json:"location"`
	Department      *string `json:"department"`
	State           *string `json:"state"`
	Year            *int    `json:"year"`
	Charge          *string `json:"charge"`
}

// Text joins the textual fields for keyword matching.
func (r *DetailRecord) Text() string {
	var b strings.Builder
	for _, f := range []*string{r.Title, r.Content, r.SuspectName, r.OfficerInvolved, r.Location, r.Department, r.State, r.Charge} {
		if f != nil && *f != "" {
			b.WriteString(*f)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// UnusableReason tags why a record cannot be compared against the date
// window.
type UnusableReason int

const (
	// Usable means the record carries a parseable date.
	Usable UnusableReason = iota
	// NoDate means extraction returned no date at all.
	NoDate
	// BadDate means the date text did not parse.
	BadDate
)

func (r UnusableReason) String() string {
	switch r {
	case Usable:
		return "usable"
	case NoDate:
		return "no date"
	case BadDate:
		return "unparseable date"
	default:
		return "unknown"
	}
}
