// Package storage implements the row-append persistence capability: append
// one record to a table keyed by the job's domain, creating the table and
// its columns on first use.
package storage

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Record is one persisted row: the extracted detail fields plus the source
// URL, the time the article was found, and the keywords that matched.
type Record struct {
	DateFound         string `json:"date_found"         bson:"date_found"`
	ArticleURL        string `json:"article_url"        bson:"article_url"`
	Title             string `json:"title"              bson:"title"`
	Date              string `json:"date"               bson:"date"`
	Content           string `json:"content"            bson:"content"`
	SuspectName       string `json:"suspect_name"       bson:"suspect_name"`
	Age               string `json:"age"                bson:"age"`
	OfficerInvolved   string `json:"officer_involved"   bson:"officer_involved"`
	Location          string `json:"location"           bson:"location"`
	Department        string `json:"department"         bson:"department"`
	State             string `json:"state"              bson:"state"`
	Year              string `json:"year"               bson:"year"`
	Charge            string `json:"charge"             bson:"charge"`
	PrimaryKeywords   string `json:"primary_keywords"   bson:"primary_keywords"`
	SecondaryKeywords string `json:"secondary_keywords" bson:"secondary_keywords"`
}

// NewRecord flattens a detail record for persistence.
func NewRecord(rec *types.DetailRecord, articleURL string, matchedPrimary, matchedSecondary []string) Record {
	return Record{
		DateFound:         time.Now().Format(time.RFC3339),
		ArticleURL:        articleURL,
		Title:             strDeref(rec.Title),
		Date:              strDeref(rec.Date),
		Content:           strDeref(rec.Content),
		SuspectName:       strDeref(rec.SuspectName),
		Age:               intDeref(rec.Age),
		OfficerInvolved:   strDeref(rec.OfficerInvolved),
		Location:          strDeref(rec.Location),
		Department:        strDeref(rec.Department),
		State:             strDeref(rec.State),
		Year:              intDeref(rec.Year),
		Charge:            strDeref(rec.Charge),
		PrimaryKeywords:   strings.Join(matchedPrimary, ";"),
		SecondaryKeywords: strings.Join(matchedSecondary, ";"),
	}
}

// Sink is the record-append capability. Creating an already existing table
// is not an error.
type Sink interface {
	Append(ctx context.Context, table string, rec Record) error
	Close(ctx context.Context) error
}

// TableName derives the per-domain table name from the job's base URL.
func TableName(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(baseURL)
	}
	return strings.ToLower(u.Hostname())
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intDeref(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
