package types

import (
	"net/url"
	"strconv"
)

// SortOrder for article listings
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ArticleQuery holds the filters accepted by the article listing endpoint.
// Zero values are omitted from the query string.
type ArticleQuery struct {
	ID           string
	Status       ArticleStatus
	Published    *bool
	JournalistID string
	Tags         string
	PageNumber   *int
	PageSize     int
	SortBy       string
	SortOrder    SortOrder
}

// Values encodes the query as URL parameters
func (q ArticleQuery) Values() url.Values {
	v := url.Values{}
	if q.ID != "" {
		v.Set("id", q.ID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Published != nil {
		v.Set("published", strconv.FormatBool(*q.Published))
	}
	if q.JournalistID != "" {
		v.Set("journalistId", q.JournalistID)
	}
	if q.Tags != "" {
		v.Set("tags", q.Tags)
	}
	if q.PageNumber != nil {
		v.Set("pageNumber", strconv.Itoa(*q.PageNumber))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", string(q.SortOrder))
	}
	return v
}

// Bool returns a pointer to b, for ArticleQuery.Published
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i, for ArticleQuery.PageNumber
func Int(i int) *int {
	return &i
}

// String returns a pointer to s, for ArticlePatch fields
func String(s string) *string {
	return &s
}

// Strings returns a pointer to a non-nil copy of v, for ArticlePatch lists
func Strings(v ...string) *[]string {
	s := append([]string{}, v...)
	return &s
}

// PublishedFeed is the query behind the home feed and tag pages.
// A zero pageSize leaves paging to the backend.
func PublishedFeed(tag string, pageSize int) ArticleQuery {
	q := ArticleQuery{
		Published: Bool(true),
		Tags:      tag,
		PageSize:  pageSize,
		SortBy:    "publishDate",
		SortOrder: SortDesc,
	}
	if pageSize > 0 {
		q.PageNumber = Int(0)
	}
	return q
}

// PublishedByID is the single-article lookup used by detail views
func PublishedByID(id string) ArticleQuery {
	return ArticleQuery{
		ID:        id,
		Published: Bool(true),
		SortBy:    "publishDate",
		SortOrder: SortDesc,
	}
}

// DraftsOf is the query for a journalist's own drafts
func DraftsOf(journalistID string) ArticleQuery {
	return ArticleQuery{
		Status:       StatusDraft,
		Published:    Bool(false),
		JournalistID: journalistID,
		PageNumber:   Int(0),
		PageSize:     100,
		SortBy:       "updatedAt",
		SortOrder:    SortDesc,
	}
}

// UnderReview is the query for the reviewer queue
func UnderReview() ArticleQuery {
	return ArticleQuery{
		Status:     StatusUnderReview,
		Published:  Bool(false),
		PageNumber: Int(0),
		PageSize:   100,
		SortBy:     "updatedAt",
		SortOrder:  SortDesc,
	}
}
