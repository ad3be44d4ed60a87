package types

import (
	"fmt"
	"strings"
	"time"
)

// ArticleStatus is the editorial state of an article
type ArticleStatus string

const (
	StatusDraft       ArticleStatus = "DRAFT"
	StatusUnderReview ArticleStatus = "UNDER_REVIEW"
	StatusPublished   ArticleStatus = "PUBLISHED"
)

// MediaTypeMedia is the only upload type the portal uses
const MediaTypeMedia = "MEDIA"

// ParseArticleStatus parses a status case-insensitively
func ParseArticleStatus(s string) (ArticleStatus, error) {
	status := ArticleStatus(strings.ToUpper(strings.TrimSpace(s)))
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that the status is one the backend knows
func (s ArticleStatus) Validate() error {
	switch s {
	case StatusDraft, StatusUnderReview, StatusPublished:
		return nil
	default:
		return fmt.Errorf("invalid article status %q (expected DRAFT, UNDER_REVIEW or PUBLISHED)", string(s))
	}
}

// String returns the string representation
func (s ArticleStatus) String() string {
	return string(s)
}

// Remark is one entry of an article's review history
type Remark struct {
	From      ArticleStatus `json:"from,omitempty" yaml:"from,omitempty"`
	To        ArticleStatus `json:"to,omitempty" yaml:"to,omitempty"`
	Remark    string        `json:"remark" yaml:"remark"`
	UserID    string        `json:"userId,omitempty" yaml:"userId,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Time converts the epoch-millisecond timestamp
func (r Remark) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Article is a news article as returned by the portal backend
type Article struct {
	ID           string        `json:"id" yaml:"id"`
	Headline     string        `json:"headline" yaml:"headline"`
	Summary      string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Content      string        `json:"content,omitempty" yaml:"content,omitempty"`
	Tags         []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Sources      []string      `json:"sources,omitempty" yaml:"sources,omitempty"`
	Media        []string      `json:"media,omitempty" yaml:"media,omitempty"`
	Status       ArticleStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Published    bool          `json:"published" yaml:"published"`
	JournalistID string        `json:"journalistId,omitempty" yaml:"journalistId,omitempty"`
	PublishDate  int64         `json:"publishDate,omitempty" yaml:"publishDate,omitempty"`
	Remarks      []Remark      `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	CreatedAt    int64         `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt    int64         `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// PublishTime converts PublishDate; the zero time when unset
func (a Article) PublishTime() time.Time {
	if a.PublishDate == 0 {
		return time.Time{}
	}
	return time.UnixMilli(a.PublishDate)
}

// Page is the paged envelope returned by the article listing endpoint
type Page struct {
	Content       []Article `json:"content" yaml:"content"`
	TotalElements int64     `json:"totalElements,omitempty" yaml:"totalElements,omitempty"`
	TotalPages    int       `json:"totalPages,omitempty" yaml:"totalPages,omitempty"`
	Number        int       `json:"number,omitempty" yaml:"number,omitempty"`
	Size          int       `json:"size,omitempty" yaml:"size,omitempty"`
}

// ArticleInput is the body of a create request
type ArticleInput struct {
	Headline     string   `json:"headline"`
	Summary      string   `json:"summary,omitempty"`
	Content      string   `json:"content,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	JournalistID string   `json:"journalistId,omitempty"`
}

// Validate checks the fields the portal form marks as required
func (in ArticleInput) Validate() error {
	if strings.TrimSpace(in.Headline) == "" {
		return fmt.Errorf("headline is required")
	}
	return nil
}

// ArticlePatch is the body of a partial update. Nil fields are not sent;
// a non-nil empty Tags or Sources clears the list.
type ArticlePatch struct {
	Headline    *string   `json:"headline,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
	Content     *string   `json:"content,omitempty"`
	PublishDate *int64    `json:"publishDate,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Sources     *[]string `json:"sources,omitempty"`
}

// IsEmpty reports whether the patch would change nothing
func (p ArticlePatch) IsEmpty() bool {
	return p.Headline == nil && p.Summary == nil && p.Content == nil &&
		p.PublishDate == nil && p.Tags == nil && p.Sources == nil
}
