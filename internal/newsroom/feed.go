package newsroom

import (
	"context"
	"errors"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// DefaultPopularTags are the home page sections, in display order
var DefaultPopularTags = []string{"politics", "technology", "science", "entertainment", "geopolitics", "health"}

const tagSectionSize = 3

// TagSection is one popular-tag block of the home page
type TagSection struct {
	Tag      string          `json:"tag" yaml:"tag"`
	Articles []types.Article `json:"articles" yaml:"articles"`
}

// HomePage is the featured article plus the popular tag sections
type HomePage struct {
	Featured *types.Article `json:"featured,omitempty" yaml:"featured,omitempty"`
	Sections []TagSection   `json:"sections" yaml:"sections"`
}

// Feed serves the public reading views
type Feed struct {
	api    ArticleAPI
	tags   []string
	logger *log.Logger
}

// NewFeed creates a feed. Empty tags fall back to DefaultPopularTags.
func NewFeed(api ArticleAPI, tags []string, logger *log.Logger) *Feed {
	if len(tags) == 0 {
		tags = DefaultPopularTags
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Feed{api: api, tags: tags, logger: logger.With("component", "feed")}
}

// Home loads the newest published article and the top three of each popular tag
func (f *Feed) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{Sections: make([]TagSection, 0, len(f.tags))}

	featured, err := f.api.ListArticles(ctx, types.PublishedFeed("", 1))
	if err != nil {
		return nil, failure(ctx, err, "Failed to load articles. Please try again later.")
	}
	if len(featured.Content) > 0 {
		a := featured.Content[0]
		page.Featured = &a
	}

	for _, tag := range f.tags {
		res, err := f.api.ListArticles(ctx, types.PublishedFeed(tag, tagSectionSize))
		if err != nil {
			return nil, failure(ctx, err, "Failed to load articles. Please try again later.")
		}
		page.Sections = append(page.Sections, TagSection{Tag: tag, Articles: res.Content})
	}

	f.logger.DebugContext(ctx, "home feed loaded", "featured", page.Featured != nil, "sections", len(page.Sections))
	return page, nil
}

// ByTag lists the published articles carrying tag, newest first
func (f *Feed) ByTag(ctx context.Context, tag string) ([]types.Article, error) {
	if tag == "" {
		return nil, nerrors.New(nerrors.ErrCodeFieldRequired, "tag is required")
	}
	res, err := f.api.ListArticles(ctx, types.PublishedFeed(tag, 0))
	if err != nil {
		return nil, failure(ctx, err, "Failed to load articles. Please try again later.")
	}
	return res.Content, nil
}

// Article returns one published article. An empty result is ARTICLE-001, not a fault.
func (f *Feed) Article(ctx context.Context, id string) (*types.Article, error) {
	if id == "" {
		return nil, nerrors.New(nerrors.ErrCodeArticleRequired, "article id is required")
	}
	a, err := f.api.FindArticle(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		return nil, nerrors.NewArticleNotFoundError(id)
	}
	if err != nil {
		return nil, failure(ctx, err, "Failed to load the article. Please try again later.")
	}
	return a, nil
}
