package newsroom

import (
	"context"
	"strings"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// Composer creates new articles for the logged-in journalist
type Composer struct {
	api    ArticleAPI
	sess   SessionSource
	logger *log.Logger
}

// NewComposer creates a composer
func NewComposer(api ArticleAPI, sess SessionSource, logger *log.Logger) *Composer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Composer{api: api, sess: sess, logger: logger.With("component", "composer")}
}

// Create submits form as a new draft, then uploads media when given
func (c *Composer) Create(ctx context.Context, form ArticleForm, media []client.MediaFile) (*types.Article, error) {
	user, err := currentUser(c.sess, "create articles")
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	created, err := c.api.CreateArticle(ctx, form.Input(user.ID))
	if err != nil {
		return nil, failure(ctx, err, "Failed to create the article. Please try again later.")
	}
	if len(media) > 0 {
		withMedia, err := c.api.UploadMedia(ctx, created.ID, types.MediaTypeMedia, media)
		if err != nil {
			return created, failure(ctx, err, "Article created but the media upload failed.")
		}
		created = withMedia
	}

	c.logger.InfoContext(ctx, "article created", "article_id", created.ID, "media", len(media))
	return created, nil
}

// Upload attaches files to article id
func Upload(ctx context.Context, api ArticleAPI, id, mediaType string, files []client.MediaFile) (*types.Article, error) {
	if id == "" {
		return nil, nerrors.New(nerrors.ErrCodeArticleRequired, "article id is required")
	}
	if mediaType != types.MediaTypeMedia {
		return nil, nerrors.New(nerrors.ErrCodeInvalidMediaType, "unsupported media type: "+mediaType).
			WithSuggestion("Use --type " + types.MediaTypeMedia)
	}
	if len(files) == 0 {
		return nil, nerrors.New(nerrors.ErrCodeFieldRequired, "at least one file is required")
	}
	a, err := api.UploadMedia(ctx, id, mediaType, files)
	if err != nil {
		return nil, failure(ctx, err, "Failed to upload media. Please try again later.")
	}
	return a, nil
}

// Unpublish withdraws published article id with remark
func Unpublish(ctx context.Context, api ArticleAPI, id, remark string) (*types.Article, error) {
	if id == "" {
		return nil, nerrors.New(nerrors.ErrCodeArticleRequired, "article id is required")
	}
	if strings.TrimSpace(remark) == "" {
		return nil, nerrors.New(nerrors.ErrCodeFieldRequired, "remark is required")
	}
	a, err := api.UnpublishArticle(ctx, id, remark)
	if err != nil {
		return nil, failure(ctx, err, "Failed to unpublish the article. Please try again later.")
	}
	return a, nil
}
