package newsroom

import (
	"context"
	"strings"
	"sync"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

const (
	DefaultApproveRemark = "Approved by reviewer"
	DefaultRejectRemark  = "Rejected by reviewer"
)

// ReviewQueue is the reviewer screen over articles awaiting review
type ReviewQueue struct {
	api    ArticleAPI
	sess   SessionSource
	logger *log.Logger

	mu       sync.Mutex
	articles []types.Article
	selected string
}

// NewReviewQueue creates an empty queue; call Load to fetch it
func NewReviewQueue(api ArticleAPI, sess SessionSource, logger *log.Logger) *ReviewQueue {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReviewQueue{api: api, sess: sess, logger: logger.With("component", "review")}
}

// Load fetches every article under review and selects the first
func (q *ReviewQueue) Load(ctx context.Context) error {
	if _, err := currentUser(q.sess, "review articles"); err != nil {
		return err
	}

	page, err := q.api.ListArticles(ctx, types.UnderReview())
	if err != nil {
		return failure(ctx, err, "Failed to load articles for review. Please try again later.")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.articles = page.Content
	q.selected = ""
	if len(q.articles) > 0 {
		q.selected = q.articles[0].ID
	}
	q.logger.DebugContext(ctx, "review queue loaded", "count", len(q.articles))
	return nil
}

// Articles returns a copy of the queue
func (q *ReviewQueue) Articles() []types.Article {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]types.Article{}, q.articles...)
}

// Selected returns the selected article, or nil
func (q *ReviewQueue) Selected() *types.Article {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := indexByID(q.articles, q.selected); i >= 0 {
		a := q.articles[i]
		return &a
	}
	return nil
}

// Select makes id the current article
func (q *ReviewQueue) Select(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if indexByID(q.articles, id) < 0 {
		return nerrors.NewArticleNotFoundError(id)
	}
	q.selected = id
	return nil
}

// Approve publishes the selected article
func (q *ReviewQueue) Approve(ctx context.Context, remark string) (*types.Article, error) {
	return q.decide(ctx, types.StatusPublished, remark, DefaultApproveRemark,
		"Failed to approve the article. Please try again later.")
}

// Reject sends the selected article back to draft
func (q *ReviewQueue) Reject(ctx context.Context, remark string) (*types.Article, error) {
	return q.decide(ctx, types.StatusDraft, remark, DefaultRejectRemark,
		"Failed to reject the article. Please try again later.")
}

func (q *ReviewQueue) decide(ctx context.Context, to types.ArticleStatus, remark, fallbackRemark, failMsg string) (*types.Article, error) {
	q.mu.Lock()
	id := q.selected
	q.mu.Unlock()
	if id == "" {
		return nil, nerrors.New(nerrors.ErrCodeArticleRequired, "Please select an article to review")
	}
	if strings.TrimSpace(remark) == "" {
		remark = fallbackRemark
	}

	updated, err := q.api.ReviewArticle(ctx, id, to, remark)
	if err != nil {
		return nil, failure(ctx, err, failMsg)
	}

	q.mu.Lock()
	q.articles = removeByID(q.articles, id)
	q.selected = ""
	if len(q.articles) > 0 {
		q.selected = q.articles[0].ID
	}
	q.mu.Unlock()

	q.logger.InfoContext(ctx, "article reviewed", "article_id", id, "to_status", to.String())
	return updated, nil
}
