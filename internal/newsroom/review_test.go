package newsroom

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

func loadedQueue(t *testing.T, p *portal) *ReviewQueue {
	t.Helper()
	p.list("status=UNDER_REVIEW",
		types.Article{ID: "a1", Headline: "H1", Status: types.StatusUnderReview},
		types.Article{ID: "a2", Headline: "H2", Status: types.StatusUnderReview},
		types.Article{ID: "a3", Headline: "H3", Status: types.StatusUnderReview},
	)
	q := NewReviewQueue(p.client(), staticSession{user: rita}, nil)
	require.NoError(t, q.Load(context.Background()))
	return q
}

func TestReviewQueueLoad(t *testing.T) {
	p := newPortal(t)
	q := loadedQueue(t, p)

	query := p.last().Query
	assert.Equal(t, "UNDER_REVIEW", query.Get("status"))
	assert.Equal(t, "false", query.Get("published"))
	assert.Equal(t, "100", query.Get("pageSize"))
	assert.Equal(t, "updatedAt", query.Get("sortBy"))
	assert.Empty(t, query.Get("journalistId"))

	assert.Len(t, q.Articles(), 3)
	assert.Equal(t, "a1", q.Selected().ID)
}

func TestReviewQueueApprove(t *testing.T) {
	p := newPortal(t)
	q := loadedQueue(t, p)

	updated, err := q.Approve(context.Background(), "looks good")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPublished, updated.Status)

	c := p.last()
	assert.Equal(t, http.MethodPatch, c.Method)
	assert.Equal(t, "/api/articles/review/a1", c.Path)
	assert.Equal(t, "PUBLISHED", c.Query.Get("toStatus"))
	assert.Equal(t, "looks good", c.Query.Get("remark"))

	for _, a := range q.Articles() {
		assert.NotEqual(t, "a1", a.ID)
	}
	assert.Equal(t, "a2", q.Selected().ID)
}

func TestReviewQueueDecisionSelectsFirst(t *testing.T) {
	p := newPortal(t)
	q := loadedQueue(t, p)
	require.NoError(t, q.Select("a2"))

	_, err := q.Reject(context.Background(), "needs sources")
	require.NoError(t, err)
	assert.Equal(t, "/api/articles/review/a2", p.last().Path)

	require.Len(t, q.Articles(), 2)
	assert.Equal(t, "a1", q.Selected().ID)
}

func TestReviewQueueRejectDefaultRemark(t *testing.T) {
	p := newPortal(t)
	q := loadedQueue(t, p)
	require.NoError(t, q.Select("a3"))

	_, err := q.Reject(context.Background(), "  ")
	require.NoError(t, err)

	c := p.last()
	assert.Equal(t, "DRAFT", c.Query.Get("toStatus"))
	assert.Equal(t, DefaultRejectRemark, c.Query.Get("remark"))
	assert.Len(t, q.Articles(), 2)
	assert.Equal(t, "a1", q.Selected().ID, "selection wraps to the first article")
}

func TestReviewQueueApproveDefaultRemark(t *testing.T) {
	p := newPortal(t)
	q := loadedQueue(t, p)
	require.NoError(t, q.Select("a2"))

	_, err := q.Approve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultApproveRemark, p.last().Query.Get("remark"))
	assert.Equal(t, "a3", q.Selected().ID)
}

func TestReviewQueueEmpty(t *testing.T) {
	p := newPortal(t)
	q := NewReviewQueue(p.client(), staticSession{user: rita}, nil)
	require.NoError(t, q.Load(context.Background()))

	assert.Nil(t, q.Selected())
	_, err := q.Approve(context.Background(), "")
	assert.Equal(t, nerrors.ErrCodeArticleRequired, nerrors.CodeOf(err))
}

func TestReviewQueueFailureKeepsArticle(t *testing.T) {
	p := newPortal(t)
	q := loadedQueue(t, p)
	p.fail(http.StatusForbidden, "")

	_, err := q.Approve(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to approve the article")
	assert.Len(t, q.Articles(), 3)
	assert.Equal(t, "a1", q.Selected().ID)
}
