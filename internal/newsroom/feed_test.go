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

func TestFeedHome(t *testing.T) {
	p := newPortal(t)
	p.list("pageSize=1", types.Article{ID: "top", Headline: "Top story"})
	p.list("tags=science", types.Article{ID: "s1"}, types.Article{ID: "s2"})

	feed := NewFeed(p.client(), []string{"politics", "science"}, nil)
	home, err := feed.Home(context.Background())
	require.NoError(t, err)

	require.NotNil(t, home.Featured)
	assert.Equal(t, "top", home.Featured.ID)
	require.Len(t, home.Sections, 2)
	assert.Equal(t, "politics", home.Sections[0].Tag)
	assert.Empty(t, home.Sections[0].Articles)
	assert.Len(t, home.Sections[1].Articles, 2)

	calls := p.recorded()
	require.Len(t, calls, 3)
	featured := calls[0].Query
	assert.Equal(t, "true", featured.Get("published"))
	assert.Equal(t, "1", featured.Get("pageSize"))
	assert.Equal(t, "publishDate", featured.Get("sortBy"))
	assert.Equal(t, "DESC", featured.Get("sortOrder"))
	assert.Equal(t, "3", calls[2].Query.Get("pageSize"))
	assert.Equal(t, "science", calls[2].Query.Get("tags"))
	assert.Empty(t, calls[0].Auth, "public listing must not send a token")
}

func TestFeedDefaultTags(t *testing.T) {
	p := newPortal(t)
	feed := NewFeed(p.client(), nil, nil)

	home, err := feed.Home(context.Background())
	require.NoError(t, err)
	assert.Nil(t, home.Featured)
	require.Len(t, home.Sections, len(DefaultPopularTags))
	assert.Equal(t, "politics", home.Sections[0].Tag)
	assert.Equal(t, "health", home.Sections[5].Tag)
}

func TestFeedByTag(t *testing.T) {
	p := newPortal(t)
	p.list("tags=technology", types.Article{ID: "t1"})
	feed := NewFeed(p.client(), nil, nil)

	articles, err := feed.ByTag(context.Background(), "technology")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	q := p.last().Query
	assert.Equal(t, "technology", q.Get("tags"))
	assert.Equal(t, "true", q.Get("published"))
	assert.Empty(t, q.Get("pageSize"))

	_, err = feed.ByTag(context.Background(), "")
	assert.Equal(t, nerrors.ErrCodeFieldRequired, nerrors.CodeOf(err))
}

func TestFeedArticle(t *testing.T) {
	p := newPortal(t)
	p.list("id=a1", types.Article{ID: "a1", Headline: "H1"})
	feed := NewFeed(p.client(), nil, nil)

	a, err := feed.Article(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "H1", a.Headline)

	_, err = feed.Article(context.Background(), "missing")
	assert.Equal(t, nerrors.ErrCodeArticleNotFound, nerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestFeedBackendFailure(t *testing.T) {
	p := newPortal(t)
	p.fail(http.StatusInternalServerError, "")
	feed := NewFeed(p.client(), []string{"politics"}, nil)

	_, err := feed.Home(context.Background())
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeAPIResponse, nerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Failed to load articles")
}

func TestFeedCancelled(t *testing.T) {
	p := newPortal(t)
	feed := NewFeed(p.client(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := feed.ByTag(ctx, "politics")
	assert.Equal(t, nerrors.ErrCodeSessionCancelled, nerrors.CodeOf(err))
}
