package newsroom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

func TestArticleListRender(t *testing.T) {
	var buf bytes.Buffer
	list := ArticleList{
		{ID: "a1", Headline: "H1", Status: types.StatusDraft, Tags: []string{"politics", "science"}},
	}
	require.NoError(t, list.RenderText(&buf, true))

	out := buf.String()
	assert.Contains(t, out, "HEADLINE")
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "politics, science")

	buf.Reset()
	require.NoError(t, ArticleList(nil).RenderText(&buf, true))
	assert.Equal(t, "No articles found.\n", buf.String())
}

func TestArticleDetailRemarksNewestFirst(t *testing.T) {
	a := types.Article{
		ID:       "a1",
		Headline: "H1",
		Remarks: []types.Remark{
			{From: types.StatusDraft, To: types.StatusUnderReview, Remark: "first", Timestamp: 1000},
			{From: types.StatusUnderReview, To: types.StatusPublished, Remark: "second", UserID: "rita", Timestamp: 2000},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ArticleDetail{Article: a}.RenderText(&buf, true))
	out := buf.String()

	assert.Contains(t, out, "UNDER_REVIEW → PUBLISHED")
	assert.Contains(t, out, "by rita")
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first"))
	assert.Equal(t, "first", a.Remarks[0].Remark, "input order must be untouched")
}

func TestHomePageRender(t *testing.T) {
	home := &HomePage{
		Featured: &types.Article{ID: "top", Headline: "Top story"},
		Sections: []TagSection{{Tag: "science", Articles: []types.Article{{ID: "s1", Headline: "Physics"}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, home.RenderText(&buf, true))
	out := buf.String()
	assert.Contains(t, out, "FEATURED")
	assert.Contains(t, out, "Top story")
	assert.Contains(t, out, "#science")
	assert.Contains(t, out, "Physics")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
}
