package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArticleStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ArticleStatus
		wantErr bool
	}{
		{"DRAFT", StatusDraft, false},
		{"under_review", StatusUnderReview, false},
		{" published ", StatusPublished, false},
		{"ARCHIVED", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseArticleStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserProfileHelpers(t *testing.T) {
	var nilUser *UserProfile
	assert.False(t, nilUser.HasRole(RoleAdmin))
	assert.Empty(t, nilUser.DisplayName())

	u := &UserProfile{Username: "alice", Roles: []Role{RoleJournalist}}
	assert.True(t, u.HasRole(RoleJournalist))
	assert.False(t, u.HasRole(RoleReviewer))
	assert.Equal(t, "alice", u.DisplayName())

	u.FirstName, u.LastName = "Alice", "Smith"
	assert.Equal(t, "Alice Smith", u.DisplayName())
}

func TestArticleDecodesBackendShape(t *testing.T) {
	body := `{"content":[{"id":"a1","headline":"H1","status":"DRAFT","published":false,
		"publishDate":1700000000000,"remarks":[{"from":"DRAFT","to":"UNDER_REVIEW","remark":"ok","userId":"u1","timestamp":1700000000000}]}]}`

	var page Page
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Content, 1)

	a := page.Content[0]
	assert.Equal(t, "H1", a.Headline)
	assert.Equal(t, StatusDraft, a.Status)
	assert.Equal(t, int64(1700000000000), a.PublishTime().UnixMilli())
	require.Len(t, a.Remarks, 1)
	assert.Equal(t, StatusUnderReview, a.Remarks[0].To)
}

func TestArticleZeroPublishTime(t *testing.T) {
	assert.True(t, Article{}.PublishTime().IsZero())
}

func TestArticleInputValidate(t *testing.T) {
	assert.Error(t, ArticleInput{Headline: "  "}.Validate())
	assert.NoError(t, ArticleInput{Headline: "Budget vote"}.Validate())
}

func TestArticlePatchIsEmpty(t *testing.T) {
	assert.True(t, ArticlePatch{}.IsEmpty())
	assert.False(t, ArticlePatch{Headline: String("H2")}.IsEmpty())
	assert.False(t, ArticlePatch{Tags: Strings()}.IsEmpty())

	b, err := json.Marshal(ArticlePatch{Summary: String(""), Tags: Strings()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"","tags":[]}`, string(b))
}

func TestArticleQueryValues(t *testing.T) {
	t.Run("drafts", func(t *testing.T) {
		v := DraftsOf("alice").Values()
		assert.Equal(t, "DRAFT", v.Get("status"))
		assert.Equal(t, "false", v.Get("published"))
		assert.Equal(t, "alice", v.Get("journalistId"))
		assert.Equal(t, "0", v.Get("pageNumber"))
		assert.Equal(t, "100", v.Get("pageSize"))
		assert.Equal(t, "updatedAt", v.Get("sortBy"))
		assert.Equal(t, "DESC", v.Get("sortOrder"))
	})

	t.Run("under review has no journalist", func(t *testing.T) {
		v := UnderReview().Values()
		assert.Equal(t, "UNDER_REVIEW", v.Get("status"))
		assert.False(t, v.Has("journalistId"))
	})

	t.Run("tag page leaves paging to backend", func(t *testing.T) {
		v := PublishedFeed("science", 0).Values()
		assert.Equal(t, "science", v.Get("tags"))
		assert.Equal(t, "true", v.Get("published"))
		assert.False(t, v.Has("pageNumber"))
		assert.False(t, v.Has("pageSize"))
	})

	t.Run("featured", func(t *testing.T) {
		v := PublishedFeed("", 1).Values()
		assert.Equal(t, "0", v.Get("pageNumber"))
		assert.Equal(t, "1", v.Get("pageSize"))
		assert.Equal(t, "publishDate", v.Get("sortBy"))
		assert.False(t, v.Has("tags"))
	})

	t.Run("by id", func(t *testing.T) {
		v := PublishedByID("a1").Values()
		assert.Equal(t, "a1", v.Get("id"))
		assert.Equal(t, "true", v.Get("published"))
	})
}
