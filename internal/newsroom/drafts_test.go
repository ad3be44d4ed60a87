package newsroom

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

func loadedEditor(t *testing.T, p *portal) *DraftEditor {
	t.Helper()
	p.list("journalistId=alice",
		types.Article{ID: "a1", Headline: "H1", Status: types.StatusDraft, Tags: []string{"politics"}},
		types.Article{ID: "a2", Headline: "H2", Status: types.StatusDraft},
	)
	e := NewDraftEditor(p.client(), staticSession{user: alice}, nil)
	require.NoError(t, e.Load(context.Background()))
	return e
}

func TestDraftEditorLoad(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)

	q := p.last().Query
	assert.Equal(t, "DRAFT", q.Get("status"))
	assert.Equal(t, "false", q.Get("published"))
	assert.Equal(t, "alice", q.Get("journalistId"))
	assert.Equal(t, "0", q.Get("pageNumber"))
	assert.Equal(t, "100", q.Get("pageSize"))
	assert.Equal(t, "updatedAt", q.Get("sortBy"))
	assert.Equal(t, "DESC", q.Get("sortOrder"))

	assert.Len(t, e.Drafts(), 2)
	require.NotNil(t, e.Selected())
	assert.Equal(t, "a1", e.Selected().ID)
	assert.Equal(t, "H1", e.Form().Headline)
}

func TestDraftEditorSelect(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)

	require.NoError(t, e.Select("a2"))
	assert.Equal(t, "H2", e.Form().Headline)

	err := e.Select("nope")
	assert.Equal(t, nerrors.ErrCodeArticleNotFound, nerrors.CodeOf(err))
	assert.Equal(t, "a2", e.Selected().ID)
}

func TestDraftEditorRequiresLogin(t *testing.T) {
	p := newPortal(t)
	e := NewDraftEditor(p.client(), staticSession{}, nil)

	err := e.Load(context.Background())
	assert.Equal(t, nerrors.ErrCodeAuthNotLoggedIn, nerrors.CodeOf(err))
	assert.Empty(t, p.recorded())
}

func TestDraftEditorSave(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)

	e.Edit(func(f *ArticleForm) {
		f.Headline = "H1 revised"
		f.RemoveTag("politics")
	})

	updated, err := e.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "H1 revised", updated.Headline)

	c := p.last()
	assert.Equal(t, http.MethodPatch, c.Method)
	assert.Equal(t, "/api/articles/a1", c.Path)
	assert.Equal(t, "Bearer T", c.Auth)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(c.Body), &body))
	assert.Equal(t, "H1 revised", body["headline"])
	assert.Equal(t, []any{}, body["tags"])

	assert.Equal(t, "H1 revised", e.Drafts()[0].Headline)
}

func TestDraftEditorSaveWithMedia(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)

	updated, err := e.Save(context.Background(), []client.MediaFile{{Name: "photo.png", Reader: strings.NewReader("png")}})
	require.NoError(t, err)
	assert.Len(t, updated.Media, 1)

	c := p.last()
	assert.Equal(t, "/api/articles/upload/a1", c.Path)
	assert.Equal(t, "MEDIA", c.Query.Get("type"))
}

func TestDraftEditorSaveValidation(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)
	before := len(p.recorded())

	e.Edit(func(f *ArticleForm) { f.Headline = "" })
	_, err := e.Save(context.Background(), nil)
	assert.Equal(t, nerrors.ErrCodeFieldRequired, nerrors.CodeOf(err))
	assert.Len(t, p.recorded(), before)

	empty := NewDraftEditor(p.client(), staticSession{user: alice}, nil)
	_, err = empty.Save(context.Background(), nil)
	assert.Equal(t, nerrors.ErrCodeArticleRequired, nerrors.CodeOf(err))
}

func TestDraftEditorSubmitForReview(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)

	require.NoError(t, e.SubmitForReview(context.Background(), "a1", "please check sources"))

	c := p.last()
	assert.Equal(t, "/api/articles/review/a1", c.Path)
	assert.Equal(t, "UNDER_REVIEW", c.Query.Get("toStatus"))
	assert.Equal(t, "Sent for review by journalist alice\nRemark: please check sources", c.Query.Get("remark"))

	drafts := e.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "a2", drafts[0].ID)
	assert.Equal(t, "a2", e.Selected().ID)
	assert.Equal(t, "H2", e.Form().Headline)
}

func TestDraftEditorSubmitOtherDraftKeepsForm(t *testing.T) {
	p := newPortal(t)
	p.list("journalistId=alice",
		types.Article{ID: "a1", Headline: "H1", Status: types.StatusDraft},
		types.Article{ID: "a2", Headline: "H2", Status: types.StatusDraft},
		types.Article{ID: "a3", Headline: "H3", Status: types.StatusDraft},
	)
	e := NewDraftEditor(p.client(), staticSession{user: alice}, nil)
	require.NoError(t, e.Load(context.Background()))

	require.NoError(t, e.Select("a3"))
	e.Edit(func(f *ArticleForm) { f.Headline = "H3 edited" })

	require.NoError(t, e.SubmitForReview(context.Background(), "a1", ""))
	assert.Len(t, e.Drafts(), 2)
	assert.Equal(t, "a3", e.Selected().ID)
	assert.Equal(t, "H3 edited", e.Form().Headline)
}

func TestDraftEditorSubmitLastDraft(t *testing.T) {
	p := newPortal(t)
	p.list("journalistId=alice", types.Article{ID: "a1", Headline: "H1"})
	e := NewDraftEditor(p.client(), staticSession{user: alice}, nil)
	require.NoError(t, e.Load(context.Background()))

	require.NoError(t, e.SubmitForReview(context.Background(), "", ""))
	assert.Equal(t, "Sent for review by journalist alice", p.last().Query.Get("remark"))
	assert.Nil(t, e.Selected())
	assert.Empty(t, e.Form().Headline)
}

func TestDraftEditorSubmitFailureKeepsDraft(t *testing.T) {
	p := newPortal(t)
	e := loadedEditor(t, p)
	p.fail(http.StatusBadRequest, "Article has no content")

	err := e.SubmitForReview(context.Background(), "a1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Article has no content")
	assert.Len(t, e.Drafts(), 2)
}

func TestSubmitRemark(t *testing.T) {
	assert.Equal(t, "Sent for review by journalist bob", SubmitRemark("bob", ""))
	assert.Equal(t, "Sent for review by journalist bob\nRemark: hi", SubmitRemark("bob", "hi"))
}
