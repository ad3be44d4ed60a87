package newsroom

import (
	"context"
	"sync"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// DraftEditor is the journalist's edit screen: a draft list, a selection and its form
type DraftEditor struct {
	api    ArticleAPI
	sess   SessionSource
	logger *log.Logger

	mu       sync.Mutex
	drafts   []types.Article
	selected string
	form     ArticleForm
}

// NewDraftEditor creates an empty editor; call Load to fetch drafts
func NewDraftEditor(api ArticleAPI, sess SessionSource, logger *log.Logger) *DraftEditor {
	if logger == nil {
		logger = log.Discard()
	}
	return &DraftEditor{api: api, sess: sess, logger: logger.With("component", "drafts")}
}

// Load fetches the logged-in journalist's drafts and selects the first
func (e *DraftEditor) Load(ctx context.Context) error {
	user, err := currentUser(e.sess, "edit drafts")
	if err != nil {
		return err
	}

	page, err := e.api.ListArticles(ctx, types.DraftsOf(user.Username))
	if err != nil {
		return failure(ctx, err, "Failed to load draft articles. Please try again later.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts = page.Content
	e.selectFirstLocked()
	e.logger.DebugContext(ctx, "drafts loaded", "journalist", user.Username, "count", len(e.drafts))
	return nil
}

// Drafts returns a copy of the loaded drafts
func (e *DraftEditor) Drafts() []types.Article {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Article{}, e.drafts...)
}

// Selected returns the selected draft, or nil
func (e *DraftEditor) Selected() *types.Article {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := indexByID(e.drafts, e.selected); i >= 0 {
		a := e.drafts[i]
		return &a
	}
	return nil
}

// Select makes id the current draft and copies it into the form
func (e *DraftEditor) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := indexByID(e.drafts, id)
	if i < 0 {
		return nerrors.NewArticleNotFoundError(id)
	}
	e.selected = id
	e.form = FormFromArticle(e.drafts[i])
	return nil
}

// Form returns a copy of the current form
func (e *DraftEditor) Form() ArticleForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.form
	f.Tags = append([]string{}, f.Tags...)
	f.Sources = append([]string{}, f.Sources...)
	return f
}

// Edit applies fn to the current form
func (e *DraftEditor) Edit(fn func(*ArticleForm)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.form)
}

// Save patches the selected draft with the form, then uploads media when given
func (e *DraftEditor) Save(ctx context.Context, media []client.MediaFile) (*types.Article, error) {
	e.mu.Lock()
	id := e.selected
	form := e.form
	e.mu.Unlock()

	if id == "" {
		return nil, nerrors.New(nerrors.ErrCodeArticleRequired, "Please select an article to update")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	updated, err := e.api.UpdateArticle(ctx, id, form.Patch())
	if err != nil {
		return nil, failure(ctx, err, "Failed to update the article. Please try again later.")
	}
	if len(media) > 0 {
		updated, err = e.api.UploadMedia(ctx, id, types.MediaTypeMedia, media)
		if err != nil {
			return nil, failure(ctx, err, "Failed to upload media. Please try again later.")
		}
	}
	if updated.ID == "" {
		updated.ID = id
	}

	e.mu.Lock()
	if i := indexByID(e.drafts, id); i >= 0 {
		e.drafts[i] = *updated
	}
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "draft saved", "article_id", id, "media", len(media))
	return updated, nil
}

// SubmitForReview moves draft id to UNDER_REVIEW. An empty id submits the selection.
func (e *DraftEditor) SubmitForReview(ctx context.Context, id, remark string) error {
	user, err := currentUser(e.sess, "submit drafts")
	if err != nil {
		return err
	}

	e.mu.Lock()
	if id == "" {
		id = e.selected
	}
	e.mu.Unlock()
	if id == "" {
		return nerrors.New(nerrors.ErrCodeArticleRequired, "Please select an article to submit")
	}

	if _, err := e.api.ReviewArticle(ctx, id, types.StatusUnderReview, SubmitRemark(user.Username, remark)); err != nil {
		return failure(ctx, err, "Failed to send the article for review. Please try again later.")
	}

	e.mu.Lock()
	e.drafts = removeByID(e.drafts, id)
	// an unrelated selection keeps its unsaved form
	if id == e.selected || len(e.drafts) == 0 {
		e.selectFirstLocked()
	}
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "draft sent for review", "article_id", id)
	return nil
}

// SubmitRemark composes the remark sent with a journalist's review request
func SubmitRemark(username, remark string) string {
	text := "Sent for review by journalist " + username
	if remark != "" {
		text += "\nRemark: " + remark
	}
	return text
}

func (e *DraftEditor) selectFirstLocked() {
	if len(e.drafts) == 0 {
		e.selected = ""
		e.form = ArticleForm{}
		return
	}
	e.selected = e.drafts[0].ID
	e.form = FormFromArticle(e.drafts[0])
}
