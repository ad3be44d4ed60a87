// Package newsroom holds the UI-agnostic view models behind the reader,
// journalist and reviewer screens. Commands and the TUI drive them; they
// talk to the backend only through ArticleAPI.
package newsroom

import (
	"context"
	"errors"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// ArticleAPI is the subset of the backend client the view models use
type ArticleAPI interface {
	ListArticles(ctx context.Context, q types.ArticleQuery) (*types.Page, error)
	FindArticle(ctx context.Context, id string) (*types.Article, error)
	CreateArticle(ctx context.Context, in types.ArticleInput) (*types.Article, error)
	UpdateArticle(ctx context.Context, id string, patch types.ArticlePatch) (*types.Article, error)
	UploadMedia(ctx context.Context, id, mediaType string, files []client.MediaFile) (*types.Article, error)
	UnpublishArticle(ctx context.Context, id, remark string) (*types.Article, error)
	ReviewArticle(ctx context.Context, id string, toStatus types.ArticleStatus, remark string) (*types.Article, error)
}

// SessionSource exposes the current session
type SessionSource interface {
	Snapshot() session.Session
}

var _ ArticleAPI = (*client.Client)(nil)

// currentUser returns the logged-in profile or an AUTH error
func currentUser(src SessionSource, action string) (*types.UserProfile, error) {
	s := src.Snapshot()
	if !s.Authenticated || s.User == nil {
		return nil, nerrors.New(nerrors.ErrCodeAuthNotLoggedIn, "You must be logged in to "+action).
			WithSuggestion("Run 'newsdesk auth login --phone <number>'")
	}
	return s.User, nil
}

// failure converts a backend error, keeping cancellations recognisable
func failure(ctx context.Context, err error, fallback string) error {
	if ctx.Err() != nil {
		return nerrors.Wrap(nerrors.ErrCodeSessionCancelled, "request cancelled, response dropped", ctx.Err())
	}
	if errors.Is(err, client.ErrNotFound) {
		return nerrors.NewArticleNotFoundError("")
	}
	return session.APIFailure(err, nerrors.ErrCodeAPIResponse, fallback)
}

// removeByID returns list without the article id, preserving order
func removeByID(list []types.Article, id string) []types.Article {
	out := list[:0:0]
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func indexByID(list []types.Article, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}
