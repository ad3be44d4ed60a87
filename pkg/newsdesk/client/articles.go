package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// ListArticles queries the public article listing
func (c *Client) ListArticles(ctx context.Context, q types.ArticleQuery) (*types.Page, error) {
	var page types.Page
	if _, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/public/v1/articles/home",
		query:  q.Values(),
	}, &page); err != nil {
		return nil, err
	}
	if page.Content == nil {
		page.Content = []types.Article{}
	}
	return &page, nil
}

// FindArticle returns the published article with the given id, or ErrNotFound
func (c *Client) FindArticle(ctx context.Context, id string) (*types.Article, error) {
	page, err := c.ListArticles(ctx, types.PublishedByID(id))
	if err != nil {
		return nil, err
	}
	if len(page.Content) == 0 {
		return nil, ErrNotFound
	}
	return &page.Content[0], nil
}

// CreateArticle creates a draft
func (c *Client) CreateArticle(ctx context.Context, in types.ArticleInput) (*types.Article, error) {
	var article types.Article
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/articles",
		auth:   true,
		body:   in,
	}, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle applies a partial update
func (c *Client) UpdateArticle(ctx context.Context, id string, patch types.ArticlePatch) (*types.Article, error) {
	var article types.Article
	if _, err := c.call(ctx, request{
		method: http.MethodPatch,
		path:   "/api/articles/" + url.PathEscape(id),
		auth:   true,
		body:   patch,
	}, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// MediaFile is one file part of a media upload
type MediaFile struct {
	Name   string
	Reader io.Reader
}

// UploadMedia attaches files to an article, each as a multipart "files" part
func (c *Client) UploadMedia(ctx context.Context, id, mediaType string, files []MediaFile) (*types.Article, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", filepath.Base(f.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	var article types.Article
	if _, err := c.call(ctx, request{
		method:      http.MethodPost,
		path:        "/api/articles/upload/" + url.PathEscape(id),
		query:       url.Values{"type": {mediaType}},
		auth:        true,
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UnpublishArticle withdraws a published article
func (c *Client) UnpublishArticle(ctx context.Context, id, remark string) (*types.Article, error) {
	var article types.Article
	if _, err := c.call(ctx, request{
		method: http.MethodPatch,
		path:   "/api/articles/unpublish/" + url.PathEscape(id),
		query:  url.Values{"remark": {remark}},
		auth:   true,
		body:   struct{}{},
	}, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// ReviewArticle moves an article to toStatus with a remark
func (c *Client) ReviewArticle(ctx context.Context, id string, toStatus types.ArticleStatus, remark string) (*types.Article, error) {
	var article types.Article
	if _, err := c.call(ctx, request{
		method: http.MethodPatch,
		path:   "/api/articles/review/" + url.PathEscape(id),
		query: url.Values{
			"toStatus": {string(toStatus)},
			"remark":   {remark},
		},
		auth: true,
		body: struct{}{},
	}, &article); err != nil {
		return nil, err
	}
	return &article, nil
}
