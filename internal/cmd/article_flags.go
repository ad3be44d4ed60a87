package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
)

// articleFlags are the form fields shared by 'create' and 'drafts edit'
type articleFlags struct {
	headline      string
	summary       string
	content       string
	tags          []string
	removeTags    []string
	sources       []string
	removeSources []string
	publishDate   string
	media         []string
}

var formFlagNames = []string{"headline", "summary", "content", "tag", "remove-tag", "source", "remove-source", "publish-date"}

var publishDateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

func (f *articleFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.headline, "headline", "", "headline")
	fs.StringVar(&f.summary, "summary", "", "summary")
	fs.StringVar(&f.content, "content", "", "article body")
	fs.StringSliceVar(&f.tags, "tag", nil, "add a tag (repeatable)")
	fs.StringSliceVar(&f.removeTags, "remove-tag", nil, "remove a tag (repeatable)")
	fs.StringSliceVar(&f.sources, "source", nil, "add a source (repeatable)")
	fs.StringSliceVar(&f.removeSources, "remove-source", nil, "remove a source (repeatable)")
	fs.StringVar(&f.publishDate, "publish-date", "", "publish date, e.g. 2026-01-31 or RFC 3339")
	fs.StringSliceVar(&f.media, "media", nil, "media file to upload (repeatable)")
}

// changed reports whether any form field was given on the command line
func (f *articleFlags) changed(cmd *cobra.Command) bool {
	for _, name := range formFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies the given flag values into form. Unset text flags leave the form alone.
func (f *articleFlags) apply(form *newsroom.ArticleForm) error {
	if f.headline != "" {
		form.Headline = f.headline
	}
	if f.summary != "" {
		form.Summary = f.summary
	}
	if f.content != "" {
		form.Content = f.content
	}
	for _, t := range f.tags {
		form.AddTag(t)
	}
	for _, t := range f.removeTags {
		form.RemoveTag(t)
	}
	for _, s := range f.sources {
		form.AddSource(s)
	}
	for _, s := range f.removeSources {
		form.RemoveSource(s)
	}
	if f.publishDate != "" {
		t, err := parsePublishDate(f.publishDate)
		if err != nil {
			return err
		}
		form.PublishDate = t.UnixMilli()
	}
	return nil
}

func parsePublishDate(s string) (time.Time, error) {
	for _, layout := range publishDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, nerrors.New(nerrors.ErrCodeFieldRequired, fmt.Sprintf("invalid --publish-date %q", s)).
		WithSuggestion("Use YYYY-MM-DD, 'YYYY-MM-DD HH:MM' or RFC 3339")
}
