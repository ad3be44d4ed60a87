package newsroom

import (
	"strings"
	"time"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// ArticleForm is the editable copy of an article used by the create and edit screens
type ArticleForm struct {
	Headline    string   `json:"headline" yaml:"headline"`
	Summary     string   `json:"summary" yaml:"summary"`
	Content     string   `json:"content" yaml:"content"`
	Tags        []string `json:"tags" yaml:"tags"`
	Sources     []string `json:"sources" yaml:"sources"`
	PublishDate int64    `json:"publishDate" yaml:"publishDate"`
}

// FormFromArticle copies a into a fresh form. A missing publish date defaults to now.
func FormFromArticle(a types.Article) ArticleForm {
	f := ArticleForm{
		Headline:    a.Headline,
		Summary:     a.Summary,
		Content:     a.Content,
		Tags:        append([]string{}, a.Tags...),
		Sources:     append([]string{}, a.Sources...),
		PublishDate: a.PublishDate,
	}
	if f.PublishDate == 0 {
		f.PublishDate = time.Now().UnixMilli()
	}
	return f
}

// AddTag appends a trimmed tag unless it is blank or already present
func (f *ArticleForm) AddTag(tag string) bool {
	return addUnique(&f.Tags, tag)
}

// RemoveTag drops tag from the form
func (f *ArticleForm) RemoveTag(tag string) {
	f.Tags = without(f.Tags, tag)
}

// AddSource appends a trimmed source unless it is blank or already present
func (f *ArticleForm) AddSource(source string) bool {
	return addUnique(&f.Sources, source)
}

// RemoveSource drops source from the form
func (f *ArticleForm) RemoveSource(source string) {
	f.Sources = without(f.Sources, source)
}

// Validate checks the fields the backend requires
func (f ArticleForm) Validate() error {
	if strings.TrimSpace(f.Headline) == "" {
		return nerrors.New(nerrors.ErrCodeFieldRequired, "headline is required")
	}
	return nil
}

// Patch sends every field so cleared lists reach the backend
func (f ArticleForm) Patch() types.ArticlePatch {
	p := types.ArticlePatch{
		Headline: types.String(f.Headline),
		Summary:  types.String(f.Summary),
		Content:  types.String(f.Content),
		Tags:     types.Strings(f.Tags...),
		Sources:  types.Strings(f.Sources...),
	}
	if f.PublishDate > 0 {
		p.PublishDate = &f.PublishDate
	}
	return p
}

// Input builds a create request for journalistID
func (f ArticleForm) Input(journalistID string) types.ArticleInput {
	return types.ArticleInput{
		Headline:     f.Headline,
		Summary:      f.Summary,
		Content:      f.Content,
		Tags:         append([]string{}, f.Tags...),
		Sources:      append([]string{}, f.Sources...),
		JournalistID: journalistID,
	}
}

func addUnique(list *[]string, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, existing := range *list {
		if existing == v {
			return false
		}
	}
	*list = append(*list, v)
	return true
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, existing := range list {
		if existing != v {
			out = append(out, existing)
		}
	}
	return out
}
