package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"read"},
	Short:   "Browse published articles",
	Long: `Read the published feed. These commands need no login.

Examples:
  # Featured article and popular tag sections
  newsdesk articles home

  # Everything tagged politics
  newsdesk articles tag politics

  # One article with its remark history
  newsdesk articles show a1

  # Raw listing with filters
  newsdesk articles list --status UNDER_REVIEW --size 20
`,
}

var articlesHomeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home feed",
	RunE:  runArticlesHome,
}

var articlesTagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "List published articles with a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticlesTag,
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one published article",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticlesShow,
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Query the article listing",
	Long: `Query the article listing endpoint directly. Unset filters are not sent.`,
	RunE: runArticlesList,
}

var (
	listID         string
	listStatus     string
	listPublished  string
	listJournalist string
	listTags       string
	listPage       int
	listSize       int
	listSortBy     string
	listOrder      string
)

func init() {
	f := articlesListCmd.Flags()
	f.StringVar(&listID, "id", "", "article id")
	f.StringVar(&listStatus, "status", "", "DRAFT, UNDER_REVIEW or PUBLISHED")
	f.StringVar(&listPublished, "published", "", "true or false")
	f.StringVar(&listJournalist, "journalist", "", "journalist id or username")
	f.StringVar(&listTags, "tag", "", "tag filter")
	f.IntVar(&listPage, "page", -1, "page number, starting at 0")
	f.IntVar(&listSize, "size", 0, "page size")
	f.StringVar(&listSortBy, "sort-by", "", "sort field, e.g. publishDate")
	f.StringVar(&listOrder, "order", "", "ASC or DESC")

	articlesCmd.AddCommand(articlesHomeCmd)
	articlesCmd.AddCommand(articlesTagCmd)
	articlesCmd.AddCommand(articlesShowCmd)
	articlesCmd.AddCommand(articlesListCmd)

	rootCmd.AddCommand(articlesCmd)
}

func (a *app) feed() *newsroom.Feed {
	return newsroom.NewFeed(a.api, a.config.Feed.PopularTags, a.logger)
}

func runArticlesHome(cmd *cobra.Command, args []string) error {
	a, err := newReaderApp(cmd)
	if err != nil {
		return err
	}

	home, err := a.feed().Home(commandContext(cmd))
	if err != nil {
		return err
	}
	return a.print(home)
}

func runArticlesTag(cmd *cobra.Command, args []string) error {
	a, err := newReaderApp(cmd)
	if err != nil {
		return err
	}

	articles, err := a.feed().ByTag(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return a.print(newsroom.ArticleList(articles))
}

func runArticlesShow(cmd *cobra.Command, args []string) error {
	a, err := newReaderApp(cmd)
	if err != nil {
		return err
	}

	article, err := a.feed().Article(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return a.print(newsroom.ArticleDetail{Article: *article})
}

func runArticlesList(cmd *cobra.Command, args []string) error {
	q, err := listQuery()
	if err != nil {
		return err
	}

	a, err := newReaderApp(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	page, err := a.api.ListArticles(ctx, q)
	if err != nil {
		return session.APIFailure(err, nerrors.ErrCodeAPIResponse, "Failed to load articles. Please try again later.")
	}
	return a.print(&articlePage{Page: *page})
}

// listQuery builds the query from the list flags, validating enumerations locally
func listQuery() (types.ArticleQuery, error) {
	q := types.ArticleQuery{
		ID:           listID,
		JournalistID: listJournalist,
		Tags:         listTags,
		PageSize:     listSize,
		SortBy:       listSortBy,
	}

	if listStatus != "" {
		status, err := types.ParseArticleStatus(listStatus)
		if err != nil {
			return q, nerrors.Wrap(nerrors.ErrCodeFieldRequired, "invalid --status", err)
		}
		q.Status = status
	}
	if listPublished != "" {
		b, err := strconv.ParseBool(listPublished)
		if err != nil {
			return q, nerrors.New(nerrors.ErrCodeFieldRequired, "--published must be true or false")
		}
		q.Published = types.Bool(b)
	}
	if listPage >= 0 {
		q.PageNumber = types.Int(listPage)
	}
	switch order := types.SortOrder(strings.ToUpper(listOrder)); order {
	case "":
	case types.SortAsc, types.SortDesc:
		q.SortOrder = order
	default:
		return q, nerrors.New(nerrors.ErrCodeFieldRequired, "--order must be ASC or DESC")
	}
	return q, nil
}

// articlePage is one page of the raw listing
type articlePage struct {
	types.Page `yaml:",inline"`
}

// RenderText prints the page as a table with a position footer
func (p *articlePage) RenderText(w io.Writer, noColor bool) error {
	if err := newsroom.ArticleList(p.Content).RenderText(w, noColor); err != nil {
		return err
	}
	if p.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d (%d total)\n", p.Number+1, p.TotalPages, p.TotalElements)
	}
	return nil
}
