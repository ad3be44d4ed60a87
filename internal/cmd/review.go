package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/tui"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Approve or reject submitted articles",
	Long: `Work through the review queue. Requires the REVIEWER or ADMIN role.

Approving publishes the article; rejecting returns it to its author as a draft.
Without --remark a default remark is sent.

Examples:
  newsdesk review list
  newsdesk review approve a1 --remark "looks good"
  newsdesk review reject a2 --remark "needs a second source"
  newsdesk review browse
`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles under review",
	RunE:  runReviewList,
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve [id]",
	Short: "Publish an article under review",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReviewDecision(cmd, args, types.StatusPublished)
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject [id]",
	Short: "Return an article under review to draft",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReviewDecision(cmd, args, types.StatusDraft)
	},
}

var reviewBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the review queue interactively",
	Long: `Browse the review queue. Keys: j/k move, enter shows the article,
a approves, r rejects (each asks for an optional remark), q quits.`,
	RunE: runReviewBrowse,
}

var reviewRemark string

func init() {
	reviewApproveCmd.Flags().StringVar(&reviewRemark, "remark", "", "remark sent with the decision")
	reviewRejectCmd.Flags().StringVar(&reviewRemark, "remark", "", "remark sent with the decision")

	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewApproveCmd)
	reviewCmd.AddCommand(reviewRejectCmd)
	reviewCmd.AddCommand(reviewBrowseCmd)

	rootCmd.AddCommand(reviewCmd)
}

// loadQueue checks the reviewer guard and loads the queue.
// The review route takes an id; the queue as a whole is checked with a placeholder.
func loadQueue(cmd *cobra.Command) (*app, *newsroom.ReviewQueue, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := a.require("/review-article/queue"); err != nil {
		return nil, nil, err
	}

	queue := newsroom.NewReviewQueue(a.api, a.session, a.logger)
	if err := queue.Load(commandContext(cmd)); err != nil {
		return nil, nil, err
	}
	return a, queue, nil
}

func runReviewList(cmd *cobra.Command, args []string) error {
	a, queue, err := loadQueue(cmd)
	if err != nil {
		return err
	}
	return a.print(newsroom.ArticleList(queue.Articles()))
}

func runReviewDecision(cmd *cobra.Command, args []string, to types.ArticleStatus) error {
	a, queue, err := loadQueue(cmd)
	if err != nil {
		return err
	}

	interactive := tui.ShouldPrompt()

	id := ""
	if len(args) == 1 {
		id = args[0]
	} else if interactive && len(queue.Articles()) > 1 {
		if id, err = tui.PromptForArticle("Which article?", queue.Articles()); err != nil {
			return err
		}
	}
	if id != "" {
		if err := a.require("/review-article/" + id); err != nil {
			return err
		}
		if err := queue.Select(id); err != nil {
			return err
		}
	}

	selected := queue.Selected()
	if selected == nil {
		return nerrors.New(nerrors.ErrCodeQueueEmpty, "No articles are waiting for review")
	}

	remark := reviewRemark
	if !cmd.Flags().Changed("remark") && interactive {
		if remark, err = tui.PromptForRemark("Remark for " + selected.Headline); err != nil {
			return err
		}
	}

	ctx := commandContext(cmd)
	var article *types.Article
	verb := "Approved"
	if to == types.StatusPublished {
		article, err = queue.Approve(ctx, remark)
	} else {
		verb = "Rejected"
		article, err = queue.Reject(ctx, remark)
	}
	if err != nil {
		return err
	}

	if a.textOnly() {
		fmt.Fprintf(a.stdout, "✓ %s %s\n", verb, selected.ID)
		if next := queue.Selected(); next != nil {
			fmt.Fprintf(a.stdout, "Next in queue: %s (%s)\n", next.ID, next.Headline)
		}
		return nil
	}
	if article == nil {
		article = selected
	}
	return a.print(newsroom.ArticleDetail{Article: *article})
}

func runReviewBrowse(cmd *cobra.Command, args []string) error {
	_, queue, err := loadQueue(cmd)
	if err != nil {
		return err
	}
	return tui.RunReviewBrowser(commandContext(cmd), queue)
}
