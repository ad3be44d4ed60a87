package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/tui"
)

var unpublishCmd = &cobra.Command{
	Use:   "unpublish <id>",
	Short: "Withdraw a published article",
	Long: `Take a published article off the feed and return it to draft.
A remark explaining why is required.

Example:
  newsdesk unpublish a7 --remark "retracted pending corrections"
`,
	Args: cobra.ExactArgs(1),
	RunE: runUnpublish,
}

var unpublishRemark string

func init() {
	unpublishCmd.Flags().StringVar(&unpublishRemark, "remark", "", "reason for unpublishing")
	_ = unpublishCmd.MarkFlagRequired("remark")

	rootCmd.AddCommand(unpublishCmd)
}

func runUnpublish(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	if err := a.require("/review-article/" + id); err != nil {
		return err
	}

	if tui.ShouldPrompt() {
		ok, err := tui.PromptForConfirmation(fmt.Sprintf("Unpublish %s and return it to draft?", id), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
			return nil
		}
	}

	article, err := newsroom.Unpublish(commandContext(cmd), a.api, id, unpublishRemark)
	if err != nil {
		return err
	}

	if a.textOnly() {
		fmt.Fprintf(a.stdout, "✓ Unpublished %s (now %s)\n", id, article.Status)
		return nil
	}
	return a.print(newsroom.ArticleDetail{Article: *article})
}
