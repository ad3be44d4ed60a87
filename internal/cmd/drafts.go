package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/tui"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Edit your drafts and send them for review",
	Long: `Work on the drafts you own. Requires the JOURNALIST or ADMIN role.

Examples:
  # Your drafts, most recently updated first
  newsdesk drafts list

  # Edit a draft from flags
  newsdesk drafts edit a1 --headline "New headline" --tag politics --remove-tag misc

  # Send it for review with a note
  newsdesk drafts submit a1 --remark "ready for copy edit"

  # Keyboard-driven list
  newsdesk drafts browse
`,
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your drafts",
	RunE:  runDraftsList,
}

var draftsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a draft",
	Long: `Edit a draft. Without an id you pick one (or the newest is used when not
in a terminal). Without field flags in a terminal, a form is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDraftsEdit,
}

var draftsSubmitCmd = &cobra.Command{
	Use:   "submit <id>",
	Short: "Send a draft for review",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsSubmit,
}

var draftsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse drafts interactively",
	Long: `Browse your drafts. Keys: j/k move, enter shows the article,
s sends it for review with an optional remark, q quits.`,
	RunE: runDraftsBrowse,
}

var (
	draftFlags   articleFlags
	submitRemark string
)

func init() {
	draftFlags.register(draftsEditCmd)
	draftsSubmitCmd.Flags().StringVar(&submitRemark, "remark", "", "note for the reviewer")

	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsEditCmd)
	draftsCmd.AddCommand(draftsSubmitCmd)
	draftsCmd.AddCommand(draftsBrowseCmd)

	rootCmd.AddCommand(draftsCmd)
}

// loadDrafts checks the writer guard and loads the user's drafts
func loadDrafts(cmd *cobra.Command) (*app, *newsroom.DraftEditor, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := a.require("/create-article"); err != nil {
		return nil, nil, err
	}

	editor := newsroom.NewDraftEditor(a.api, a.session, a.logger)
	if err := editor.Load(commandContext(cmd)); err != nil {
		return nil, nil, err
	}
	return a, editor, nil
}

func runDraftsList(cmd *cobra.Command, args []string) error {
	a, editor, err := loadDrafts(cmd)
	if err != nil {
		return err
	}
	return a.print(newsroom.ArticleList(editor.Drafts()))
}

func runDraftsEdit(cmd *cobra.Command, args []string) error {
	a, editor, err := loadDrafts(cmd)
	if err != nil {
		return err
	}

	interactive := tui.ShouldPrompt()

	id := ""
	if len(args) == 1 {
		id = args[0]
	} else if interactive && len(editor.Drafts()) > 1 {
		if id, err = tui.PromptForArticle("Which draft?", editor.Drafts()); err != nil {
			return err
		}
	}
	if id != "" {
		if err := a.require("/edit-article/" + id); err != nil {
			return err
		}
		if err := editor.Select(id); err != nil {
			return err
		}
	}

	var applyErr error
	editor.Edit(func(f *newsroom.ArticleForm) {
		applyErr = draftFlags.apply(f)
	})
	if applyErr != nil {
		return applyErr
	}

	if !draftFlags.changed(cmd) && interactive {
		form := editor.Form()
		if err := tui.PromptForArticleForm(&form); err != nil {
			return err
		}
		editor.Edit(func(f *newsroom.ArticleForm) { *f = form })
	}

	media, closeMedia, err := openMedia(draftFlags.media)
	if err != nil {
		return err
	}
	defer closeMedia()

	article, err := editor.Save(commandContext(cmd), media)
	if err != nil {
		return err
	}

	if a.textOnly() {
		fmt.Fprintf(a.stdout, "✓ Saved %s: %s\n", article.ID, article.Headline)
		return nil
	}
	return a.print(newsroom.ArticleDetail{Article: *article})
}

func runDraftsSubmit(cmd *cobra.Command, args []string) error {
	a, editor, err := loadDrafts(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	if err := a.require("/edit-article/" + id); err != nil {
		return err
	}

	remark := submitRemark
	if !cmd.Flags().Changed("remark") && tui.ShouldPrompt() {
		if remark, err = tui.PromptForRemark("Note for the reviewer"); err != nil {
			return err
		}
	}

	if err := editor.SubmitForReview(commandContext(cmd), id, remark); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "✓ Sent %s for review\n", id)
	return nil
}

func runDraftsBrowse(cmd *cobra.Command, args []string) error {
	_, editor, err := loadDrafts(cmd)
	if err != nil {
		return err
	}
	return tui.RunDraftBrowser(commandContext(cmd), editor)
}
