package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/tui"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a new article",
	Long: `Create a new draft. Without --headline in a terminal, a form is shown.

Examples:
  # Interactive form
  newsdesk create

  # From flags, with a photo
  newsdesk create --headline "Budget passes" --tag politics --source reuters --media photo.jpg
`,
	RunE: runCreate,
}

var createFlags articleFlags

func init() {
	createFlags.register(createCmd)

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.require("/create-article"); err != nil {
		return err
	}

	var form newsroom.ArticleForm
	if err := createFlags.apply(&form); err != nil {
		return err
	}
	if !createFlags.changed(cmd) && tui.ShouldPrompt() {
		if err := tui.PromptForArticleForm(&form); err != nil {
			return err
		}
	}

	media, closeMedia, err := openMedia(createFlags.media)
	if err != nil {
		return err
	}
	defer closeMedia()

	composer := newsroom.NewComposer(a.api, a.session, a.logger)
	article, err := composer.Create(commandContext(cmd), form, media)
	if article != nil && err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Created %s, but:\n", article.ID)
	}
	if err != nil {
		return err
	}

	if a.textOnly() {
		fmt.Fprintf(a.stdout, "✓ Created draft %s: %s\n", article.ID, article.Headline)
		return nil
	}
	return a.print(newsroom.ArticleDetail{Article: *article})
}
