package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <id> <file>...",
	Short: "Attach media files to an article",
	Long: `Upload one or more files to an article you may edit.

Examples:
  newsdesk upload a1 photo.jpg
  newsdesk upload a1 --type MEDIA photo.jpg chart.png
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

var uploadType string

func init() {
	uploadCmd.Flags().StringVar(&uploadType, "type", types.MediaTypeMedia, "media type")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	if err := a.require("/edit-article/" + id); err != nil {
		return err
	}

	files, closeFiles, err := openMedia(args[1:])
	if err != nil {
		return err
	}
	defer closeFiles()

	article, err := newsroom.Upload(commandContext(cmd), a.api, id, uploadType, files)
	if err != nil {
		return err
	}

	if a.textOnly() {
		fmt.Fprintf(a.stdout, "✓ Uploaded %d file(s) to %s\n", len(files), id)
		return nil
	}
	return a.print(newsroom.ArticleDetail{Article: *article})
}

// openMedia opens paths for a multipart upload. The returned func closes them all.
func openMedia(paths []string) ([]client.MediaFile, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	files := make([]client.MediaFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			if os.IsNotExist(err) {
				return nil, nil, nerrors.NewFileNotFoundError(p)
			}
			return nil, nil, nerrors.Wrap(nerrors.ErrCodeFileReadFailed, "failed to open "+p, err)
		}
		opened = append(opened, f)
		files = append(files, client.MediaFile{Name: filepath.Base(p), Reader: f})
	}
	return files, closeAll, nil
}
