package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/authz"
)

var routeCmd = &cobra.Command{
	Use:   "route <path>",
	Short: "Check whether the current session may open a portal page",
	Long: `Resolve a portal path against the route table and run the route guard
with the current session. Refused navigations report where the portal
would redirect.

Examples:
  newsdesk route /create-article
  newsdesk route /review-article/a1 --format json
`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

var routeCheck bool

func init() {
	routeCmd.Flags().BoolVar(&routeCheck, "check", false, "exit with an error when the navigation is refused")

	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	res := a.router.Navigate(a.session.Snapshot(), args[0])
	if err := a.print(routeResult(res)); err != nil {
		return err
	}

	if routeCheck && !res.Decision.Allowed {
		return a.require(res.Path)
	}
	return nil
}

type routeResult authz.NavigationResult

// RenderText prints the resolved route and the guard decision
func (r routeResult) RenderText(w io.Writer, noColor bool) error {
	fmt.Fprintf(w, "Path:     %s\n", r.Path)
	fmt.Fprintf(w, "Route:    %s\n", r.Route)

	if len(r.Params) > 0 {
		keys := make([]string, 0, len(r.Params))
		for k := range r.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "Param:    %s=%s\n", k, r.Params[k])
		}
	}

	if r.Decision.Allowed {
		fmt.Fprintf(w, "Decision: ✓ allowed (%s)\n", r.Decision.Reason)
		return nil
	}
	fmt.Fprintf(w, "Decision: ✗ refused (%s)\n", r.Decision.Reason)
	if r.Decision.Redirect != "" {
		fmt.Fprintf(w, "Redirect: %s\n", r.Decision.Redirect)
	}
	return nil
}
