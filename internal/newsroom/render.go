package newsroom

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

const dateLayout = "2006-01-02 15:04"

var (
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tableHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	tableCell     = lipgloss.NewStyle().Padding(0, 1)
)

func paint(noColor bool, style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// ArticleList renders articles as a table
type ArticleList []types.Article

// RenderText implements ux.TextRenderer
func (l ArticleList) RenderText(w io.Writer, noColor bool) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No articles found.")
		return err
	}

	rows := make([][]string, 0, len(l))
	for _, a := range l {
		rows = append(rows, []string{
			a.ID,
			a.Status.String(),
			truncate(a.Headline, 48),
			strings.Join(a.Tags, ", "),
			formatDate(a.PublishTime()),
		})
	}

	t := table.New().
		Headers("ID", "STATUS", "HEADLINE", "TAGS", "PUBLISHED").
		Rows(rows...).
		Border(lipgloss.NormalBorder())
	if noColor {
		t = t.StyleFunc(func(row, col int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) })
	} else {
		t = t.BorderStyle(mutedStyle).StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// ArticleDetail renders one article with its remark history
type ArticleDetail struct {
	types.Article `yaml:",inline"`
}

// RenderText implements ux.TextRenderer
func (d ArticleDetail) RenderText(w io.Writer, noColor bool) error {
	a := d.Article
	var b strings.Builder

	b.WriteString(paint(noColor, headlineStyle, a.Headline) + "\n")
	meta := []string{"id " + a.ID}
	if a.Status != "" {
		meta = append(meta, string(a.Status))
	}
	if t := a.PublishTime(); !t.IsZero() {
		meta = append(meta, "published "+formatDate(t))
	}
	b.WriteString(paint(noColor, mutedStyle, strings.Join(meta, " · ")) + "\n\n")

	if a.Summary != "" {
		b.WriteString(a.Summary + "\n\n")
	}
	if a.Content != "" {
		b.WriteString(a.Content + "\n\n")
	}

	field := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		b.WriteString(paint(noColor, labelStyle, label+":") + " " + strings.Join(values, ", ") + "\n")
	}
	field("Tags", a.Tags)
	field("Sources", a.Sources)
	field("Media", a.Media)

	if remarks := SortedRemarks(a.Remarks); len(remarks) > 0 {
		b.WriteString("\n" + paint(noColor, labelStyle, "Remarks") + "\n")
		for _, r := range remarks {
			fmt.Fprintf(&b, "  %s → %s  %s\n", r.From, r.To, paint(noColor, mutedStyle, formatDate(r.Time())))
			for _, line := range strings.Split(r.Remark, "\n") {
				b.WriteString("    " + line + "\n")
			}
			if r.UserID != "" {
				b.WriteString(paint(noColor, mutedStyle, "    by "+r.UserID) + "\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderText implements ux.TextRenderer
func (h *HomePage) RenderText(w io.Writer, noColor bool) error {
	if h.Featured != nil {
		if _, err := fmt.Fprintln(w, paint(noColor, labelStyle, "FEATURED")); err != nil {
			return err
		}
		if err := (ArticleDetail{Article: *h.Featured}).RenderText(w, noColor); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	for _, s := range h.Sections {
		if _, err := fmt.Fprintln(w, paint(noColor, labelStyle, "#"+s.Tag)); err != nil {
			return err
		}
		if err := ArticleList(s.Articles).RenderText(w, noColor); err != nil {
			return err
		}
	}
	return nil
}

// SortedRemarks returns remarks newest first without modifying the input
func SortedRemarks(remarks []types.Remark) []types.Remark {
	out := append([]types.Remark{}, remarks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
