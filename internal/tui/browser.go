package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true).
				PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2).
			MarginTop(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true).
			MarginLeft(2)
)

type viewMode int

const (
	listView viewMode = iota
	detailView
)

// browserAction is a key-bound transition applied to the article under the cursor
type browserAction struct {
	key   string
	label string
	done  string
	run   func(ctx context.Context, id, remark string) error
}

// actionDoneMsg reports the outcome of a browserAction
type actionDoneMsg struct {
	action browserAction
	id     string
	err    error
}

// articleBrowser walks a draft list or review queue and applies actions with a remark
type articleBrowser struct {
	ctx     context.Context
	title   string
	list    func() []types.Article
	actions []browserAction

	articles []types.Article
	cursor   int
	mode     viewMode

	pending *browserAction
	remark  textinput.Model
	busy    bool
	status  string
	err     error

	width  int
	height int
}

func newArticleBrowser(ctx context.Context, title string, list func() []types.Article, actions ...browserAction) articleBrowser {
	ti := textinput.New()
	ti.Placeholder = "remark (optional)"
	ti.CharLimit = 500
	ti.Width = 60

	return articleBrowser{
		ctx:      ctx,
		title:    title,
		list:     list,
		actions:  actions,
		articles: list(),
		remark:   ti,
	}
}

// newDraftBrowser binds s to DraftEditor.SubmitForReview
func newDraftBrowser(ctx context.Context, e *newsroom.DraftEditor) articleBrowser {
	return newArticleBrowser(ctx, "Drafts", e.Drafts, browserAction{
		key:   "s",
		label: "Submit for review",
		done:  "sent for review",
		run: func(ctx context.Context, id, remark string) error {
			return e.SubmitForReview(ctx, id, remark)
		},
	})
}

// newReviewBrowser binds a and r to ReviewQueue approve and reject
func newReviewBrowser(ctx context.Context, q *newsroom.ReviewQueue) articleBrowser {
	decide := func(fn func(context.Context, string) (*types.Article, error)) func(context.Context, string, string) error {
		return func(ctx context.Context, id, remark string) error {
			if err := q.Select(id); err != nil {
				return err
			}
			_, err := fn(ctx, remark)
			return err
		}
	}
	return newArticleBrowser(ctx, "Review queue", q.Articles,
		browserAction{key: "a", label: "Approve", done: "approved", run: decide(q.Approve)},
		browserAction{key: "r", label: "Reject", done: "rejected", run: decide(q.Reject)},
	)
}

// Init initializes the model
func (m articleBrowser) Init() tea.Cmd {
	return nil
}

func (m articleBrowser) current() *types.Article {
	if m.cursor < 0 || m.cursor >= len(m.articles) {
		return nil
	}
	return &m.articles[m.cursor]
}

func (m articleBrowser) actionFor(key string) *browserAction {
	for i := range m.actions {
		if m.actions[i].key == key {
			return &m.actions[i]
		}
	}
	return nil
}

// Update handles messages and updates the model
func (m articleBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%s %s", msg.id, msg.action.done)
		m.articles = m.list()
		if m.cursor >= len(m.articles) {
			m.cursor = max(len(m.articles)-1, 0)
		}
		m.mode = listView
		return m, nil

	case tea.KeyMsg:
		if m.pending != nil {
			return m.updateRemark(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.mode == listView && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.mode == listView && m.cursor < len(m.articles)-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			if m.mode == listView && m.current() != nil {
				m.mode = detailView
			}
		case "left", "h", "esc":
			m.mode = listView
		default:
			if a := m.actionFor(msg.String()); a != nil && m.current() != nil {
				m.pending = a
				m.err = nil
				m.remark.Reset()
				return m, m.remark.Focus()
			}
		}
	}

	return m, nil
}

func (m articleBrowser) updateRemark(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.pending = nil
		m.remark.Blur()
		return m, nil
	case tea.KeyEnter:
		action := *m.pending
		id := m.current().ID
		remark := strings.TrimSpace(m.remark.Value())
		m.pending = nil
		m.remark.Blur()
		m.busy = true
		m.status = fmt.Sprintf("%s %s...", action.label, id)

		ctx := m.ctx
		return m, func() tea.Msg {
			return actionDoneMsg{action: action, id: id, err: action.run(ctx, id, remark)}
		}
	}

	var cmd tea.Cmd
	m.remark, cmd = m.remark.Update(msg)
	return m, cmd
}

// View renders the current state
func (m articleBrowser) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d articles", len(m.articles))))
	b.WriteString("\n\n")

	if len(m.articles) == 0 {
		b.WriteString(itemStyle.Render("Nothing here."))
		b.WriteString("\n")
	} else if m.mode == detailView {
		var detail strings.Builder
		_ = newsroom.ArticleDetail{Article: *m.current()}.RenderText(&detail, false)
		b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(detail.String()))
		b.WriteString("\n")
	} else {
		for i, a := range m.articles {
			style := itemStyle
			cursor := "  "
			if i == m.cursor {
				style = selectedItemStyle
				cursor = "→ "
			}
			b.WriteString(style.Render(fmt.Sprintf("%s%s | %s | %s", cursor, a.ID, a.Status, a.Headline)))
			b.WriteString("\n")
		}
	}

	if m.pending != nil {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(m.pending.label + " " + m.current().ID))
		b.WriteString("\n  ")
		b.WriteString(m.remark.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: confirm | esc: cancel"))
		return b.String()
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + session.UserMessage(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	help := []string{"j/k: navigate", "enter: details"}
	if m.mode == detailView {
		help = []string{"h/esc: back to list"}
	}
	for _, a := range m.actions {
		help = append(help, fmt.Sprintf("%s: %s", a.key, strings.ToLower(a.label)))
	}
	help = append(help, "q: quit")
	b.WriteString(helpStyle.Render(strings.Join(help, " | ")))

	return b.String()
}

// RunDraftBrowser opens the interactive draft list
func RunDraftBrowser(ctx context.Context, e *newsroom.DraftEditor) error {
	return runBrowser(ctx, newDraftBrowser(ctx, e))
}

// RunReviewBrowser opens the interactive review queue
func RunReviewBrowser(ctx context.Context, q *newsroom.ReviewQueue) error {
	return runBrowser(ctx, newReviewBrowser(ctx, q))
}

func runBrowser(ctx context.Context, m articleBrowser) error {
	program := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running article browser: %w", err)
	}
	return nil
}
