package newsroom

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

var (
	alice = &types.UserProfile{ID: "u-alice", Username: "alice", Roles: []types.Role{types.RoleJournalist}}
	rita  = &types.UserProfile{ID: "u-rita", Username: "rita", Roles: []types.Role{types.RoleReviewer}}
)

// staticSession is a SessionSource with a fixed snapshot
type staticSession struct {
	user *types.UserProfile
}

func (s staticSession) Snapshot() session.Session {
	return session.Session{User: s.user, Authenticated: s.user != nil}
}

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
	Auth   string
}

// portal is an httptest backend that serves canned listings and records every call
type portal struct {
	srv *httptest.Server

	mu       sync.Mutex
	calls    []call
	listings map[string][]types.Article
	status   int
	message  string
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	p := &portal{listings: map[string][]types.Article{}}
	p.srv = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.srv.Close)
	return p
}

// list registers the articles returned for a listing whose query has key=value
func (p *portal) list(key string, articles ...types.Article) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listings[key] = articles
}

func (p *portal) fail(status int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.message = message
}

func (p *portal) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	p.calls = append(p.calls, call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	})
	status, message := p.status, p.message
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
		return
	}

	switch {
	case r.URL.Path == "/public/v1/articles/home":
		_ = json.NewEncoder(w).Encode(types.Page{Content: p.match(r.URL.Query())})
	case r.Method == http.MethodPost && r.URL.Path == "/api/articles":
		var in types.ArticleInput
		_ = json.Unmarshal(body, &in)
		_ = json.NewEncoder(w).Encode(types.Article{ID: "new-1", Headline: in.Headline, JournalistID: in.JournalistID, Status: types.StatusDraft})
	case strings.HasPrefix(r.URL.Path, "/api/articles/upload/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/articles/upload/")
		_ = json.NewEncoder(w).Encode(types.Article{ID: id, Media: []string{"https://cdn.example/" + id + ".png"}})
	case strings.HasPrefix(r.URL.Path, "/api/articles/review/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/articles/review/")
		_ = json.NewEncoder(w).Encode(types.Article{ID: id, Status: types.ArticleStatus(r.URL.Query().Get("toStatus"))})
	case strings.HasPrefix(r.URL.Path, "/api/articles/unpublish/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/articles/unpublish/")
		_ = json.NewEncoder(w).Encode(types.Article{ID: id, Status: types.StatusDraft})
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/articles/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/articles/")
		var patch types.ArticlePatch
		_ = json.Unmarshal(body, &patch)
		a := types.Article{ID: id, Status: types.StatusDraft}
		if patch.Headline != nil {
			a.Headline = *patch.Headline
		}
		_ = json.NewEncoder(w).Encode(a)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (p *portal) match(q url.Values) []types.Article {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, articles := range p.listings {
		k, v, _ := strings.Cut(key, "=")
		if q.Get(k) == v {
			return articles
		}
	}
	return nil
}

func (p *portal) recorded() []call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]call{}, p.calls...)
}

func (p *portal) last() call {
	calls := p.recorded()
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

func (p *portal) client() *client.Client {
	return client.New(p.srv.URL, client.StaticToken("T"))
}
