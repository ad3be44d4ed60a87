package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// DefaultOTP is the code every OTP request issues
const DefaultOTP = "123456"

var (
	errNoOTP        = errors.New("no OTP was requested for this number")
	errBadOTP       = errors.New("invalid OTP")
	errUnknownUser  = errors.New("no user registered with this number")
	errUserExists   = errors.New("a user with this number already exists")
	errUnauthorized = errors.New("invalid or missing token")
	errNotFound     = errors.New("article not found")
	errTransition   = errors.New("status transition not allowed")
	errForbidden    = errors.New("only reviewers can decide on articles under review")
)

// Store is the in-memory state of the development backend
type Store struct {
	mu       sync.Mutex
	otp      string
	now      func() time.Time
	pending  map[string]string
	users    map[string]*types.UserProfile
	tokens   map[string]string
	articles map[string]*types.Article
}

// NewStore creates an empty store that issues otp for every request
func NewStore(otp string) *Store {
	if otp == "" {
		otp = DefaultOTP
	}
	return &Store{
		otp:      otp,
		now:      time.Now,
		pending:  make(map[string]string),
		users:    make(map[string]*types.UserProfile),
		tokens:   make(map[string]string),
		articles: make(map[string]*types.Article),
	}
}

// Seed adds a journalist, a reviewer, an admin and a few articles
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	alice := s.addUser(types.UserProfile{Username: "alice", FirstName: "Alice", LastName: "Writer",
		PhoneNumber: "+15550001", Roles: []types.Role{types.RoleJournalist}})
	s.addUser(types.UserProfile{Username: "rita", FirstName: "Rita", LastName: "Reviewer",
		PhoneNumber: "+15550002", Roles: []types.Role{types.RoleReviewer}})
	s.addUser(types.UserProfile{Username: "admin", FirstName: "Ada", LastName: "Admin",
		PhoneNumber: "+15550003", Roles: []types.Role{types.RoleAdmin}})

	now := s.now().UnixMilli()
	for i, a := range []types.Article{
		{Headline: "Parliament passes budget", Summary: "A late-night vote.", Tags: []string{"politics"},
			Status: types.StatusPublished, Published: true, PublishDate: now - 3600_000},
		{Headline: "New battery chemistry", Summary: "Lab results look promising.", Tags: []string{"science", "technology"},
			Status: types.StatusPublished, Published: true, PublishDate: now - 7200_000},
		{Headline: "Draft: local elections preview", Tags: []string{"politics"}, Status: types.StatusDraft},
		{Headline: "Vaccine rollout update", Tags: []string{"health"}, Status: types.StatusUnderReview},
	} {
		a := a
		a.ID = uuid.NewString()
		a.JournalistID = alice.ID
		a.CreatedAt = now - int64(i)*1000
		a.UpdatedAt = a.CreatedAt
		s.articles[a.ID] = &a
	}
}

func (s *Store) addUser(u types.UserProfile) *types.UserProfile {
	u.ID = uuid.NewString()
	s.users[u.PhoneNumber] = &u
	return &u
}

// IssueOTP records an OTP for phone and returns it
func (s *Store) IssueOTP(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[phone] = s.otp
	return s.otp
}

func (s *Store) consumeOTPLocked(phone, otp string) error {
	want, ok := s.pending[phone]
	if !ok {
		return errNoOTP
	}
	if otp != want {
		return errBadOTP
	}
	delete(s.pending, phone)
	return nil
}

// Register creates a journalist account after OTP verification
func (s *Store) Register(req types.RegisterRequest, otp string) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.PhoneNumber]; exists {
		return nil, errUserExists
	}
	if err := s.consumeOTPLocked(req.PhoneNumber, otp); err != nil {
		return nil, err
	}
	u := s.addUser(types.UserProfile{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Roles:       []types.Role{types.RoleJournalist},
	})
	return u, nil
}

// Login verifies the OTP and returns the profile and a fresh token
func (s *Store) Login(phone, otp string) (*types.UserProfile, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[phone]
	if !ok {
		return nil, "", errUnknownUser
	}
	if err := s.consumeOTPLocked(phone, otp); err != nil {
		return nil, "", err
	}
	token := uuid.NewString()
	s.tokens[token] = phone
	copied := *u
	return &copied, token, nil
}

// UserForToken resolves a bearer token
func (s *Store) UserForToken(token string) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	phone, ok := s.tokens[token]
	if !ok {
		return nil, errUnauthorized
	}
	u := *s.users[phone]
	return &u, nil
}

func (s *Store) usernameLocked(id string) string {
	for _, u := range s.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}

// List filters and sorts articles, then pages them
func (s *Store) List(q types.ArticleQuery) types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Article, 0)
	for _, a := range s.articles {
		if q.ID != "" && a.ID != q.ID {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.Published != nil && a.Published != *q.Published {
			continue
		}
		if q.JournalistID != "" && a.JournalistID != q.JournalistID && s.usernameLocked(a.JournalistID) != q.JournalistID {
			continue
		}
		if q.Tags != "" && !hasTag(a.Tags, q.Tags) {
			continue
		}
		out = append(out, *a)
	}

	sortArticles(out, q.SortBy, q.SortOrder)

	page := types.Page{TotalElements: int64(len(out)), Content: out}
	if q.PageSize > 0 {
		number := 0
		if q.PageNumber != nil {
			number = *q.PageNumber
		}
		start := min(number*q.PageSize, len(out))
		end := min(start+q.PageSize, len(out))
		page.Content = out[start:end]
		page.Number = number
		page.Size = q.PageSize
		page.TotalPages = (len(out) + q.PageSize - 1) / q.PageSize
	}
	return page
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func sortArticles(list []types.Article, by string, order types.SortOrder) {
	key := func(a types.Article) int64 {
		switch by {
		case "publishDate":
			return a.PublishDate
		case "createdAt":
			return a.CreatedAt
		default:
			return a.UpdatedAt
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if order == types.SortAsc {
			return key(list[i]) < key(list[j])
		}
		return key(list[i]) > key(list[j])
	})
}

// Create stores a new draft
func (s *Store) Create(in types.ArticleInput, author *types.UserProfile) types.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UnixMilli()
	a := types.Article{
		ID:           uuid.NewString(),
		Headline:     in.Headline,
		Summary:      in.Summary,
		Content:      in.Content,
		Tags:         in.Tags,
		Sources:      in.Sources,
		Status:       types.StatusDraft,
		JournalistID: in.JournalistID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a.JournalistID == "" {
		a.JournalistID = author.ID
	}
	s.articles[a.ID] = &a
	return a
}

// Update applies a partial update
func (s *Store) Update(id string, p types.ArticlePatch) (types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return types.Article{}, errNotFound
	}
	if p.Headline != nil {
		a.Headline = *p.Headline
	}
	if p.Summary != nil {
		a.Summary = *p.Summary
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.PublishDate != nil {
		a.PublishDate = *p.PublishDate
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, *p.Tags...)
	}
	if p.Sources != nil {
		a.Sources = append([]string{}, *p.Sources...)
	}
	a.UpdatedAt = s.now().UnixMilli()
	return *a, nil
}

// AttachMedia appends media URLs to an article
func (s *Store) AttachMedia(id string, urls []string) (types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return types.Article{}, errNotFound
	}
	a.Media = append(a.Media, urls...)
	a.UpdatedAt = s.now().UnixMilli()
	return *a, nil
}

// allowed lists the review transitions the backend accepts
var allowed = map[types.ArticleStatus][]types.ArticleStatus{
	types.StatusDraft:       {types.StatusUnderReview},
	types.StatusUnderReview: {types.StatusPublished, types.StatusDraft},
	types.StatusPublished:   {types.StatusDraft},
}

// Transition moves an article to status "to" and records the remark
func (s *Store) Transition(id string, to types.ArticleStatus, remark string, by *types.UserProfile) (types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return types.Article{}, errNotFound
	}

	permitted := false
	for _, next := range allowed[a.Status] {
		if next == to {
			permitted = true
		}
	}
	if !permitted {
		return types.Article{}, errTransition
	}
	if a.Status == types.StatusUnderReview && !by.HasRole(types.RoleReviewer) && !by.HasRole(types.RoleAdmin) {
		return types.Article{}, errForbidden
	}

	now := s.now().UnixMilli()
	a.Remarks = append(a.Remarks, types.Remark{From: a.Status, To: to, Remark: remark, UserID: by.ID, Timestamp: now})
	a.Status = to
	a.Published = to == types.StatusPublished
	if a.Published && a.PublishDate == 0 {
		a.PublishDate = now
	}
	a.UpdatedAt = now
	return *a, nil
}
