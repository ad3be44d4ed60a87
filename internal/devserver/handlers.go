package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, errUnknownUser):
		return http.StatusNotFound
	case errors.Is(err, errUnauthorized), errors.Is(err, errBadOTP), errors.Is(err, errNoOTP):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, errUserExists), errors.Is(err, errTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) requestOTP(w http.ResponseWriter, r *http.Request) {
	phone := r.Header.Get("phone-no")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone-no header is required")
		return
	}
	otp := s.store.IssueOTP(phone)
	s.logger.Info("otp issued", "phone", phone, "otp", otp)
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid registration body")
		return
	}
	if req.PhoneNumber == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "phoneNumber and username are required")
		return
	}
	u, err := s.store.Register(req, r.Header.Get("otp"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("user registered", "username", u.Username)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	u, token, err := s.store.Login(r.Header.Get("mobile-no"), r.Header.Get("otp"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("token", token)
	w.Header().Set("Access-Control-Expose-Headers", "token")
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.List(q))
}

func parseQuery(v url.Values) (types.ArticleQuery, error) {
	q := types.ArticleQuery{
		ID:           v.Get("id"),
		JournalistID: v.Get("journalistId"),
		Tags:         v.Get("tags"),
		SortBy:       v.Get("sortBy"),
		SortOrder:    types.SortOrder(strings.ToUpper(v.Get("sortOrder"))),
	}
	if s := v.Get("status"); s != "" {
		status, err := types.ParseArticleStatus(s)
		if err != nil {
			return q, err
		}
		q.Status = status
	}
	if s := v.Get("published"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, fmt.Errorf("invalid published value: %s", s)
		}
		q.Published = &b
	}
	if s := v.Get("pageNumber"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid pageNumber: %s", s)
		}
		q.PageNumber = &n
	}
	if s := v.Get("pageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid pageSize: %s", s)
		}
		q.PageSize = n
	}
	return q, nil
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var in types.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid article body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a := s.store.Create(in, userFrom(r))
	s.logger.Info("article created", "article_id", a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	var p types.ArticlePatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch body")
		return
	}
	if p.IsEmpty() {
		writeError(w, http.StatusBadRequest, "patch changes nothing")
		return
	}
	a, err := s.store.Update(mux.Vars(r)["id"], p)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) uploadMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if t := r.URL.Query().Get("type"); t != types.MediaTypeMedia {
		writeError(w, http.StatusBadRequest, "unsupported media type: "+t)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		urls = append(urls, fmt.Sprintf("%s/media/%s/%s", s.publicURL(r), id, url.PathEscape(fh.Filename)))
	}
	a, err := s.store.AttachMedia(id, urls)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) unpublish(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Transition(mux.Vars(r)["id"], types.StatusDraft, r.URL.Query().Get("remark"), userFrom(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) review(w http.ResponseWriter, r *http.Request) {
	to, err := types.ParseArticleStatus(r.URL.Query().Get("toStatus"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.store.Transition(mux.Vars(r)["id"], to, r.URL.Query().Get("remark"), userFrom(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("article reviewed", "article_id", a.ID, "to_status", to.String())
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) publicURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
