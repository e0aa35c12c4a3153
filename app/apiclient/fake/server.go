// Package fake serves a small in-process copy of the mock REST API for tests.
package fake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"

	"zettaboard/app/models"

	"github.com/gorilla/mux"
)

// API is a configurable upstream. Zero values serve the default fixtures.
type API struct {
	Posts    []models.Post
	Users    []models.User
	Comments []models.Comment

	// OmitTotal drops x-total-count from paginated responses.
	OmitTotal bool
	// TotalOverride, when non-empty, is sent verbatim as x-total-count.
	TotalOverride string

	mutex    sync.Mutex
	failures map[string]int
	hits     map[string]*atomic.Int64
	gate     chan struct{}
}

func New() *API {
	return &API{
		Posts:    Posts(30),
		Users:    Users(),
		Comments: Comments(30, 8),
		failures: make(map[string]int),
		hits:     make(map[string]*atomic.Int64),
	}
}

// Start serves the API until the test ends.
func (a *API) Start(t interface{ Cleanup(func()) }) *httptest.Server {
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// Fail answers route (a mux path template such as "/posts/{id}") with status.
// A zero status clears the failure.
func (a *API) Fail(route string, status int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if status == 0 {
		delete(a.failures, route)
		return
	}
	a.failures[route] = status
}

// Hold blocks every request until Release is called.
func (a *API) Hold() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.gate = make(chan struct{})
}

func (a *API) Release() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.gate != nil {
		close(a.gate)
		a.gate = nil
	}
}

// Hits reports how many requests reached route.
func (a *API) Hits(route string) int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if c, ok := a.hits[route]; ok {
		return int(c.Load())
	}
	return 0
}

func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/posts", a.wrap("/posts", a.listPosts)).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", a.wrap("/posts/{id}", a.getPost)).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}/comments", a.wrap("/posts/{id}/comments", a.listComments)).Methods(http.MethodGet)
	r.HandleFunc("/users", a.wrap("/users", a.listUsers)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", a.wrap("/users/{id}", a.getUser)).Methods(http.MethodGet)
	return r
}

func (a *API) wrap(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mutex.Lock()
		c, ok := a.hits[route]
		if !ok {
			c = &atomic.Int64{}
			a.hits[route] = c
		}
		status := a.failures[route]
		gate := a.gate
		a.mutex.Unlock()

		c.Add(1)
		if gate != nil {
			<-gate
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next(w, r)
	}
}

func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, a, a.Posts)
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, a, a.Users)
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for _, p := range a.Posts {
		if p.ID == id {
			writeJSON(w, p)
			return
		}
	}
	writeNotFound(w)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for _, u := range a.Users {
		if u.ID == id {
			writeJSON(w, u)
			return
		}
	}
	writeNotFound(w)
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	out := []models.Comment{}
	for _, c := range a.Comments {
		if c.PostID == id {
			out = append(out, c)
		}
	}
	writeJSON(w, out)
}

// writePage mimics json-server: without _page the whole collection is sent.
func writePage[T any](w http.ResponseWriter, r *http.Request, a *API, all []T) {
	q := r.URL.Query()
	if q.Get("_page") == "" {
		writeJSON(w, all)
		return
	}
	page, _ := strconv.Atoi(q.Get("_page"))
	limit, _ := strconv.Atoi(q.Get("_limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	switch {
	case a.TotalOverride != "":
		w.Header().Set("X-Total-Count", a.TotalOverride)
	case !a.OmitTotal:
		w.Header().Set("X-Total-Count", strconv.Itoa(len(all)))
	}
	writeJSON(w, all[start:end])
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(v)
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "{}")
}
