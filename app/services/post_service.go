package services

import (
	"context"
	"errors"
	"net/http"

	"zettaboard/app/apiclient"
	"zettaboard/app/fetch"
	"zettaboard/app/listing"
	"zettaboard/app/models"
	"zettaboard/app/paging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	commentPreview = 6

	PostsErrorMessage    = "Failed to load content."
	CommentsErrorMessage = "Failed to load comments."
	fallbackErrorMessage = "Failed to load"
)

// PostList is one render of the posts list: the pages loaded so far,
// filtered and sorted by the toolbar query.
type PostList struct {
	Query    listing.PostQuery    `json:"-"`
	Posts    []models.Post        `json:"posts"`
	Loaded   int                  `json:"loaded"`
	Page     int                  `json:"page"`
	HasMore  bool                 `json:"hasMore"`
	Users    map[int]*models.User `json:"-"`
	Authors  int                  `json:"authors"`
	Err      string               `json:"error,omitempty"`
	UsersErr string               `json:"usersError,omitempty"`
}

// Failed reports whether either the posts or the users failed to load.
func (l *PostList) Failed() bool {
	return l.Err != "" || l.UsersErr != ""
}

// ErrDetail is the message shown after the banner text.
func (l *PostList) ErrDetail() string {
	if l.UsersErr != "" {
		return l.UsersErr
	}
	return l.Err
}

func (l *PostList) Author(p models.Post) *models.User {
	return l.Users[p.UserID]
}

func (l *PostList) AuthorName(p models.Post) string {
	return l.Author(p).DisplayName()
}

func (l *PostList) AuthorInitial(p models.Post) string {
	return l.Author(p).Initial()
}

// Status is the quick-stats label for the paging state.
func (l *PostList) Status() string {
	return pagingStatus(l.HasMore)
}

// PostDetail is the post page: the post, its author (loaded once the post
// is known) and a preview of its comments.
type PostDetail struct {
	Post         *models.Post     `json:"post,omitempty"`
	Author       *models.User     `json:"author,omitempty"`
	Comments     []models.Comment `json:"comments"`
	CommentTotal int              `json:"commentTotal"`
	Err          string           `json:"error,omitempty"`
	CommentsErr  string           `json:"commentsError,omitempty"`
	NotFound     bool             `json:"-"`
}

type PostService struct {
	api      *apiclient.Client
	pageSize int
	totals   paging.Totals
	log      *zap.Logger
}

func NewPostService(api *apiclient.Client, pageSize int, totals paging.Totals, log *zap.Logger) *PostService {
	return &PostService{api: api, pageSize: pageSize, totals: totals, log: log}
}

func (s *PostService) fetchPage(ctx context.Context, page, size int) (paging.Page[models.Post], error) {
	posts, meta, err := s.api.PostsPage(ctx, page, size)
	if err != nil {
		return paging.Page[models.Post]{}, err
	}
	return paging.Page[models.Post]{Items: posts, Total: meta.TotalCount, HasTotal: meta.HasTotal}, nil
}

// List loads pages 1..q.Pages (stopping early when the collection is
// exhausted or a page fails) alongside the users used for author names.
func (s *PostService) List(ctx context.Context, q listing.PostQuery) *PostList {
	loader := paging.New(s.fetchPage, s.pageSize, s.totals)
	out := &PostList{Query: q}

	var users []models.User
	var g errgroup.Group
	g.Go(func() error {
		var err error
		users, err = s.api.Users(ctx)
		if err != nil {
			s.log.Warn("Failed to load users for posts", zap.Error(err))
			out.UsersErr = err.Error()
		}
		return nil
	})
	g.Go(func() error {
		replay(ctx, loader, q.Pages)
		return nil
	})
	g.Wait()

	if err := loader.Err(); err != nil {
		s.log.Warn("Failed to load posts page", zap.Int("page", loader.Page()+1), zap.Error(err))
		out.Err = err.Error()
	}

	items := loader.Items()
	out.Users = models.UsersByID(users)
	out.Authors = len(users)
	out.Posts = listing.SortPosts(listing.FilterPosts(items, q.Q), q.Sort, out.Users)
	out.Loaded = len(items)
	out.Page = loader.Page()
	out.HasMore = loader.HasMore()
	return out
}

// Detail loads one post page.
func (s *PostService) Detail(ctx context.Context, id int) *PostDetail {
	post := fetch.New(ctx, apiclient.Fetcher[*models.Post](s.api))
	user := fetch.New(ctx, apiclient.Fetcher[*models.User](s.api))
	comments := fetch.New(ctx, apiclient.Fetcher[[]models.Comment](s.api))
	defer post.Close()
	defer user.Close()
	defer comments.Close()

	post.Load(s.api.PostURL(id))
	comments.Load(s.api.CommentsURL(id))

	out := &PostDetail{}
	ps, err := post.Wait(ctx)
	if err != nil {
		out.Err = errMessage(err)
		return out
	}
	if ps.HasData && ps.Data != nil {
		user.Load(s.api.UserURL(ps.Data.UserID))
	}
	us, err := user.Wait(ctx)
	if err != nil {
		out.Err = errMessage(err)
		return out
	}
	cs, err := comments.Wait(ctx)
	if err != nil {
		cs.Err = err
	}

	out.Post = ps.Data
	out.Author = us.Data
	switch {
	case ps.Err != nil:
		out.Err = errMessage(ps.Err)
		out.NotFound = isStatus(ps.Err, http.StatusNotFound)
	case us.Err != nil:
		out.Err = errMessage(us.Err)
	}
	if ps.Err == nil && ps.Data != nil && ps.Data.ID == 0 {
		// the mock API answers unknown ids with {}
		out.Post = nil
		out.NotFound = true
	}
	if cs.Err != nil {
		s.log.Warn("Failed to load comments", zap.Int("post", id), zap.Error(cs.Err))
		out.CommentsErr = CommentsErrorMessage
	} else {
		out.CommentTotal = len(cs.Data)
		out.Comments = cs.Data[:min(commentPreview, len(cs.Data))]
	}
	return out
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	return s.api.Post(ctx, id)
}

// Comments returns every comment of a post.
func (s *PostService) Comments(ctx context.Context, id int) ([]models.Comment, error) {
	return s.api.Comments(ctx, id)
}

// replay loads the first page, then keeps loading until pages are loaded,
// the collection runs out or a page fails.
func replay[T paging.Keyed](ctx context.Context, l *paging.Loader[T], pages int) {
	if err := l.LoadPage(ctx, 1); err != nil {
		return
	}
	for l.Page() < pages && l.HasMore() {
		if err := l.LoadMore(ctx); err != nil {
			return
		}
	}
}

func errMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorMessage
}

func isStatus(err error, status int) bool {
	var httpErr *apiclient.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}
